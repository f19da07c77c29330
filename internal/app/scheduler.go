package service

import (
	"context"
	"time"

	"github.com/okian/vstrike/internal/domain/feed"
	"github.com/okian/vstrike/internal/domain/model"
	"github.com/okian/vstrike/pkg/logger"
)

// retryAfter spaces repeated attempts of a daily task that did not finish.
const retryAfter = time.Hour

// daily tracks one task that should succeed once per local day after a
// given time of day.
type daily struct {
	at      string
	doneFor string
	lastTry time.Time
}

// due reports whether the task should run at now.
func (d *daily) due(now time.Time) bool {
	day := now.Format(model.DayLayout)
	if d.doneFor == day {
		return false
	}
	if now.Format("15:04") < d.at {
		return false
	}
	return d.lastTry.IsZero() || now.Sub(d.lastTry) >= retryAfter
}

// RunScheduler generates today's set and grades yesterday's on the
// configured times until ctx is canceled. Both runs are idempotent, so a
// restart may safely repeat them.
func (s *Service) RunScheduler(ctx context.Context) {
	generate := &daily{at: s.generateAt}
	grade := &daily{at: s.gradeAt}

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.runDue(ctx, generate, grade)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runDue(ctx, generate, grade)
		}
	}
}

func (s *Service) runDue(ctx context.Context, generate, grade *daily) {
	now := s.now().In(s.loc)
	day := now.Format(model.DayLayout)

	if grade.due(now) {
		grade.lastTry = now
		rep, err := s.GradeYesterday(ctx)
		switch {
		case err != nil:
			s.logger.Error(ctx, "scheduled grading failed", logger.Error(err))
		default:
			done, perr := s.repo.ScoresProcessed(ctx, rep.Date)
			if perr == nil && done {
				grade.doneFor = day
			}
		}
	}

	if generate.due(now) {
		generate.lastTry = now
		if _, err := s.RefreshInjuries(ctx); err != nil {
			s.logger.Warn(ctx, "scheduled injury refresh failed", logger.Error(err))
		}
		out, err := s.Today(ctx)
		switch {
		case err != nil:
			s.logger.Error(ctx, "scheduled generation failed", logger.Error(err))
		case out.State == feed.StatePersisted:
			generate.doneFor = day
			s.logger.Info(ctx, "daily set ready",
				logger.String("date", out.Set.Date),
				logger.Bool("reused", out.Reused))
		default:
			s.logger.Warn(ctx, "no recommendations yet, will retry", logger.String("date", day))
		}
	}
}
