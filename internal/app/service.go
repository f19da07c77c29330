// Package service wires the recommendation engine behind the operations the
// HTTP API and the scheduler need. Every operation runs as a job on one
// worker, so generation, grading and parameter changes never interleave.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	eventqueue "github.com/okian/vstrike/internal/adapters/mq/queue"
	workerpool "github.com/okian/vstrike/internal/adapters/mq/worker"
	"github.com/okian/vstrike/internal/adapters/repository"
	"github.com/okian/vstrike/internal/domain/feed"
	"github.com/okian/vstrike/internal/domain/feedback"
	"github.com/okian/vstrike/internal/domain/grading"
	"github.com/okian/vstrike/internal/domain/model"
	"github.com/okian/vstrike/internal/domain/rules"
	"github.com/okian/vstrike/pkg/logger"
	"github.com/okian/vstrike/pkg/metrics"
	"github.com/shopspring/decimal"
)

const (
	defaultQueueSize  = 64
	defaultGenerateAt = "09:00"
	defaultGradeAt    = "08:00"
	defaultTick       = time.Minute
	defaultBankroll   = "20.00"
	summaryDays       = 7
)

// OddsFeed supplies odds and final scores per sport.
type OddsFeed interface {
	FetchOdds(ctx context.Context, sport string) []model.Event
	FetchScores(ctx context.Context, sport string) []model.ScoreEvent
}

// InjuryFeed supplies the current injury book.
type InjuryFeed interface {
	FetchStatuses(ctx context.Context) (rules.Injuries, error)
}

// Stats is a snapshot of the service for monitoring.
type Stats struct {
	Started    bool     `json:"started"`
	Date       string   `json:"date"`
	Generated  bool     `json:"generated"`
	Facts      int      `json:"facts"`
	Parleys    int      `json:"parleys"`
	Pending    int      `json:"pending"`
	Wins       int      `json:"wins"`
	Losses     int      `json:"losses"`
	QueueDepth int      `json:"queue_depth"`
	Sports     []string `json:"sports"`
}

// Service implements the API dependencies of the engine.
type Service struct {
	mu sync.RWMutex

	repo     *repository.Repository
	odds     OddsFeed
	injuries InjuryFeed
	builder  *feed.Builder
	feedOpts []feed.Option
	bankroll decimal.Decimal

	queue  *eventqueue.InMemoryQueue
	worker *workerpool.InMemoryWorker
	cancel context.CancelFunc

	sports     []model.Sport
	loc        *time.Location
	now        func() time.Time
	queueSize  int
	generateAt string
	gradeAt    string
	tick       time.Duration

	started bool
	logger  logger.Logger
}

// New constructs a Service. Without WithRepository it keeps state in memory.
func New(opts ...Option) *Service {
	s := &Service{
		loc:        time.Local,
		now:        time.Now,
		queueSize:  defaultQueueSize,
		generateAt: defaultGenerateAt,
		gradeAt:    defaultGradeAt,
		tick:       defaultTick,
		bankroll:   decimal.RequireFromString(defaultBankroll),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.repo == nil {
		s.repo = repository.New(repository.NewMemoryStore())
	}
	if s.odds == nil {
		s.odds = noFeed{}
	}
	return s
}

// Start initializes the job worker and the feed builder.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	opts := append([]feed.Option{
		feed.WithSports(s.sports...),
		feed.WithLocation(s.loc),
		feed.WithLogger(s.logger.Named("feed")),
		feed.WithBankroll(s.bankroll),
	}, s.feedOpts...)
	s.builder = feed.NewBuilder(s.odds, s.repo, opts...)

	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.worker = workerpool.NewInMemoryWorker(s.queue, workerpool.WithName("engine"))
	wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.worker.Run(wctx)

	s.started = true
	s.logger.Info(ctx, "engine service started",
		logger.Int("sports", len(s.sports)),
		logger.Int("queueSize", s.queueSize),
		logger.String("timezone", s.loc.String()),
	)
	return nil
}

// Stop gracefully shuts down the worker and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.worker.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker shutdown", logger.Error(err))
	}
	s.cancel()
	_ = s.queue.Close()
	if err := s.repo.Store().Close(); err != nil {
		s.logger.Warn(ctx, "close store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "engine service stopped")
}

// submit runs fn on the engine worker and returns its typed result.
func submit[T any](ctx context.Context, s *Service, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	s.mu.RLock()
	w, started := s.worker, s.started
	s.mu.RUnlock()
	if !started {
		return zero, ErrNotStarted
	}
	v, err := w.Submit(ctx, name, func(context.Context) (any, error) { return fn(ctx) })
	if err != nil {
		return zero, err
	}
	out, _ := v.(T)
	return out, nil
}

// Today returns today's set, generating it on the first call of the day.
func (s *Service) Today(ctx context.Context) (*feed.Outcome, error) {
	return submit(ctx, s, "generate", func(ctx context.Context) (*feed.Outcome, error) {
		start := time.Now()
		if r, ok := s.odds.(interface{ ResetExhausted() }); ok {
			r.ResetExhausted()
		}
		out, err := s.builder.Build(ctx, s.now())
		if err != nil {
			metrics.RecordGeneration("error")
			return nil, err
		}
		if out.Reused {
			metrics.RecordGeneration("reused")
			return out, nil
		}
		metrics.RecordGeneration(string(out.State))
		metrics.RecordGenerationDuration(time.Since(start).Seconds())
		metrics.RecordFactsGenerated(len(out.Set.Facts))
		for _, f := range out.Set.Facts {
			metrics.RecordConfidence(f.Confidence)
		}
		for _, p := range out.Set.Parleys {
			metrics.RecordParley(string(p.Subtype))
		}
		return out, nil
	})
}

// DailySet returns the persisted set of date.
func (s *Service) DailySet(ctx context.Context, date string) (*model.DailySet, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}
	return submit(ctx, s, "load", func(ctx context.Context) (*model.DailySet, error) {
		return s.load(ctx, date)
	})
}

// GradeYesterday settles yesterday's set from the score feed. A processed
// marker makes it run at most once per day; it is only set when at least one
// final score was found.
func (s *Service) GradeYesterday(ctx context.Context) (grading.Report, error) {
	return submit(ctx, s, "grade", func(ctx context.Context) (grading.Report, error) {
		date := s.today().AddDate(0, 0, -1).Format(model.DayLayout)
		done, err := s.repo.ScoresProcessed(ctx, date)
		if err != nil {
			return grading.Report{}, err
		}
		if done {
			return grading.Report{Date: date}, nil
		}
		set, ok, err := s.repo.LoadSet(ctx, date)
		if err != nil {
			return grading.Report{}, err
		}
		if !ok || set.Empty() {
			return grading.Report{Date: date}, nil
		}

		var finals []model.FinalScore
		for _, sp := range s.sports {
			finals = append(finals, grading.Scores(s.odds.FetchScores(ctx, sp.Key))...)
		}
		if len(finals) == 0 {
			s.logger.Warn(ctx, "no final scores yet", logger.String("date", date))
			return grading.Report{Date: date}, nil
		}
		rep, err := s.grade(ctx, set, finals)
		if err != nil {
			return rep, err
		}
		if err := s.repo.MarkScoresProcessed(ctx, date, s.now()); err != nil {
			return rep, err
		}
		return rep, nil
	})
}

// GradeDay settles the set of date against the given final scores.
func (s *Service) GradeDay(ctx context.Context, date string, scores []model.FinalScore) (grading.Report, error) {
	if err := validDate(date); err != nil {
		return grading.Report{}, err
	}
	return submit(ctx, s, "grade", func(ctx context.Context) (grading.Report, error) {
		set, err := s.load(ctx, date)
		if err != nil {
			return grading.Report{}, err
		}
		return s.grade(ctx, set, scores)
	})
}

func (s *Service) grade(ctx context.Context, set *model.DailySet, scores []model.FinalScore) (grading.Report, error) {
	rep := grading.Grade(set, scores)
	metrics.RecordGradingRun()
	for i := 0; i < rep.Wins; i++ {
		metrics.RecordGraded(string(model.ResultWin))
	}
	for i := 0; i < rep.Losses; i++ {
		metrics.RecordGraded(string(model.ResultLoss))
	}
	if rep.Unmatched > 0 {
		s.logger.Warn(ctx, "facts without a final score",
			logger.String("date", set.Date), logger.Int("unmatched", rep.Unmatched))
	}
	if !rep.Changed() {
		return rep, nil
	}
	if err := s.repo.SaveSet(ctx, set); err != nil {
		return rep, fmt.Errorf("save graded set %s: %w", set.Date, err)
	}
	s.logger.Info(ctx, "graded set",
		logger.String("date", set.Date),
		logger.Int("graded", rep.Graded),
		logger.Int("wins", rep.Wins),
		logger.Int("losses", rep.Losses),
		logger.Int("parleys", rep.Parleys))
	return rep, nil
}

// SetResult records a manual result for one fact or parley card.
func (s *Service) SetResult(ctx context.Context, date, id string, r model.Result) (*model.DailySet, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}
	return submit(ctx, s, "set_result", func(ctx context.Context) (*model.DailySet, error) {
		set, err := s.load(ctx, date)
		if err != nil {
			return nil, err
		}
		if err := grading.SetResult(set, id, r); err != nil {
			return nil, err
		}
		if err := s.repo.SaveSet(ctx, set); err != nil {
			return nil, err
		}
		metrics.RecordGraded(string(r))
		return set, nil
	})
}

// Analyze mines the graded set of date. It returns nil when nothing on that
// day is resolved yet.
func (s *Service) Analyze(ctx context.Context, date string) (*feedback.Analysis, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}
	return submit(ctx, s, "analyze", func(ctx context.Context) (*feedback.Analysis, error) {
		set, err := s.load(ctx, date)
		if err != nil {
			return nil, err
		}
		params, err := s.repo.Params(ctx)
		if err != nil {
			return nil, err
		}
		a := feedback.Analyze(set, params)
		if a != nil {
			for _, in := range a.Insights {
				metrics.RecordInsight(in.Type)
			}
		}
		return a, nil
	})
}

// ApplyAdjustment persists a parameter change. It is refused unless
// confirmed. Facts already generated keep the confidence they were given.
func (s *Service) ApplyAdjustment(ctx context.Context, a feedback.Action, confirmed bool) (feedback.Change, error) {
	return submit(ctx, s, "adjust", func(ctx context.Context) (feedback.Change, error) {
		o, err := s.repo.Overrides(ctx)
		if err != nil {
			return feedback.Change{}, err
		}
		c, err := o.Apply(model.DefaultParams(), a, confirmed, s.now())
		if err != nil {
			return feedback.Change{}, err
		}
		if err := s.repo.SaveOverrides(ctx, o); err != nil {
			return feedback.Change{}, err
		}
		metrics.RecordAdjustment(a.Param)
		s.logger.Info(ctx, "strategy parameter changed",
			logger.String("param", c.Param),
			logger.Int("old", c.OldValue),
			logger.Int("new", c.NewValue))
		return c, nil
	})
}

// Params returns the effective scoring parameters.
func (s *Service) Params(ctx context.Context) (model.Params, error) {
	return submit(ctx, s, "params", s.repo.Params)
}

// Overrides returns the parameter override record with its history.
func (s *Service) Overrides(ctx context.Context) (*feedback.Overrides, error) {
	return submit(ctx, s, "overrides", s.repo.Overrides)
}

// WeeklySummary tallies the last seven days ending today.
func (s *Service) WeeklySummary(ctx context.Context) (feedback.Summary, error) {
	return submit(ctx, s, "summary", func(ctx context.Context) (feedback.Summary, error) {
		today := s.today()
		sets := make([]*model.DailySet, 0, summaryDays)
		for i := summaryDays - 1; i >= 0; i-- {
			date := today.AddDate(0, 0, -i).Format(model.DayLayout)
			set, ok, err := s.repo.LoadSet(ctx, date)
			if err != nil {
				return feedback.Summary{}, err
			}
			if ok {
				sets = append(sets, set)
			}
		}
		return feedback.Summarize(sets), nil
	})
}

// Bankroll returns the bankroll stakes are sized on.
func (s *Service) Bankroll(ctx context.Context) (decimal.Decimal, error) {
	return submit(ctx, s, "bankroll", func(ctx context.Context) (decimal.Decimal, error) {
		return s.repo.Bankroll(ctx, s.bankroll)
	})
}

// SetBankroll stores a new bankroll rounded to cents. Sets already generated
// keep their stakes.
func (s *Service) SetBankroll(ctx context.Context, v decimal.Decimal) (decimal.Decimal, error) {
	if !v.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrInvalidBankroll, v)
	}
	v = v.Round(2)
	return submit(ctx, s, "set_bankroll", func(ctx context.Context) (decimal.Decimal, error) {
		if err := s.repo.SaveBankroll(ctx, v); err != nil {
			return decimal.Decimal{}, err
		}
		s.logger.Info(ctx, "bankroll updated", logger.String("bankroll", v.StringFixed(2)))
		return v, nil
	})
}

// ExportHistory dumps every stored day.
func (s *Service) ExportHistory(ctx context.Context) (*repository.History, error) {
	return submit(ctx, s, "export", func(ctx context.Context) (*repository.History, error) {
		return s.repo.Export(ctx, s.now())
	})
}

// ImportHistory loads an exported history. Existing days are kept unless
// overwrite is set.
func (s *Service) ImportHistory(ctx context.Context, h *repository.History, overwrite bool) (int, error) {
	return submit(ctx, s, "import", func(ctx context.Context) (int, error) {
		return s.repo.Import(ctx, h, overwrite)
	})
}

// RefreshInjuries replaces the injury book from the feed. On failure the
// current book is kept.
func (s *Service) RefreshInjuries(ctx context.Context) (int, error) {
	if s.injuries == nil {
		return 0, nil
	}
	return submit(ctx, s, "injuries", func(ctx context.Context) (int, error) {
		book, err := s.injuries.FetchStatuses(ctx)
		if err != nil {
			s.logger.Warn(ctx, "injury refresh failed, keeping current book", logger.Error(err))
			return 0, err
		}
		if err := s.repo.SaveInjuries(ctx, book); err != nil {
			return 0, err
		}
		return len(book), nil
	})
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	st := Stats{Started: started, Date: s.today().Format(model.DayLayout)}
	for _, sp := range s.sports {
		st.Sports = append(st.Sports, sp.Key)
	}
	if !started {
		return st, nil
	}
	st.QueueDepth = s.queue.Len(ctx)
	set, err := submit(ctx, s, "stats", func(ctx context.Context) (*model.DailySet, error) {
		set, _, err := s.repo.LoadSet(ctx, st.Date)
		return set, err
	})
	if err != nil {
		return st, err
	}
	if set == nil {
		return st, nil
	}
	st.Generated = !set.Empty()
	st.Facts = len(set.Facts)
	st.Parleys = len(set.Parleys)
	for _, f := range set.Facts {
		switch f.Result {
		case model.ResultWin:
			st.Wins++
		case model.ResultLoss:
			st.Losses++
		default:
			st.Pending++
		}
	}
	return st, nil
}

func (s *Service) load(ctx context.Context, date string) (*model.DailySet, error) {
	set, ok, err := s.repo.LoadSet(ctx, date)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", date, ErrNoSet)
	}
	return set, nil
}

// today returns midnight of the current local day.
func (s *Service) today() time.Time {
	n := s.now().In(s.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.loc)
}

func validDate(date string) error {
	if _, err := time.Parse(model.DayLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// IsNotFound reports whether err means the requested day has no set.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoSet)
}

type noFeed struct{}

func (noFeed) FetchOdds(context.Context, string) []model.Event        { return nil }
func (noFeed) FetchScores(context.Context, string) []model.ScoreEvent { return nil }
