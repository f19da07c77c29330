package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/vstrike/internal/adapters/repository"
	"github.com/okian/vstrike/internal/config"
	"github.com/okian/vstrike/internal/domain/feed"
	"github.com/okian/vstrike/internal/domain/feedback"
	"github.com/okian/vstrike/internal/domain/grading"
	"github.com/okian/vstrike/internal/domain/model"
	"github.com/okian/vstrike/internal/domain/normalizer"
	"github.com/okian/vstrike/internal/domain/rules"
	"github.com/okian/vstrike/pkg/logger"
)

// File permission constants.
const (
	reportFilePermission = 0600
)

// Hour of the day a replay pretends to run at.
const replayHour = 12

// Report is what a replay prints.
type Report struct {
	Date       string             `json:"date"`
	State      feed.State         `json:"state"`
	Candidates int                `json:"candidates"`
	Set        *model.DailySet    `json:"set,omitempty"`
	Grading    *grading.Report    `json:"grading,omitempty"`
	Analysis   *feedback.Analysis `json:"analysis,omitempty"`
	Duration   string             `json:"duration"`
}

// Run builds the day's set from a snapshot against an in-memory store,
// then grades and analyzes it when the snapshot carries scores.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	if cfg.Input == "" {
		return nil, ErrNoInput
	}
	snap, err := LoadSnapshot(cfg.Input)
	if err != nil {
		return nil, err
	}
	return Replay(ctx, cfg, snap)
}

// Replay runs cfg against an already decoded snapshot.
func Replay(ctx context.Context, cfg *Config, snap *Snapshot) (*Report, error) {
	started := time.Now()
	log := logger.Get().Named("replay")

	loc, now, err := clock(cfg)
	if err != nil {
		return nil, err
	}
	kb := rules.DefaultKnowledgeBase()
	if cfg.RulesFile != "" {
		if kb, err = rules.LoadKnowledgeBase(cfg.RulesFile); err != nil {
			return nil, err
		}
	}

	sports := make([]model.Sport, 0, len(snap.Odds))
	for _, key := range snap.Sports() {
		sports = append(sports, model.Sport{Key: key, Title: config.SportTitle(key)})
	}

	repo := repository.New(repository.NewMemoryStore())
	defer func() {
		_ = repo.Store().Close()
	}()

	opts := []feed.Option{
		feed.WithSports(sports...),
		feed.WithLocation(loc),
		feed.WithNormalizer(normalizer.New(normalizer.WithLocation(loc))),
		feed.WithRules(rules.New(kb)),
		feed.WithDynamicLegs(cfg.Dynamic),
		feed.WithLogger(log),
	}
	if !cfg.Bankroll.IsZero() {
		opts = append(opts, feed.WithBankroll(cfg.Bankroll))
	}
	if cfg.Legs > 0 {
		opts = append(opts, feed.WithParleyLegs(cfg.Legs))
	}

	log.Info(ctx, "starting replay",
		logger.String("input", cfg.Input),
		logger.Int("sports", len(sports)),
		logger.String("now", now.Format(time.RFC3339)))

	out, err := feed.NewBuilder(snap, repo, opts...).Build(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	rep := &Report{
		Date:       out.Set.Date,
		State:      out.State,
		Candidates: out.Candidates,
		Set:        out.Set,
	}
	if cfg.Verbose {
		for _, f := range out.Set.Facts {
			log.Info(ctx, "pick",
				logger.String("pick", f.PickLabel),
				logger.Int("confidence", f.Confidence),
				logger.String("stake", f.Stake.String()))
		}
	}

	if len(snap.Scores) > 0 && out.State != feed.StateEmpty {
		var events []model.ScoreEvent
		for _, sport := range snap.Sports() {
			events = append(events, snap.Scores[sport]...)
		}
		graded := grading.Grade(out.Set, grading.Scores(events))
		rep.Grading = &graded
		params, err := repo.Params(ctx)
		if err != nil {
			return nil, err
		}
		rep.Analysis = feedback.Analyze(out.Set, params)
	}

	rep.Duration = time.Since(started).String()
	log.Info(ctx, "replay complete",
		logger.String("date", rep.Date),
		logger.String("state", string(rep.State)),
		logger.Int("facts", len(out.Set.Facts)),
		logger.Int("parleys", len(out.Set.Parleys)))
	return rep, nil
}

func clock(cfg *Config) (*time.Location, time.Time, error) {
	loc := time.UTC
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}
	if cfg.Date == "" {
		now := time.Now
		if cfg.Now != nil {
			now = cfg.Now
		}
		return loc, now().In(loc), nil
	}
	day, err := time.ParseInLocation(model.DayLayout, cfg.Date, loc)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("date %q: %w", cfg.Date, err)
	}
	return loc, day.Add(replayHour * time.Hour), nil
}

// WriteReport encodes rep as indented JSON to path, or to w when path is empty.
func WriteReport(rep *Report, path string, w io.Writer) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, reportFilePermission); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
