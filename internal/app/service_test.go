package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/vstrike/internal/adapters/repository"
	service "github.com/okian/vstrike/internal/app"
	"github.com/okian/vstrike/internal/domain/feed"
	"github.com/okian/vstrike/internal/domain/feedback"
	"github.com/okian/vstrike/internal/domain/grading"
	"github.com/okian/vstrike/internal/domain/model"
	"github.com/okian/vstrike/internal/domain/normalizer"
	"github.com/okian/vstrike/internal/domain/rules"
	"github.com/okian/vstrike/pkg/logger"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var nba = model.Sport{Key: "basketball_nba", Title: "NBA"}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type fakeFeed struct {
	mu          sync.Mutex
	events      []model.Event
	scores      []model.ScoreEvent
	scoreCalls  int
	resetCalled int
}

func (f *fakeFeed) FetchOdds(context.Context, string) []model.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events
}

func (f *fakeFeed) FetchScores(context.Context, string) []model.ScoreEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scoreCalls++
	return f.scores
}

func (f *fakeFeed) ResetExhausted() {
	f.mu.Lock()
	f.resetCalled++
	f.mu.Unlock()
}

type fakeInjuries struct {
	book rules.Injuries
	err  error
}

func (f fakeInjuries) FetchStatuses(context.Context) (rules.Injuries, error) { return f.book, f.err }

func lakersGame(start time.Time) model.Event {
	return model.Event{
		ID: "g1", CommenceTime: start, HomeTeam: "Lakers", AwayTeam: "Kings",
		Bookmakers: []model.Bookmaker{{Key: "draftkings", Markets: []model.Market{{
			Key:      model.MarketH2H,
			Outcomes: []model.Outcome{{Name: "Lakers", Price: -150}, {Name: "Kings", Price: 120}},
		}}}},
	}
}

func newService(c *clock, f service.OddsFeed, opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithOddsFeed(f),
		service.WithSports(nba),
		service.WithLocation(time.UTC),
		service.WithClock(c.Now),
		service.WithBankroll(decimal.NewFromInt(20)),
		service.WithFeedOptions(
			feed.WithNormalizer(normalizer.New(normalizer.WithLocation(time.UTC))),
			feed.WithRules(rules.New(rules.KnowledgeBase{})),
		),
	}
	return service.New(append(base, opts...)...)
}

func TestService_NotStarted(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()

		Convey("Then engine operations are refused", func() {
			_, err := svc.Today(context.Background())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			st, err := svc.GetStats(context.Background())
			So(err, ShouldBeNil)
			So(st.Started, ShouldBeFalse)
		})

		Convey("Then Stop is a no-op", func() {
			svc.Stop()
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	Convey("Given a started service with one NBA game today", t, func() {
		c := &clock{t: day}
		f := &fakeFeed{events: []model.Event{lakersGame(day.Add(7 * time.Hour))}}
		repo := repository.New(repository.NewMemoryStore())
		svc := newService(c, f, service.WithRepository(repo))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		out, err := svc.Today(ctx)
		So(err, ShouldBeNil)

		Convey("Then the day is generated and persisted", func() {
			So(out.State, ShouldEqual, feed.StatePersisted)
			So(out.Reused, ShouldBeFalse)
			So(out.Set.Facts, ShouldHaveLength, 1)
			fact := out.Set.Facts[0]
			So(fact.Confidence, ShouldEqual, 80)
			So(fact.Stake.StringFixed(2), ShouldEqual, "1.64")
			So(f.resetCalled, ShouldEqual, 1)

			st, err := svc.GetStats(ctx)
			So(err, ShouldBeNil)
			So(st.Generated, ShouldBeTrue)
			So(st.Pending, ShouldEqual, 1)
		})

		Convey("Then a second call reuses the stored set", func() {
			again, err := svc.Today(ctx)
			So(err, ShouldBeNil)
			So(again.Reused, ShouldBeTrue)
			want, _ := json.Marshal(out.Set)
			got, _ := json.Marshal(again.Set)
			So(string(got), ShouldEqual, string(want))
		})

		Convey("When the next day grades yesterday", func() {
			f.scores = []model.ScoreEvent{{
				ID: "g1", Completed: true, HomeTeam: "Lakers", AwayTeam: "Kings",
				Scores: []model.TeamScore{{Name: "Lakers", Score: "110"}, {Name: "Kings", Score: "100"}},
			}}
			c.Set(day.AddDate(0, 0, 1))
			rep, err := svc.GradeYesterday(ctx)

			Convey("Then the fact wins and the day is marked processed", func() {
				So(err, ShouldBeNil)
				So(rep.Date, ShouldEqual, "2026-10-14")
				So(rep.Graded, ShouldEqual, 1)
				So(rep.Wins, ShouldEqual, 1)

				set, err := svc.DailySet(ctx, "2026-10-14")
				So(err, ShouldBeNil)
				So(set.Facts[0].Result, ShouldEqual, model.ResultWin)

				again, err := svc.GradeYesterday(ctx)
				So(err, ShouldBeNil)
				So(again.Graded, ShouldEqual, 0)
				So(f.scoreCalls, ShouldEqual, 1)
			})

			Convey("Then a manual change of the graded fact is refused", func() {
				_, err := svc.SetResult(ctx, "2026-10-14", "g1", model.ResultLoss)
				So(errors.Is(err, grading.ErrAlreadyResolved), ShouldBeTrue)
			})

			Convey("Then the day can be analyzed and summarized", func() {
				a, err := svc.Analyze(ctx, "2026-10-14")
				So(err, ShouldBeNil)
				So(a, ShouldNotBeNil)
				So(a.Total, ShouldEqual, 1)
				So(a.Wins, ShouldEqual, 1)

				sum, err := svc.WeeklySummary(ctx)
				So(err, ShouldBeNil)
				So(sum.TotalWins, ShouldEqual, 1)
				So(sum.Days, ShouldEqual, 1)
			})
		})

		Convey("When no scores are available yet", func() {
			c.Set(day.AddDate(0, 0, 1))
			rep, err := svc.GradeYesterday(ctx)

			Convey("Then nothing is graded and the day stays open", func() {
				So(err, ShouldBeNil)
				So(rep.Graded, ShouldEqual, 0)
				done, err := repo.ScoresProcessed(ctx, "2026-10-14")
				So(err, ShouldBeNil)
				So(done, ShouldBeFalse)
			})
		})

		Convey("When a fact is set manually", func() {
			set, err := svc.SetResult(ctx, "2026-10-14", "g1", model.ResultLoss)

			Convey("Then it is stored", func() {
				So(err, ShouldBeNil)
				So(set.Fact("g1").Result, ShouldEqual, model.ResultLoss)
				stored, err := svc.DailySet(ctx, "2026-10-14")
				So(err, ShouldBeNil)
				So(stored.Fact("g1").Result, ShouldEqual, model.ResultLoss)
			})
		})

		Convey("Then unknown and malformed days are reported", func() {
			_, err := svc.DailySet(ctx, "2026-01-01")
			So(service.IsNotFound(err), ShouldBeTrue)
			_, err = svc.DailySet(ctx, "yesterday")
			So(errors.Is(err, service.ErrInvalidDate), ShouldBeTrue)
		})

		Convey("Then history exports into a fresh service", func() {
			h, err := svc.ExportHistory(ctx)
			So(err, ShouldBeNil)
			So(h.Sets, ShouldHaveLength, 1)

			other := newService(c, &fakeFeed{})
			So(other.Start(ctx), ShouldBeNil)
			defer other.Stop()
			n, err := other.ImportHistory(ctx, h, false)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
			set, err := other.DailySet(ctx, "2026-10-14")
			So(err, ShouldBeNil)
			So(set.Facts, ShouldHaveLength, 1)
		})
	})
}

func TestService_Adjustments(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		c := &clock{t: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
		svc := newService(c, &fakeFeed{})
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		action := feedback.Action{Param: model.ParamHomeBonus, CurrentValue: 5, NewValue: 8}

		Convey("When an adjustment is not confirmed", func() {
			_, err := svc.ApplyAdjustment(ctx, action, false)

			Convey("Then it is refused and nothing changes", func() {
				So(errors.Is(err, feedback.ErrNotConfirmed), ShouldBeTrue)
				p, err := svc.Params(ctx)
				So(err, ShouldBeNil)
				So(p.HomeBonus, ShouldEqual, 5)
			})
		})

		Convey("When it is confirmed", func() {
			change, err := svc.ApplyAdjustment(ctx, action, true)

			Convey("Then the parameter and its history are stored", func() {
				So(err, ShouldBeNil)
				So(change.OldValue, ShouldEqual, 5)
				So(change.NewValue, ShouldEqual, 8)
				So(change.ID, ShouldNotBeBlank)

				p, err := svc.Params(ctx)
				So(err, ShouldBeNil)
				So(p.HomeBonus, ShouldEqual, 8)

				o, err := svc.Overrides(ctx)
				So(err, ShouldBeNil)
				So(o.History, ShouldHaveLength, 1)
			})
		})

		Convey("When the parameter is unknown", func() {
			_, err := svc.ApplyAdjustment(ctx, feedback.Action{Param: "vig", NewValue: 1}, true)
			So(errors.Is(err, feedback.ErrUnknownParam), ShouldBeTrue)
		})
	})
}

func TestService_Bankroll(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	Convey("Given a started service with a configured bankroll of 20", t, func() {
		c := &clock{t: day}
		repo := repository.New(repository.NewMemoryStore())
		svc := newService(c, &fakeFeed{events: []model.Event{lakersGame(day.Add(7 * time.Hour))}},
			service.WithRepository(repo))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the configured value is served until one is stored", func() {
			v, err := svc.Bankroll(ctx)
			So(err, ShouldBeNil)
			So(v.StringFixed(2), ShouldEqual, "20.00")
		})

		Convey("When a new bankroll is stored", func() {
			v, err := svc.SetBankroll(ctx, decimal.RequireFromString("40.004"))
			So(err, ShouldBeNil)
			So(v.StringFixed(2), ShouldEqual, "40.00")

			Convey("Then it persists and sizes the next set", func() {
				stored, err := repo.Bankroll(ctx, decimal.Zero)
				So(err, ShouldBeNil)
				So(stored.StringFixed(2), ShouldEqual, "40.00")

				out, err := svc.Today(ctx)
				So(err, ShouldBeNil)
				So(out.Set.Facts, ShouldHaveLength, 1)
				So(out.Set.Facts[0].Stake.StringFixed(2), ShouldEqual, "3.28")
			})
		})

		Convey("When a non-positive bankroll is given", func() {
			_, err := svc.SetBankroll(ctx, decimal.Zero)

			Convey("Then it is refused", func() {
				So(errors.Is(err, service.ErrInvalidBankroll), ShouldBeTrue)
				v, _ := svc.Bankroll(ctx)
				So(v.StringFixed(2), ShouldEqual, "20.00")
			})
		})
	})
}

func TestService_Injuries(t *testing.T) {
	ctx := context.Background()

	Convey("Given an injury feed", t, func() {
		c := &clock{t: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
		repo := repository.New(repository.NewMemoryStore())
		svc := newService(c, &fakeFeed{}, service.WithRepository(repo),
			service.WithInjuryFeed(fakeInjuries{book: rules.Injuries{"LeBron James": rules.StatusOut}}))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		n, err := svc.RefreshInjuries(ctx)
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 1)
		book, err := repo.Injuries(ctx)
		So(err, ShouldBeNil)
		So(book.Status("LeBron James"), ShouldEqual, rules.StatusOut)
	})

	Convey("Given a failing injury feed", t, func() {
		c := &clock{t: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
		repo := repository.New(repository.NewMemoryStore())
		So(repo.SaveInjuries(ctx, rules.Injuries{"Jayson Tatum": rules.StatusDoubtful}), ShouldBeNil)
		svc := newService(c, &fakeFeed{}, service.WithRepository(repo),
			service.WithInjuryFeed(fakeInjuries{err: errors.New("down")}))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		_, err := svc.RefreshInjuries(ctx)
		So(err, ShouldNotBeNil)
		book, err := repo.Injuries(ctx)
		So(err, ShouldBeNil)
		So(book.Status("Jayson Tatum"), ShouldEqual, rules.StatusDoubtful)
	})
}

func TestService_Scheduler(t *testing.T) {
	Convey("Given a scheduler past both daily times", t, func() {
		day := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
		c := &clock{t: day}
		f := &fakeFeed{events: []model.Event{lakersGame(day.Add(7 * time.Hour))}}
		repo := repository.New(repository.NewMemoryStore())
		svc := newService(c, f, service.WithRepository(repo),
			service.WithSchedule("09:00", "08:00"), service.WithTickInterval(10*time.Millisecond))
		ctx, cancel := context.WithCancel(context.Background())
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		done := make(chan struct{})
		go func() {
			svc.RunScheduler(ctx)
			close(done)
		}()

		Convey("Then today's set is generated", func() {
			var ok bool
			for i := 0; i < 100 && !ok; i++ {
				_, ok, _ = repo.LoadSet(context.Background(), "2026-10-14")
				time.Sleep(10 * time.Millisecond)
			}
			cancel()
			<-done
			So(ok, ShouldBeTrue)
		})
	})
}
