package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/vstrike/internal/adapters/repository"
	"github.com/okian/vstrike/internal/domain/feedback"
	"github.com/okian/vstrike/internal/domain/model"
	"github.com/okian/vstrike/internal/domain/rules"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	Convey("Given an empty repository", t, func() {
		repo := repository.New(repository.NewMemoryStore())

		Convey("Then missing records resolve to defaults", func() {
			_, ok, err := repo.LoadSet(ctx, "2026-10-14")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)

			p, err := repo.Params(ctx)
			So(err, ShouldBeNil)
			So(p, ShouldResemble, model.DefaultParams())

			idx, err := repo.KeyIndex(ctx)
			So(err, ShouldBeNil)
			So(idx, ShouldEqual, 0)

			month, err := repo.KeyMonth(ctx)
			So(err, ShouldBeNil)
			So(month, ShouldEqual, "")

			b, err := repo.Bankroll(ctx, decimal.NewFromInt(20))
			So(err, ShouldBeNil)
			So(b.String(), ShouldEqual, "20")

			inj, err := repo.Injuries(ctx)
			So(err, ShouldBeNil)
			So(inj, ShouldBeEmpty)

			done, err := repo.ScoresProcessed(ctx, "2026-10-13")
			So(err, ShouldBeNil)
			So(done, ShouldBeFalse)
		})

		Convey("When a set is saved", func() {
			set := &model.DailySet{Date: "2026-10-14", Facts: []model.BetFact{{ID: "e1", Result: model.ResultPending}}}
			So(repo.SaveSet(ctx, set), ShouldBeNil)

			Convey("Then it loads back and is listed", func() {
				got, ok, err := repo.LoadSet(ctx, "2026-10-14")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(got.Fact("e1"), ShouldNotBeNil)

				dates, err := repo.Dates(ctx)
				So(err, ShouldBeNil)
				So(dates, ShouldResemble, []string{"2026-10-14"})
			})
		})

		Convey("When a set without a date is saved", func() {
			So(repo.SaveSet(ctx, &model.DailySet{}), ShouldNotBeNil)
		})

		Convey("When overrides are saved", func() {
			o := &feedback.Overrides{}
			_, err := o.Apply(model.DefaultParams(), feedback.Action{Param: model.ParamHomeBonus, NewValue: 8}, true, now)
			So(err, ShouldBeNil)
			So(repo.SaveOverrides(ctx, o), ShouldBeNil)

			Convey("Then params resolve with them", func() {
				p, err := repo.Params(ctx)
				So(err, ShouldBeNil)
				So(p.HomeBonus, ShouldEqual, 8)
			})
		})

		Convey("When state records are written", func() {
			So(repo.SaveKeyIndex(ctx, 2), ShouldBeNil)
			So(repo.SaveKeyMonth(ctx, "2026-10"), ShouldBeNil)
			So(repo.SaveInjuries(ctx, rules.Injuries{"LeBron James": rules.StatusOut}), ShouldBeNil)
			recent := rules.RecentGames{}
			recent.Record(now, "Lakers")
			So(repo.SaveRecentGames(ctx, recent), ShouldBeNil)
			So(repo.SaveBankroll(ctx, decimal.RequireFromString("42.50")), ShouldBeNil)
			So(repo.MarkScoresProcessed(ctx, "2026-10-13", now), ShouldBeNil)
			So(repo.SaveCache(ctx, "odds:nba", []byte(`[{"id":"x"}]`), now), ShouldBeNil)

			Convey("Then they read back", func() {
				idx, _ := repo.KeyIndex(ctx)
				So(idx, ShouldEqual, 2)
				month, _ := repo.KeyMonth(ctx)
				So(month, ShouldEqual, "2026-10")
				inj, _ := repo.Injuries(ctx)
				So(inj.Status("LeBron James"), ShouldEqual, rules.StatusOut)
				r, _ := repo.RecentGames(ctx)
				So(r.PlayedOn(now, "Lakers"), ShouldBeTrue)
				b, _ := repo.Bankroll(ctx, decimal.NewFromInt(20))
				So(b.String(), ShouldEqual, "42.5")
				done, _ := repo.ScoresProcessed(ctx, "2026-10-13")
				So(done, ShouldBeTrue)
				payload, at, err := repo.LoadCache(ctx, "odds:nba")
				So(err, ShouldBeNil)
				So(string(payload), ShouldEqual, `[{"id":"x"}]`)
				So(at.Equal(now), ShouldBeTrue)
			})

			Convey("Then the records use the documented key names", func() {
				keys, err := repo.Store().Keys(ctx, "")
				So(err, ShouldBeNil)
				So(keys, ShouldResemble, []string{
					"bankroll", "cache:odds:nba", "games_window", "injuries",
					"key_index", "key_month", "scores_processed:2026-10-13",
				})
			})
		})

		Convey("When corrupt bytes are stored", func() {
			So(repo.Store().Set(ctx, "recs:2026-10-01", []byte("{nope")), ShouldBeNil)
			_, _, err := repo.LoadSet(ctx, "2026-10-01")
			So(errors.Is(err, repository.ErrCorrupt), ShouldBeTrue)
		})
	})
}

func TestHistoryExportImport(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	Convey("Given a repository with two days", t, func() {
		src := repository.New(repository.NewMemoryStore())
		So(src.SaveSet(ctx, &model.DailySet{Date: "2026-10-12", Facts: []model.BetFact{{ID: "a", Result: model.ResultWin}}}), ShouldBeNil)
		So(src.SaveSet(ctx, &model.DailySet{Date: "2026-10-13", Facts: []model.BetFact{{ID: "b", Result: model.ResultLoss}}}), ShouldBeNil)

		h, err := src.Export(ctx, now)
		So(err, ShouldBeNil)
		So(len(h.Sets), ShouldEqual, 2)
		So(h.Sets[0].Date, ShouldEqual, "2026-10-12")

		Convey("When imported into a repository that already has one day", func() {
			dst := repository.New(repository.NewMemoryStore())
			So(dst.SaveSet(ctx, &model.DailySet{Date: "2026-10-13", Facts: []model.BetFact{{ID: "local"}}}), ShouldBeNil)

			n, err := dst.Import(ctx, h, false)
			So(err, ShouldBeNil)

			Convey("Then existing days are kept", func() {
				So(n, ShouldEqual, 1)
				set, _, _ := dst.LoadSet(ctx, "2026-10-13")
				So(set.Fact("local"), ShouldNotBeNil)
			})

			Convey("Then overwrite replaces them", func() {
				n, err := dst.Import(ctx, h, true)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
				set, _, _ := dst.LoadSet(ctx, "2026-10-13")
				So(set.Fact("b"), ShouldNotBeNil)
			})
		})
	})
}
