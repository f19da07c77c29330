package parley_test

import (
	"testing"

	"github.com/okian/vstrike/internal/domain/model"
	"github.com/okian/vstrike/internal/domain/parley"
	. "github.com/smartystreets/goconvey/convey"
)

func fact(id, event, sport string, conf, price int) model.BetFact {
	return model.BetFact{ID: id, EventID: event, Sport: sport, Confidence: conf, Odds: price, Pick: model.Moneyline(id)}
}

func TestSelect(t *testing.T) {
	Convey("Given a pool spanning several sports", t, func() {
		pool := []model.BetFact{
			fact("a", "e1", "nba", 90, -150),
			fact("a_spread", "e1", "nba", 88, -110),
			fact("b", "e2", "nba", 85, -140),
			fact("c", "e3", "nhl", 80, -160),
			fact("d", "e4", "nfl", 70, -135),
		}

		Convey("When three legs are requested", func() {
			legs := parley.Select(pool, 3)

			Convey("Then the first pass spreads legs across sports", func() {
				So(len(legs), ShouldEqual, 3)
				So(legs[0].ID, ShouldEqual, "a")
				So(legs[1].ID, ShouldEqual, "c")
				So(legs[2].ID, ShouldEqual, "d")
			})
		})

		Convey("When four legs are requested", func() {
			legs := parley.Select(pool, 4)

			Convey("Then the second pass fills from a repeated sport but never a repeated event", func() {
				So(len(legs), ShouldEqual, 4)
				So(legs[3].ID, ShouldEqual, "b")
				seen := map[string]bool{}
				for _, l := range legs {
					So(seen[l.EventID], ShouldBeFalse)
					seen[l.EventID] = true
				}
			})
		})
	})

	Convey("Given a pool with only one distinct event", t, func() {
		pool := []model.BetFact{
			fact("a", "e1", "nba", 90, -150),
			fact("a_spread", "e1", "nba", 80, -110),
		}
		So(parley.Select(pool, 3), ShouldBeNil)
	})

	Convey("Given an empty pool", t, func() {
		So(parley.Select(nil, 3), ShouldBeNil)
	})
}

func TestOdds(t *testing.T) {
	Convey("Given two -110 legs", t, func() {
		price, err := parley.Odds([]model.BetFact{fact("a", "e1", "nba", 60, -110), fact("b", "e2", "nhl", 60, -110)})
		So(err, ShouldBeNil)
		So(price, ShouldBeBetween, 263, 265)
	})

	Convey("Given a leg with no price", t, func() {
		_, err := parley.Odds([]model.BetFact{fact("a", "e1", "nba", 60, 0)})
		So(err, ShouldNotBeNil)
	})
}

func TestMeanConfidence(t *testing.T) {
	Convey("Given legs with mixed confidence", t, func() {
		legs := []model.BetFact{fact("a", "e1", "nba", 80, -150), fact("b", "e2", "nhl", 75, -150)}
		So(parley.MeanConfidence(legs), ShouldEqual, 78)
		So(parley.MeanConfidence(nil), ShouldEqual, 0)
	})
}

func TestOptimalLegs(t *testing.T) {
	Convey("Given pools of strong picks", t, func() {
		mk := func(n int) []model.BetFact {
			var pool []model.BetFact
			for i := 0; i < n; i++ {
				pool = append(pool, fact(string(rune('a'+i)), "e", "nba", 75, -150))
			}
			return pool
		}
		So(parley.OptimalLegs(mk(6), nil), ShouldEqual, 4)
		So(parley.OptimalLegs(mk(3), nil), ShouldEqual, 3)
		So(parley.OptimalLegs(mk(2), nil), ShouldEqual, 2)
		So(parley.OptimalLegs(mk(1), nil), ShouldEqual, 0)

		trap := func(team string) bool { return team == "a" || team == "b" }
		So(parley.OptimalLegs(mk(5), trap), ShouldEqual, 3)
	})
}
