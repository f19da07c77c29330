package odds_test

import (
	"testing"

	"github.com/okian/vstrike/internal/domain/odds"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAmericanToDecimal(t *testing.T) {
	Convey("Given American prices", t, func() {
		d, err := odds.AmericanToDecimal(150)
		So(err, ShouldBeNil)
		So(d, ShouldAlmostEqual, 2.5, 0.0001)

		d, err = odds.AmericanToDecimal(-150)
		So(err, ShouldBeNil)
		So(d, ShouldAlmostEqual, 1.6667, 0.0001)

		_, err = odds.AmericanToDecimal(0)
		So(err, ShouldEqual, odds.ErrInvalidAmerican)
	})
}

func TestRoundTrip(t *testing.T) {
	Convey("Given integer American prices of magnitude at least 100", t, func() {
		Convey("Then converting to decimal and back returns the same price", func() {
			for p := 100; p <= 2000; p += 5 {
				for _, price := range []int{p, -p} {
					d, err := odds.AmericanToDecimal(price)
					So(err, ShouldBeNil)
					back, err := odds.DecimalToAmerican(d)
					So(err, ShouldBeNil)
					if price == -100 {
						// -100 and +100 are the same price.
						So(back, ShouldEqual, 100)
						continue
					}
					So(back, ShouldEqual, price)
				}
			}
		})
	})
}

func TestDecimalToAmerican(t *testing.T) {
	Convey("Given invalid decimal odds", t, func() {
		_, err := odds.DecimalToAmerican(1.0)
		So(err, ShouldEqual, odds.ErrInvalidDecimal)
		_, err = odds.DecimalToAmerican(0.5)
		So(err, ShouldEqual, odds.ErrInvalidDecimal)
	})
}

func TestCombine(t *testing.T) {
	Convey("Given two -110 legs", t, func() {
		price, err := odds.Combine(-110, -110)
		So(err, ShouldBeNil)
		So(price, ShouldBeBetween, 263, 265)
	})

	Convey("Given a favorite and an underdog", t, func() {
		price, err := odds.Combine(-200, 150)
		So(err, ShouldBeNil)
		So(price, ShouldEqual, 275)
	})

	Convey("Given no legs", t, func() {
		_, err := odds.Combine()
		So(err, ShouldNotBeNil)
	})
}

func TestImpliedProbability(t *testing.T) {
	Convey("Given an even price", t, func() {
		p, err := odds.ImpliedProbability(100)
		So(err, ShouldBeNil)
		So(p, ShouldAlmostEqual, 0.5, 0.0001)
	})
}

func TestPayout(t *testing.T) {
	Convey("Given a 10.00 stake", t, func() {
		stake := decimal.NewFromInt(10)

		got, err := odds.Payout(stake, 150)
		So(err, ShouldBeNil)
		So(got.String(), ShouldEqual, "25")

		got, err = odds.Payout(stake, -200)
		So(err, ShouldBeNil)
		So(got.String(), ShouldEqual, "15")
	})
}
