// Package odds converts between American and decimal prices and combines
// parley legs.
package odds

import (
	"math"

	"github.com/shopspring/decimal"
)

// AmericanToDecimal converts an American price to decimal odds.
// +150 becomes 2.50 and -150 becomes 1.667.
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, ErrInvalidAmerican
	}
	if american > 0 {
		return float64(american)/100.0 + 1.0, nil
	}
	return 100.0/float64(-american) + 1.0, nil
}

// DecimalToAmerican converts decimal odds back to a rounded American price.
func DecimalToAmerican(d float64) (int, error) {
	if d <= 1.0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, ErrInvalidDecimal
	}
	if d >= 2.0 {
		return int(math.Round((d - 1.0) * 100.0)), nil
	}
	return int(math.Round(-100.0 / (d - 1.0))), nil
}

// ImpliedProbability returns the break-even probability of an American price.
func ImpliedProbability(american int) (float64, error) {
	d, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return 1.0 / d, nil
}

// Combine multiplies the decimal odds of every leg and returns the parley
// price in American format.
func Combine(prices ...int) (int, error) {
	if len(prices) == 0 {
		return 0, ErrInvalidDecimal
	}
	total := 1.0
	for _, p := range prices {
		d, err := AmericanToDecimal(p)
		if err != nil {
			return 0, err
		}
		total *= d
	}
	return DecimalToAmerican(total)
}

// Payout returns the total return (stake included) of a winning bet.
func Payout(stake decimal.Decimal, american int) (decimal.Decimal, error) {
	if american == 0 {
		return decimal.Zero, ErrInvalidAmerican
	}
	hundred := decimal.NewFromInt(100)
	price := decimal.NewFromInt(int64(american))
	var profit decimal.Decimal
	if american > 0 {
		profit = stake.Mul(price).Div(hundred)
	} else {
		profit = stake.Mul(hundred).Div(price.Neg())
	}
	return stake.Add(profit).Round(2), nil
}
