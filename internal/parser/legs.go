package parser

import (
	"time"

	"github.com/eddiefleurent/tradelog/internal/models"
	"github.com/shopspring/decimal"
)

// rollPattern is the per-leg direction of a BUY roll: open the far pair, close the near pair.
var rollPattern = [4]int{1, -1, -1, 1}

// legShape is everything extracted from the order line that determines the legs.
type legShape struct {
	action      models.Action
	spread      models.SpreadType
	quantity    int
	ratios      []int
	signed      bool
	dates       []time.Time
	strikes     []decimal.Decimal
	optionTypes []models.OptionType
}

func (s legShape) legCount() int {
	return max(len(s.dates), len(s.strikes), len(s.optionTypes), len(s.ratios), 1)
}

// legSign returns the unscaled signed quantity of leg i. Broker order lines
// only carry the overall action and a leg ordering convention, so the
// direction of each leg is implied by the spread type.
func legSign(spread models.SpreadType, action models.Action, ratios []int, signed bool, i, legCount int) int {
	sign := action.Sign()

	if len(ratios) > 0 {
		r := ratios[i%len(ratios)]
		if signed {
			return r * sign
		}
		switch spread {
		case models.SpreadBackRatio:
			// opening sells the near strike and buys more of the far strike
			if i == 0 {
				return -r * sign
			}
			return r * sign
		case models.SpreadButterfly:
			if i == 0 || i == legCount-1 {
				return r * sign
			}
			return -r * sign
		default:
			return r * sign
		}
	}

	switch spread {
	case models.SpreadCalendar, models.SpreadDiagonal:
		// far-dated leg first; it takes the direction of the trade
		if i%2 == 0 {
			return sign
		}
		return -sign
	case models.SpreadRoll:
		return rollPattern[i%len(rollPattern)] * sign
	case models.SpreadButterfly:
		if legCount == 3 {
			if i == 1 {
				return -2 * sign
			}
			return sign
		}
	case models.SpreadVertical:
		if legCount == 2 {
			if i == 0 {
				return sign
			}
			return -sign
		}
	}
	return sign
}

// legAction tags legs whose opening/closing role is implied by the spread.
// Everything else stays unset.
func legAction(spread models.SpreadType, action models.Action, i, legCount int) models.LegAction {
	switch spread {
	case models.SpreadRoll:
		// legs 0-1 open the new position, the rest close the old one
		if i < 2 {
			return models.LegOpen
		}
		return models.LegClose
	case models.SpreadCalendar, models.SpreadDiagonal:
		if action != models.ActionSell {
			return models.LegUnset
		}
		if i%2 == 0 {
			return models.LegOpen
		}
		return models.LegClose
	default:
		return models.LegUnset
	}
}

func distinctDates(dates []time.Time) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		seen := false
		for _, o := range out {
			if o.Equal(d) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, d)
		}
	}
	return out
}

// legExpiration picks the expiration for leg i. A four-leg roll over two dates
// puts the first (far) date on the opening pair and the second on the closing pair.
func legExpiration(s legShape, i, legCount int, today time.Time) time.Time {
	if len(s.dates) == 0 {
		return today
	}
	if s.spread == models.SpreadRoll && legCount == 4 {
		if d := distinctDates(s.dates); len(d) == 2 {
			if i < 2 {
				return d[0]
			}
			return d[1]
		}
	}
	return s.dates[i%len(s.dates)]
}

func buildLegs(s legShape, today time.Time) []models.OptionLeg {
	n := s.legCount()
	legs := make([]models.OptionLeg, n)
	for i := range legs {
		strike := decimal.Zero
		if len(s.strikes) > 0 {
			strike = s.strikes[i%len(s.strikes)]
		}
		// CALL when no option type is printed at all; see DESIGN.md open questions
		optionType := models.OptionCall
		if len(s.optionTypes) > 0 {
			optionType = s.optionTypes[i%len(s.optionTypes)]
		}

		legs[i] = models.OptionLeg{
			Quantity:   legSign(s.spread, s.action, s.ratios, s.signed, i, n) * s.quantity,
			Expiration: legExpiration(s, i, n, today),
			Strike:     strike,
			OptionType: optionType,
			LegAction:  legAction(s.spread, s.action, i, n),
		}
	}
	return legs
}
