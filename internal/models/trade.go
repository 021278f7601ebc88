// Package models provides the structured trade records produced by the trade-string parser.
package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMultiplier is the contract multiplier for equity and index options.
const DefaultMultiplier = 100

// Action is the overall trade action of an order.
type Action string

const (
	// ActionBuy is a buy order (+ quantity on the order line)
	ActionBuy Action = "BUY"
	// ActionSell is a sell order (- quantity on the order line)
	ActionSell Action = "SELL"
)

// Valid returns true if the Action is one of the defined constants
func (a Action) Valid() bool {
	return a == ActionBuy || a == ActionSell
}

// Sign returns +1 for BUY and -1 for SELL.
func (a Action) Sign() int {
	if a == ActionSell {
		return -1
	}
	return 1
}

// SpreadType classifies the combination structure of a trade.
type SpreadType string

const (
	SpreadSingle     SpreadType = "SINGLE"
	SpreadVertical   SpreadType = "VERTICAL"
	SpreadCalendar   SpreadType = "CALENDAR"
	SpreadDiagonal   SpreadType = "DIAGONAL"
	SpreadStraddle   SpreadType = "STRADDLE"
	SpreadStrangle   SpreadType = "STRANGLE"
	SpreadButterfly  SpreadType = "BUTTERFLY"
	SpreadCondor     SpreadType = "CONDOR"
	SpreadIronCondor SpreadType = "IRON_CONDOR"
	SpreadRatio      SpreadType = "RATIO"
	SpreadBackRatio  SpreadType = "BACKRATIO"
	SpreadCustom     SpreadType = "CUSTOM"
	SpreadRoll       SpreadType = "ROLL"
)

// Valid returns true if the SpreadType is one of the defined constants
func (s SpreadType) Valid() bool {
	switch s {
	case SpreadSingle, SpreadVertical, SpreadCalendar, SpreadDiagonal, SpreadStraddle, SpreadStrangle,
		SpreadButterfly, SpreadCondor, SpreadIronCondor, SpreadRatio, SpreadBackRatio, SpreadCustom, SpreadRoll:
		return true
	default:
		return false
	}
}

// HasLegActions reports whether legs of this spread type carry open/close tags.
func (s SpreadType) HasLegActions() bool {
	return s == SpreadRoll || s == SpreadCalendar || s == SpreadDiagonal
}

// OptionType is the right of an option contract.
type OptionType string

const (
	OptionCall OptionType = "CALL"
	OptionPut  OptionType = "PUT"
)

// Valid returns true if the OptionType is one of the defined constants
func (t OptionType) Valid() bool {
	return t == OptionCall || t == OptionPut
}

// LegAction marks a leg as opening or closing. The zero value means the
// direction is not modeled for the leg and must not feed open/close analytics.
type LegAction string

const (
	LegUnset LegAction = ""
	LegOpen  LegAction = "OPEN"
	LegClose LegAction = "CLOSE"
)

// Valid returns true if the LegAction is one of the defined constants
func (a LegAction) Valid() bool {
	return a == LegUnset || a == LegOpen || a == LegClose
}

// OrderType is the order type printed on the order line.
type OrderType string

const (
	OrderLimit     OrderType = "LMT"
	OrderMarket    OrderType = "MKT"
	OrderStop      OrderType = "STP"
	OrderStopLimit OrderType = "STP LMT"
)

// Valid returns true if the OrderType is one of the defined constants
func (o OrderType) Valid() bool {
	switch o {
	case OrderLimit, OrderMarket, OrderStop, OrderStopLimit:
		return true
	default:
		return false
	}
}

// OptionLeg is one contract line within a trade.
type OptionLeg struct {
	// Quantity is signed: positive buys, negative sells. Already scaled by the trade's TotalQuantity.
	Quantity   int             `json:"quantity"`
	Expiration time.Time       `json:"expiration"`
	Strike     decimal.Decimal `json:"strike"`
	OptionType OptionType      `json:"option_type"`
	LegAction  LegAction       `json:"leg_action,omitempty"`
}

// DTE returns the days to expiration of the leg as of now, clamped at zero.
func (l OptionLeg) DTE(now time.Time) int {
	today := now.UTC().Truncate(24 * time.Hour)
	exp := l.Expiration.UTC().Truncate(24 * time.Hour)
	days := int(exp.Sub(today).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Trade is one parsed order line.
type Trade struct {
	ID            string          `json:"id"`
	RawInput      string          `json:"raw_input"`
	Action        Action          `json:"action"`
	TotalQuantity int             `json:"total_quantity"`
	Symbol        string          `json:"symbol"`
	Multiplier    int             `json:"multiplier"`
	IsWeekly      bool            `json:"is_weekly"`
	SpreadType    SpreadType      `json:"spread_type"`
	Legs          []OptionLeg     `json:"legs"`
	Price         decimal.Decimal `json:"price"`
	OrderType     OrderType       `json:"order_type"`
	IsGTC         bool            `json:"is_gtc"`
	TradeDate     time.Time       `json:"trade_date"`
}

// NetLegQuantity returns the sum of the signed leg quantities.
func (t *Trade) NetLegQuantity() int {
	total := 0
	for _, leg := range t.Legs {
		total += leg.Quantity
	}
	return total
}

// Validate checks that the trade record is internally consistent.
func (t *Trade) Validate() error {
	if !t.Action.Valid() {
		return fmt.Errorf("trade %s: invalid action %q", t.ID, t.Action)
	}
	if t.TotalQuantity <= 0 {
		return fmt.Errorf("trade %s: total quantity must be > 0 (current: %d)", t.ID, t.TotalQuantity)
	}
	if t.Symbol == "" {
		return fmt.Errorf("trade %s: symbol is required", t.ID)
	}
	if t.Multiplier <= 0 {
		return fmt.Errorf("trade %s: multiplier must be > 0 (current: %d)", t.ID, t.Multiplier)
	}
	if !t.SpreadType.Valid() {
		return fmt.Errorf("trade %s: invalid spread type %q", t.ID, t.SpreadType)
	}
	if !t.OrderType.Valid() {
		return fmt.Errorf("trade %s: invalid order type %q", t.ID, t.OrderType)
	}
	if len(t.Legs) == 0 {
		return fmt.Errorf("trade %s: at least one leg is required", t.ID)
	}

	for i, leg := range t.Legs {
		if leg.Quantity == 0 {
			return fmt.Errorf("trade %s: leg %d has zero quantity", t.ID, i)
		}
		if leg.Quantity%t.TotalQuantity != 0 {
			return fmt.Errorf("trade %s: leg %d quantity %d is not a multiple of total quantity %d",
				t.ID, i, leg.Quantity, t.TotalQuantity)
		}
		if !leg.OptionType.Valid() {
			return fmt.Errorf("trade %s: leg %d has invalid option type %q", t.ID, i, leg.OptionType)
		}
		if !leg.LegAction.Valid() {
			return fmt.Errorf("trade %s: leg %d has invalid leg action %q", t.ID, i, leg.LegAction)
		}
		if leg.LegAction != LegUnset && !t.SpreadType.HasLegActions() {
			return fmt.Errorf("trade %s: leg %d is tagged %s but %s legs carry no open/close tag",
				t.ID, i, leg.LegAction, t.SpreadType)
		}
		if leg.Strike.IsNegative() {
			return fmt.Errorf("trade %s: leg %d strike cannot be negative (current: %s)", t.ID, i, leg.Strike)
		}
	}

	return nil
}
