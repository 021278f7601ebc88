// Package parser turns broker order-log lines into structured multi-leg option trades.
//
// A line looks like
//
//	SELL -4 CALENDAR SHOP 100 (Weeklys) 13 FEB 26/16 JAN 26 160 PUT @6.75 LMT
//
// and carries the overall action, the number of spread units, an optional ratio
// block, the spread keyword, the underlying, the multiplier, the expirations,
// the strikes, the option types and the net price. The direction of each leg is
// not printed; it is inferred from the spread type.
//
// A Parser holds no mutable state and is safe for concurrent use.
package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/eddiefleurent/tradelog/internal/models"
	"github.com/google/uuid"
)

// Parser converts order-log lines into trades.
type Parser struct {
	now      func() time.Time
	newID    func() string
	location *time.Location
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock sets the clock used for the trade date and for legs without a printed expiration.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// WithIDGenerator sets the trade id generator.
func WithIDGenerator(newID func() string) Option {
	return func(p *Parser) {
		if newID != nil {
			p.newID = newID
		}
	}
}

// WithLocation sets the location whose calendar day is "today" for undated legs.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.location = loc
		}
	}
}

// New creates a Parser. Defaults: time.Now, random UUIDs, UTC.
func New(opts ...Option) *Parser {
	p := &Parser{
		now:      time.Now,
		newID:    uuid.NewString,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// Parse parses input with the default parser.
func Parse(input string) (*models.Trade, error) {
	return defaultParser.Parse(input)
}

// Parse converts one order-log line into a trade. It never returns a partial
// trade: on failure the trade is nil and the error is a *ParseError wrapping one
// of the package's sentinel errors.
func (p *Parser) Parse(input string) (trade *models.Trade, err error) {
	defer func() {
		if r := recover(); r != nil {
			trade = nil
			err = newParseError(input, ErrInternal, fmt.Sprint(r))
		}
	}()

	if strings.TrimSpace(input) == "" {
		return nil, newParseError(input, ErrEmptyInput, "")
	}

	raw, ok := stripNoise(input)
	if !ok {
		return nil, newParseError(input, ErrNoAction, "")
	}
	line := normalize(raw)

	action := models.Action(actionRe.FindString(line))

	quantity, ok := extractQuantity(line)
	if !ok {
		return nil, newParseError(raw, ErrNoQuantity, "")
	}
	if quantity == 0 {
		return nil, newParseError(raw, ErrZeroQuantity, "")
	}

	price, ok := extractPrice(line)
	if !ok {
		return nil, newParseError(raw, ErrNoPrice, "")
	}

	symbol, ok := extractSymbol(line)
	if !ok {
		return nil, newParseError(raw, ErrNoSymbol, "")
	}

	dates, lastDateEnd, badToken, err := extractDates(line)
	if err != nil {
		return nil, newParseError(raw, err, badToken)
	}

	ratios, signed := extractRatios(line)
	for i, r := range ratios {
		if r == 0 {
			return nil, newParseError(raw, ErrZeroRatio, fmt.Sprintf("entry %d", i))
		}
	}
	shape := legShape{
		action:      action,
		quantity:    quantity,
		ratios:      ratios,
		signed:      signed,
		dates:       dates,
		strikes:     extractStrikes(line, lastDateEnd),
		optionTypes: extractOptionTypes(line),
	}
	shape.spread = classifySpread(line, shape.legCount())

	now := p.now()
	return &models.Trade{
		ID:            p.newID(),
		RawInput:      raw,
		Action:        action,
		TotalQuantity: quantity,
		Symbol:        symbol,
		Multiplier:    extractMultiplier(line),
		IsWeekly:      weeklyRe.MatchString(line),
		SpreadType:    shape.spread,
		Legs:          buildLegs(shape, p.today(now)),
		Price:         price,
		OrderType:     extractOrderType(line),
		IsGTC:         gtcRe.MatchString(line),
		TradeDate:     now,
	}, nil
}

// today returns midnight UTC of the parser location's current calendar day,
// matching how printed expirations are represented.
func (p *Parser) today(now time.Time) time.Time {
	y, m, d := now.In(p.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
