package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/eddiefleurent/tradelog/internal/models"
	"github.com/shopspring/decimal"
)

// All patterns run against the upper-cased, noise-stripped order line, which
// always begins with the action token.
var (
	actionRe   = regexp.MustCompile(`(?i)\b(BUY|SELL)\b`)
	quantityRe = regexp.MustCompile(`^(?:BUY|SELL)\s+([+-]?\d+)\b`)
	ratioRe    = regexp.MustCompile(
		`^(?:BUY|SELL)\s+[+-]?\d+\s+([+-]?\d{1,2}(?:/[+-]?\d{1,2})+)\s+~?(?:CUSTOM|BACKRATIO|RATIO|BUTTERFLY|FLY)\b`)
	priceRe = regexp.MustCompile(`@\s*(-?(?:\d+(?:\.\d*)?|\.\d+))`)

	gtcRe       = regexp.MustCompile(`\bGTC\b`)
	marketRe    = regexp.MustCompile(`\bMKT\b`)
	stopLimitRe = regexp.MustCompile(`\bSTP\s+LMT\b`)
	stopRe      = regexp.MustCompile(`\bSTP\b`)
	weeklyRe    = regexp.MustCompile(`\(WEEKLYS?\)`)

	// N/M or N directly before a date, optionally separated by a series tag such as (Weeklys)
	futuresMultiplierRe = regexp.MustCompile(`(?:^|\s)\d+/(\d+)\s+(?:\([^)]*\)\s+)?\d{1,2}\s+[A-Z]{3}\s+\d{2}\b`)
	multiplierRe        = regexp.MustCompile(`(?:^|\s)(\d+)\s+(?:\([^)]*\)\s+)?\d{1,2}\s+[A-Z]{3}\s+\d{2}\b`)

	dateRe = regexp.MustCompile(`\b(\d{1,2})\s+([A-Z]{3})\s+(\d{2})\b`)

	// strikes directly after the last date; a session tag, a series tag or a
	// futures option code may sit in between
	strikesAfterDateRe = regexp.MustCompile(
		`^\s*(?:\[(?:AM|PM)\]\s*)?(?:\([^)]*\)\s*)?(?:/[A-Z0-9]+\s+)?(\d*\.?\d+(?:/\d*\.?\d+)*)\s+(?:CALL|PUT)\b`)
	strikesRe     = regexp.MustCompile(`(?:^|\s)(\d*\.?\d+(?:/\d*\.?\d+)*)\s+(?:CALL|PUT)\b`)
	optionTypesRe = regexp.MustCompile(`\b((?:CALL|PUT)(?:/(?:CALL|PUT))*)\b`)

	escapeReplacer = strings.NewReplacer(`\+`, "+", `\-`, "-")
)

// monthFromAbbrev resolves a three-letter month abbreviation (JAN..DEC).
func monthFromAbbrev(abbrev string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String()[:3], abbrev) {
			return m, true
		}
	}
	return 0, false
}

// stripNoise drops anything before the first action token, e.g. "(Replacing #12345) ".
func stripNoise(input string) (string, bool) {
	loc := actionRe.FindStringIndex(input)
	if loc == nil {
		return "", false
	}
	return input[loc[0]:], true
}

func normalize(raw string) string {
	return strings.ToUpper(escapeReplacer.Replace(raw))
}

func extractQuantity(line string) (int, bool) {
	m := quantityRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if n < 0 {
		n = -n
	}
	return n, true
}

// extractRatios returns the ratio block preceding a ratio-style spread keyword
// and whether any entry carries an explicit sign.
func extractRatios(line string) ([]int, bool) {
	m := ratioRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	parts := strings.Split(m[1], "/")
	ratios := make([]int, 0, len(parts))
	signed := false
	for _, p := range parts {
		if strings.HasPrefix(p, "+") || strings.HasPrefix(p, "-") {
			signed = true
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		ratios = append(ratios, n)
	}
	return ratios, signed
}

func extractPrice(line string) (decimal.Decimal, bool) {
	m := priceRe.FindStringSubmatch(line)
	if m == nil {
		return decimal.Zero, false
	}
	d, err := parseDecimal(m[1])
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// parseDecimal accepts broker shorthand such as ".40" and "-.40".
func parseDecimal(s string) (decimal.Decimal, error) {
	switch {
	case strings.HasPrefix(s, "-."):
		s = "-0" + s[1:]
	case strings.HasPrefix(s, "."):
		s = "0" + s
	}
	return decimal.NewFromString(s)
}

func extractOrderType(line string) models.OrderType {
	switch {
	case marketRe.MatchString(line):
		return models.OrderMarket
	case stopLimitRe.MatchString(line):
		return models.OrderStopLimit
	case stopRe.MatchString(line):
		return models.OrderStop
	default:
		return models.OrderLimit
	}
}

func extractMultiplier(line string) int {
	for _, re := range []*regexp.Regexp{futuresMultiplierRe, multiplierRe} {
		if m := re.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n
			}
		}
	}
	return models.DefaultMultiplier
}

// extractDates returns every date token in order of appearance and the offset
// just past the last one (-1 when there are none). On failure it returns the
// offending token with one of ErrUnknownMonth or ErrInvalidDate.
// Scanning starts after the quantity so "+1 IBM 50" is never read as a date.
func extractDates(line string) ([]time.Time, int, string, error) {
	start := 0
	if loc := quantityRe.FindStringIndex(line); loc != nil {
		start = loc[1]
	}
	matches := dateRe.FindAllStringSubmatchIndex(line[start:], -1)
	if len(matches) == 0 {
		return nil, -1, "", nil
	}
	for _, m := range matches {
		for j := range m {
			m[j] += start
		}
	}

	dates := make([]time.Time, 0, len(matches))
	for _, m := range matches {
		token := line[m[0]:m[1]]
		day, _ := strconv.Atoi(line[m[2]:m[3]])
		month, ok := monthFromAbbrev(line[m[4]:m[5]])
		if !ok {
			return nil, -1, token, ErrUnknownMonth
		}
		yy, _ := strconv.Atoi(line[m[6]:m[7]])

		d := time.Date(2000+yy, month, day, 0, 0, 0, 0, time.UTC)
		if d.Day() != day {
			return nil, -1, token, ErrInvalidDate
		}
		dates = append(dates, d)
	}
	return dates, matches[len(matches)-1][1], "", nil
}

// extractStrikes reads the slash-joined strike group that precedes CALL/PUT.
// When dates were found the search starts after the last one.
func extractStrikes(line string, afterDate int) []decimal.Decimal {
	var group string
	if afterDate >= 0 {
		tail := line[afterDate:]
		if m := strikesAfterDateRe.FindStringSubmatch(tail); m != nil {
			group = m[1]
		} else if m := strikesRe.FindStringSubmatch(tail); m != nil {
			group = m[1]
		}
	} else if m := strikesRe.FindStringSubmatch(line); m != nil {
		group = m[1]
	}
	if group == "" {
		return nil
	}

	parts := strings.Split(group, "/")
	strikes := make([]decimal.Decimal, 0, len(parts))
	for _, p := range parts {
		d, err := parseDecimal(p)
		if err != nil {
			return nil
		}
		strikes = append(strikes, d)
	}
	return strikes
}

func extractOptionTypes(line string) []models.OptionType {
	m := optionTypesRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	parts := strings.Split(m[1], "/")
	types := make([]models.OptionType, 0, len(parts))
	for _, p := range parts {
		types = append(types, models.OptionType(p))
	}
	return types
}
