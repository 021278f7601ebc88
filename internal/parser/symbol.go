package parser

import "regexp"

const (
	// futures root with optional contract code (/ES, /ESZ24) or a 1-5 letter equity/index ticker
	symbolPattern = `(/[A-Z]+[A-Z0-9]*|[A-Z]{1,5})`
	// the contract multiplier that follows the symbol: 100 or a futures 1/50 pair
	multiplierFollows = `\s+\d+(?:/\d+)?(?:\s|$)`
	ratioBlock        = `[+-]?\d{1,2}(?:/[+-]?\d{1,2})+`
	spreadKeywords    = `(?:VERTICAL|VERT|CALENDAR|DIAGONAL|DIAG|ROLL|BUTTERFLY|FLY|IRON\s+CONDOR|CONDOR|IC|` +
		`STRADDLE|STRANGLE|CUSTOM|BACKRATIO|RATIO|COMBO|COVERED)`
)

// symbolMatcher extracts the underlying symbol from a normalized order line.
type symbolMatcher struct {
	name string
	re   *regexp.Regexp
}

func (m symbolMatcher) match(line string) (string, bool) {
	sub := m.re.FindStringSubmatch(line)
	if sub == nil {
		return "", false
	}
	return sub[1], true
}

// symbolMatchers are tried in order; the first match wins. Each one anchors the
// symbol between a known structural token and the multiplier so that strike
// numbers and spread keywords are never taken for the symbol.
var symbolMatchers = []symbolMatcher{
	{
		// SELL -2 1/3 BACKRATIO AMZN 100 ...
		name: "ratio_keyword",
		re: regexp.MustCompile(`^(?:BUY|SELL)\s+[+-]?\d+\s+` + ratioBlock + `\s+~?[A-Z]+\s+` +
			symbolPattern + multiplierFollows),
	},
	{
		// SELL -4 CALENDAR SHOP 100 ..., SELL -1 IRON CONDOR SPX 100 ...
		name: "spread_keyword",
		re:   regexp.MustCompile(`(?:^|\s)~?` + spreadKeywords + `\s+` + symbolPattern + multiplierFollows),
	},
	{
		// BUY +2 BE 100 ..., BUY +1 /ESZ24 1/50 ...
		name: "quantity",
		re:   regexp.MustCompile(`^(?:BUY|SELL)\s+[+-]?\d+\s+` + symbolPattern + multiplierFollows),
	},
	{
		// BUY +1 DBL DIAG SPY 100 ... (unrecognized one- or two-word spread label)
		name: "quantity_label",
		re: regexp.MustCompile(`^(?:BUY|SELL)\s+[+-]?\d+\s+~?[A-Z]+(?:\s+[A-Z]+)?\s+` +
			symbolPattern + multiplierFollows),
	},
}

// fallbackSymbolMatcher accepts any symbol-shaped token directly ahead of a
// multiplier and an expiration date.
var fallbackSymbolMatcher = symbolMatcher{
	name: "multiplier_date",
	re: regexp.MustCompile(`(?:^|\s)` + symbolPattern +
		`\s+\d+(?:/\d+)?\s+(?:\([^)]*\)\s+)?\d{1,2}\s+[A-Z]{3}\s+\d{2}\b`),
}

func extractSymbol(line string) (string, bool) {
	for _, m := range symbolMatchers {
		if sym, ok := m.match(line); ok {
			return sym, true
		}
	}
	return fallbackSymbolMatcher.match(line)
}
