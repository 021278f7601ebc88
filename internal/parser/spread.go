package parser

import (
	"regexp"

	"github.com/eddiefleurent/tradelog/internal/models"
)

var (
	ironCondorLiteralRe = regexp.MustCompile(`\bIRON\s+CONDOR\b`)
	condorRe            = regexp.MustCompile(`\bCONDOR\b`)
)

func keyword(pattern string) func(string) bool {
	re := regexp.MustCompile(pattern)
	return re.MatchString
}

// spreadRules are checked in order and the first match wins.
var spreadRules = []struct {
	spread  models.SpreadType
	matches func(line string) bool
}{
	{models.SpreadRoll, keyword(`\bROLL\b`)},
	{models.SpreadCalendar, keyword(`\bCALENDAR\b`)},
	{models.SpreadDiagonal, keyword(`\bDIAGONAL\b`)},
	{models.SpreadVertical, keyword(`\bVERT(?:ICAL)?\b`)},
	{models.SpreadButterfly, keyword(`\b(?:BUTTERFLY|FLY)\b`)},
	{models.SpreadCondor, func(line string) bool {
		return condorRe.MatchString(line) && !ironCondorLiteralRe.MatchString(line)
	}},
	{models.SpreadIronCondor, keyword(`\bIRON\s+CONDOR\b|\bIC\b`)},
	{models.SpreadStraddle, keyword(`\bSTRADDLE\b`)},
	{models.SpreadStrangle, keyword(`\bSTRANGLE\b`)},
	{models.SpreadCustom, keyword(`\bCUSTOM\b`)},
	{models.SpreadBackRatio, keyword(`\bBACKRATIO\b`)},
	{models.SpreadRatio, keyword(`\bRATIO\b`)},
}

// classifySpread picks the spread type from keywords, falling back to the leg
// count when the line names none.
func classifySpread(line string, legCount int) models.SpreadType {
	for _, r := range spreadRules {
		if r.matches(line) {
			return r.spread
		}
	}

	switch legCount {
	case 1:
		return models.SpreadSingle
	case 2:
		return models.SpreadVertical
	case 4:
		return models.SpreadIronCondor
	default:
		return models.SpreadCustom
	}
}
