package parser

import (
	"testing"
	"time"

	"github.com/eddiefleurent/tradelog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthFromAbbrev(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		got, ok := monthFromAbbrev(m.String()[:3])
		require.True(t, ok, m.String())
		assert.Equal(t, m, got)
	}

	got, ok := monthFromAbbrev("sep")
	assert.True(t, ok)
	assert.Equal(t, time.September, got)

	for _, bad := range []string{"XXX", "", "JANUARY", "SEPT"} {
		_, ok := monthFromAbbrev(bad)
		assert.False(t, ok, bad)
	}
}

func TestStripNoise(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"BUY +1 SPY", "BUY +1 SPY", true},
		{"(Replacing #12345) SELL -1 SPY", "SELL -1 SPY", true},
		{"  sell -1 spy", "sell -1 spy", true},
		{"BUYER +1 SPY", "", false},
		{"hello world", "", false},
	}

	for _, tt := range tests {
		got, ok := stripNoise(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "BUY +1 SPY", normalize(`buy \+1 spy`))
	assert.Equal(t, "SELL -2 QQQ", normalize(`SELL \-2 qqq`))
}

func TestExtractQuantity(t *testing.T) {
	tests := []struct {
		line string
		want int
		ok   bool
	}{
		{"BUY +2 BE 100", 2, true},
		{"SELL -20 VERT ROLL RUT", 20, true},
		{"BUY 3 SPY", 3, true},
		{"BUY 0 SPY", 0, true},
		{"BUY SPY 100", 0, false},
		{"BUY +1X SPY", 0, false},
	}

	for _, tt := range tests {
		got, ok := extractQuantity(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func TestExtractRatios(t *testing.T) {
	tests := []struct {
		line   string
		want   []int
		signed bool
	}{
		{"SELL -2 1/3 BACKRATIO AMZN 100", []int{1, 3}, false},
		{"BUY +1 1/3/2 ~BUTTERFLY SPX 100", []int{1, 3, 2}, false},
		{"SELL -3 1/-2/1 CUSTOM SPY 100", []int{1, -2, 1}, true},
		{"BUY +1 1/2 RATIO SPY 100", []int{1, 2}, false},
		{"BUY +1 /ESZ24 1/50 20 DEC 24", nil, false},
		{"BUY +1 VERTICAL SPY 100", nil, false},
	}

	for _, tt := range tests {
		got, signed := extractRatios(tt.line)
		assert.Equal(t, tt.want, got, tt.line)
		assert.Equal(t, tt.signed, signed, tt.line)
	}
}

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"CALL @52.60 LMT", "52.6", true},
		{"CALL @.40 LMT", "0.4", true},
		{"CALL @-1.49 LMT", "-1.49", true},
		{"CALL @-.05 LMT", "-0.05", true},
		{"CALL @ 3 LMT", "3", true},
		{"CALL LMT", "0", false},
		{"CALL @ LMT", "0", false},
	}

	for _, tt := range tests {
		got, ok := extractPrice(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.want, got.String(), tt.line)
	}
}

func TestExtractMultiplier(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"BUY +2 BE 100 15 JAN 27 50 CALL", 100},
		{"SELL -4 CALENDAR SHOP 100 (WEEKLYS) 13 FEB 26/16 JAN 26 160 PUT", 100},
		{"BUY +1 /ESZ24 1/50 20 DEC 24 /EW3Z24 5900 CALL", 50},
		{"BUY +1 XSP 10 17 JAN 25 600 CALL", 10},
		{"BUY +1 SPY 17 JAN 25 600 CALL", models.DefaultMultiplier},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractMultiplier(tt.line), tt.line)
	}
}

func TestExtractDates(t *testing.T) {
	t.Run("calendar pair", func(t *testing.T) {
		line := "SELL -4 CALENDAR SHOP 100 (WEEKLYS) 13 FEB 26/16 JAN 26 160 PUT @6.75 LMT"
		dates, end, token, err := extractDates(line)
		require.NoError(t, err)
		assert.Empty(t, token)
		assert.Equal(t, []time.Time{date(2026, time.February, 13), date(2026, time.January, 16)}, dates)
		assert.Equal(t, " 160 PUT @6.75 LMT", line[end:])
	})

	t.Run("no dates", func(t *testing.T) {
		dates, end, _, err := extractDates("BUY +1 SPY 100 600 CALL @2.50")
		require.NoError(t, err)
		assert.Nil(t, dates)
		assert.Equal(t, -1, end)
	})

	t.Run("leap day", func(t *testing.T) {
		dates, _, _, err := extractDates("BUY +1 SPY 100 29 FEB 28 600 CALL")
		require.NoError(t, err)
		assert.Equal(t, []time.Time{date(2028, time.February, 29)}, dates)
	})

	t.Run("unknown month", func(t *testing.T) {
		_, _, token, err := extractDates("BUY +1 XYZ 100 5 XXX 26 50 CALL")
		assert.ErrorIs(t, err, ErrUnknownMonth)
		assert.Equal(t, "5 XXX 26", token)
	})

	t.Run("quantity before a three letter ticker", func(t *testing.T) {
		line := "BUY +1 IBM 50 17 JAN 25 200 CALL @1.00 LMT"
		dates, end, token, err := extractDates(line)
		require.NoError(t, err)
		assert.Empty(t, token)
		assert.Equal(t, []time.Time{date(2025, time.January, 17)}, dates)
		assert.Equal(t, " 200 CALL @1.00 LMT", line[end:])
	})

	t.Run("day out of range", func(t *testing.T) {
		_, _, token, err := extractDates("BUY +1 SPY 100 29 FEB 26 600 CALL")
		assert.ErrorIs(t, err, ErrInvalidDate)
		assert.Equal(t, "29 FEB 26", token)
	})
}

func TestExtractStrikes(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"single", "BUY +2 BE 100 15 JAN 27 50 CALL @52.60", []string{"50"}},
		{"four", "SELL -20 VERT ROLL RUT 100 20 FEB 26/30 JAN 26 2730/2740/2730/2740 CALL @.40", []string{"2730", "2740", "2730", "2740"}},
		{"fractional", "SELL -2 1/3 BACKRATIO AMZN 100 16 JAN 26 247.5/260 CALL @-1.49", []string{"247.5", "260"}},
		{"session tag", "BUY +1 SPX 100 17 JAN 25 [AM] 6000 CALL @12.00", []string{"6000"}},
		{"futures option code", "BUY +1 /ESZ24 1/50 20 DEC 24 /EW3Z24 5900 CALL @10.00", []string{"5900"}},
		{"undated", "BUY +1 SPY 100 600 CALL @2.50", []string{"600"}},
		{"no option type", "BUY +1 SPY 100 17 JAN 25 600 @2.50", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, end, _, err := extractDates(tt.line)
			require.NoError(t, err)

			strikes := extractStrikes(tt.line, end)
			var got []string
			for _, s := range strikes {
				got = append(got, s.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractOptionTypes(t *testing.T) {
	assert.Equal(t, []models.OptionType{models.OptionCall}, extractOptionTypes("600 CALL @1"))
	assert.Equal(t, []models.OptionType{models.OptionCall, models.OptionPut}, extractOptionTypes("600 CALL/PUT @1"))
	assert.Equal(t, []models.OptionType{models.OptionPut}, extractOptionTypes("600 PUT @1"))
	assert.Nil(t, extractOptionTypes("600 @1"))
}

func TestExtractOrderType(t *testing.T) {
	assert.Equal(t, models.OrderLimit, extractOrderType("@1.00 LMT"))
	assert.Equal(t, models.OrderMarket, extractOrderType("@1.00 MKT"))
	assert.Equal(t, models.OrderStop, extractOrderType("@1.00 STP"))
	assert.Equal(t, models.OrderStopLimit, extractOrderType("@1.00 STP LMT"))
	assert.Equal(t, models.OrderLimit, extractOrderType("@1.00"))
}
