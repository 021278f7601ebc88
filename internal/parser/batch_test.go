package parser

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAll(t *testing.T) {
	inputs := []string{
		"BUY +2 BE 100 15 JAN 27 50 CALL @52.60 LMT",
		"hello world",
		"SELL -4 CALENDAR SHOP 100 (Weeklys) 13 FEB 26/16 JAN 26 160 PUT @6.75 LMT",
		"",
		"BUY +1 XYZ 100 5 XXX 26 50 CALL @1.00 LMT",
	}

	for _, workers := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			results, err := newTestParser().ParseAll(context.Background(), inputs, workers)
			require.NoError(t, err)
			require.Len(t, results, len(inputs))

			for i, r := range results {
				assert.Equal(t, inputs[i], r.Input)
			}

			assert.True(t, results[0].OK())
			assert.Equal(t, "BE", results[0].Trade.Symbol)

			assert.False(t, results[1].OK())
			assert.ErrorIs(t, results[1].Err, ErrNoAction)

			assert.True(t, results[2].OK())
			assert.Equal(t, "SHOP", results[2].Trade.Symbol)

			assert.ErrorIs(t, results[3].Err, ErrEmptyInput)
			assert.ErrorIs(t, results[4].Err, ErrUnknownMonth)
			assert.Nil(t, results[4].Trade)
		})
	}
}

func TestParseAll_Empty(t *testing.T) {
	results, err := New().ParseAll(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestParseAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := New().ParseAll(ctx, []string{"BUY +2 BE 100 15 JAN 27 50 CALL @52.60 LMT"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}
