package vaa

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjac/vaa/models"
	"github.com/kodjac/vaa/settings"
)

// Month-end closes, oldest first, chosen so that counting back from the
// anchor gives p0=150, p1=140, p3=108, p6=110, p12=102.
var closes13612W = []float64{102, 101, 105, 130, 90, 95, 110, 120, 98, 108, 115, 140, 150}

func TestWeighted13612WScore(t *testing.T) {
	series := testSeries(t, "A", closes13612W)
	ind := Indicator{Mode: settings.Mode13612W, Scale: 1, Precision: -1}

	got, err := ind.Score(series, monthEnd(12))
	require.NoError(t, err)

	// 12*(150/140-1) + 4*(150/108-1) + 2*(150/110-1) + (150/102-1)
	assert.InDelta(t, 3.61056, got, 1e-4)
}

func TestScoreRounding(t *testing.T) {
	series := testSeries(t, "A", closes13612W)
	ind := Indicator{Mode: settings.Mode13612W, Scale: 1, Precision: 2}

	got, err := ind.Score(series, monthEnd(12))
	require.NoError(t, err)
	assert.Equal(t, 3.61, got)

	scaled := Indicator{Mode: settings.Mode13612W, Scale: 100, Precision: 0}
	got, err = scaled.Score(series, monthEnd(12))
	require.NoError(t, err)
	assert.Equal(t, 361.0, got)
}

func TestScoreIsDeterministic(t *testing.T) {
	series := testSeries(t, "A", closes13612W)
	ind := Indicator{Mode: settings.Mode13612W, Scale: 1, Precision: -1}

	first, err := ind.Score(series, monthEnd(12))
	require.NoError(t, err)
	second, err := ind.Score(series, monthEnd(12))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSimpleLookbackScore(t *testing.T) {
	series := testSeries(t, "A", closes13612W)
	ind := Indicator{Mode: settings.ModeSimple, Lookback: 3, Scale: 1, Precision: -1}

	got, err := ind.Score(series, monthEnd(12))
	require.NoError(t, err)
	assert.Equal(t, 150.0-108.0, got)

	scaled := Indicator{Mode: settings.ModeSimple, Lookback: 3, Scale: 0.5, Precision: -1}
	got, err = scaled.Score(series, monthEnd(12))
	require.NoError(t, err)
	assert.Equal(t, 21.0, got)
}

func TestScoreInsufficientHistory(t *testing.T) {
	ind := Indicator{Mode: settings.Mode13612W, Scale: 1, Precision: -1}

	// 12 month-ends is one short of the 13 the weighted score needs.
	short := testSeries(t, "A", closes13612W[:12])
	_, err := ind.Score(short, monthEnd(11))
	assert.True(t, errors.Is(err, models.ErrInsufficientHistory))

	// Enough history overall, but the anchor sits inside the warm-up.
	full := testSeries(t, "A", closes13612W)
	_, err = ind.Score(full, monthEnd(5))
	assert.True(t, errors.Is(err, models.ErrInsufficientHistory))

	// A date that is not a month-end of the series is never a valid anchor.
	_, err = ind.Score(full, time.Date(2020, 13, 14, 0, 0, 0, 0, time.UTC))
	assert.True(t, errors.Is(err, models.ErrInsufficientHistory))
}
