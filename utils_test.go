package vaa

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFixed(t *testing.T) {
	assert.Equal(t, 3.61, ToFixed(3.6105599, 2))
	assert.Equal(t, -2.5, ToFixed(-2.4999, 1))
	assert.Equal(t, 4.0, ToFixed(3.61, 0))
}

func TestCalculateDifference(t *testing.T) {
	assert.InDelta(t, 0.1, CalculateDifference(110, 100), 1e-9)
	assert.InDelta(t, -0.25, CalculateDifference(75, 100), 1e-9)
}

func TestCreateKeyValuePairsSorted(t *testing.T) {
	out := CreateKeyValuePairs(map[string]interface{}{"b": 2, "a": 1})
	assert.Equal(t, "a: 1\nb: 2\n", out)
}

func TestLoadBars(t *testing.T) {
	dir := t.TempDir()
	bars := monthlyBars([]float64{100, 101, 102})
	file, err := os.Create(filepath.Join(dir, "SPY.csv"))
	require.NoError(t, err)
	require.NoError(t, gocsv.MarshalFile(&bars, file))
	file.Close()

	byTicker, err := LoadBarsFromDir(dir, []string{"SPY"})
	require.NoError(t, err)
	require.Len(t, byTicker["SPY"], len(bars))
	assert.Equal(t, bars[0].Timestamp, byTicker["SPY"][0].Timestamp)
	assert.Equal(t, 102.0, byTicker["SPY"][len(bars)-1].Close)

	_, err = LoadBarsFromDir(dir, []string{"QQQ"})
	assert.Error(t, err)
}
