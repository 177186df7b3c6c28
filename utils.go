package vaa

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"

	"github.com/kodjac/vaa/models"
)

// LoadBars reads date-sorted daily bars for one ticker from a CSV file.
func LoadBars(csvFile string) ([]models.Bar, error) {
	dataFile, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("open bar data: %w", err)
	}
	defer dataFile.Close()

	var bars []models.Bar
	if err := gocsv.UnmarshalFile(dataFile, &bars); err != nil {
		return nil, fmt.Errorf("parse bar data %v: %w", csvFile, err)
	}
	return bars, nil
}

// LoadBarsFromDir loads <dir>/<ticker>.csv for every ticker.
func LoadBarsFromDir(dir string, tickers []string) (map[string][]models.Bar, error) {
	bars := make(map[string][]models.Bar, len(tickers))
	for _, ticker := range tickers {
		b, err := LoadBars(filepath.Join(dir, ticker+".csv"))
		if err != nil {
			return nil, err
		}
		bars[ticker] = b
	}
	return bars, nil
}

// CalculateDifference returns the percent difference of x relative to y.
func CalculateDifference(x float64, y float64) float64 {
	if y == 0 {
		y = 1
	}
	return (x - y) / y
}

// SumArr returns the sum of a float slice.
func SumArr(arr []float64) float64 {
	var sum float64
	for _, v := range arr {
		sum += v
	}
	return sum
}

// ToFixed rounds a float to a fixed number of decimals.
func ToFixed(num float64, precision int) float64 {
	output := math.Pow(10, float64(precision))
	return math.Round(num*output) / output
}

// CreateKeyValuePairs renders a map as sorted "key: value" lines for the
// end-of-run report.
func CreateKeyValuePairs(m map[string]interface{}) string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	b := new(bytes.Buffer)
	for _, key := range keys {
		fmt.Fprintf(b, "%s: %v\n", key, m[key])
	}
	return b.String()
}
