package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBenchmarks(t *testing.T) {
	table := DefaultBenchmarks()
	assert.Len(t, table, 14)

	retail, code := table.Lookup(" retail ")
	assert.Equal(t, "RETAIL", code)
	assert.Equal(t, 1.2, retail.CurrentRatio)
	assert.Equal(t, 0.8, retail.DebtEquity)
	assert.Equal(t, 5.0, retail.ProfitMargin)

	other, code := table.Lookup("UNKNOWN")
	assert.Equal(t, FallbackIndustry, code)
	assert.Equal(t, 1.3, other.CurrentRatio)

	// copies are independent
	table["RETAIL"] = Benchmark{CurrentRatio: 9}
	again, _ := DefaultBenchmarks().Lookup("RETAIL")
	assert.Equal(t, 1.2, again.CurrentRatio)
}

func TestLoadBenchmarks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmarks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
retail:
  current_ratio: 1.4
  quick_ratio: 0.6
  debt_equity: 0.7
  profit_margin: 6
textiles:
  current_ratio: 1.25
  debt_equity: 1.1
  profit_margin: 7.5
  receivable_days: 60
`), 0o600))

	table, err := LoadBenchmarks(path)
	require.NoError(t, err)

	retail, _ := table.Lookup("RETAIL")
	assert.Equal(t, 1.4, retail.CurrentRatio)
	textiles, code := table.Lookup("textiles")
	assert.Equal(t, "TEXTILES", code)
	assert.Equal(t, 60, textiles.ReceivableDays)
	fintech, _ := table.Lookup("FINTECH")
	assert.Equal(t, 2.5, fintech.CurrentRatio)
	assert.Contains(t, table.Industries(), "TEXTILES")
}

func TestLoadBenchmarks_Errors(t *testing.T) {
	table, err := LoadBenchmarks("")
	require.NoError(t, err)
	assert.Len(t, table, 14)

	_, err = LoadBenchmarks(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("retail:\n  current_ratio: 0\n"), 0o600))
	_, err = LoadBenchmarks(bad)
	assert.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.yaml")
	require.NoError(t, os.WriteFile(garbage, []byte("retail: [1, 2"), 0o600))
	_, err = LoadBenchmarks(garbage)
	assert.Error(t, err)
}
