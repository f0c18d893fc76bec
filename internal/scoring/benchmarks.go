package scoring

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FallbackIndustry is used for industry codes missing from the table.
const FallbackIndustry = "OTHER"

// Benchmark is the reference profile of one industry. ProfitMargin, ROE and ROA are percents.
type Benchmark struct {
	CurrentRatio      float64 `yaml:"current_ratio" json:"current_ratio"`
	QuickRatio        float64 `yaml:"quick_ratio" json:"quick_ratio"`
	DebtEquity        float64 `yaml:"debt_equity" json:"debt_equity"`
	ProfitMargin      float64 `yaml:"profit_margin" json:"profit_margin"`
	ReceivableDays    int     `yaml:"receivable_days" json:"receivable_days"`
	PayableDays       int     `yaml:"payable_days" json:"payable_days"`
	InventoryTurnover float64 `yaml:"inventory_turnover" json:"inventory_turnover"`
	ROE               float64 `yaml:"roe" json:"roe"`
	ROA               float64 `yaml:"roa" json:"roa"`
}

// Benchmarks maps an upper-case industry code to its profile. A loaded table is read-only.
type Benchmarks map[string]Benchmark

var defaultBenchmarks = Benchmarks{
	"MANUFACTURING": {CurrentRatio: 1.5, QuickRatio: 1.0, DebtEquity: 1.0, ProfitMargin: 8.0, ReceivableDays: 45, PayableDays: 60, InventoryTurnover: 6, ROE: 12.0, ROA: 7.0},
	"RETAIL":        {CurrentRatio: 1.2, QuickRatio: 0.5, DebtEquity: 0.8, ProfitMargin: 5.0, ReceivableDays: 30, PayableDays: 45, InventoryTurnover: 12, ROE: 15.0, ROA: 8.0},
	"SERVICES":      {CurrentRatio: 1.8, QuickRatio: 1.5, DebtEquity: 0.5, ProfitMargin: 15.0, ReceivableDays: 60, PayableDays: 30, InventoryTurnover: 0, ROE: 18.0, ROA: 12.0},
	"IT_TECHNOLOGY": {CurrentRatio: 2.0, QuickRatio: 1.8, DebtEquity: 0.3, ProfitMargin: 20.0, ReceivableDays: 45, PayableDays: 30, InventoryTurnover: 0, ROE: 25.0, ROA: 15.0},
	"HEALTHCARE":    {CurrentRatio: 1.4, QuickRatio: 1.2, DebtEquity: 0.7, ProfitMargin: 12.0, ReceivableDays: 40, PayableDays: 35, InventoryTurnover: 8, ROE: 16.0, ROA: 10.0},
	"ECOMMERCE":     {CurrentRatio: 1.3, QuickRatio: 0.8, DebtEquity: 1.2, ProfitMargin: 3.0, ReceivableDays: 15, PayableDays: 45, InventoryTurnover: 15, ROE: 10.0, ROA: 5.0},
	"AGRICULTURE":   {CurrentRatio: 1.1, QuickRatio: 0.6, DebtEquity: 0.6, ProfitMargin: 10.0, ReceivableDays: 90, PayableDays: 60, InventoryTurnover: 4, ROE: 12.0, ROA: 8.0},
	"CONSTRUCTION":  {CurrentRatio: 1.2, QuickRatio: 0.7, DebtEquity: 1.5, ProfitMargin: 6.0, ReceivableDays: 75, PayableDays: 90, InventoryTurnover: 3, ROE: 14.0, ROA: 6.0},
	"LOGISTICS":     {CurrentRatio: 1.3, QuickRatio: 1.0, DebtEquity: 0.9, ProfitMargin: 7.0, ReceivableDays: 35, PayableDays: 40, InventoryTurnover: 20, ROE: 13.0, ROA: 8.0},
	"HOSPITALITY":   {CurrentRatio: 1.0, QuickRatio: 0.8, DebtEquity: 1.1, ProfitMargin: 8.0, ReceivableDays: 20, PayableDays: 30, InventoryTurnover: 25, ROE: 15.0, ROA: 7.0},
	"EDUCATION":     {CurrentRatio: 1.6, QuickRatio: 1.4, DebtEquity: 0.4, ProfitMargin: 18.0, ReceivableDays: 30, PayableDays: 25, InventoryTurnover: 0, ROE: 20.0, ROA: 14.0},
	"FINTECH":       {CurrentRatio: 2.5, QuickRatio: 2.3, DebtEquity: 0.2, ProfitMargin: 25.0, ReceivableDays: 30, PayableDays: 20, InventoryTurnover: 0, ROE: 30.0, ROA: 18.0},
	"FOOD_BEVERAGE": {CurrentRatio: 1.4, QuickRatio: 0.9, DebtEquity: 0.8, ProfitMargin: 10.0, ReceivableDays: 35, PayableDays: 45, InventoryTurnover: 10, ROE: 16.0, ROA: 9.0},
	"OTHER":         {CurrentRatio: 1.3, QuickRatio: 1.0, DebtEquity: 0.8, ProfitMargin: 10.0, ReceivableDays: 45, PayableDays: 45, InventoryTurnover: 8, ROE: 15.0, ROA: 9.0},
}

// DefaultBenchmarks returns a copy of the built-in industry table.
func DefaultBenchmarks() Benchmarks {
	out := make(Benchmarks, len(defaultBenchmarks))
	for k, v := range defaultBenchmarks {
		out[k] = v
	}
	return out
}

// LoadBenchmarks reads a YAML file of industry profiles and lays it over the built-in table.
// An empty path returns the defaults.
func LoadBenchmarks(path string) (Benchmarks, error) {
	table := DefaultBenchmarks()
	if path == "" {
		return table, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read benchmarks file: %w", err)
	}
	var override map[string]Benchmark
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return nil, fmt.Errorf("failed to parse benchmarks file %s: %w", path, err)
	}
	for code, b := range override {
		if b.CurrentRatio <= 0 || b.DebtEquity < 0 {
			return nil, fmt.Errorf("benchmark %s: current_ratio must be positive and debt_equity non-negative", code)
		}
		table[normalizeIndustry(code)] = b
	}
	return table, nil
}

// Lookup returns the profile for industry and the code it resolved to, falling back to OTHER.
func (b Benchmarks) Lookup(industry string) (Benchmark, string) {
	code := normalizeIndustry(industry)
	if p, ok := b[code]; ok {
		return p, code
	}
	if p, ok := b[FallbackIndustry]; ok {
		return p, FallbackIndustry
	}
	return defaultBenchmarks[FallbackIndustry], FallbackIndustry
}

// Industries lists the table's codes in alphabetical order.
func (b Benchmarks) Industries() []string {
	codes := make([]string, 0, len(b))
	for k := range b {
		codes = append(codes, k)
	}
	sort.Strings(codes)
	return codes
}

func normalizeIndustry(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
