package bookkeeping

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Dan9191/cashflow-service/internal/models"
)

const (
	heuristicConfidence  = 0.5
	heuristicExplanation = "Categorized via heuristic fallback"
)

type rule struct {
	keywords    []string
	category    string
	subCategory string
	deductible  bool
}

// rules are checked in order; the first keyword hit wins.
var rules = []rule{
	{[]string{"salary", "wage", "payroll"}, "Salary", "Employee Wages", true},
	{[]string{"rent", "lease"}, "Rent", "Office Rent", true},
	{[]string{"electricity", "power", "water", "utility"}, "Utilities", "General Utilities", true},
	{[]string{"gst", "tax", "tds"}, "Taxes", "Tax Payment", false},
}

// Categorize assigns a category to each transaction from keywords in its description.
func Categorize(txs []models.CategorizeTransaction) []models.CategorizationResult {
	out := make([]models.CategorizationResult, 0, len(txs))
	for _, tx := range txs {
		out = append(out, categorizeOne(tx))
	}
	return out
}

func categorizeOne(tx models.CategorizeTransaction) models.CategorizationResult {
	res := models.CategorizationResult{
		ID:              tx.ID,
		Category:        "Expenses",
		SubCategory:     "Other Expenses",
		IsTaxDeductible: true,
		Confidence:      heuristicConfidence,
		Explanation:     heuristicExplanation,
	}

	desc := strings.ToLower(tx.Description)
	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(desc, k) {
				res.Category, res.SubCategory, res.IsTaxDeductible = r.category, r.subCategory, r.deductible
				return res
			}
		}
	}
	if strings.EqualFold(tx.Type, "CREDIT") {
		res.Category, res.SubCategory, res.IsTaxDeductible = "Income", "Sales/Revenue", false
	}
	return res
}

// CategorizeTask is the system instruction for model-based categorization.
func CategorizeTask(industry string) string {
	return fmt.Sprintf(`You are an expert financial auditor and tax consultant specializing in SME bookkeeping.
Your task is to accurately categorize business transactions.
Ground your decisions in the provided industry context: %s.
Always identify potential tax-deductible business expenses.
Return strictly JSON.`, industry)
}

// CategorizePrompt lists the transactions and the expected answer shape.
func CategorizePrompt(industry string, txs []models.CategorizeTransaction) (string, error) {
	type line struct {
		ID     int64   `json:"id"`
		Desc   string  `json:"desc"`
		Amount float64 `json:"amount"`
		Type   string  `json:"type"`
		Party  string  `json:"party,omitempty"`
	}
	lines := make([]line, 0, len(txs))
	for _, tx := range txs {
		lines = append(lines, line{tx.ID, tx.Description, tx.Amount, tx.Type, tx.PartyName})
	}
	raw, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode transactions: %w", err)
	}

	return fmt.Sprintf(`Categorize these business transactions for a company in the %s industry:
%s

For each transaction, provide:
1. Category (e.g., Salary, Utilities, Rent, Taxes, Bank Charges, Purchases, Sales, Marketing, etc.)
2. Sub-category (more specific)
3. Confidence score (0.0 to 1.0)
4. Is it typically tax deductible for this industry? (boolean)
5. Brief explanation

Return ONLY a JSON array of objects with fields: id, category, sub_category, confidence, is_tax_deductible, explanation.`,
		industry, raw), nil
}

var jsonArray = regexp.MustCompile(`(?s)\[.*\]`)

// ParseCategories extracts the JSON array of results from model output. Every input
// transaction must be answered exactly once.
func ParseCategories(text string, txs []models.CategorizeTransaction) ([]models.CategorizationResult, error) {
	match := jsonArray.FindString(text)
	if match == "" {
		return nil, fmt.Errorf("no JSON array in model output")
	}

	var results []models.CategorizationResult
	if err := json.Unmarshal([]byte(match), &results); err != nil {
		return nil, fmt.Errorf("failed to decode model output: %w", err)
	}

	want := make(map[int64]bool, len(txs))
	for _, tx := range txs {
		want[tx.ID] = true
	}
	for _, r := range results {
		if !want[r.ID] {
			return nil, fmt.Errorf("model output has unknown or repeated id %d", r.ID)
		}
		delete(want, r.ID)
		if r.Category == "" || r.Confidence < 0 || r.Confidence > 1 {
			return nil, fmt.Errorf("model output for id %d is incomplete", r.ID)
		}
	}
	if len(want) > 0 {
		return nil, fmt.Errorf("model output is missing %d transactions", len(want))
	}
	return results, nil
}
