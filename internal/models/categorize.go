package models

import "time"

// CategorizeTransaction is one bookkeeping line to categorize
type CategorizeTransaction struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type" validate:"required"` // CREDIT/DEBIT
	PartyName   string  `json:"party_name,omitempty"`
}

// CategorizeRequest represents a batch categorization request
type CategorizeRequest struct {
	BatchID      string                  `json:"batch_id,omitempty"`
	Transactions []CategorizeTransaction `json:"transactions" validate:"required,dive"`
	Industry     string                  `json:"industry"`
	BusinessName string                  `json:"business_name"`
	Language     string                  `json:"language"`
}

// CategorizationResult is the category assigned to one transaction
type CategorizationResult struct {
	ID              int64   `json:"id"`
	Category        string  `json:"category"`
	SubCategory     string  `json:"sub_category"`
	Confidence      float64 `json:"confidence"`
	IsTaxDeductible bool    `json:"is_tax_deductible"`
	Explanation     string  `json:"explanation,omitempty"`
}

// CategorizeResponse represents a batch categorization response
type CategorizeResponse struct {
	BatchID           string                 `json:"batch_id,omitempty"`
	Categories        []CategorizationResult `json:"categories"`
	AnalysisTimestamp time.Time              `json:"analysis_timestamp"`
}
