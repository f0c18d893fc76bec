package models

import "strings"

// FlowType is the direction of a historical cash movement.
type FlowType string

const (
	FlowInflow  FlowType = "inflow"
	FlowOutflow FlowType = "outflow"
)

// ParseFlowType maps wire values (inflow/outflow, CREDIT/DEBIT) to a FlowType.
func ParseFlowType(s string) (FlowType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inflow", "credit":
		return FlowInflow, true
	case "outflow", "debit":
		return FlowOutflow, true
	}
	return "", false
}

// ObligationType is the kind of a scheduled commitment.
type ObligationType string

const (
	ObligationReceivable ObligationType = "receivable"
	ObligationPayable    ObligationType = "payable"
)

// ParseObligationType maps wire values (receivable/payable, AR/AP) to an ObligationType.
func ParseObligationType(s string) (ObligationType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "receivable", "ar":
		return ObligationReceivable, true
	case "payable", "ap":
		return ObligationPayable, true
	}
	return "", false
}

// HistoryPoint represents one historical transaction
type HistoryPoint struct {
	Date   Date    `json:"date"`
	Amount float64 `json:"amount" validate:"gte=0"`
	Type   string  `json:"type" validate:"required"`
}

// Commitment represents a known future receivable or payable
type Commitment struct {
	DueDate Date    `json:"dueDate"`
	Amount  float64 `json:"amount" validate:"gte=0"`
	Type    string  `json:"type" validate:"required"`
}

// PredictionPoint is one forecast day
type PredictionPoint struct {
	Date       Date    `json:"date"`
	Revenue    float64 `json:"revenue"`
	Expense    float64 `json:"expense"`
	Confidence float64 `json:"confidence"`
	LowerBound float64 `json:"lowerBound"`
	UpperBound float64 `json:"upperBound"`
}

// FeatureWeight is one explainability driver.
type FeatureWeight struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// Explainability summarises what drove a forecast.
type Explainability struct {
	Summary string          `json:"summary"`
	Drivers []FeatureWeight `json:"drivers"`
}

// ForecastRequest is the payload of the daily forecast endpoint
type ForecastRequest struct {
	BusinessID  string         `json:"businessId"`
	History     []HistoryPoint `json:"history" validate:"dive"`
	Commitments []Commitment   `json:"commitments" validate:"dive"`
	Horizon     int            `json:"horizon" validate:"gte=0,lte=366"`
	Strategy    string         `json:"strategy" validate:"omitempty,oneof=trend regression"`
	Language    string         `json:"language"`
}

// ForecastResponse is the result of the daily forecast endpoint
type ForecastResponse struct {
	RequestID      string            `json:"requestId"`
	Strategy       string            `json:"strategy"`
	FellBack       bool              `json:"fellBack"`
	Predictions    []PredictionPoint `json:"predictions"`
	Explainability Explainability    `json:"explainability"`
}
