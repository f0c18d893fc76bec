package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/Dan9191/cashflow-service/internal/export"
	"github.com/Dan9191/cashflow-service/internal/forecast"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Dan9191/cashflow-service/internal/repository"
	"github.com/Dan9191/cashflow-service/internal/scoring"
	"github.com/Dan9191/cashflow-service/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes caps request payloads
const maxBodyBytes = 1 << 20

type Handler struct {
	svc      *service.Service
	log      *logrus.Logger
	validate *validator.Validate
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{svc: svc, log: log, validate: v}
}

// Health reports dependency status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Health(r.Context()))
}

// Login exchanges client credentials for a JWT
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	token, err := h.svc.Login(r.Context(), req.ClientID, req.ClientSecret)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "token_type": "Bearer"})
}

// KeyRate returns the central bank reference rate
func (h *Handler) KeyRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.svc.KeyRate(r.Context())
	if err != nil {
		h.log.Errorf("Failed to get key rate: %v", err)
		writeError(w, http.StatusBadGateway, "key rate unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"key_rate": rate})
}

// Forecast handles daily cash flow forecasting
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	var req models.ForecastRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.svc.Forecast(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ExportForecast returns the forecast as an XLSX workbook
func (h *Handler) ExportForecast(w http.ResponseWriter, r *http.Request) {
	var req models.ForecastRequest
	if !h.decode(w, r, &req) {
		return
	}
	data, err := h.svc.ExportForecast(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeFile(w, export.ContentTypeXLSX, "forecast.xlsx", data)
}

// MonthlyProjection handles month-granularity projections
func (h *Handler) MonthlyProjection(w http.ResponseWriter, r *http.Request) {
	var req models.MonthlyProjectionRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.svc.ProjectMonthly(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreditAnalysis handles single-business credit scoring
func (h *Handler) CreditAnalysis(w http.ResponseWriter, r *http.Request) {
	var req models.CreditRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.svc.AnalyzeCredit(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreditReport returns the credit analysis as a PDF
func (h *Handler) CreditReport(w http.ResponseWriter, r *http.Request) {
	var req models.CreditRequest
	if !h.decode(w, r, &req) {
		return
	}
	data, err := h.svc.CreditReport(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeFile(w, export.ContentTypePDF, "credit-report.pdf", data)
}

// BatchCreditAnalysis handles batch credit scoring
func (h *Handler) BatchCreditAnalysis(w http.ResponseWriter, r *http.Request) {
	var req models.BatchCreditRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.svc.AnalyzeCreditBatch(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// RiskAssessment handles operational risk scoring
func (h *Handler) RiskAssessment(w http.ResponseWriter, r *http.Request) {
	var req models.RiskRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	req.CashFlowTrend = strings.ToLower(strings.TrimSpace(req.CashFlowTrend))
	if !h.check(w, &req) {
		return
	}
	resp, err := h.svc.AssessRisk(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SpendingAnalysis handles period-over-period spend comparison
func (h *Handler) SpendingAnalysis(w http.ResponseWriter, r *http.Request) {
	var req models.SpendingRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.svc.AnalyzeSpending(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CategorizeTransactions handles bookkeeping categorization
func (h *Handler) CategorizeTransactions(w http.ResponseWriter, r *http.Request) {
	var req models.CategorizeRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.svc.Categorize(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Feedback stores a rating on a generated analysis
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req models.Feedback
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.svc.SubmitFeedback(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ClearCache drops every cached response
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"cleared_entries": h.svc.ClearCache()})
}

// decode reads and validates a JSON body, writing a 400 on failure
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	return h.decodeJSON(w, r, dst) && h.check(w, dst)
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (h *Handler) check(w http.ResponseWriter, dst any) bool {
	err := h.validate.Struct(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "Type.field.sub"; callers only know the JSON path.
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		msg := fmt.Sprintf("%s failed %s", field, fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	writeError(w, http.StatusBadRequest, "validation failed: "+strings.Join(msgs, "; "))
	return false
}

// writeServiceError maps domain errors to HTTP status codes
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, forecast.ErrInvalidInput),
		errors.Is(err, scoring.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, forecast.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, repository.ErrDuplicate):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.Errorf("Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeFile(w http.ResponseWriter, contentType, name string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
