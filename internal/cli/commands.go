package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Dan9191/cashflow-service/internal/export"
	"github.com/Dan9191/cashflow-service/internal/forecast"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Dan9191/cashflow-service/internal/scoring"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const defaultHorizon = 30

func newForecastCmd() *cobra.Command {
	var (
		horizon  int
		strategy string
		xlsxPath string
	)
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project daily revenue and expense from a forecast payload",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req models.ForecastRequest
			if err := readPayload(cmd, &req); err != nil {
				return err
			}
			if horizon > 0 {
				req.Horizon = horizon
			}
			if req.Horizon == 0 {
				req.Horizon = defaultHorizon
			}
			if strategy != "" {
				req.Strategy = strategy
			}

			kind, err := forecast.ParseStrategy(req.Strategy, len(req.History))
			if err != nil {
				return err
			}
			res, err := forecast.NewEngine(forecast.DefaultParams(), nil).Forecast(req.History, req.Commitments, req.Horizon, kind)
			if err != nil {
				return err
			}
			resp := &models.ForecastResponse{
				RequestID:      uuid.NewString(),
				Strategy:       string(res.Strategy),
				FellBack:       res.FellBack,
				Predictions:    res.Predictions,
				Explainability: res.Explainability,
			}

			if xlsxPath != "" {
				data, err := export.ForecastXLSX(&req, resp)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", xlsxPath, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d predictions to %s\n", len(resp.Predictions), xlsxPath)
				return nil
			}
			return printJSON(cmd, resp)
		},
	}
	cmd.Flags().IntVarP(&horizon, "horizon", "H", 0, "Days to forecast (overrides the payload)")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "trend or regression (overrides the payload)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write an XLSX workbook instead of JSON")
	return cmd
}

func newMonthlyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monthly",
		Short: "Project monthly revenue, expense and net profit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req models.MonthlyProjectionRequest
			if err := readPayload(cmd, &req); err != nil {
				return err
			}
			months := req.ForecastMonths
			if months == 0 {
				months = 3
			}
			p, err := forecast.ProjectMonthly(req.HistoricalRevenue, req.HistoricalExpenses, months)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
}

func newCreditCmd() *cobra.Command {
	var (
		benchmarksPath string
		keyRate        float64
		margin         float64
		pdfPath        string
	)
	cmd := &cobra.Command{
		Use:   "credit",
		Short: "Score a business's credit profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req models.CreditRequest
			if err := readPayload(cmd, &req); err != nil {
				return err
			}
			table, err := scoring.LoadBenchmarks(benchmarksPath)
			if err != nil {
				return err
			}
			bundle, err := scoring.NewEngine(table).ScoreCredit(scoring.CreditInputFrom(req))
			if err != nil {
				return err
			}

			a := &models.CreditAnalysis{ScoreBundle: *bundle, AnalysisTimestamp: time.Now()}
			if keyRate > 0 {
				r := scoring.IndicativeRate(keyRate, margin, bundle.CreditStatus)
				a.IndicativeRate = &r
			}

			if pdfPath != "" {
				data, err := export.CreditPDF(&req, a)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pdfPath, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", pdfPath, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote credit report to %s\n", pdfPath)
				return nil
			}
			return printJSON(cmd, a)
		},
	}
	cmd.Flags().StringVar(&benchmarksPath, "benchmarks", "", "YAML benchmark override file")
	cmd.Flags().Float64Var(&keyRate, "key-rate", 0, "Reference key rate in percent; enables indicative pricing")
	cmd.Flags().Float64Var(&margin, "margin", 5, "Bank margin in percent")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Write a PDF report instead of JSON")
	return cmd
}

func newRiskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "risk",
		Short: "Assess operational risk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req models.RiskRequest
			if err := readPayload(cmd, &req); err != nil {
				return err
			}
			bundle, err := scoring.ScoreRisk(scoring.RiskInputFrom(req))
			if err != nil {
				return err
			}
			bundle.AnalysisTimestamp = time.Now()
			return printJSON(cmd, bundle)
		},
	}
}

func newBenchmarksCmd() *cobra.Command {
	var benchmarksPath string
	cmd := &cobra.Command{
		Use:   "benchmarks",
		Short: "List industry benchmark profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := scoring.LoadBenchmarks(benchmarksPath)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, strings.Join([]string{"INDUSTRY", "CURRENT", "QUICK", "D/E", "MARGIN%", "AR DAYS", "AP DAYS"}, "\t"))
			for _, code := range table.Industries() {
				b := table[code]
				fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.1f\t%.1f\t%d\t%d\n",
					code, b.CurrentRatio, b.QuickRatio, b.DebtEquity, b.ProfitMargin, b.ReceivableDays, b.PayableDays)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&benchmarksPath, "benchmarks", "", "YAML benchmark override file")
	return cmd
}
