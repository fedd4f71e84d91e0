// Package output provides utilities for formatting and displaying simulation results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/care-forecast/internal/savings"
	"github.com/iwvelando/care-forecast/internal/simulation"
	"github.com/iwvelando/care-forecast/pkg/constants"
	"github.com/iwvelando/care-forecast/pkg/format"
	"github.com/iwvelando/care-forecast/pkg/optimization"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Row is one evaluated scenario as shown in tables.
type Row struct {
	Result   simulation.Result
	Capacity *simulation.Capacity
}

// PrettyFormat writes a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, rows []Row, suffix string) error {
	p := message.NewPrinter(language.English)
	if _, err := fmt.Fprintf(w, "--- Results for %d scenario(s) ---\n", len(rows)); err != nil {
		return err
	}
	fmt.Fprintf(w, "Increase | Diversion | Adverse rate | Avoided | Net balance | Capacity\n")
	fmt.Fprintf(w, "________ | _________ | ____________ | _______ | ___________ | ________\n")
	for _, row := range rows {
		r := row.Result
		_, err := p.Fprintf(w, "+%.1f pp | %s | %s %% | %d | %s | %s\n",
			r.AppliedIncrease,
			format.Percent(r.NewDiversionRate),
			r.NewAdverseRatePercent,
			r.AvoidedAdverseCount,
			format.SignedCurrency(float64(r.NetFinancialBalance), suffix),
			capacityNote(row.Capacity),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// CsvFormat writes rows in comma-separated value format.
func CsvFormat(w io.Writer, rows []Row) error {
	if _, err := fmt.Fprintf(w, `"increase","diversion rate","adverse rate","avoided","net balance","utilization","overloaded"`+"\n"); err != nil {
		return err
	}
	for _, row := range rows {
		r := row.Result
		utilization, overloaded := "", ""
		if row.Capacity != nil {
			utilization = fmt.Sprintf("%.1f", row.Capacity.Utilization)
			overloaded = fmt.Sprintf("%t", row.Capacity.Overloaded)
		}
		_, err := fmt.Fprintf(w, `"%.2f","%.4f","%.4f","%d","%d","%s","%s"`+"\n",
			r.AppliedIncrease, r.NewDiversionRate, r.NewAdverseRate,
			r.AvoidedAdverseCount, r.NetFinancialBalance, utilization, overloaded)
		if err != nil {
			return err
		}
	}
	return nil
}

// JSONFormat writes v as indented JSON.
func JSONFormat(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Rows writes rows in the requested output format.
func Rows(w io.Writer, outputFormat string, rows []Row, suffix string) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return CsvFormat(w, rows)
	case constants.OutputFormatJSON:
		return JSONFormat(w, rows)
	case constants.OutputFormatPretty, "":
		return PrettyFormat(w, rows, suffix)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyOptimization writes a summary of an optimizer run.
func PrettyOptimization(w io.Writer, s *optimization.Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Optimization between +%.1f pp and +%.1f pp ---\n", s.Min, s.Max)
	fmt.Fprintf(&b, "Best increase: %s\n", s.BestDisplay)
	fmt.Fprintf(&b, "Net balance: %s\n", s.BalanceDisplay)
	fmt.Fprintf(&b, "Avoided adverse outcomes: %d\n", s.BestAvoided)
	if s.BreakEven != nil {
		fmt.Fprintf(&b, "Break-even increase: +%.2f pp (%d iterations, converged: %t)\n",
			*s.BreakEven, s.Iterations, s.Converged)
	}
	for _, note := range s.Notes {
		fmt.Fprintf(&b, "Note: %s\n", note)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// PrettySavings writes a savings estimate.
func PrettySavings(w io.Writer, e savings.Estimate, suffix string) error {
	p := message.NewPrinter(language.English)
	_, err := p.Fprintf(w, "Efficiency gain: %.0f %%\nPatients moved to the optimal window: %d\nYearly savings: %s\n",
		e.AppliedEfficiency, e.PatientsMoved, format.Millions(e.SavedCost, suffix))
	return err
}

// CsvOptimization writes an optimizer summary as a single CSV row.
func CsvOptimization(w io.Writer, s *optimization.Summary) error {
	breakEven := ""
	if s.BreakEven != nil {
		breakEven = fmt.Sprintf("%.2f", *s.BreakEven)
	}
	_, err := fmt.Fprintf(w, `"min","max","best","best balance","avoided","break-even","converged"`+"\n"+
		`"%.2f","%.2f","%.2f","%d","%d","%s","%t"`+"\n",
		s.Min, s.Max, s.Best, s.BestBalance, s.BestAvoided, breakEven, s.Converged)
	return err
}

// Optimization writes an optimizer summary in the requested output format.
func Optimization(w io.Writer, outputFormat string, s *optimization.Summary) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return CsvOptimization(w, s)
	case constants.OutputFormatJSON:
		return JSONFormat(w, s)
	case constants.OutputFormatPretty, "":
		return PrettyOptimization(w, s)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// CsvSavings writes savings estimates in comma-separated value format.
func CsvSavings(w io.Writer, estimates []savings.Estimate) error {
	if _, err := fmt.Fprintf(w, `"efficiency","patients moved","saved cost"`+"\n"); err != nil {
		return err
	}
	for _, e := range estimates {
		if _, err := fmt.Fprintf(w, `"%.1f","%d","%.0f"`+"\n", e.AppliedEfficiency, e.PatientsMoved, e.SavedCost); err != nil {
			return err
		}
	}
	return nil
}

// Savings writes savings estimates in the requested output format. A single
// estimate is written as an object in JSON.
func Savings(w io.Writer, outputFormat string, estimates []savings.Estimate, suffix string) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return CsvSavings(w, estimates)
	case constants.OutputFormatJSON:
		if len(estimates) == 1 {
			return JSONFormat(w, estimates[0])
		}
		return JSONFormat(w, estimates)
	case constants.OutputFormatPretty, "":
		for i, e := range estimates {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if err := PrettySavings(w, e, suffix); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

func capacityNote(c *simulation.Capacity) string {
	if c == nil {
		return "-"
	}
	note := fmt.Sprintf("%.0f %%", c.Utilization)
	if c.Overloaded {
		note += " (overloaded)"
	}
	return note
}
