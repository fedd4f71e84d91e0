package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/care-forecast/internal/savings"
	"github.com/iwvelando/care-forecast/internal/simulation"
	"github.com/iwvelando/care-forecast/pkg/constants"
	"github.com/iwvelando/care-forecast/pkg/optimization"
	"github.com/iwvelando/care-forecast/pkg/testutil"
)

func sampleRows(t *testing.T) []Row {
	t.Helper()
	sim, err := simulation.NewSimulator(simulation.DefaultBaseline(), simulation.DefaultModel())
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}
	points, err := sim.Sweep(simulation.Range{Min: 0, Max: 20, Step: 10})
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	rows := make([]Row, 0, len(points))
	for _, p := range points {
		capacity := sim.Capacity(p.Increase, simulation.DefaultCapacity())
		rows = append(rows, Row{Result: p.Result, Capacity: &capacity})
	}
	return rows
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, sampleRows(t), "Kč"); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"--- Results for 3 scenario(s) ---",
		"Increase | Diversion | Adverse rate | Avoided | Net balance | Capacity",
		"+0.0 pp | 15.0 % | 12.0 % | 0 | 0 Kč | 85 %",
		"+10.0 pp | 25.0 % | 7.0 % | 50 | -250,000 Kč | 95 %",
		"+20.0 pp | 35.0 % | 2.0 % | 100 | -500,000 Kč | 105 % (overloaded)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q:\n%s", want, output)
		}
	}
}

func TestPrettyFormatEmptyRows(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, nil, "Kč"); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	if !strings.Contains(buf.String(), "0 scenario(s)") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestCsvFormat(t *testing.T) {
	rows := sampleRows(t)
	rows = append(rows, Row{Result: rows[0].Result})

	var buf bytes.Buffer
	if err := CsvFormat(&buf, rows); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if lines[0] != `"increase","diversion rate","adverse rate","avoided","net balance","utilization","overloaded"` {
		t.Errorf("unexpected header %s", lines[0])
	}
	if lines[2] != `"10.00","0.2500","0.0700","50","-250000","95.0","false"` {
		t.Errorf("unexpected row %s", lines[2])
	}
	if lines[4] != `"0.00","0.1500","0.1200","0","0","",""` {
		t.Errorf("unexpected row without capacity %s", lines[4])
	}
}

func TestRows(t *testing.T) {
	rows := sampleRows(t)

	for _, f := range []string{"", constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON} {
		var buf bytes.Buffer
		if err := Rows(&buf, f, rows, "Kč"); err != nil {
			t.Errorf("Rows(%q) error = %v", f, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Rows(%q) wrote nothing", f)
		}
	}

	var buf bytes.Buffer
	if err := Rows(&buf, "xml", rows, "Kč"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, sampleRows(t)); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded []struct {
		Result   simulation.Result    `json:"Result"`
		Capacity *simulation.Capacity `json:"Capacity"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode JSON output: %v", err)
	}
	if len(decoded) != 3 || decoded[1].Result.AvoidedAdverseCount != 50 {
		t.Errorf("unexpected decoded rows %+v", decoded)
	}
	point := testutil.FindIncrease(sampleResults(decoded), 20)
	if point == nil || point.NetFinancialBalance != -500000 {
		t.Errorf("expected +20 pp result, got %+v", point)
	}
}

func sampleResults(rows []struct {
	Result   simulation.Result    `json:"Result"`
	Capacity *simulation.Capacity `json:"Capacity"`
}) []simulation.Result {
	results := make([]simulation.Result, 0, len(rows))
	for _, r := range rows {
		results = append(results, r.Result)
	}
	return results
}

func TestPrettyOptimization(t *testing.T) {
	breakEven := 24.0
	summary := &optimization.Summary{
		Min:            0,
		Max:            40,
		Best:           20,
		BestBalance:    1000000,
		BestAvoided:    100,
		BreakEven:      &breakEven,
		Iterations:     10,
		Converged:      true,
		Notes:          []string{"sample note"},
		BestDisplay:    "+20.00 pp",
		BalanceDisplay: "+1,000,000 Kč",
	}

	var buf bytes.Buffer
	if err := PrettyOptimization(&buf, summary); err != nil {
		t.Fatalf("PrettyOptimization() error = %v", err)
	}
	output := buf.String()
	for _, want := range []string{
		"--- Optimization between +0.0 pp and +40.0 pp ---",
		"Best increase: +20.00 pp",
		"Net balance: +1,000,000 Kč",
		"Avoided adverse outcomes: 100",
		"Break-even increase: +24.00 pp (10 iterations, converged: true)",
		"Note: sample note",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyOptimization output missing %q:\n%s", want, output)
		}
	}
}

func TestPrettySavings(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettySavings(&buf, savings.Default().Compute(10), "Kč"); err != nil {
		t.Fatalf("PrettySavings() error = %v", err)
	}
	output := buf.String()
	for _, want := range []string{
		"Efficiency gain: 10 %",
		"Patients moved to the optimal window: 45",
		"Yearly savings: 1.8 mil. Kč",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("PrettySavings output missing %q:\n%s", want, output)
		}
	}
}

func TestOptimizationFormats(t *testing.T) {
	breakEven := 12.5
	summary := &optimization.Summary{Min: 0, Max: 40, Best: 10, BestBalance: 500000, BestAvoided: 50, BreakEven: &breakEven, Converged: true}

	var buf bytes.Buffer
	if err := Optimization(&buf, constants.OutputFormatCSV, summary); err != nil {
		t.Fatalf("Optimization(csv) error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || lines[1] != `"0.00","40.00","10.00","500000","50","12.50","true"` {
		t.Errorf("unexpected csv %q", buf.String())
	}

	buf.Reset()
	if err := Optimization(&buf, constants.OutputFormatJSON, summary); err != nil {
		t.Fatalf("Optimization(json) error = %v", err)
	}
	var decoded optimization.Summary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil || decoded.BestBalance != 500000 {
		t.Errorf("unexpected json %q (%v)", buf.String(), err)
	}

	if err := Optimization(&buf, "xml", summary); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSavingsFormats(t *testing.T) {
	calc := savings.Default()
	estimates := []savings.Estimate{calc.Compute(0), calc.Compute(10)}

	var buf bytes.Buffer
	if err := Savings(&buf, constants.OutputFormatCSV, estimates, "Kč"); err != nil {
		t.Fatalf("Savings(csv) error = %v", err)
	}
	expected := "\"efficiency\",\"patients moved\",\"saved cost\"\n\"0.0\",\"0\",\"0\"\n\"10.0\",\"45\",\"1800000\"\n"
	if buf.String() != expected {
		t.Errorf("csv = %q, expected %q", buf.String(), expected)
	}

	buf.Reset()
	if err := Savings(&buf, constants.OutputFormatJSON, estimates[1:], "Kč"); err != nil {
		t.Fatalf("Savings(json) error = %v", err)
	}
	var single savings.Estimate
	if err := json.Unmarshal(buf.Bytes(), &single); err != nil || single.PatientsMoved != 45 {
		t.Errorf("single estimate should encode as an object, got %q (%v)", buf.String(), err)
	}

	buf.Reset()
	if err := Savings(&buf, constants.OutputFormatPretty, estimates, "Kč"); err != nil {
		t.Fatalf("Savings(pretty) error = %v", err)
	}
	if strings.Count(buf.String(), "Efficiency gain:") != 2 {
		t.Errorf("expected two estimates in %q", buf.String())
	}
}
