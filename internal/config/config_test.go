package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/care-forecast/internal/simulation"
	"github.com/iwvelando/care-forecast/pkg/constants"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Example config",
			configPath: filepath.Join("..", "..", constants.ExampleConfigFile),
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := []byte(`baseline:
  totalCohortSize: 2000
  baseAdverseRate: 0.18
model:
  reductionCoefficient: 0.004
slider:
  max: 30
logging:
  level: debug
  format: console
output:
  format: csv
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Baseline.TotalCohortSize != 2000 {
		t.Errorf("TotalCohortSize = %d, expected 2000", conf.Baseline.TotalCohortSize)
	}
	if conf.Baseline.BaseAdverseRate != 0.18 {
		t.Errorf("BaseAdverseRate = %v, expected 0.18", conf.Baseline.BaseAdverseRate)
	}
	if conf.Baseline.BaseDiversionRate != 0.15 {
		t.Errorf("BaseDiversionRate = %v, expected default 0.15", conf.Baseline.BaseDiversionRate)
	}
	if conf.Model.ReductionCoefficient != 0.004 {
		t.Errorf("ReductionCoefficient = %v, expected 0.004", conf.Model.ReductionCoefficient)
	}
	if conf.Model.MinAdverseRate != simulation.DefaultMinAdverseRate {
		t.Errorf("MinAdverseRate = %v, expected default", conf.Model.MinAdverseRate)
	}
	if conf.Slider.Max != 30 || conf.Slider.Step != constants.DefaultSliderStep {
		t.Errorf("unexpected slider %+v", conf.Slider)
	}
	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("unexpected logging %+v", conf.Logging)
	}
	if conf.Output.Format != constants.OutputFormatCSV {
		t.Errorf("Output.Format = %s, expected csv", conf.Output.Format)
	}
	if conf.Output.CurrencySuffix != constants.DefaultCurrencySuffix {
		t.Errorf("CurrencySuffix = %s, expected default", conf.Output.CurrencySuffix)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader("baseline:\n  unitCostAdverse: 60000\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.Baseline.UnitCostAdverse != 60000 {
		t.Errorf("UnitCostAdverse = %v, expected 60000", conf.Baseline.UnitCostAdverse)
	}

	if _, err := LoadConfigurationFromReader(strings.NewReader("baseline: [unclosed")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("CARE_FORECAST_BASELINE_UNITCOSTDIVERSION", "20000")

	conf, err := LoadConfigurationFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.Baseline.UnitCostDiversion != 20000 {
		t.Errorf("UnitCostDiversion = %v, expected env override 20000", conf.Baseline.UnitCostDiversion)
	}
}

func TestDefault(t *testing.T) {
	conf := Default()

	if conf.Baseline != simulation.DefaultBaseline() {
		t.Errorf("Baseline = %+v, expected defaults", conf.Baseline)
	}
	if conf.Model != simulation.DefaultModel() {
		t.Errorf("Model = %+v, expected defaults", conf.Model)
	}
	if conf.Slider != simulation.DefaultRange() {
		t.Errorf("Slider = %+v, expected defaults", conf.Slider)
	}
	if err := conf.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	sim, err := conf.NewSimulator()
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}
	if got := sim.ComputeImpact(10).AvoidedAdverseCount; got != 50 {
		t.Errorf("AvoidedAdverseCount = %d, expected 50", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Configuration)
		errPart string
	}{
		{"Bad baseline", func(c *Configuration) { c.Baseline.TotalCohortSize = 0 }, "baseline"},
		{"Bad model", func(c *Configuration) { c.Model.MinAdverseRate = -1 }, "model"},
		{"Bad slider", func(c *Configuration) { c.Slider.Step = 0 }, "slider"},
		{"Bad savings", func(c *Configuration) { c.Savings.MaxEfficiency = 0 }, "savings"},
		{"Bad output", func(c *Configuration) { c.Output.Format = "xml" }, "output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Default()
			tt.modify(conf)
			err := conf.Validate()
			if err == nil {
				t.Fatal("expected error but got nil")
			}
			if !strings.HasPrefix(err.Error(), tt.errPart) {
				t.Errorf("error %q does not start with %q", err.Error(), tt.errPart)
			}
		})
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	warnings := Default().ValidateConfiguration()
	if len(warnings) == 0 {
		t.Fatal("expected warnings for default configuration")
	}

	found := false
	for _, w := range warnings {
		if strings.Contains(w, "reaches the floor") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected floor saturation warning, got %v", warnings)
	}
}
