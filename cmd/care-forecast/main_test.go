package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/iwvelando/care-forecast/internal/config"
	"github.com/iwvelando/care-forecast/internal/patients"
	"github.com/iwvelando/care-forecast/internal/server"
	"github.com/iwvelando/care-forecast/pkg/constants"
	"go.uber.org/zap"
)

var exampleConfig = filepath.Join("..", "..", constants.ExampleConfigFile)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	c := &cli{out: &buf}
	root := newRootCommand(c)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	root.SetOut(&buf)
	err := root.Execute()
	return buf.String(), err
}

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    config.LoggingConfig
		override  string
		wantError bool
	}{
		{name: "Defaults", config: config.LoggingConfig{}},
		{name: "Console debug", config: config.LoggingConfig{Level: "debug", Format: "console"}},
		{name: "Override wins", config: config.LoggingConfig{Level: "bogus"}, override: "warn"},
		{name: "Invalid level", config: config.LoggingConfig{Level: "verbose"}, wantError: true},
		{name: "Invalid format", config: config.LoggingConfig{Format: "xml"}, wantError: true},
		{name: "Output file", config: config.LoggingConfig{OutputFile: filepath.Join(t.TempDir(), "logs", "care.log")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.config, tt.override)
			if tt.wantError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("initializeLogger() error = %v", err)
			}
			if logger == nil {
				t.Fatal("initializeLogger() returned nil logger")
			}
		})
	}
}

func TestLoadConfigurationFallback(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.yaml")

	conf, err := loadConfiguration(missing, false)
	if err != nil {
		t.Fatalf("loadConfiguration() error = %v", err)
	}
	if conf.Baseline.TotalCohortSize != 1000 {
		t.Errorf("TotalCohortSize = %d, expected default 1000", conf.Baseline.TotalCohortSize)
	}

	if _, err := loadConfiguration(missing, true); err == nil {
		t.Error("expected error for an explicitly requested missing file")
	}
}

func TestSimulateCommand(t *testing.T) {
	out, err := runCommand(t, "--config", exampleConfig, "--output-format", "csv", "simulate", "--increase", "10")
	if err != nil {
		t.Fatalf("simulate error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", out)
	}
	want := `"10.00","0.2500","0.0700","50","-250000","95.0","false"`
	if lines[1] != want {
		t.Errorf("row = %s, expected %s", lines[1], want)
	}
}

func TestSimulatePretty(t *testing.T) {
	out, err := runCommand(t, "--config", exampleConfig, "simulate", "--increase", "10")
	if err != nil {
		t.Fatalf("simulate error = %v", err)
	}
	if !strings.Contains(out, "--- Results for 1 scenario(s) ---") {
		t.Errorf("missing header in %q", out)
	}
	if !strings.Contains(out, "-250,000 Kč") {
		t.Errorf("missing balance in %q", out)
	}
}

func TestSweepCommand(t *testing.T) {
	out, err := runCommand(t, "--config", exampleConfig, "--output-format", "csv", "sweep", "--max", "20")
	if err != nil {
		t.Fatalf("sweep error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header plus 0, 5, 10, 15, 20
	if len(lines) != 6 {
		t.Errorf("expected 6 lines, got %d: %q", len(lines), out)
	}

	if _, err := runCommand(t, "--config", exampleConfig, "sweep", "--step", "0"); err == nil {
		t.Error("expected error for zero step")
	}
}

func TestSavingsCommand(t *testing.T) {
	out, err := runCommand(t, "--config", exampleConfig, "savings", "--efficiency", "20")
	if err != nil {
		t.Fatalf("savings error = %v", err)
	}
	if !strings.Contains(out, "Patients moved to the optimal window: 90") {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(out, "3.6 mil. Kč") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestOptimizeCommand(t *testing.T) {
	out, err := runCommand(t, "--config", exampleConfig, "optimize")
	if err != nil {
		t.Fatalf("optimize error = %v", err)
	}
	if !strings.Contains(out, "Best increase:") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestInvalidOutputFormat(t *testing.T) {
	if _, err := runCommand(t, "--config", exampleConfig, "--output-format", "xml", "simulate"); err == nil {
		t.Error("expected error for unsupported output format")
	}
}

func TestApplyServeFlags(t *testing.T) {
	conf := server.DefaultConfig()
	if err := applyServeFlags(conf, ":9090", "90"); err != nil {
		t.Fatalf("applyServeFlags() error = %v", err)
	}
	if conf.Address != ":9090" {
		t.Errorf("Address = %s, expected :9090", conf.Address)
	}
	if got := conf.SuggestCacheTTLDuration(); got != 90*time.Second {
		t.Errorf("SuggestCacheTTLDuration() = %v, expected 90s", got)
	}

	untouched := server.DefaultConfig()
	if err := applyServeFlags(untouched, "", ""); err != nil {
		t.Fatalf("applyServeFlags() error = %v", err)
	}
	if untouched.SuggestCacheTTLDuration() != 5*time.Minute {
		t.Errorf("unexpected TTL %v", untouched.SuggestCacheTTLDuration())
	}

	if err := applyServeFlags(server.DefaultConfig(), "", "soon"); err == nil {
		t.Error("expected error for malformed cache TTL")
	}
}

func TestNewSuggestCache(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	cache, release, err := newSuggestCache(ctx, zap.NewNop(), "")
	if err != nil {
		t.Fatalf("newSuggestCache() error = %v", err)
	}
	release()
	if _, ok := cache.(*patients.MemoryCache); !ok {
		t.Errorf("expected memory cache without a Redis URL, got %T", cache)
	}

	cache, release, err = newSuggestCache(ctx, zap.NewNop(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("newSuggestCache() error = %v", err)
	}
	defer release()
	if _, ok := cache.(*patients.RedisCache); !ok {
		t.Errorf("expected Redis cache, got %T", cache)
	}
}

func TestNonFiniteFlags(t *testing.T) {
	for _, args := range [][]string{
		{"simulate", "--increase", "NaN"},
		{"simulate", "--increase", "+Inf"},
		{"sweep", "--max", "Inf"},
		{"savings", "--efficiency", "NaN"},
	} {
		full := append([]string{"--config", exampleConfig, "--output-format", "json"}, args...)
		if _, err := runCommand(t, full...); err == nil {
			t.Errorf("%v: expected error for non-finite input", args)
		}
	}
}

func TestOutputFormatsForSummaries(t *testing.T) {
	out, err := runCommand(t, "--config", exampleConfig, "--output-format", "csv", "optimize")
	if err != nil {
		t.Fatalf("optimize error = %v", err)
	}
	if !strings.HasPrefix(out, `"min","max","best"`) {
		t.Errorf("expected optimizer CSV, got %q", out)
	}

	out, err = runCommand(t, "--config", exampleConfig, "--output-format", "csv", "savings", "--efficiency", "10")
	if err != nil {
		t.Fatalf("savings error = %v", err)
	}
	if out != "\"efficiency\",\"patients moved\",\"saved cost\"\n\"10.0\",\"45\",\"1800000\"\n" {
		t.Errorf("unexpected savings CSV %q", out)
	}

	out, err = runCommand(t, "--config", exampleConfig, "--output-format", "csv", "savings", "--schedule")
	if err != nil {
		t.Fatalf("savings --schedule error = %v", err)
	}
	// header plus 0, 5, ..., 50
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 12 {
		t.Errorf("expected 12 lines, got %d: %q", len(lines), out)
	}
}
