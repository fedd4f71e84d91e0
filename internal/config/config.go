// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/care-forecast/internal/savings"
	"github.com/iwvelando/care-forecast/internal/simulation"
	"github.com/iwvelando/care-forecast/pkg/constants"
	"github.com/iwvelando/care-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides (e.g. CARE_FORECAST_BASELINE_BASEADVERSERATE).
const EnvPrefix = "CARE_FORECAST"

// Configuration holds all configuration for care-forecast.
type Configuration struct {
	Baseline simulation.BaselineProfile `yaml:"baseline"`
	Model    simulation.Model           `yaml:"model"`
	Slider   simulation.Range           `yaml:"slider"`
	Capacity simulation.CapacityProfile `yaml:"capacity"`
	Savings  savings.Calculator         `yaml:"savings"`
	Dataset  DatasetConfig              `yaml:"dataset,omitempty"`
	Logging  LoggingConfig              `yaml:"logging,omitempty"`
	Output   OutputConfig               `yaml:"output,omitempty"`
}

// DatasetConfig points at an optional dashboard dataset overriding the embedded one.
type DatasetConfig struct {
	Path string `yaml:"path,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format         string `yaml:"format,omitempty"` // pretty, csv, json
	CurrencySuffix string `yaml:"currencySuffix,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

// Default returns the configuration used when no file is provided.
func Default() *Configuration {
	conf, err := decode(newViper())
	if err != nil {
		// Defaults are static; decoding them cannot fail.
		panic(err)
	}
	return conf
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	baseline := simulation.DefaultBaseline()
	v.SetDefault("baseline.totalCohortSize", baseline.TotalCohortSize)
	v.SetDefault("baseline.baseDiversionRate", baseline.BaseDiversionRate)
	v.SetDefault("baseline.baseAdverseRate", baseline.BaseAdverseRate)
	v.SetDefault("baseline.unitCostAdverse", baseline.UnitCostAdverse)
	v.SetDefault("baseline.unitCostDiversion", baseline.UnitCostDiversion)

	v.SetDefault("model.reductionCoefficient", simulation.DefaultReductionCoefficient)
	v.SetDefault("model.minAdverseRate", simulation.DefaultMinAdverseRate)

	v.SetDefault("slider.min", constants.DefaultSliderMin)
	v.SetDefault("slider.max", constants.DefaultSliderMax)
	v.SetDefault("slider.step", constants.DefaultSliderStep)

	v.SetDefault("capacity.baseUtilization", constants.DefaultBaseUtilization)
	v.SetDefault("capacity.fullCapacity", constants.FullCapacity)

	v.SetDefault("savings.criticalPatients", constants.DefaultCriticalPatients)
	v.SetDefault("savings.savingsPerPatient", constants.DefaultSavingsPerPatient)
	v.SetDefault("savings.maxEfficiency", constants.DefaultMaxEfficiency)

	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.currencySuffix", constants.DefaultCurrencySuffix)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// NewSimulator builds a Simulator from the configured baseline and model.
func (c *Configuration) NewSimulator() (*simulation.Simulator, error) {
	return simulation.NewSimulator(c.Baseline, c.Model)
}

// Validate returns an error for settings the model cannot run with.
func (c *Configuration) Validate() error {
	if err := c.Baseline.Validate(); err != nil {
		return fmt.Errorf("baseline: %w", err)
	}
	if err := c.Model.Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if err := c.Slider.Validate(); err != nil {
		return fmt.Errorf("slider: %w", err)
	}
	if err := c.Savings.Validate(); err != nil {
		return fmt.Errorf("savings: %w", err)
	}
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return fmt.Errorf("output: %w", err)
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	return validation.ValidateModel(validation.ModelInfo{
		BaseDiversionRate:    c.Baseline.BaseDiversionRate,
		BaseAdverseRate:      c.Baseline.BaseAdverseRate,
		ReductionCoefficient: c.Model.ReductionCoefficient,
		MinAdverseRate:       c.Model.MinAdverseRate,
		SaturationPoint:      simulation.SaturationPoint(c.Baseline, c.Model),
		SliderMin:            c.Slider.Min,
		SliderMax:            c.Slider.Max,
		SliderStep:           c.Slider.Step,
		BaseUtilization:      c.Capacity.BaseUtilization,
		FullCapacity:         c.Capacity.FullCapacity,
	})
}
