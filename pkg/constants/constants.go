// Package constants provides shared constants for the care-forecast application.
package constants

// Model constants
const (
	// PercentagePoints converts a percentage-point delta into a fraction.
	PercentagePoints = 100.0

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100
)

// Slider defaults mirror the bounds of the dashboard input controls.
const (
	// DefaultSliderMin is the lowest diversion increase offered by the UI
	DefaultSliderMin = 0.0

	// DefaultSliderMax is the highest diversion increase offered by the UI
	DefaultSliderMax = 40.0

	// DefaultSliderStep is the UI step between diversion increases
	DefaultSliderStep = 5.0

	// DefaultBaseUtilization is the current follow-up-care capacity usage in percent
	DefaultBaseUtilization = 85.0

	// FullCapacity is the utilization above which the system is overloaded
	FullCapacity = 100.0
)

// Savings calculator defaults
const (
	DefaultCriticalPatients  = 450
	DefaultSavingsPerPatient = 40000.0
	DefaultMaxEfficiency     = 50.0
	DefaultEfficiencyStep    = 5.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// DefaultCurrencySuffix is appended to formatted currency amounts
	DefaultCurrencySuffix = "Kč"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultSuggestCacheTTL is how long suggestion results stay cached
	DefaultSuggestCacheTTL = "5m"

	// DefaultSuggestLimit caps the number of suggestions returned
	DefaultSuggestLimit = 10

	// DefaultFuturesTopK is the default number of future trajectories
	DefaultFuturesTopK = 5

	// MetricsNamespace prefixes every exported Prometheus metric
	MetricsNamespace = "care_forecast"
)

// DefaultAllowedOrigins are the dashboard dev-server origins allowed by CORS.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}
