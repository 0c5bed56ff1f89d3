package config

// Application constants
const (
	// EnvPrefix namespaces every environment variable (CVT_INPUT_DIR, CVT_OUTPUT_PATH, ...)
	EnvPrefix = "CVT"

	// DotEnvFile is loaded into the environment when present in the working directory
	DotEnvFile = ".env"

	// DefaultInputDir is scanned for wide-format reports
	DefaultInputDir = "gh_data"

	// DefaultOutputPath receives the long-format table
	DefaultOutputPath = "transformed_cv_data.csv"

	// ManifestSuffix is appended to the output path (without extension) for the run manifest
	ManifestSuffix = ".manifest.json"

	// File permissions
	DirPermissions  = 0755
	FilePermissions = 0644
)

// Output formats, selected by the output path extension
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
	FormatXLSX    = "xlsx"
)

// SupportedOutputFormats maps output extensions to formats
var SupportedOutputFormats = map[string]string{
	".csv":     FormatCSV,
	".parquet": FormatParquet,
	".xlsx":    FormatXLSX,
}

// SupportedInputExtensions are the file types LoadTable reads
var SupportedInputExtensions = map[string]struct{}{
	".csv":  {},
	".xlsx": {},
	".xlsm": {},
}

// DefaultPlaceholderColumns are reserved long-format columns that every
// record carries, empty until upstream reports start providing them.
var DefaultPlaceholderColumns = []string{
	"new_install_first_dis",
	"signupfirst_dis",
	"cac_incl_branding",
	"first_disbursement_all",
	"fsfirst_disb",
	"first_disbursement_fidobiz",
}

// DefaultMetricAliases returns the label renames applied before standardization.
// Keys match the trimmed source label case-insensitively.
func DefaultMetricAliases() map[string]string {
	return map[string]string{
		"Cost Growth":    "Cost Digital",
		"Cost Marketing": "Cost offline",
	}
}
