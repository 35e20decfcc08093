package config

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultBaseURL is the EDGAR web site. Links scraped from EDGAR pages are
	// site-relative and get this prefix.
	DefaultBaseURL = "https://www.sec.gov"

	// DefaultFilingType is the quarterly institutional holdings report.
	DefaultFilingType = "13F-HR"

	// DefaultFilingCount is how many filings the index page lists.
	DefaultFilingCount = 20

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond keeps well under the SEC fair-access ceiling.
	DefaultRequestsPerSecond = 5.0

	// MaxRequestsPerSecond is the SEC fair-access ceiling.
	// See https://www.sec.gov/os/accessing-edgar-data
	MaxRequestsPerSecond = 10.0

	// DefaultUserAgent is sent with every request. EDGAR rejects requests
	// without a declared User-Agent; operators should put contact details here.
	DefaultUserAgent = "cikparser/1.0 (+https://github.com/seantchan/cik-parser)"

	// DefaultPlaceholder fills cells for fields a holding does not report.
	// The trailing space matches the output of earlier releases.
	DefaultPlaceholder = "N/A "

	// NormalizedPlaceholder is used when --normalize is given.
	NormalizedPlaceholder = "N/A"

	// OutputExtension is appended to the output file stem.
	OutputExtension = ".txt"

	// AppName is the application name used for XDG directory paths.
	AppName = "cikparser"

	// DefaultSummaryFormat is the format of the --summary file.
	DefaultSummaryFormat = "markdown"
)

// SummaryFormats lists the accepted --summary-format values.
var SummaryFormats = []string{"simple", "markdown", "json"}

// Config holds all configuration options for a cikparser run.
// It is populated from defaults, the optional config file and CLI flags, then
// passed down explicitly rather than read from globals.
type Config struct {
	// Identifier is the ticker or CIK to look up.
	Identifier string

	// OutputStem is the output file name without extension.
	// Empty means use Identifier.
	OutputStem string

	// OutputDir is the directory the table is written to.
	// Empty means the current directory.
	OutputDir string

	// BaseURL is the EDGAR site root, without a trailing slash.
	BaseURL string

	// FilingType is the form type to filter the index by.
	FilingType string

	// FilingCount is the number of filings requested on the index page.
	FilingCount int

	// UserAgent is the User-Agent header sent to EDGAR.
	UserAgent string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// RequestsPerSecond limits the request rate to EDGAR.
	RequestsPerSecond float64

	// Placeholder fills cells for absent fields.
	Placeholder string

	// TrailingSeparator writes a tab after the last value of each data row.
	// The header row never has one.
	TrailingSeparator bool

	// SummaryFile, when set, receives a summary of the run.
	SummaryFile string

	// SummaryFormat is one of SummaryFormats.
	SummaryFormat string

	// SaveHistory records the run in the history database.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	DBDir string

	// ConfigFilePath is the configuration file path given on the command line.
	ConfigFilePath string

	// Verbose enables debug logging.
	Verbose bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:           DefaultBaseURL,
		FilingType:        DefaultFilingType,
		FilingCount:       DefaultFilingCount,
		UserAgent:         DefaultUserAgent,
		Timeout:           DefaultTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
		Placeholder:       DefaultPlaceholder,
		TrailingSeparator: true,
		SummaryFormat:     DefaultSummaryFormat,
		DBDir:             XDGDataDir(),
	}
}

// Normalize switches the table format to a consistent layout: a placeholder
// without trailing space and no tab after the last value.
func (c *Config) Normalize() {
	c.Placeholder = NormalizedPlaceholder
	c.TrailingSeparator = false
}

// OutputPath returns the path of the output table.
func (c *Config) OutputPath() string {
	stem := c.OutputStem
	if stem == "" {
		stem = c.Identifier
	}
	return filepath.Join(c.OutputDir, stem+OutputExtension)
}

// XDGDataDir returns the XDG data directory for cikparser.
// On Linux: ~/.local/share/cikparser
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for cikparser.
// On Linux: ~/.config/cikparser
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Identifier) == "" {
		return ErrNoIdentifier
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.RequestsPerSecond <= 0 || c.RequestsPerSecond > MaxRequestsPerSecond {
		return ErrInvalidRate
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		return ErrMissingUserAgent
	}
	if !strings.HasPrefix(c.BaseURL, "https://") && !strings.HasPrefix(c.BaseURL, "http://") {
		return ErrInvalidBaseURL
	}
	if c.FilingCount <= 0 {
		return ErrInvalidFilingCount
	}
	if !slices.Contains(SummaryFormats, c.SummaryFormat) {
		return ErrInvalidSummaryFormat
	}
	if c.SaveHistory && c.DBDir == "" {
		return ErrMissingDBDir
	}
	return nil
}
