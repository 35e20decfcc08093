package config

import "time"

// File represents the structure of the .cikparser configuration file.
// Every field is optional; zero values leave the built-in default alone.
type File struct {
	// UserAgent overrides the User-Agent sent to EDGAR.
	// SEC asks for "Company Name admin@example.com" style values.
	UserAgent string `yaml:"user_agent,omitempty"`

	// BaseURL overrides the EDGAR site root.
	BaseURL string `yaml:"base_url,omitempty"`

	// FilingType overrides the form type (e.g. "13F-HR/A").
	FilingType string `yaml:"filing_type,omitempty"`

	// FilingCount overrides the number of filings listed on the index page.
	FilingCount int `yaml:"filing_count,omitempty"`

	// Timeout overrides the per-request timeout (e.g. "45s").
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// RequestsPerSecond overrides the request rate.
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty"`

	// OutputDir sets the directory tables are written to.
	OutputDir string `yaml:"output_dir,omitempty"`

	// Placeholder overrides the missing-field placeholder.
	Placeholder *string `yaml:"placeholder,omitempty"`

	// TrailingSeparator controls the tab after the last value of each row.
	TrailingSeparator *bool `yaml:"trailing_separator,omitempty"`

	// History enables the run history database.
	History *bool `yaml:"history,omitempty"`

	// SummaryFormat sets the format of the --summary file.
	SummaryFormat string `yaml:"summary_format,omitempty"`
}

// Apply copies every set field of the file onto cfg.
func (f *File) Apply(cfg *Config) {
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.FilingType != "" {
		cfg.FilingType = f.FilingType
	}
	if f.FilingCount != 0 {
		cfg.FilingCount = f.FilingCount
	}
	if f.Timeout != 0 {
		cfg.Timeout = f.Timeout
	}
	if f.RequestsPerSecond != 0 {
		cfg.RequestsPerSecond = f.RequestsPerSecond
	}
	if f.OutputDir != "" {
		cfg.OutputDir = f.OutputDir
	}
	if f.Placeholder != nil {
		cfg.Placeholder = *f.Placeholder
	}
	if f.TrailingSeparator != nil {
		cfg.TrailingSeparator = *f.TrailingSeparator
	}
	if f.History != nil {
		cfg.SaveHistory = *f.History
	}
	if f.SummaryFormat != "" {
		cfg.SummaryFormat = f.SummaryFormat
	}
}
