package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoIdentifier is returned when no ticker or CIK was given.
	ErrNoIdentifier = errors.New("no identifier specified: provide a ticker or CIK")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRate is returned when the request rate is outside (0, 10].
	ErrInvalidRate = errors.New("invalid request rate: must be greater than 0 and at most 10 per second")

	// ErrMissingUserAgent is returned when the User-Agent is blank.
	// EDGAR answers such requests with 403.
	ErrMissingUserAgent = errors.New("missing user agent: EDGAR requires a declared User-Agent")

	// ErrInvalidBaseURL is returned when the base URL is not http(s).
	ErrInvalidBaseURL = errors.New("invalid base URL: must start with http:// or https://")

	// ErrInvalidFilingCount is returned when the filing count is not positive.
	ErrInvalidFilingCount = errors.New("invalid filing count: must be positive")

	// ErrInvalidSummaryFormat is returned for a summary format outside SummaryFormats.
	ErrInvalidSummaryFormat = errors.New("invalid summary format: must be simple, markdown or json")

	// ErrMissingDBDir is returned when history is enabled without a database directory.
	ErrMissingDBDir = errors.New("history enabled but no database directory configured")
)
