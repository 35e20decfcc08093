// Package config provides configuration structures and utilities for cikparser.
// It defines the EDGAR endpoint and politeness settings, the output table
// format, and where optional artifacts (history database, run summary) go.
package config
