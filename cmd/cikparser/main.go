// Package main provides the entry point for the cikparser CLI.
//
// cikparser downloads the most recent 13F-HR holdings report filed on SEC
// EDGAR for a fund and writes its information table as a tab-separated file.
//
// Usage:
//
//	cikparser <ticker-or-cik> [output-stem]
//	cikparser history
//
// See --help for all available options.
package main

import "os"

// main is the entry point for cikparser.
func main() {
	os.Exit(Execute())
}
