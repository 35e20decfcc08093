// Package model defines the data structures shared across cikparser.
//
// This package contains the following main types:
//   - Run: One conversion of an identifier's latest 13F-HR filing into a table
//   - StageError: The uniform error returned by every pipeline stage
//
// Models live in their own package so that edgar, holdings, pipeline,
// report and database can all use them without import cycles.
package model
