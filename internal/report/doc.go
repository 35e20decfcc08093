// Package report renders conversion runs for people and tools.
//
// Writers exist for three formats:
//   - SimpleWriter: plain text for the terminal
//   - MarkdownWriter: a run summary document (--summary) and history listings
//   - JSONWriter: structured output for scripts
//
// Each writer renders either a single run or a list of past runs.
package report
