// Package edgar talks to the SEC EDGAR web site.
//
// It covers the first three stages of a conversion:
//
//   - IndexURL builds the filing list URL for a ticker or CIK.
//   - Client.LatestFiling reads that list and picks the most recent filing.
//   - Client.HoldingsDocument reads the filing detail page and picks the
//     holdings XML document.
//
// Link selection relies on EDGAR page conventions (newest filing first, the
// information table as the second XML document). The conventions are named
// lookups (SelectFilingDetailLink, SelectHoldingsDocumentLink) that return a
// model.MissingLinkError when a page does not follow them.
//
// Every request waits on a rate limiter and carries the configured
// User-Agent, as required by the SEC fair-access policy. There is no retry.
package edgar
