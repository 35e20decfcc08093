package edgar

import "github.com/seantchan/cik-parser/internal/model"

// Names of the positional lookups, used in MissingLinkError.
const (
	filingDetailLink     = "filing detail link"
	holdingsDocumentLink = "holdings document link"
)

// holdingsDocumentIndex is the position of the information table among the
// XML documents of a 13F-HR filing. The first XML document is the cover page
// (primary_doc.xml).
const holdingsDocumentIndex = 1

// SelectFilingDetailLink returns the most recent filing on an index page.
// EDGAR lists filings newest first.
func SelectFilingDetailLink(links []Link) (Link, error) {
	if len(links) == 0 {
		return Link{}, &model.MissingLinkError{Link: filingDetailLink, Want: 1, Found: 0}
	}
	return links[0], nil
}

// SelectHoldingsDocumentLink returns the holdings information table among the
// XML document links of a filing detail page.
func SelectHoldingsDocumentLink(links []Link) (Link, error) {
	if len(links) <= holdingsDocumentIndex {
		return Link{}, &model.MissingLinkError{
			Link:  holdingsDocumentLink,
			Want:  holdingsDocumentIndex + 1,
			Found: len(links),
		}
	}
	return links[holdingsDocumentIndex], nil
}
