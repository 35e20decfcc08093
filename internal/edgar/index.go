package edgar

import (
	"net/url"
	"strconv"
)

// indexPath is the EDGAR company browse endpoint.
const indexPath = "/cgi-bin/browse-edgar"

// IndexURL returns the URL of the filing list for identifier, restricted to
// filingType and limited to count entries, newest first.
// The identifier is not validated; EDGAR reports unknown identifiers on the
// page itself.
func IndexURL(baseURL, identifier, filingType string, count int) string {
	return baseURL + indexPath +
		"?action=getcompany" +
		"&CIK=" + url.QueryEscape(identifier) +
		"&type=" + url.QueryEscape(filingType) +
		"&dateb=&owner=exclude" +
		"&count=" + strconv.Itoa(count)
}
