package model

// Pipeline stage names. They name the step in logs, in StageError and in the
// history database.
const (
	// StageResolveIndex builds the filing index URL.
	StageResolveIndex = "resolve_index"

	// StageSelectFiling picks the most recent filing from the index page.
	StageSelectFiling = "select_filing"

	// StageLocateDocument picks the holdings XML from the filing detail page.
	StageLocateDocument = "locate_document"

	// StageFlatten fetches the holdings XML and writes the table.
	StageFlatten = "flatten"
)
