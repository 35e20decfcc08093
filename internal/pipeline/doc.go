// Package pipeline runs a conversion as a fixed sequence of steps.
//
// Each step receives the shared model.Run, fills in its part (index URL,
// filing URL, document URL, table statistics) and returns a
// *model.StageError on failure. The pipeline stops at the first failure:
// nothing is retried and later steps never see partial input.
//
// DefaultPipeline wires the four conversion stages:
//
//	resolve_index -> select_filing -> locate_document -> flatten
package pipeline
