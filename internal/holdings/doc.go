// Package holdings turns a 13F information table (or any XML document whose
// root holds one record per child) into a tab-separated table.
//
// The conversion has no schema of its own. The record with the most leaf
// fields defines the columns, in its document order; every other record is
// projected onto those columns, with a placeholder where it has no value.
//
//	root, err := holdings.Parse(r)
//	table, err := holdings.Flatten(root, "N/A ")
//	err = holdings.WriteFile("brk.txt", table)
//
// Column names on the wire are namespace qualified ("{uri}local"); the header
// row carries only the local part.
package holdings
