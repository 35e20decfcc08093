package holdings

// Table is a flattened holdings document.
type Table struct {
	// Schema defines the columns.
	Schema Schema

	// Rows holds one row per root child, each with len(Schema) values.
	Rows [][]string

	// Missing counts placeholder cells per column, indexed like Schema.
	Missing []int

	// Dropped counts leaf values that had no column: a record repeating a
	// field more often than the schema record does loses the extra values.
	Dropped int
}

// Flatten converts the document below root into a table. Every child of root
// becomes one row; fields the child lacks are filled with placeholder.
func Flatten(root *Node, placeholder string) (*Table, error) {
	schema, err := InferSchema(root)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Schema:  schema,
		Rows:    make([][]string, 0, len(root.Children)),
		Missing: make([]int, len(schema)),
	}

	for _, record := range root.Children {
		fields := make(map[string][]string)
		for _, leaf := range record.Leaves() {
			name := leaf.QualifiedName()
			fields[name] = append(fields[name], leaf.Text)
		}

		row := make([]string, len(schema))
		used := make(map[string]int, len(fields))
		for i, col := range schema {
			values := fields[col.Name()]
			if col.Occurrence < len(values) {
				row[i] = values[col.Occurrence]
				used[col.Name()]++
				continue
			}
			row[i] = placeholder
			table.Missing[i]++
		}
		for name, values := range fields {
			table.Dropped += len(values) - used[name]
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// MissingByHeader returns the placeholder counts keyed by header text.
// Columns sharing a header are summed.
func (t *Table) MissingByHeader() map[string]int {
	missing := make(map[string]int, len(t.Schema))
	for i, col := range t.Schema {
		missing[col.Header()] += t.Missing[i]
	}
	return missing
}
