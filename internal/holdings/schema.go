package holdings

import "errors"

// ErrNoRecords is returned when the root element has no children.
var ErrNoRecords = errors.New("document root has no records")

// Column is one column of the output table.
type Column struct {
	// Space is the namespace URI of the field, empty if none.
	Space string

	// Local is the field's local name.
	Local string

	// Occurrence counts earlier columns with the same qualified name.
	// A record that repeats a field maps its k-th value to the column with
	// Occurrence k.
	Occurrence int
}

// Name returns the qualified wire name used to match fields.
func (c Column) Name() string {
	return qualifiedName(c.Space, c.Local)
}

// Header returns the column's header text: the name without its namespace.
func (c Column) Header() string {
	return c.Local
}

// Schema is the ordered column set of a table.
type Schema []Column

// Headers returns the header text of every column.
func (s Schema) Headers() []string {
	headers := make([]string, len(s))
	for i, c := range s {
		headers[i] = c.Header()
	}
	return headers
}

// InferSchema derives the table columns from the root's child with the most
// leaf fields. When several children tie, the first one wins.
func InferSchema(root *Node) (Schema, error) {
	if len(root.Children) == 0 {
		return nil, ErrNoRecords
	}

	var widest []*Node
	for _, record := range root.Children {
		leaves := record.Leaves()
		if len(leaves) > len(widest) {
			widest = leaves
		}
	}

	schema := make(Schema, len(widest))
	seen := make(map[string]int, len(widest))
	for i, leaf := range widest {
		name := leaf.QualifiedName()
		schema[i] = Column{
			Space:      leaf.Name.Space,
			Local:      leaf.Name.Local,
			Occurrence: seen[name],
		}
		seen[name]++
	}
	return schema, nil
}
