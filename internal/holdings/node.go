package holdings

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// ErrEmptyDocument is returned when the input holds no root element.
var ErrEmptyDocument = errors.New("document has no root element")

// ErrMultipleRoots is returned when the input holds more than one top-level element.
var ErrMultipleRoots = errors.New("document has more than one root element")

// Node is an element of a parsed XML document.
type Node struct {
	// Name is the element name with its namespace URI resolved.
	Name xml.Name

	// Text is the character data directly inside the element.
	Text string

	// Children are the child elements in document order.
	Children []*Node
}

// IsLeaf reports whether the node has no child elements.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// QualifiedName returns the wire name of the node: "{uri}local", or just
// "local" outside any namespace.
func (n *Node) QualifiedName() string {
	return qualifiedName(n.Name.Space, n.Name.Local)
}

// Leaves returns the leaf nodes at or below n in document order.
// A leaf node returns itself.
func (n *Node) Leaves() []*Node {
	leaves := make([]*Node, 0)
	var walk func(*Node)
	walk = func(n *Node) {
		if n.IsLeaf() {
			leaves = append(leaves, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return leaves
}

// Parse reads an XML document into a tree.
// Declared character sets other than UTF-8 are decoded via x/text.
func Parse(r io.Reader) (*Node, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charsetReader

	var (
		root  *Node
		stack []*Node
		texts []*strings.Builder
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: t.Name}
			if len(stack) == 0 {
				if root != nil {
					return nil, ErrMultipleRoots
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
			texts = append(texts, &strings.Builder{})

		case xml.CharData:
			if len(texts) > 0 {
				texts[len(texts)-1].Write(t)
			}

		case xml.EndElement:
			top := len(stack) - 1
			stack[top].Text = texts[top].String()
			stack = stack[:top]
			texts = texts[:top]
		}
	}

	if root == nil {
		return nil, ErrEmptyDocument
	}
	return root, nil
}

// charsetReader resolves a declared XML encoding through the WHATWG encoding index.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

func qualifiedName(space, local string) string {
	if space == "" {
		return local
	}
	return "{" + space + "}" + local
}
