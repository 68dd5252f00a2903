// Package xmltree parses XML into a lightweight element tree queried by
// local name.  Legislative feeds flip between namespaced and bare tags across
// versions, so every lookup here ignores namespaces.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Node is one XML element.
type Node struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*Node
}

// Parse builds the element tree for a document.  Declared charsets are
// honored; a document that fails to parse returns an error.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Strict = false

	root := &Node{Name: ""}
	stack := []*Node{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				node.Attrs = make(map[string]string, len(t.Attr))
				for _, attr := range t.Attr {
					node.Attrs[attr.Name.Local] = attr.Value
				}
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			cur := stack[len(stack)-1]
			cur.Text += string(t)
		}
	}

	for _, child := range root.Children {
		return child, nil
	}
	return nil, io.ErrUnexpectedEOF
}

// ParseBytes is Parse over a byte slice, with a leading BOM stripped.
func ParseBytes(data []byte) (*Node, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	return Parse(bytes.NewReader(data))
}

// TrimmedText returns the node's own character data, whitespace-trimmed.
func (n *Node) TrimmedText() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Text)
}

// Attr returns a trimmed attribute value by local name, or "".
func (n *Node) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return strings.TrimSpace(n.Attrs[name])
}

// Walk visits the node and every descendant in document order until fn
// returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.walk(fn)
	}
}

func (n *Node) walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.walk(fn)
	}
}

// FindFirst returns the first descendant (or the node itself) whose local
// name matches, case-insensitively.
func (n *Node) FindFirst(name string) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if found != nil {
			return false
		}
		if strings.EqualFold(node.Name, name) {
			found = node
			return false
		}
		return true
	})
	return found
}

// FindAll returns every descendant (including the node itself) matching the
// local name, in document order.
func (n *Node) FindAll(name string) []*Node {
	var out []*Node
	n.Walk(func(node *Node) bool {
		if strings.EqualFold(node.Name, name) {
			out = append(out, node)
		}
		return true
	})
	return out
}

// FindText probes a list of local-name aliases in priority order and returns
// the first non-empty text value.
func (n *Node) FindText(aliases ...string) string {
	for _, alias := range aliases {
		if node := n.FindFirst(alias); node != nil {
			if text := node.TrimmedText(); text != "" {
				return text
			}
		}
	}
	return ""
}

// ChildText returns the trimmed text of the first DIRECT child with the
// given local name, without descending further.
func (n *Node) ChildText(name string) string {
	if n == nil {
		return ""
	}
	for _, child := range n.Children {
		if strings.EqualFold(child.Name, name) {
			return child.TrimmedText()
		}
	}
	return ""
}

//Personal.AI order the ending
