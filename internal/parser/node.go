package parser

import (
	"regexp"
	"strconv"
	"strings"
)

type Kind int

const (
	ElementNode Kind = iota
	TextNode
	CommentNode
	ProcInstNode
	DirectiveNode
)

type Attr struct {
	Name  string
	Value string
}

// Node is one item of the document tree. For elements, Name and Attrs are
// set and Children holds mixed content in source order. For text, comments,
// processing instructions and directives, Data holds the raw content.
type Node struct {
	Kind     Kind
	Name     string
	Attrs    []Attr
	Data     string
	Children []*Node

	// raw holds the source bytes of the token (the start tag for elements).
	// Nodes built in code have none and are serialized from their fields.
	raw         string
	rawEnd      string
	selfClosing bool
}

// NewElement builds an element holding a single text child. An empty text
// yields an empty element.
func NewElement(name, text string) *Node {
	n := &Node{Kind: ElementNode, Name: name}
	if text != "" {
		n.Children = []*Node{{Kind: TextNode, Data: text}}
	}
	return n
}

// Child returns the first child element called name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == ElementNode && c.Name == name {
			return c
		}
	}
	return nil
}

// All returns every child element called name, in order. A section that
// holds one item and a section that holds many both come back as a slice;
// extraction code never has to care which shape the export used.
func (n *Node) All(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == ElementNode && c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Path follows a chain of child elements, returning nil as soon as one is
// missing.
func (n *Node) Path(names ...string) *Node {
	cur := n
	for _, name := range names {
		cur = cur.Child(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Elements returns the child elements, skipping text and comments.
func (n *Node) Elements() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func (n *Node) Has(name string) bool {
	return n.Child(name) != nil
}

// Text returns the concatenated, trimmed character data of an element.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range n.Children {
		if c.Kind == TextNode {
			b.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

// Value returns the text of the first child element called name.
func (n *Node) Value(name string) string {
	return n.Child(name).Text()
}

func (n *Node) Int(name string) int {
	v, _ := ParseInt(n.Value(name))
	return v
}

func (n *Node) Float(name string) float64 {
	v, _ := ParseFloat(n.Value(name))
	return v
}

// Bool reads a flag. Exports write flags as "True"/"False"; "true" and "1"
// are accepted as well.
func (n *Node) Bool(name string) bool {
	return ParseBool(n.Value(name))
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Append adds child as the last child of n.
func (n *Node) Append(child *Node) {
	if n.selfClosing {
		n.selfClosing = false
		n.raw = ""
	}
	n.Children = append(n.Children, child)
}

// SetAttr sets or adds an attribute. Attribute edits must go through SetAttr
// so that the element is re-serialized from its fields.
func (n *Node) SetAttr(name, value string) {
	n.raw = ""
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Kind:        n.Kind,
		Name:        n.Name,
		Data:        n.Data,
		raw:         n.raw,
		rawEnd:      n.rawEnd,
		selfClosing: n.selfClosing,
	}
	if n.Attrs != nil {
		out.Attrs = append([]Attr(nil), n.Attrs...)
	}
	if n.Children != nil {
		out.Children = make([]*Node, 0, len(n.Children))
		for _, c := range n.Children {
			out.Children = append(out.Children, c.Clone())
		}
	}
	return out
}

// ToMap returns the object view of an element: a leaf becomes its trimmed
// text, a repeated child name becomes a []any, a singular child stays a
// scalar or map. Attributes appear under "@_name" keys.
func (n *Node) ToMap() any {
	if n == nil {
		return nil
	}
	elements := n.Elements()
	if len(elements) == 0 && len(n.Attrs) == 0 {
		return n.Text()
	}

	out := make(map[string]any, len(elements)+len(n.Attrs))
	for _, a := range n.Attrs {
		out["@_"+a.Name] = a.Value
	}
	for _, c := range elements {
		value := c.ToMap()
		existing, ok := out[c.Name]
		if !ok {
			out[c.Name] = value
			continue
		}
		if list, isList := existing.([]any); isList {
			out[c.Name] = append(list, value)
		} else {
			out[c.Name] = []any{existing, value}
		}
	}
	if text := n.Text(); text != "" {
		out["#text"] = text
	}
	return out
}

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// ParseInt reads the leading integer of s ("3", "-1", "2.5" -> 2). The
// boolean is false when s does not start with a number.
func ParseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	m := leadingInt.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseFloat reads a decimal number, accepting a comma as the decimal
// separator.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
