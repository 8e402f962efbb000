package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"chummerview/internal/failure"
)

var (
	ErrNoCharacter   = failure.New(failure.MalformedInput, "document has no character root")
	ErrUnbalancedTag = failure.New(failure.MalformedInput, "unbalanced element tags")
	ErrEmptyDocument = failure.New(failure.MalformedInput, "document is empty")
)

var utf8BOM = []byte("\ufeff")

// Document is a parsed character sheet. Nodes holds the top-level content in
// source order: prolog, the root element, and anything after it.
type Document struct {
	Nodes      []*Node
	SourceFile string

	bom  bool
	crlf bool
}

func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	doc.SourceFile = path
	return doc, nil
}

// Parse reads an XML document into an ordered tree. Every element, text run,
// comment and processing instruction is kept together with its source bytes
// so that Encode reproduces the input.
func Parse(content []byte) (*Document, error) {
	doc := &Document{}
	if bytes.HasPrefix(content, utf8BOM) {
		doc.bom = true
		content = content[len(utf8BOM):]
	}
	doc.crlf = bytes.Contains(content, []byte("\r\n"))
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmptyDocument
	}

	dec := xml.NewDecoder(bytes.NewReader(content))
	dec.Strict = true

	var stack []*Node
	add := func(n *Node) {
		if len(stack) == 0 {
			doc.Nodes = append(doc.Nodes, n)
			return
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, n)
	}

	for {
		start := dec.InputOffset()
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, failure.Wrap(failure.MalformedInput, "parsing xml", err)
		}
		raw := string(content[start:dec.InputOffset()])

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Kind: ElementNode, Name: qualifiedName(t.Name), raw: raw}
			for _, attr := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: qualifiedName(attr.Name), Value: attr.Value})
			}
			add(n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, ErrUnbalancedTag
			}
			top := stack[len(stack)-1]
			if top.Name != qualifiedName(t.Name) {
				return nil, failure.Wrap(failure.MalformedInput, "parsing xml",
					fmt.Errorf("element <%s> closed by </%s>", top.Name, qualifiedName(t.Name)))
			}
			// A self-closing tag produces its end token without consuming input.
			if raw == "" {
				top.selfClosing = true
			} else {
				top.rawEnd = raw
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			add(&Node{Kind: TextNode, Data: string(t), raw: raw})
		case xml.Comment:
			add(&Node{Kind: CommentNode, Data: string(t), raw: raw})
		case xml.ProcInst:
			add(&Node{Kind: ProcInstNode, Name: t.Target, Data: string(t.Inst), raw: raw})
		case xml.Directive:
			add(&Node{Kind: DirectiveNode, Data: string(t), raw: raw})
		}
	}

	if len(stack) != 0 {
		return nil, ErrUnbalancedTag
	}
	if doc.Root() == nil {
		return nil, failure.New(failure.MalformedInput, "document has no root element")
	}
	return doc, nil
}

// Root returns the document element.
func (d *Document) Root() *Node {
	if d == nil {
		return nil
	}
	for _, n := range d.Nodes {
		if n.Kind == ElementNode {
			return n
		}
	}
	return nil
}

// Character returns the <character> root, or nil when the document is not a
// character sheet.
func (d *Document) Character() *Node {
	root := d.Root()
	if root == nil || root.Name != "character" {
		return nil
	}
	return root
}

// Clone returns a deep copy that shares nothing with d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{SourceFile: d.SourceFile, bom: d.bom, crlf: d.crlf}
	out.Nodes = make([]*Node, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		out.Nodes = append(out.Nodes, n.Clone())
	}
	return out
}

// ToMap returns the object view of the document: {rootName: root.ToMap()}.
func (d *Document) ToMap() map[string]any {
	root := d.Root()
	if root == nil {
		return map[string]any{}
	}
	return map[string]any{root.Name: root.ToMap()}
}

func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}
