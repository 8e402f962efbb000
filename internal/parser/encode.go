package parser

import (
	"bytes"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// Encode serializes the document. Parsed nodes are written from their source
// bytes, so a document that was not modified encodes to exactly its input.
// Nodes added in code are escaped and follow the document's line endings.
func (d *Document) Encode() []byte {
	var buf bytes.Buffer
	if d.bom {
		buf.Write(utf8BOM)
	}
	for _, n := range d.Nodes {
		d.encodeNode(&buf, n)
	}
	return buf.Bytes()
}

func (d *Document) encodeNode(buf *bytes.Buffer, n *Node) {
	if n.Kind != ElementNode && n.raw != "" {
		buf.WriteString(n.raw)
		return
	}

	switch n.Kind {
	case ElementNode:
		d.encodeElement(buf, n)
	case TextNode:
		buf.WriteString(d.lineEndings(textEscaper.Replace(n.Data)))
	case CommentNode:
		buf.WriteString("<!--")
		buf.WriteString(n.Data)
		buf.WriteString("-->")
	case ProcInstNode:
		buf.WriteString("<?")
		buf.WriteString(n.Name)
		if n.Data != "" {
			buf.WriteByte(' ')
			buf.WriteString(n.Data)
		}
		buf.WriteString("?>")
	case DirectiveNode:
		buf.WriteString("<!")
		buf.WriteString(n.Data)
		buf.WriteByte('>')
	}
}

func (d *Document) encodeElement(buf *bytes.Buffer, n *Node) {
	empty := n.selfClosing && len(n.Children) == 0
	if n.raw != "" && (empty || !n.selfClosing) {
		buf.WriteString(n.raw)
		if empty {
			return
		}
	} else {
		buf.WriteByte('<')
		buf.WriteString(n.Name)
		for _, a := range n.Attrs {
			buf.WriteByte(' ')
			buf.WriteString(a.Name)
			buf.WriteString(`="`)
			buf.WriteString(d.lineEndings(attrEscaper.Replace(a.Value)))
			buf.WriteByte('"')
		}
		if empty {
			buf.WriteString(" />")
			return
		}
		buf.WriteByte('>')
	}

	for _, c := range n.Children {
		d.encodeNode(buf, c)
	}
	if n.rawEnd != "" {
		buf.WriteString(n.rawEnd)
		return
	}
	buf.WriteString("</")
	buf.WriteString(n.Name)
	buf.WriteByte('>')
}

// The decoder folds CRLF into LF inside character data; put it back for
// documents that used it.
func (d *Document) lineEndings(s string) string {
	if !d.crlf || !strings.Contains(s, "\n") {
		return s
	}
	return strings.ReplaceAll(s, "\n", "\r\n")
}
