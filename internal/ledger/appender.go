package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"chummerview/internal/failure"
	"chummerview/internal/parser"
)

// DateLayout is the timestamp format of expense records.
const DateLayout = "2006-01-02T15:04:05.000Z"

const (
	TypeKarma = "Karma"
	TypeNuyen = "Nuyen"

	manualAdd = "ManualAdd"
)

var ErrNoExpenses = failure.New(failure.MissingSection, "character has no expenses section")

// Record is one expense written to the sheet.
type Record struct {
	GUID   string `json:"guid"`
	Date   string `json:"date"`
	Amount string `json:"amount"`
	Reason string `json:"reason"`
	Type   string `json:"type"`
}

// Result is the outcome of an Append call. Skipped holds one error per
// amount that could not be parsed; the rest of the call still applies.
type Result struct {
	Document *parser.Document
	Added    []Record
	Skipped  []error
}

// Appender writes expense records. NewID and Now are replaceable for tests.
type Appender struct {
	NewID func() string
	Now   func() time.Time
}

func NewAppender() *Appender {
	return &Appender{NewID: uuid.NewString, Now: time.Now}
}

// Append adds one Karma record per entry with a positive karma amount and
// one Nuyen record per entry with a positive nuyen amount, in entry order.
// The returned document is a copy; doc itself is not modified.
func (a *Appender) Append(doc *parser.Document, entries []Entry) (*Result, error) {
	out := doc.Clone()
	c := out.Character()
	if c == nil {
		return nil, parser.ErrNoCharacter
	}
	expenses := c.Child("expenses")
	if expenses == nil {
		return nil, ErrNoExpenses
	}

	res := &Result{Document: out}
	if len(entries) == 0 {
		return res, nil
	}

	now := a.Now().UTC().Format(DateLayout)
	w := newWriter(c, expenses)
	for i, e := range entries {
		for _, part := range []struct {
			kind   string
			amount Amount
		}{
			{TypeKarma, e.Karma},
			{TypeNuyen, e.Nuyen},
		} {
			v, err := part.amount.Value()
			if err != nil {
				res.Skipped = append(res.Skipped, fmt.Errorf("entry %d %s: %w", i, strings.ToLower(part.kind), err))
				continue
			}
			if v <= 0 {
				continue
			}
			rec := Record{
				GUID:   a.NewID(),
				Date:   now,
				Amount: formatAmount(v),
				Reason: e.Comment,
				Type:   part.kind,
			}
			w.add(rec)
			res.Added = append(res.Added, rec)
		}
	}
	return res, nil
}

// writer appends expense elements using the indentation already present in
// the document, so a pretty-printed sheet stays pretty and a compact one
// stays compact.
type writer struct {
	expenses *parser.Node
	item     string // whitespace before each <expense>
	step     string // one indentation level
	close    string // whitespace before </expenses>
}

func newWriter(character, expenses *parser.Node) *writer {
	w := &writer{expenses: expenses}

	if last := lastChild(expenses); isSpace(last) {
		w.close = last.Data
	} else {
		w.close = spaceBefore(character, expenses)
	}
	if first := expenses.Elements(); len(first) > 0 {
		w.item = spaceBefore(expenses, first[0])
	}
	if w.item == "" && w.close != "" {
		w.item = w.close + "  "
	}

	w.step = "  "
	if strings.HasPrefix(w.item, w.close) && len(w.item) > len(w.close) {
		w.step = w.item[len(w.close):]
	}
	if w.item == "" {
		w.step = ""
	}
	return w
}

func (w *writer) add(rec Record) {
	undoType := map[string][2]string{
		TypeKarma: {manualAdd, ""},
		TypeNuyen: {"", manualAdd},
	}[rec.Type]

	expense := w.element("expense", w.item,
		parser.NewElement("guid", rec.GUID),
		parser.NewElement("date", rec.Date),
		parser.NewElement("amount", rec.Amount),
		parser.NewElement("reason", rec.Reason),
		parser.NewElement("type", rec.Type),
		parser.NewElement("refund", "False"),
		parser.NewElement("forcecareervisible", "False"),
		w.element("undo", w.item+w.step,
			parser.NewElement("karmatype", undoType[0]),
			parser.NewElement("nuyentype", undoType[1]),
			parser.NewElement("objectid", ""),
			parser.NewElement("qty", "0"),
			parser.NewElement("extra", ""),
		),
	)

	children := w.expenses.Children
	var tail *parser.Node
	if last := lastChild(w.expenses); isSpace(last) {
		tail = last
		children = children[:len(children)-1]
	}
	w.expenses.Children = children
	if w.item != "" {
		w.expenses.Append(text(w.item))
	}
	w.expenses.Append(expense)
	switch {
	case tail != nil:
		w.expenses.Append(tail)
	case w.close != "":
		w.expenses.Append(text(w.close))
	}
}

// element builds name with children laid out one level below indent.
func (w *writer) element(name, indent string, children ...*parser.Node) *parser.Node {
	n := parser.NewElement(name, "")
	for _, c := range children {
		if w.step != "" {
			n.Append(text(indent + w.step))
		}
		n.Append(c)
	}
	if w.step != "" {
		n.Append(text(indent))
	}
	return n
}

func text(s string) *parser.Node {
	return &parser.Node{Kind: parser.TextNode, Data: s}
}

func lastChild(n *parser.Node) *parser.Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

func isSpace(n *parser.Node) bool {
	return n != nil && n.Kind == parser.TextNode && strings.TrimSpace(n.Data) == ""
}

// spaceBefore returns the whitespace text node directly preceding child in
// parent, or "".
func spaceBefore(parent, child *parser.Node) string {
	for i, c := range parent.Children {
		if c == child {
			if i > 0 && isSpace(parent.Children[i-1]) {
				return parent.Children[i-1].Data
			}
			return ""
		}
	}
	return ""
}
