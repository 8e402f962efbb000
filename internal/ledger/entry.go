// Package ledger appends karma and nuyen awards to a character's expense
// log. It edits a copy of the parsed document and leaves every other part of
// the sheet as it was.
package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"chummerview/internal/failure"
)

// Amount is a karma or nuyen value as submitted. Forms and job files send
// both numbers and strings, so it keeps the text and parses on demand.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number or a string: %w", err)
	}
	*a = Amount(n)
	return nil
}

// Value parses the amount. A blank amount is zero. Anything else that is not
// a finite number is a NumericParseFailure.
func (a Amount) Value() (float64, error) {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, failure.Wrap(failure.NumericParseFailure, fmt.Sprintf("amount %q", s), failure.ErrNumericParse)
	}
	return v, nil
}

// Entry is one award: karma and nuyen are independent and either may be
// zero or absent.
type Entry struct {
	Karma   Amount `json:"karma"`
	Nuyen   Amount `json:"nuyen"`
	Comment string `json:"comment"`
}

// ParseEntries reads a job file: a JSON array of entries.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, failure.Wrap(failure.MalformedInput, "parsing ledger entries", err)
	}
	return entries, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
