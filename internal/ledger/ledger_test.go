package ledger

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chummerview/internal/failure"
	"chummerview/internal/parser"
)

const sheet = `<?xml version="1.0" encoding="utf-8"?>
<character>
  <alias>Ghost Runner</alias>
  <created>True</created>
  <expenses>
    <expense>
      <guid>old</guid>
    </expense>
  </expenses>
</character>`

func testAppender() *Appender {
	n := 0
	return &Appender{
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
		Now: func() time.Time {
			return time.Date(2025, 3, 4, 5, 6, 7, 89_000_000, time.FixedZone("CET", 3600)).Add(time.Hour)
		},
	}
}

func parse(t *testing.T, s string) *parser.Document {
	t.Helper()
	doc, err := parser.Parse([]byte(s))
	require.NoError(t, err)
	return doc
}

func TestAppend_KarmaOnly(t *testing.T) {
	doc := parse(t, sheet)

	res, err := testAppender().Append(doc, []Entry{{Karma: "5", Comment: "Job"}})
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="utf-8"?>
<character>
  <alias>Ghost Runner</alias>
  <created>True</created>
  <expenses>
    <expense>
      <guid>old</guid>
    </expense>
    <expense>
      <guid>id-1</guid>
      <date>2025-03-04T05:06:07.089Z</date>
      <amount>5</amount>
      <reason>Job</reason>
      <type>Karma</type>
      <refund>False</refund>
      <forcecareervisible>False</forcecareervisible>
      <undo>
        <karmatype>ManualAdd</karmatype>
        <nuyentype></nuyentype>
        <objectid></objectid>
        <qty>0</qty>
        <extra></extra>
      </undo>
    </expense>
  </expenses>
</character>`
	assert.Equal(t, want, string(res.Document.Encode()))
	assert.Equal(t, []Record{{GUID: "id-1", Date: "2025-03-04T05:06:07.089Z", Amount: "5", Reason: "Job", Type: TypeKarma}}, res.Added)
	assert.Empty(t, res.Skipped)

	assert.Equal(t, sheet, string(doc.Encode()), "input document must not change")
}

func TestAppend_EmptyEntries(t *testing.T) {
	for name, src := range map[string]string{
		"pretty":  sheet,
		"crlf":    strings.ReplaceAll(sheet, "\n", "\r\n"),
		"compact": `<character><expenses/></character>`,
		"spaced":  "<character>\n  <expenses>\n  </expenses >\n</character>",
	} {
		t.Run(name, func(t *testing.T) {
			res, err := testAppender().Append(parse(t, src), nil)
			require.NoError(t, err)
			assert.Equal(t, src, string(res.Document.Encode()))
			assert.Empty(t, res.Added)
		})
	}
}

func TestAppend_KarmaAndNuyen(t *testing.T) {
	res, err := testAppender().Append(parse(t, sheet), []Entry{
		{Karma: "3", Nuyen: "1500.50", Comment: "Milk run"},
		{Karma: "0", Nuyen: "-20"},
		{Nuyen: "250"},
	})
	require.NoError(t, err)

	require.Len(t, res.Added, 3)
	assert.Equal(t, Record{GUID: "id-1", Date: "2025-03-04T05:06:07.089Z", Amount: "3", Reason: "Milk run", Type: TypeKarma}, res.Added[0])
	assert.Equal(t, Record{GUID: "id-2", Date: "2025-03-04T05:06:07.089Z", Amount: "1500.5", Reason: "Milk run", Type: TypeNuyen}, res.Added[1])
	assert.Equal(t, "250", res.Added[2].Amount)
	assert.Equal(t, "", res.Added[2].Reason)

	expenses := res.Document.Character().Child("expenses").All("expense")
	require.Len(t, expenses, 4)
	nuyen := expenses[2]
	assert.Equal(t, "Nuyen", nuyen.Value("type"))
	assert.Equal(t, "", nuyen.Path("undo", "karmatype").Text())
	assert.Equal(t, "ManualAdd", nuyen.Path("undo", "nuyentype").Text())
}

func TestAppend_NonNumericSkipped(t *testing.T) {
	res, err := testAppender().Append(parse(t, sheet), []Entry{
		{Karma: "lots", Nuyen: "100"},
		{Karma: "Infinity"},
	})
	require.NoError(t, err)

	require.Len(t, res.Added, 1)
	assert.Equal(t, TypeNuyen, res.Added[0].Type)
	require.Len(t, res.Skipped, 2)
	for _, e := range res.Skipped {
		assert.ErrorIs(t, e, failure.ErrNumericParse)
		assert.Equal(t, failure.NumericParseFailure, failure.CodeOf(e))
	}
	assert.Contains(t, res.Skipped[0].Error(), "entry 0 karma")
}

func TestAppend_Layouts(t *testing.T) {
	entry := []Entry{{Karma: "1"}}
	record := "<guid>id-1</guid><date>2025-03-04T05:06:07.089Z</date><amount>1</amount><reason></reason><type>Karma</type>" +
		"<refund>False</refund><forcecareervisible>False</forcecareervisible>" +
		"<undo><karmatype>ManualAdd</karmatype><nuyentype></nuyentype><objectid></objectid><qty>0</qty><extra></extra></undo>"

	t.Run("compact", func(t *testing.T) {
		res, err := testAppender().Append(parse(t, `<character><expenses/></character>`), entry)
		require.NoError(t, err)
		assert.Equal(t, "<character><expenses><expense>"+record+"</expense></expenses></character>", string(res.Document.Encode()))
	})

	t.Run("self-closing in pretty sheet", func(t *testing.T) {
		res, err := testAppender().Append(parse(t, "<character>\n  <expenses />\n</character>"), entry)
		require.NoError(t, err)

		out := string(res.Document.Encode())
		assert.True(t, strings.HasPrefix(out, "<character>\n  <expenses>\n    <expense>\n      <guid>id-1</guid>"), out)
		assert.True(t, strings.HasSuffix(out, "\n      </undo>\n    </expense>\n  </expenses>\n</character>"), out)
	})

	t.Run("crlf", func(t *testing.T) {
		src := strings.ReplaceAll(sheet, "\n", "\r\n")
		res, err := testAppender().Append(parse(t, src), entry)
		require.NoError(t, err)

		out := string(res.Document.Encode())
		assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n")
		assert.Contains(t, out, "</expense>\r\n    <expense>\r\n      <guid>id-1</guid>")
	})
}

func TestAppend_MissingSections(t *testing.T) {
	_, err := testAppender().Append(parse(t, `<character><alias>x</alias></character>`), []Entry{{Karma: "1"}})
	assert.ErrorIs(t, err, failure.ErrMissingSection)

	_, err = testAppender().Append(parse(t, `<sheet><expenses/></sheet>`), []Entry{{Karma: "1"}})
	assert.ErrorIs(t, err, failure.ErrMalformedInput)
}

func TestParseEntries(t *testing.T) {
	entries, err := ParseEntries([]byte(`[
		{"karma": 5, "nuyen": "1000", "comment": "a"},
		{"karma": null, "nuyen": 2.5},
		{"comment": "nothing"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Karma: "5", Nuyen: "1000", Comment: "a"},
		{Karma: "", Nuyen: "2.5"},
		{Comment: "nothing"},
	}, entries)

	_, err = ParseEntries([]byte(`[{"karma": true}]`))
	assert.ErrorIs(t, err, failure.ErrMalformedInput)
}

func TestAmount_Value(t *testing.T) {
	tests := []struct {
		in      Amount
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"12", 12, false},
		{" 7 ", 7, false},
		{"2.5", 2.5, false},
		{"1e3", 1000, false},
		{"-4", -4, false},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"5 karma", 0, true},
	}
	for _, tt := range tests {
		got, err := tt.in.Value()
		if tt.wantErr {
			assert.Error(t, err, string(tt.in))
			continue
		}
		require.NoError(t, err, string(tt.in))
		assert.Equal(t, tt.want, got, string(tt.in))
	}
}

func TestFilename(t *testing.T) {
	tests := map[string]string{
		`<character><alias>Ghost Runner</alias><created>True</created></character>`: "Ghost_Runner_Playable.xml",
		`<character><alias>Ké-7_x</alias><created>False</created></character>`:      "K_-7_x_Create.xml",
		`<character><created>true</created></character>`:                            "character_Create.xml",
		`<character><alias>a/b.c</alias></character>`:                               "a_b_c_Create.xml",
	}
	for src, want := range tests {
		assert.Equal(t, want, Filename(parse(t, src)), src)
	}
}
