package ledger

import (
	"regexp"

	"chummerview/internal/parser"
)

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Filename is the download name of an updated sheet:
// "{alias}_Playable.xml" for finished characters, "{alias}_Create.xml" for
// characters still in creation.
func Filename(doc *parser.Document) string {
	c := doc.Character()
	alias := c.Value("alias")
	if alias == "" {
		alias = "character"
	}
	status := "Create"
	if c.Value("created") == "True" {
		status = "Playable"
	}
	return unsafeName.ReplaceAllString(alias, "_") + "_" + status + ".xml"
}
