// Package render builds minimal HTML documents from raw conversation data.
// It is the fallback path used when the platform's export endpoint fails or
// returns nothing.
package render

import (
	"html"
	"strings"

	"github.com/satriahrh/convoport/internal/domain/catalog"
)

const style = `body { font-family: sans-serif; max-width: 900px; margin: 40px auto; padding: 20px; }
h1 { color: #333; }
h3 { color: #666; margin-top: 20px; }
pre { background: #f5f5f5; padding: 15px; border-radius: 5px; overflow-x: auto; white-space: pre-wrap; }
hr { border: none; border-top: 1px solid #ddd; margin: 20px 0; }`

// Transcript renders a conversation transcript as a standalone HTML page.
// Output is deterministic for a given input.
func Transcript(title, id, createdAt string, history []catalog.Message) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset='utf-8'>\n")
	b.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	b.WriteString("<style>\n" + style + "\n</style></head><body>\n")
	b.WriteString("<h1>" + html.EscapeString(title) + "</h1>\n")
	b.WriteString("<p><em>ID: " + html.EscapeString(id) + "</em></p>\n")
	if createdAt != "" {
		b.WriteString("<p><em>Created: " + html.EscapeString(createdAt) + "</em></p>\n")
	}
	b.WriteString("<hr/>\n")

	for _, m := range history {
		role := m.Role
		if role == "" {
			role = "user"
		}
		b.WriteString("<h3>" + html.EscapeString(strings.ToUpper(role)) + "</h3>\n")
		b.WriteString("<pre>" + html.EscapeString(m.Text) + "</pre>\n<hr/>\n")
	}

	b.WriteString("</body></html>\n")
	return b.String()
}

// EmptyExport is the placeholder written when the platform exports a
// conversation with no content at all.
func EmptyExport(id string) string {
	return "<html><body><h1>Empty Export</h1><p>Conversation ID: " +
		html.EscapeString(id) + "</p></body></html>"
}
