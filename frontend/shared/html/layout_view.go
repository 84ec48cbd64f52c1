package html

import (
	stdhtml "html"
	"strings"
)

// RenderLayout wraps a page body in the shared document shell.
func RenderLayout(title, body string) string {
	var b strings.Builder
	b.WriteString("<!doctype html><html lang=\"pt-BR\"><head><meta charset=\"utf-8\">")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
	b.WriteString("<title>")
	b.WriteString(stdhtml.EscapeString(title))
	b.WriteString("</title><link rel=\"stylesheet\" href=\"/assets/app.css\"></head><body>")
	b.WriteString(body)
	b.WriteString(CSRFFormScript())
	b.WriteString("</body></html>")
	return b.String()
}

// Escape is the shared HTML text escaper for view builders.
func Escape(s string) string {
	return stdhtml.EscapeString(s)
}

// Flash renders an inline status or error banner; empty messages render
// nothing.
func Flash(kind, message string) string {
	if strings.TrimSpace(message) == "" {
		return ""
	}
	return "<div class=\"flash flash-" + kind + "\">" + stdhtml.EscapeString(message) + "</div>"
}
