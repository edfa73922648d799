package email

import (
	"fmt"
	"html"
	"strings"
)

// buildReminderHTML renders the reminder email body.
func buildReminderHTML(subject, taskDescription, duePhrase string, estimatedHours float64, funMessage string) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px;">`)
	fmt.Fprintf(&b, `<h2 style="color: #333;">%s</h2>`, html.EscapeString(subject))

	b.WriteString(`<div style="margin: 20px 0; padding: 15px; background-color: #f9f9f9; border-radius: 4px;">`)
	fmt.Fprintf(&b, `<p style="font-size: 16px; color: #555;"><strong>Task:</strong> %s</p>`, html.EscapeString(taskDescription))
	fmt.Fprintf(&b, `<p style="font-size: 16px; color: #555;"><strong>Due:</strong> %s</p>`, html.EscapeString(duePhrase))
	fmt.Fprintf(&b, `<p style="font-size: 16px; color: #555;"><strong>Estimated time:</strong> %.1f hours</p>`, estimatedHours)
	b.WriteString(`</div>`)

	if funMessage != "" {
		b.WriteString(`<div style="margin-top: 20px; padding: 15px; background-color: #ffefd5; border-radius: 4px; text-align: center;">`)
		fmt.Fprintf(&b, `<p style="font-size: 18px; color: #ff7f50; font-weight: bold;">%s</p>`, html.EscapeString(funMessage))
		b.WriteString(`</div>`)
	}

	b.WriteString(`<div style="margin-top: 30px; font-size: 14px; color: #999; text-align: center; padding-top: 15px; border-top: 1px solid #eee;">This is an automated reminder from your todo app.</div>`)
	b.WriteString(`</div>`)
	return b.String()
}

// htmlToText derives the plain-text fallback for clients that reject HTML.
func htmlToText(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(html.UnescapeString(b.String())), " ")
}
