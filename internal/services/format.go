package services

import (
	"fmt"
	"html"
	"strings"

	"charity-chat-service/internal/models"
)

// Responses are rendered as HTML by the chat page, so dataset text is escaped and the
// donate anchor is the only markup.

func formatHeader(f models.ConversationState) string {
	var b strings.Builder
	b.WriteString("Here are some charities")
	if f.Category != "" {
		fmt.Fprintf(&b, " in the category '%s'", html.EscapeString(f.Category))
	}
	if f.Cause != "" {
		fmt.Fprintf(&b, " related to the cause '%s'", html.EscapeString(f.Cause))
	}
	if f.Location != "" {
		fmt.Fprintf(&b, " in %s", html.EscapeString(f.Location))
	}
	b.WriteString(":\n\n")
	return b.String()
}

func formatSummary(c models.Charity) string {
	return fmt.Sprintf("Charity: %d (Category: %s, Cause: %s)\nTagline: %s\nMission: %s\n",
		c.ID,
		html.EscapeString(c.Category),
		html.EscapeString(c.Cause),
		html.EscapeString(c.Tagline),
		html.EscapeString(c.Mission),
	)
}

func donateLink(id int64, base string) string {
	return fmt.Sprintf("<a href='%s%d' target='_blank'>Donate</a>\n\n", html.EscapeString(base), id)
}

func formatListing(c models.Charity, donateBase string) string {
	return formatSummary(c) + donateLink(c.ID, donateBase)
}

func formatDetail(c models.Charity, donateBase string) string {
	return formatSummary(c) +
		"Cities: " + html.EscapeString(strings.Join(c.Cities, ", ")) + "\n" +
		donateLink(c.ID, donateBase)
}
