package tui

import (
	"fmt"
	"strings"

	"codeberg.org/architai/server/architai/sessions"
	"github.com/charmbracelet/glamour"
)

// converts a final design into markdown for glamour
func designMarkdown(d *sessions.Design) string {
	if d == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString("# System design\n\n")

	if d.Summary != "" {
		b.WriteString(d.Summary + "\n\n")
	}

	if len(d.Components) > 0 {
		b.WriteString("## Components\n\n")

		for _, c := range d.Components {
			fmt.Fprintf(&b, "### %s\n\n", c.Name)

			if c.Description != "" {
				b.WriteString(c.Description + "\n\n")
			}

			if len(c.Details.TechnologyStack) > 0 {
				fmt.Fprintf(&b, "**Stack:** %s\n\n", strings.Join(c.Details.TechnologyStack, ", "))
			}

			writeList(&b, c.Details.Responsibilities, false)
		}
	}

	if len(d.TechStack) > 0 {
		b.WriteString("## Tech stack\n\n")
		writeList(&b, d.TechStack, false)
	}

	if d.DBSchema != "" {
		b.WriteString("## Database schema\n\n")
		writeFence(&b, "", d.DBSchema)
	}

	if d.Mermaid != "" {
		b.WriteString("## Architecture diagram\n\n")
		writeFence(&b, "mermaid", d.Mermaid)
	}

	for _, diagram := range d.Diagrams {
		fmt.Fprintf(&b, "## %s\n\n", diagramTitle(diagram))

		if diagram.Description != "" {
			b.WriteString(diagram.Description + "\n\n")
		}

		writeFence(&b, diagram.Type, diagram.Content)
	}

	if len(d.IntegrationSteps) > 0 {
		b.WriteString("## Integration steps\n\n")
		writeList(&b, d.IntegrationSteps, true)
	}

	if d.Rationale != "" {
		b.WriteString("## Rationale\n\n")
		b.WriteString(d.Rationale + "\n\n")
	}

	if d.DiagramURL != "" {
		fmt.Fprintf(&b, "Diagram: %s\n", d.DiagramURL)
	}

	return b.String()
}

// converts the conversation log into markdown
func transcriptMarkdown(prompt string, entries []sessions.ConversationEntry) string {
	var b strings.Builder

	if prompt != "" {
		fmt.Fprintf(&b, "**you:** %s\n\n", prompt)
	}

	for _, e := range entries {
		// the raw final design is shown rendered, not as a transcript line
		if e.Role == sessions.RoleAssistant && looksLikeJSON(e.Text) {
			continue
		}

		fmt.Fprintf(&b, "**%s:** %s\n\n", roleLabel(e.Role), e.Text)
	}

	return b.String()
}

// renders markdown with the given renderer, falling back to raw text
func renderMarkdown(r *glamour.TermRenderer, md string) string {
	if r == nil {
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}

	return out
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(20, width-4)),
	)
	if err != nil {
		return nil
	}

	return r
}

func writeList(b *strings.Builder, items []string, numbered bool) {
	for i, item := range items {
		if numbered {
			fmt.Fprintf(b, "%d. %s\n", i+1, item)
		} else {
			fmt.Fprintf(b, "- %s\n", item)
		}
	}

	if len(items) > 0 {
		b.WriteString("\n")
	}
}

func writeFence(b *strings.Builder, lang, content string) {
	fmt.Fprintf(b, "```%s\n%s\n```\n\n", lang, strings.TrimRight(content, "\n"))
}

func diagramTitle(d sessions.Diagram) string {
	if d.Name != "" {
		return d.Name
	}

	if d.Type != "" {
		return d.Type + " diagram"
	}

	return "Diagram"
}

func roleLabel(role string) string {
	if role == sessions.RoleUser {
		return "you"
	}

	return role
}

func looksLikeJSON(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "{") || strings.HasPrefix(t, "```")
}
