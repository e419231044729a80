package export

import (
	"cmp"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/notegraph/notegraph/pkg/graph"
	"github.com/notegraph/notegraph/pkg/model"
	"github.com/notegraph/notegraph/pkg/render"
)

// KnownCategories are the categories with a dedicated color, in legend order
var KnownCategories = []string{"personnel", "travail", "idées", "projets"}

// sanitizeMermaidID ensures an ID is valid for Mermaid diagrams.
// Mermaid node IDs must be alphanumeric with hyphens/underscores.
func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			sb.WriteRune(r)
		}
	}
	result := sb.String()
	if result == "" {
		return "node"
	}
	return "n_" + result
}

// sanitizeMermaidText prepares text for use in Mermaid node labels
func sanitizeMermaidText(text string) string {
	replacer := strings.NewReplacer(
		"\"", "'",
		"[", "(",
		"]", ")",
		"{", "(",
		"}", ")",
		"<", "&lt;",
		">", "&gt;",
		"|", "/",
		"#", "",
		"`", "'",
		"\n", " ",
		"\r", "",
	)
	result := replacer.Replace(text)

	result = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, result)

	result = strings.TrimSpace(result)

	runes := []rune(result)
	if len(runes) > 40 {
		result = string(runes[:37]) + "..."
	}
	if result == "" {
		result = "(untitled)"
	}
	return result
}

// categoryClass maps a category to its Mermaid class name
func categoryClass(category string) string {
	switch category {
	case "personnel":
		return "personnel"
	case "travail":
		return "travail"
	case "idées":
		return "idees"
	case "projets":
		return "projets"
	default:
		return "other"
	}
}

// GenerateMarkdown creates a markdown report of all notes: a summary, a
// Mermaid rendering of the note graph and one section per note
func GenerateMarkdown(notes []model.Note, title string) (string, error) {
	var sb strings.Builder
	g := graph.Build(notes, nil)

	byID := make(map[string]model.Note, len(notes))
	for _, n := range notes {
		byID[n.ID] = n
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", time.Now().Format(time.RFC1123)))

	// Summary
	explicit, implicit := 0, 0
	for _, e := range g.Edges {
		if e.Explicit {
			explicit++
		} else {
			implicit++
		}
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Count |\n|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| **Notes** | %d |\n", len(notes)))
	sb.WriteString(fmt.Sprintf("| Connections | %d |\n", explicit))
	sb.WriteString(fmt.Sprintf("| Shared-tag links | %d |\n", implicit))
	for _, cat := range graph.Categories(notes) {
		count := 0
		for _, n := range notes {
			if n.Category == cat {
				count++
			}
		}
		sb.WriteString(fmt.Sprintf("| %s %s | %d |\n", getCategoryEmoji(cat), displayCategory(cat), count))
	}
	sb.WriteString("\n")

	// Table of Contents
	sb.WriteString("## Table of Contents\n\n")
	for _, n := range notes {
		sb.WriteString(fmt.Sprintf("- [%s %s](#%s)\n", getCategoryEmoji(n.Category), displayTitle(n.Title), createSlug(n.ID)))
	}
	sb.WriteString("\n---\n\n")

	// Note graph (Mermaid)
	sb.WriteString("## Note Graph\n\n")
	sb.WriteString("```mermaid\ngraph LR\n")
	for _, cat := range KnownCategories {
		sb.WriteString(fmt.Sprintf("    classDef %s fill:%s,stroke:#333,color:#000\n", categoryClass(cat), render.CategoryHex(cat)))
	}
	sb.WriteString(fmt.Sprintf("    classDef other fill:%s,stroke:#333,color:#000\n", render.CategoryHex("")))
	sb.WriteString("\n")

	for _, n := range g.Nodes {
		safeID := sanitizeMermaidID(n.ID)
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, sanitizeMermaidText(n.Title)))
		sb.WriteString(fmt.Sprintf("    class %s %s\n", safeID, categoryClass(n.Category)))
	}
	for _, e := range g.Edges {
		linkStyle := "-.->" // Dashed for shared tags
		if e.Explicit {
			linkStyle = "-->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(e.Source), linkStyle, sanitizeMermaidID(e.Target)))
	}

	if len(g.Edges) == 0 && len(notes) > 0 {
		sb.WriteString("    NoLinks[\"No Connections\"]\n")
	}
	sb.WriteString("```\n\n")
	sb.WriteString("---\n\n")

	// Backlinks
	linkedFrom := make(map[string][]string)
	for _, e := range g.Edges {
		if e.Explicit {
			linkedFrom[e.Target] = append(linkedFrom[e.Target], e.Source)
		}
	}

	// Individual notes
	for _, n := range notes {
		sb.WriteString(fmt.Sprintf("<a id=\"%s\"></a>\n\n", createSlug(n.ID)))
		sb.WriteString(fmt.Sprintf("## %s %s\n\n", getCategoryEmoji(n.Category), displayTitle(n.Title)))

		sb.WriteString("| Property | Value |\n|----------|-------|\n")
		sb.WriteString(fmt.Sprintf("| **ID** | `%s` |\n", n.ID))
		sb.WriteString(fmt.Sprintf("| **Category** | %s |\n", displayCategory(n.Category)))
		if len(n.Tags) > 0 {
			sb.WriteString(fmt.Sprintf("| **Tags** | %s |\n", strings.Join(n.Tags, ", ")))
		}
		sb.WriteString(fmt.Sprintf("| **Created** | %s |\n", n.CreatedAt.Format("2006-01-02 15:04")))
		sb.WriteString(fmt.Sprintf("| **Updated** | %s |\n", n.UpdatedAt.Format("2006-01-02 15:04")))
		sb.WriteString("\n")

		if n.Content != "" {
			sb.WriteString(n.Content + "\n\n")
		}

		if targets := existing(n.Connections, byID); len(targets) > 0 {
			sb.WriteString("### Connections\n\n")
			for _, t := range targets {
				sb.WriteString(fmt.Sprintf("- 🔗 [%s](#%s)\n", displayTitle(t.Title), createSlug(t.ID)))
			}
			sb.WriteString("\n")
		}

		if sources := existing(linkedFrom[n.ID], byID); len(sources) > 0 {
			sb.WriteString("### Linked From\n\n")
			for _, s := range sources {
				sb.WriteString(fmt.Sprintf("- ↩️ [%s](#%s)\n", displayTitle(s.Title), createSlug(s.ID)))
			}
			sb.WriteString("\n")
		}

		sb.WriteString("---\n\n")
	}

	return sb.String(), nil
}

func existing(ids []string, byID map[string]model.Note) []model.Note {
	var out []model.Note
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// createSlug creates a URL-friendly slug from an ID
func createSlug(id string) string {
	slug := strings.ToLower(id)
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "note"
	}
	return "note-" + slug
}

func displayTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func displayCategory(category string) string {
	if category == "" {
		return "(none)"
	}
	return category
}

func getCategoryEmoji(category string) string {
	switch category {
	case "personnel":
		return "👤"
	case "travail":
		return "💼"
	case "idées":
		return "💡"
	case "projets":
		return "🚀"
	default:
		return "•"
	}
}

// SortForReport orders notes by known category, then title
func SortForReport(notes []model.Note) []model.Note {
	sorted := slices.Clone(notes)
	rank := func(cat string) int {
		if i := slices.Index(KnownCategories, cat); i >= 0 {
			return i
		}
		return len(KnownCategories)
	}
	slices.SortStableFunc(sorted, func(a, b model.Note) int {
		return cmp.Or(
			cmp.Compare(rank(a.Category), rank(b.Category)),
			cmp.Compare(a.Category, b.Category),
			cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)),
		)
	})
	return sorted
}

// SaveMarkdownToFile writes the generated markdown to a file
func SaveMarkdownToFile(notes []model.Note, title, filename string) error {
	content, err := GenerateMarkdown(SortForReport(notes), title)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(content), 0644)
}
