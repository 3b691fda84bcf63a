// Package render produces the three textual views of a context: the
// executable script, the verbose inspect view, and the compact prompt
// fragment. The structure of each view is the contract; coloring is cosmetic
// and carried by a palette of paint funcs so plain output stays available
// for tests and non-terminal consumers.
package render

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/go-ports/frs/internal/models"
)

// Palette paints the three rendering roles.
type Palette struct {
	String   func(string) string
	Keyword  func(string) string
	Function func(string) string
}

// Plain returns a palette that leaves text unstyled.
func Plain() Palette {
	id := func(s string) string { return s }
	return Palette{String: id, Keyword: id, Function: id}
}

func styled(renderer *lipgloss.Renderer) Palette {
	paint := func(style lipgloss.Style) func(string) string {
		return func(s string) string { return style.Render(s) }
	}
	return Palette{
		String:   paint(renderer.NewStyle().Foreground(lipgloss.Color("#9ece6a"))),
		Keyword:  paint(renderer.NewStyle().Foreground(lipgloss.Color("#bb9af7"))),
		Function: paint(renderer.NewStyle().Foreground(lipgloss.Color("#7aa2f7"))),
	}
}

// Colored returns a palette painting with the default renderer, which
// downgrades to the terminal's detected color capability.
func Colored() Palette {
	return styled(lipgloss.DefaultRenderer())
}

// ForMode maps a configured color mode to a palette:
// "never" is plain, "always" forces true color, anything else auto-detects.
func ForMode(mode string) Palette {
	switch mode {
	case "never":
		return Plain()
	case "always":
		r := lipgloss.DefaultRenderer()
		r.SetColorProfile(termenv.TrueColor)
		return styled(r)
	default:
		return Colored()
	}
}

// Script renders the executable form: the template with finalCmd substituted
// for the placeholder when finalCmd is non-empty, one comment line per
// step-log entry, and a trailing comment embedding the whole context as an
// escaped literal for external round-trip inspection.
func Script(c *models.Context, finalCmd string) (string, error) {
	var b strings.Builder

	template := c.Template
	if finalCmd != "" {
		template = strings.Replace(template, models.Placeholder, finalCmd, 1)
	}
	b.WriteString(template)
	b.WriteString("\n")

	for _, step := range c.Meta.StepLog {
		if step.Prompt != nil {
			fmt.Fprintf(&b, "# $ %s\n", *step.Prompt)
		}
		fmt.Fprintf(&b, "# ! %s\n", step.Description)
	}

	encoded, err := models.Encode(c)
	if err != nil {
		return "", fmt.Errorf("render.Script: %w", err)
	}
	fmt.Fprintf(&b, "# FRS_META=%q\n", string(encoded))

	return b.String(), nil
}

// Inspect renders the verbose human-oriented view: a name header, one line
// per step-log entry, one line per env entry (sorted for stable output), and
// the template.
func Inspect(c *models.Context, pal Palette) string {
	var b strings.Builder

	b.WriteString(pal.String(fmt.Sprintf("# name: %s", c.DisplayName())))
	b.WriteString("\n")

	for _, step := range c.Meta.StepLog {
		if step.Prompt != nil {
			b.WriteString(pal.Keyword(fmt.Sprintf("# $ %s", *step.Prompt)))
			b.WriteString("\n")
		}
		b.WriteString(pal.Keyword(fmt.Sprintf("# ! %s", step.Description)))
		b.WriteString("\n")
	}

	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(pal.String(fmt.Sprintf("# frs_env: %s=%s", k, c.Env[k])))
		b.WriteString("\n")
	}

	b.WriteString(pal.Function(c.Template))
	b.WriteString("\n")

	return b.String()
}

// Prompt renders the compact prompt fragment: the parenthesised context name
// followed, only when the context is dirty, by the sanitized prompt of each
// logged step that carries one. No trailing newline.
func Prompt(c *models.Context, pal Palette) string {
	var b strings.Builder

	b.WriteString("(")
	b.WriteString(pal.String(c.DisplayName()))
	b.WriteString(")")

	if !c.Meta.IsDirty {
		return b.String()
	}

	for _, step := range c.Meta.StepLog {
		if step.Prompt == nil {
			continue
		}
		b.WriteString(" ")
		b.WriteString(pal.Keyword(sanitize(*step.Prompt)))
	}
	return b.String()
}

// sanitize strips every whitespace character except the ordinary space so a
// prompt fragment always renders on a single line.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r != ' ' && unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
