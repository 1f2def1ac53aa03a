package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tturner/meshdiag/internal/apdu"
)

// TextStyle renders headings and values; the zero value is plain text.
type TextStyle struct {
	color   bool
	heading lipgloss.Style
	label   lipgloss.Style
	derived lipgloss.Style
	failure lipgloss.Style
}

// NewTextStyle returns a style that colours output when color is true.
func NewTextStyle(color bool) TextStyle {
	return TextStyle{
		color:   color,
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		derived: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

func (s TextStyle) render(st lipgloss.Style, text string) string {
	if !s.color {
		return text
	}
	return st.Render(text)
}

// WriteRecordText renders one decoded payload as an aligned field table.
func WriteRecordText(w io.Writer, p DecodedPayload, style TextStyle) error {
	var sb strings.Builder

	title := p.Source
	if p.Schema != "" {
		title = fmt.Sprintf("%s: %s", p.Source, p.Schema)
	}
	sb.WriteString(style.render(style.heading, title))
	sb.WriteString(style.render(style.label, fmt.Sprintf("  (version %s, %d bytes)", p.Version, p.Size)))
	sb.WriteString("\n")

	if p.Error != "" {
		sb.WriteString("  ")
		sb.WriteString(style.render(style.failure, "error: "+p.Error))
		sb.WriteString("\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}
	if p.Fields == nil {
		_, err := io.WriteString(w, sb.String())
		return err
	}

	var layout *apdu.Layout
	if schema := p.Fields.Schema(); schema != nil {
		layout = schema.Layout
	}
	width := 0
	for _, name := range p.Fields.Names() {
		if len(name) > width {
			width = len(name)
		}
	}

	sb.WriteString(style.render(style.label, fmt.Sprintf("  %-6s %-7s %-*s %s", "OFFSET", "TYPE", width, "FIELD", "VALUE")))
	sb.WriteString("\n")
	for _, f := range p.Fields.Fields() {
		offset, typ := "-", "derived"
		value := fmt.Sprintf("%d", f.Value)
		if layout != nil && !f.Derived {
			spec, _ := layout.Field(f.Name)
			offset = fmt.Sprintf("%d", layout.Offset(f.Name))
			typ = spec.TypeName()
			if spec.Signed {
				value = fmt.Sprintf("%d", int64(f.Value))
			} else if spec.Width > 1 {
				value = fmt.Sprintf("%d (0x%0*X)", f.Value, spec.Width*2, f.Value)
			}
		}
		line := fmt.Sprintf("  %-6s %-7s %-*s %s", offset, typ, width, f.Name, value)
		if f.Derived {
			line = style.render(style.derived, line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteLayoutText describes every schema of a table: version range, payload
// size, field offsets and derived fields.
func WriteLayoutText(w io.Writer, table *apdu.Table, style TextStyle) error {
	var sb strings.Builder
	for i, schema := range table.Schemas() {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeSchema(&sb, schema, style)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteSchemaText describes a single schema.
func WriteSchemaText(w io.Writer, schema *apdu.Schema, style TextStyle) error {
	var sb strings.Builder
	writeSchema(&sb, schema, style)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeSchema(sb *strings.Builder, schema *apdu.Schema, style TextStyle) {
	sb.WriteString(style.render(style.heading, schema.Name))
	sb.WriteString(style.render(style.label, fmt.Sprintf("  versions %s, %d bytes", schema.Range, schema.Layout.Size())))
	sb.WriteString("\n")
	for _, spec := range schema.Layout.Fields() {
		fmt.Fprintf(sb, "  %-6d %-7s %s\n", schema.Layout.Offset(spec.Name), spec.TypeName(), spec.Name)
	}
	for _, d := range schema.Derivations {
		line := fmt.Sprintf("  %-6s %-7s %s  <- %s", "-", "derived", strings.Join(d.Outputs, ", "), d.Name)
		sb.WriteString(style.render(style.derived, line))
		sb.WriteString("\n")
	}
}
