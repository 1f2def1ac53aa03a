package report

import (
	"fmt"
	"strings"

	"github.com/tturner/meshdiag/internal/apdu"
)

// HexDump creates a classic offset/hex/ASCII dump of data.
func HexDump(data []byte, width int) string {
	if width <= 0 {
		width = 16
	}

	var sb strings.Builder
	for i := 0; i < len(data); i += width {
		fmt.Fprintf(&sb, "%04x: ", i)
		for j := 0; j < width; j++ {
			if i+j < len(data) {
				fmt.Fprintf(&sb, "%02x ", data[i+j])
			} else {
				sb.WriteString("   ")
			}
		}
		sb.WriteString(" |")
		for j := 0; j < width && i+j < len(data); j++ {
			b := data[i+j]
			if b >= 32 && b < 127 {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("|\n")
	}

	return sb.String()
}

// FieldDump prints the bytes each layout field occupies. Bytes beyond the
// layout are listed as trailing; fields the data does not reach are marked
// missing.
func FieldDump(data []byte, layout *apdu.Layout) string {
	var sb strings.Builder
	for _, spec := range layout.Fields() {
		off := layout.Offset(spec.Name)
		end := off + spec.Width
		fmt.Fprintf(&sb, "%04x  %-26s ", off, spec.Name)
		if end > len(data) {
			sb.WriteString("(missing)\n")
			continue
		}
		sb.WriteString(hexBytes(data[off:end]))
		sb.WriteString("\n")
	}
	if len(data) > layout.Size() {
		fmt.Fprintf(&sb, "%04x  %-26s %s\n", layout.Size(), "(trailing)", hexBytes(data[layout.Size():]))
	}
	return sb.String()
}

func hexBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02x", v)
	}
	return strings.Join(parts, " ")
}
