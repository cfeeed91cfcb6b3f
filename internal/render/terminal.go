package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Terminal writes nodes as styled text for an interactive session
type Terminal struct {
	heading *color.Color
	boxed   *color.Color
	bullet  *color.Color
}

func NewTerminal() *Terminal {
	return &Terminal{
		heading: color.New(color.Bold, color.FgCyan),
		boxed:   color.New(color.Bold, color.FgGreen),
		bullet:  color.New(color.FgYellow),
	}
}

func (t *Terminal) Write(w io.Writer, nodes []Node) error {
	for _, node := range nodes {
		if _, err := fmt.Fprintln(w, t.line(node)); err != nil {
			return fmt.Errorf("fmt.Fprintln() > %w", err)
		}
	}
	return nil
}

func (t *Terminal) line(node Node) string {
	switch node.Kind {
	case KindHeading:
		return t.heading.Sprint(node.Text)
	case KindListItem:
		return "  " + t.bullet.Sprint("•") + " " + node.Text
	case KindBoxed:
		var b strings.Builder
		for _, segment := range node.Segments {
			if segment.Boxed {
				b.WriteString(t.boxed.Sprintf("[ %s ]", segment.Text))
				continue
			}
			b.WriteString(segment.Text)
		}
		return b.String()
	default:
		return node.Text
	}
}
