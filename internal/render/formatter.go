package render

import (
	"regexp"
	"strings"
)

var (
	sectionLabelPattern = regexp.MustCompile(`^\*+\s*(Given|Concept|Steps|Solution)`)
	boxedPattern        = regexp.MustCompile(`\\boxed\{([^{}]*)\}`)
	bulletPattern       = regexp.MustCompile(`^(?:[-*•]|\d+\.)\s+`)
)

// Format converts a single non-empty line of answer text into a Node.
func Format(line string) Node {
	trimmed := strings.TrimSpace(line)
	if isHeading(trimmed) {
		return Heading(strings.TrimSpace(strings.NewReplacer("#", "", "*", "").Replace(trimmed)))
	}

	processed := strings.TrimSpace(applySubstitutions(trimmed))
	if segments := splitBoxed(processed); segments != nil {
		return Boxed(segments...)
	}

	if loc := bulletPattern.FindStringIndex(processed); loc != nil {
		return ListItem(strings.TrimSpace(processed[loc[1]:]))
	}
	return Paragraph(processed)
}

// Render formats every non-blank line of answer, keeping their order.
func Render(answer string) []Node {
	lines := strings.Split(answer, "\n")
	nodes := make([]Node, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		nodes = append(nodes, Format(line))
	}
	return nodes
}

func isHeading(trimmed string) bool {
	return strings.HasPrefix(trimmed, "#") || sectionLabelPattern.MatchString(trimmed)
}

// splitBoxed returns nil when the line has no complete \boxed{...}.
// Whitespace-only text between answers is dropped.
func splitBoxed(line string) []Segment {
	matches := boxedPattern.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return nil
	}

	var segments []Segment
	appendPlain := func(text string) {
		if strings.TrimSpace(text) != "" {
			segments = append(segments, Segment{Text: text})
		}
	}

	last := 0
	for _, m := range matches {
		appendPlain(line[last:m[0]])
		segments = append(segments, Segment{Text: line[m[2]:m[3]], Boxed: true})
		last = m[1]
	}
	appendPlain(line[last:])
	return segments
}
