// Package render turns raw answer text into display nodes.
package render

type Kind string

const (
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindListItem  Kind = "list_item"
	KindBoxed     Kind = "boxed"
)

// Segment is one piece of a line that contains boxed answers
type Segment struct {
	Text  string `json:"text"`
	Boxed bool   `json:"boxed,omitempty"`
}

// Node is a rendered line. Text is set for every kind except KindBoxed,
// which carries its content in Segments.
type Node struct {
	Kind     Kind      `json:"kind"`
	Text     string    `json:"text,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}

func Heading(text string) Node {
	return Node{Kind: KindHeading, Text: text}
}

func Paragraph(text string) Node {
	return Node{Kind: KindParagraph, Text: text}
}

func ListItem(text string) Node {
	return Node{Kind: KindListItem, Text: text}
}

func Boxed(segments ...Segment) Node {
	return Node{Kind: KindBoxed, Segments: segments}
}

// BoxedTexts returns the inner text of every boxed segment
func (n Node) BoxedTexts() []string {
	var texts []string
	for _, segment := range n.Segments {
		if segment.Boxed {
			texts = append(texts, segment.Text)
		}
	}
	return texts
}
