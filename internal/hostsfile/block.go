package hostsfile

import "strings"

const (
	BeginMarker = "### CommitBlock"
	EndMarker   = "### End CommitBlock"
)

// Block is a hosts file split around its managed region. Before and After
// hold the untouched lines verbatim; Inside holds the lines between markers.
type Block struct {
	Before []string
	Inside []string
	After  []string
	Found  bool
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Parse classifies every line of content as before, inside or after the
// managed block. Marker lines are matched after trimming whitespace.
func Parse(content string) (*Block, error) {
	const (
		before = iota
		inside
		after
	)

	b := &Block{}
	state := before
	beginLine := 0
	for i, line := range splitLines(content) {
		switch strings.TrimSpace(line) {
		case BeginMarker:
			switch state {
			case before:
				state = inside
				beginLine = i + 1
				b.Found = true
			case inside:
				return nil, &ParseError{Line: i + 1, Cause: ErrUnterminatedBlock}
			default:
				return nil, &ParseError{Line: i + 1, Cause: ErrDuplicateBlock}
			}
			continue
		case EndMarker:
			if state != inside {
				return nil, &ParseError{Line: i + 1, Cause: ErrStrayEndMarker}
			}
			state = after
			continue
		}

		switch state {
		case before:
			b.Before = append(b.Before, line)
		case inside:
			b.Inside = append(b.Inside, line)
		default:
			b.After = append(b.After, line)
		}
	}

	if state == inside {
		return nil, &ParseError{Line: beginLine, Cause: ErrUnterminatedBlock}
	}
	return b, nil
}

// Render rebuilds the file with inside as the block content. A file without
// a block gets one appended at the end. Blank inside lines are dropped.
func (b *Block) Render(inside []string) string {
	var sb strings.Builder
	for _, line := range b.Before {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString(BeginMarker)
	sb.WriteByte('\n')
	for _, line := range inside {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString(EndMarker)
	sb.WriteByte('\n')
	for _, line := range b.After {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
