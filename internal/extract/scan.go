// Package extract recognizes abigen method declarations in Go source text
// without parsing it.
package extract

import "strings"

// Decl is a top-level func declaration preceded by a doc comment.
type Decl struct {
	Doc    []string
	Header string
	Body   []string
	// Start is the offset of the first doc line, End the offset just past the
	// closing brace.
	Start int
	End   int
}

type line struct {
	start int
	text  string
}

// Scan returns every doc-commented top-level func declaration in src, in
// source order. A declaration ends at the first line that is exactly "}".
func Scan(src string) []Decl {
	lines := splitLines(src)
	decls := make([]Decl, 0)

	docStart := -1
	var doc []string
	reset := func() {
		docStart = -1
		doc = nil
	}

	for i := 0; i < len(lines); i++ {
		text := lines[i].text
		switch {
		case strings.HasPrefix(text, "//"):
			if docStart < 0 {
				docStart = lines[i].start
			}
			doc = append(doc, text)
		case strings.HasPrefix(text, "func ") && docStart >= 0:
			if oneLine(text) {
				decls = append(decls, Decl{
					Doc:    doc,
					Header: text,
					Start:  docStart,
					End:    lines[i].start + len(text),
				})
				reset()
				continue
			}
			closing := findClosing(lines, i+1)
			if closing < 0 {
				reset()
				continue
			}
			body := make([]string, 0, closing-i-1)
			for _, ln := range lines[i+1 : closing] {
				body = append(body, ln.text)
			}
			decls = append(decls, Decl{
				Doc:    doc,
				Header: text,
				Body:   body,
				Start:  docStart,
				End:    lines[closing].start + 1,
			})
			i = closing
			reset()
		default:
			reset()
		}
	}

	return decls
}

// FirstStatement returns the first non-blank body line, trimmed.
func (d Decl) FirstStatement() string {
	for _, text := range d.Body {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func findClosing(lines []line, from int) int {
	for j := from; j < len(lines); j++ {
		if lines[j].text == "}" {
			return j
		}
	}
	return -1
}

func oneLine(header string) bool {
	open := strings.Count(header, "{")
	return open > 0 && open == strings.Count(header, "}")
}

func splitLines(src string) []line {
	lines := make([]line, 0, strings.Count(src, "\n")+1)
	start := 0
	for start < len(src) {
		end := strings.IndexByte(src[start:], '\n')
		if end < 0 {
			lines = append(lines, line{start: start, text: strings.TrimSuffix(src[start:], "\r")})
			break
		}
		lines = append(lines, line{start: start, text: strings.TrimSuffix(src[start:start+end], "\r")})
		start += end + 1
	}
	return lines
}
