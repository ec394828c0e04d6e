package scan

import "strings"

// StripComments removes line and block comments from raw source lines.
// The returned slice has the same length as the input: block comments are
// blanked in place so that every declaration keeps its original line number.
// Block comments nest, matching the scanned grammar.
func StripComments(lines []string) []string {
	out := make([]string, len(lines))
	depth := 0 // open block-comment nesting

	for i, line := range lines {
		var b strings.Builder
		j := 0
		for j < len(line) {
			if depth > 0 {
				switch {
				case strings.HasPrefix(line[j:], "/*"):
					depth++
					j += 2
				case strings.HasPrefix(line[j:], "*/"):
					depth--
					j += 2
				default:
					j++
				}
				continue
			}
			switch {
			case strings.HasPrefix(line[j:], "//"):
				j = len(line) // rest of line is comment
			case strings.HasPrefix(line[j:], "/*"):
				depth++
				j += 2
			default:
				b.WriteByte(line[j])
				j++
			}
		}
		out[i] = b.String()
	}
	return out
}

// braceDelta returns the net open-brace count of a line and, separately,
// the running minimum reached while scanning it. The minimum lets a caller
// detect a block that closes and reopens on one line.
func braceDelta(line string) (delta, min int) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '{':
			delta++
		case '}':
			delta--
			if delta < min {
				min = delta
			}
		}
	}
	return delta, min
}
