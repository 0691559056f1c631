package types

// CountLines counts line breaks in text. "\r\n" counts once, a lone "\r"
// counts as a break of its own.
func CountLines(text string) int {
	n := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			n++
		case '\r':
			n++
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		}
	}
	return n
}

// LineOffset returns the byte offset of the start of the 0-based line in
// content, clamped to len(content). Line breaks follow CountLines.
func LineOffset(content string, line int) int {
	if line <= 0 {
		return 0
	}
	current := 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\n':
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
		default:
			continue
		}
		current++
		if current == line {
			return i + 1
		}
	}
	return len(content)
}
