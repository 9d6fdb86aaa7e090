package frontmatter

import "strings"

// Delimiter opens and closes a metadata block.
const Delimiter = "---"

// Extract splits a leading metadata block from text. The block must start on
// the first line and be closed by a later delimiter line; otherwise the text
// is returned untouched together with an empty mapping. Extract never fails:
// undecodable blocks still yield the body and an empty mapping.
func Extract(text string) (*Map, string) {
	block, content, ok := Split(text)
	if !ok {
		return NewMap(), text
	}
	return Parse(block), content
}

// Split locates the metadata block without decoding it. ok is false when text
// does not open with a delimiter line or the block is never closed.
func Split(text string) (block, content string, ok bool) {
	first, rest, found := cutLine(text)
	if !isDelimiter(first) || !found {
		return "", text, false
	}

	offset := 0
	for offset <= len(rest) {
		line, _, hasNext := cutLine(rest[offset:])
		if isDelimiter(line) {
			block = strings.TrimSuffix(rest[:offset], "\n")
			block = strings.TrimSuffix(block, "\r")
			if hasNext {
				content = rest[offset+len(line)+1:]
			}
			return block, content, true
		}
		if !hasNext {
			break
		}
		offset += len(line) + 1
	}
	return "", text, false
}

// BodyOffset returns the byte offset of the body within text, or zero when no
// metadata block is present.
func BodyOffset(text string) int {
	_, content, ok := Split(text)
	if !ok {
		return 0
	}
	return len(text) - len(content)
}

func cutLine(s string) (line, rest string, found bool) {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx], s[idx+1:], true
	}
	return s, "", false
}

func isDelimiter(line string) bool {
	return strings.TrimSpace(line) == Delimiter
}
