package extract

import (
	"strings"
)

// frontMatterFence is the delimiter line around a metadata block
const frontMatterFence = "---"

// ParseFrontMatter splits a document into its metadata block and body.
//
// The block must open on the first line with a `---` fence and close on a
// later `---` line; whitespace around the fence is tolerated. A document
// without a complete block yields an empty map and the whole (trimmed)
// input as body. Malformed lines inside the block are skipped, so this
// never fails.
func ParseFrontMatter(raw string) (map[string]string, string) {
	meta := make(map[string]string)

	lines := strings.Split(normalizeNewlines(raw), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != frontMatterFence {
		return meta, strings.TrimSpace(raw)
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterFence {
			end = i
			break
		}
	}
	if end < 0 {
		return meta, strings.TrimSpace(raw)
	}

	for _, line := range lines[1:end] {
		key, value, ok := splitField(line)
		if !ok {
			continue
		}
		meta[key] = value
	}

	body := strings.Join(lines[end+1:], "\n")
	return meta, strings.TrimSpace(body)
}

// splitField splits a `key: value` line on its first colon. Lines that are
// blank, have no colon, or have an empty key are rejected.
func splitField(line string) (string, string, bool) {
	if strings.TrimSpace(line) == "" {
		return "", "", false
	}
	key, value, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

// FormatFrontMatter renders a metadata map back into a fenced block
// followed by body. Keys are written in the order given.
func FormatFrontMatter(keys []string, meta map[string]string, body string) string {
	var b strings.Builder
	b.WriteString(frontMatterFence)
	b.WriteByte('\n')
	for _, k := range keys {
		v, ok := meta[k]
		if !ok {
			continue
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteByte('\n')
	}
	b.WriteString(frontMatterFence)
	b.WriteByte('\n')
	b.WriteString(body)
	return b.String()
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
