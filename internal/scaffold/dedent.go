package scaffold

import "strings"

// Dedent removes the whitespace prefix common to every non-blank line.
// Whitespace-only lines are normalised to empty lines.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")

	margin := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			margin = indent
			first = false
			continue
		}
		margin = commonPrefix(margin, indent)
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = line[len(margin):]
	}
	return strings.Join(lines, "\n")
}

// TrimLeadingBlankLines drops blank lines before the first non-blank line.
func TrimLeadingBlankLines(s string) string {
	for {
		nl := strings.IndexByte(s, '\n')
		if nl < 0 || strings.TrimSpace(s[:nl]) != "" {
			return s
		}
		s = s[nl+1:]
	}
}

// normalizeBlock prepares a generated block for concatenation into a host file.
func normalizeBlock(s string) string {
	return TrimLeadingBlankLines(Dedent(s))
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
