package tui

import "unicode"

// splitShellWords splits an editor command such as `code --wait` or `"my editor" -f` into
// argv. Single quotes are literal; backslash escapes outside single quotes.
func splitShellWords(s string) []string {
	var (
		out     []string
		cur     []rune
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			cur = append(cur, r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur = append(cur, r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			if inWord {
				out = append(out, string(cur))
				cur = cur[:0]
				inWord = false
			}
		default:
			cur = append(cur, r)
			inWord = true
		}
	}
	if inWord {
		out = append(out, string(cur))
	}
	return out
}
