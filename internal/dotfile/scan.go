package dotfile

import "strings"

// lineTokens returns the whitespace-separated tokens of a line with any
// trailing comment removed. Pure comment lines yield no tokens.
func lineTokens(line string) []string {
	switch pos := strings.IndexByte(line, '#'); {
	case pos == 0:
		return nil
	case pos > 0:
		line = line[:pos]
	}
	return strings.Fields(line)
}

func tokenMatches(tok, want string, substr bool) bool {
	if substr {
		return strings.Contains(tok, want)
	}
	return tok == want
}

// ContainsToken reports whether any line holds a token equal to token, or
// containing it when substr is set. Commented text never matches.
func ContainsToken(lines []string, token string, substr bool) bool {
	for _, line := range lines {
		for _, tok := range lineTokens(line) {
			if tokenMatches(tok, token, substr) {
				return true
			}
		}
	}
	return false
}

// ContainsTokenPair reports whether some line holds first immediately followed
// by second, e.g. "source .cshrc" or "export BASH_ENV=...".
func ContainsTokenPair(lines []string, first, second string, substrFirst, substrSecond bool) bool {
	for _, line := range lines {
		toks := lineTokens(line)
		if len(toks) < 2 {
			continue
		}
		for i := 0; i < len(toks)-1; i++ {
			if tokenMatches(toks[i], first, substrFirst) && tokenMatches(toks[i+1], second, substrSecond) {
				return true
			}
		}
	}
	return false
}
