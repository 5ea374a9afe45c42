package match

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

const matchTimeout = 2 * time.Second

// compiledAlt is one structural alternative translated to a regex that
// matches a whole (trimmed) node's source text.
type compiledAlt struct {
	re       *regexp2.Regexp
	captures []string // "$NAME" tokens, in first-appearance order
}

// compileAlternatives compiles every structural alternative in spec (the
// primary Pattern plus any Any entries) into anchored regexes.
func compileAlternatives(patterns []string) ([]compiledAlt, error) {
	out := make([]compiledAlt, 0, len(patterns))
	for _, p := range patterns {
		re, captures, err := buildNodeRegex(p)
		if err != nil {
			return nil, fmt.Errorf("match: compile pattern %q: %w", p, err)
		}
		out = append(out, compiledAlt{re: re, captures: captures})
	}
	return out, nil
}

// buildNodeRegex translates one structural pattern into a regex anchored to
// match a node's entire trimmed source text. Per the resolved double-
// escaping Open Question, literal segments of the pattern are escaped with
// regexp.QuoteMeta as they are copied in; "..." and "$NAME" tokens are
// recognised first and their regex equivalents spliced in unescaped, so a
// literal segment is never re-escaped after a substitution has already run.
func buildNodeRegex(pattern string) (*regexp2.Regexp, []string, error) {
	var sb strings.Builder
	sb.WriteString(`^\s*`)

	var captures []string
	seen := map[string]bool{}
	i := 0
	for i < len(pattern) {
		if strings.HasPrefix(pattern[i:], "...") {
			sb.WriteString(`[\s\S]*?`)
			i += 3
			continue
		}
		if pattern[i] == '$' {
			j := i + 1
			for j < len(pattern) && isCaptureByte(pattern[j]) {
				j++
			}
			if j > i+1 {
				name := pattern[i+1 : j]
				if !seen[name] {
					seen[name] = true
					captures = append(captures, "$"+name)
					sb.WriteString(fmt.Sprintf(`(?<%s>[\s\S]+?)`, name))
				} else {
					// A repeated $NAME must bind identically to its first
					// occurrence: a backreference, not a fresh group.
					sb.WriteString(fmt.Sprintf(`\k<%s>`, name))
				}
				i = j
				continue
			}
		}

		start := i
		for i < len(pattern) && pattern[i] != '$' && !strings.HasPrefix(pattern[i:], "...") {
			i++
		}
		sb.WriteString(regexp.QuoteMeta(pattern[start:i]))
	}
	sb.WriteString(`\s*$`)

	re, err := regexp2.Compile(sb.String(), regexp2.None)
	if err != nil {
		return nil, nil, err
	}
	re.MatchTimeout = matchTimeout
	return re, captures, nil
}

func isCaptureByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
