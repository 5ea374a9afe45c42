package rules

import (
	"regexp"

	"github.com/dlclark/regexp2"
)

// captureTokenRe matches the $NAME capture-variable syntax inside a
// structural pattern, in first-appearance order.
var captureTokenRe = regexp.MustCompile(`\$[A-Z_][A-Z0-9_]*`)

// compile validates r's PatternSpec and fills in CaptureNames, quarantining
// r if neither a structural nor a regex pattern is usable. The regex
// fallback is compiled exactly as written; capture variables are never
// substituted into a regex body.
func compile(r *Rule) {
	if r.Spec.HasStructural() {
		if err := validateStructural(r.Spec); err != nil {
			if r.Spec.Regex == "" {
				quarantine(r, "invalid structural pattern and no regex fallback: "+err.Error())
				return
			}
			// fall through to the regex attempt below
		} else {
			r.CaptureNames = captureNames(r.Spec)
			return
		}
	}

	if r.Spec.Regex == "" {
		quarantine(r, "rule has neither a structural pattern nor a regex")
		return
	}
	if _, err := regexp2.Compile(r.Spec.Regex, regexp2.None); err != nil {
		quarantine(r, "regex did not compile: "+err.Error())
		return
	}
	r.CaptureNames = captureNames(r.Spec)
}

func quarantine(r *Rule, reason string) {
	r.Quarantined = true
	r.QuarantineReason = reason
}

// validateStructural performs the static checks a structural pattern must
// pass before it is handed to the matcher: non-empty, and balanced grouping
// delimiters. Node-type names are not checked against the language grammar;
// a name the grammar lacks simply never matches.
func validateStructural(spec PatternSpec) error {
	alternatives := append([]string(nil), spec.Any...)
	if spec.Pattern != "" {
		alternatives = append(alternatives, spec.Pattern)
	}
	for _, alt := range alternatives {
		if err := checkBalanced(alt); err != nil {
			return err
		}
	}
	return nil
}

func checkBalanced(pattern string) error {
	depth := 0
	for _, r := range pattern {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth < 0 {
				return errUnbalanced
			}
		}
	}
	if depth != 0 {
		return errUnbalanced
	}
	return nil
}

var errUnbalanced = patternError("unbalanced grouping delimiters")

type patternError string

func (e patternError) Error() string { return string(e) }

func captureNames(spec PatternSpec) []string {
	seen := map[string]bool{}
	var out []string
	add := func(pattern string) {
		for _, tok := range captureTokenRe.FindAllString(pattern, -1) {
			if !seen[tok] {
				seen[tok] = true
				out = append(out, tok)
			}
		}
	}
	add(spec.Pattern)
	for _, alt := range spec.Any {
		add(alt)
	}
	return out
}
