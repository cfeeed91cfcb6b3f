package render

import (
	"regexp"
	"strings"
)

type rule struct {
	name  string
	apply func(string) string
}

// substitutionRules run once each, top to bottom. Order matters: \frac
// and \boxed contents are only brace-free after \sqrt has been rewritten,
// and "$" must go after "$$".
var substitutionRules = []rule{
	patternRule("sqrt", `\\sqrt\{([^{}]*)\}`, "√$1"),
	patternRule("frac", `\\frac\{([^{}]*)\}\{([^{}]*)\}`, "($1/$2)"),
	commandRule("times", " × "),
	commandRule("cdot", " ⋅ "),
	commandRule("approx", " ≈ "),
	commandRule("le", " ≤ ", "leq"),
	commandRule("ge", " ≥ ", "geq"),
	commandRule("theta", "θ"),
	commandRule("pi", "π"),
	commandRule("infty", "∞"),
	commandRule("deg", "°"),
	literalRule("square", "²", "^{2}", "^2"),
	literalRule("cube", "³", "^{3}", "^3"),
	patternRule("text", `\\text\{([^{}]*)\}`, "$1"),
	literalRule("display math", "", "$$"),
	literalRule("inline math", "", "$"),
}

func applySubstitutions(line string) string {
	for _, r := range substitutionRules {
		line = r.apply(line)
	}
	return line
}

func patternRule(name, pattern, replacement string) rule {
	re := regexp.MustCompile(pattern)
	return rule{
		name: name,
		apply: func(s string) string {
			return re.ReplaceAllString(s, replacement)
		},
	}
}

func literalRule(name, replacement string, olds ...string) rule {
	return rule{
		name: name,
		apply: func(s string) string {
			for _, old := range olds {
				s = strings.ReplaceAll(s, old, replacement)
			}
			return s
		},
	}
}

// commandRule replaces a LaTeX control word. "\le" must not eat the
// start of "\left", so a match only counts when no letter follows.
// Aliases are tried first so "\leq" is not read as "\le" + "q".
func commandRule(command, replacement string, aliases ...string) rule {
	names := append(aliases, command)
	return rule{
		name: command,
		apply: func(s string) string {
			for _, name := range names {
				s = replaceControlWord(s, `\`+name, replacement)
			}
			return s
		},
	}
}

func replaceControlWord(s, word, replacement string) string {
	var b strings.Builder
	for {
		i := strings.Index(s, word)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := i + len(word)
		if end < len(s) && isLetter(s[end]) {
			b.WriteString(s[:end])
			s = s[end:]
			continue
		}
		b.WriteString(s[:i])
		b.WriteString(replacement)
		s = s[end:]
	}
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
