package voice

import (
	"fmt"
	"regexp"
	"strings"
)

type Rule string

const (
	RuleEmpty       Rule = "empty"
	RuleSuperlative Rule = "superlative"
	RuleAgent       Rule = "agent"
	RuleBannedWord  Rule = "banned_word"
	RuleSentinel    Rule = "sentinel"
)

// Violation is a single voice rule broken by a piece of copy.
type Violation struct {
	Rule    Rule   `json:"rule"`
	Term    string `json:"term,omitempty"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Term == "" {
		return fmt.Sprintf("%s: %s", v.Rule, v.Message)
	}
	return fmt.Sprintf("%s %q: %s", v.Rule, v.Term, v.Message)
}

type termRule struct {
	rule    Rule
	message string
	pattern *regexp.Regexp
}

// Word stems match their inflections (discover, discovery, discovering).
// "unique" is both a superlative and a banned word; it is reported once, as banned.
var termRules = []termRule{
	{RuleSuperlative, "no superlatives", regexp.MustCompile(`(?i)\b(best|top|amazing)\b`)},
	{RuleAgent, `use "Spot" as the agent`, regexp.MustCompile(`(?i)\b(we|us|our|we're|we'll|we've)\b`)},
	{RuleBannedWord, "avoid this word", regexp.MustCompile(`(?i)\b(curat\w*|discover\w*|explor\w*|unique\w*|experienc\w*)`)},
}

// Lint checks copy against the Spot voice rules. The result is nil for clean copy.
func Lint(text string) []Violation {
	raw := text
	text = strings.TrimSpace(text)
	if text == "" {
		return []Violation{{Rule: RuleEmpty, Message: "model returned no copy"}}
	}

	var out []Violation
	for _, s := range sentinels {
		if strings.Contains(raw, s) {
			out = append(out, Violation{Rule: RuleSentinel, Term: s, Message: "sentinel token left in output"})
		}
	}

	for _, r := range termRules {
		seen := make(map[string]struct{})
		for _, m := range r.pattern.FindAllString(text, -1) {
			term := strings.ToLower(m)
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			out = append(out, Violation{Rule: r.rule, Term: term, Message: r.message})
		}
	}
	return out
}
