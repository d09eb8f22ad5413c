package skills

import (
	"regexp"
	"strings"
)

// Group is a single category with the skills assigned to it.
type Group struct {
	Category Category `json:"category"`
	Skills   []string `json:"skills"`
}

// Map is an ordered category map. Categories keep the order in which they first
// appeared in the input, and empty categories are never present.
type Map []Group

var delimiters = regexp.MustCompile(`(?i)[,;\n]|\s+and\s+`)

// Categorize splits a free-text tech stack into normalized skills and assigns each
// one to the first matching category. The result depends only on the input.
func Categorize(raw string) Map {
	tokens := Tokenize(raw)
	if len(tokens) == 0 {
		return Map{}
	}

	var m Map
	index := make(map[Category]int)
	for _, token := range tokens {
		category := Match(token)
		idx, ok := index[category]
		if !ok {
			idx = len(m)
			index[category] = idx
			m = append(m, Group{Category: category})
		}
		m[idx].Skills = append(m[idx].Skills, token)
	}

	return m
}

// Tokenize returns lowercased, deduplicated skill tokens in first-seen order.
func Tokenize(raw string) []string {
	text := StripLabel(raw)
	if text == "" {
		return nil
	}

	parts := delimiters.Split(text, -1)
	if len(parts) == 1 && !isKeyword(normalize(parts[0])) {
		parts = strings.Fields(parts[0])
	}

	seen := make(map[string]struct{}, len(parts))
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := normalize(part)
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}

	return tokens
}

// StripLabel removes a leading "Label:" prefix such as "Tech stack: Go, Rust".
func StripLabel(text string) string {
	text = strings.TrimSpace(text)
	label, rest, found := strings.Cut(text, ":")
	if !found || strings.ContainsAny(label, ",;") {
		return text
	}
	return strings.TrimSpace(rest)
}

func normalize(token string) string {
	return strings.Join(strings.Fields(strings.ToLower(token)), " ")
}

// Len returns the number of categories.
func (m Map) Len() int {
	return len(m)
}

// Categories returns category names in map order.
func (m Map) Categories() []Category {
	out := make([]Category, 0, len(m))
	for _, g := range m {
		out = append(out, g.Category)
	}
	return out
}

// Skills returns the skills of the category or nil when it is absent.
func (m Map) Skills(category Category) []string {
	for _, g := range m {
		if g.Category == category {
			return g.Skills
		}
	}
	return nil
}

// All returns every skill across categories in map order.
func (m Map) All() []string {
	var out []string
	for _, g := range m {
		out = append(out, g.Skills...)
	}
	return out
}

// Clone returns a deep copy.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for i, g := range m {
		out[i] = Group{Category: g.Category, Skills: append([]string(nil), g.Skills...)}
	}
	return out
}
