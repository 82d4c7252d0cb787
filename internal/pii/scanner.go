// Package pii decides which categories of personally identifiable information appear in a
// string or in a decoded JSON tree. It reports category labels only; matched text is never
// returned or logged.
package pii

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type Category string

const (
	CategorySSN   Category = "ssn"
	CategoryPhone Category = "phone"
	CategoryEmail Category = "email"
	CategoryDOB   Category = "dob"
	CategoryName  Category = "name"
)

// categoryOrder fixes the order in which findings are reported.
var categoryOrder = []Category{CategorySSN, CategoryPhone, CategoryEmail, CategoryDOB, CategoryName}

type rule struct {
	category Category
	patterns []*regexp.Regexp
}

// Pattern fragments. Digits and spaces are matched in any script, and word boundaries are
// spelled out because RE2's \b and \d are ASCII-only.
const (
	digit = `\p{Nd}`
	space = `[\s\p{Zs}]`
	begin = `(?:^|[^\p{L}\p{N}_])`
	end   = `(?:[^\p{L}\p{N}_]|$)`
)

func compile(parts ...string) *regexp.Regexp {
	return regexp.MustCompile(strings.Join(parts, ""))
}

// All patterns run against NFKC-folded, lowercased text.
var rules = []rule{
	{
		category: CategorySSN,
		patterns: []*regexp.Regexp{
			compile(begin, digit, `{3}-`, digit, `{2}-`, digit, `{4}`, end),
			compile(`(?:^|\P{Nd})`, digit, `{9}(?:\P{Nd}|$)`),
		},
	},
	{
		category: CategoryPhone,
		patterns: []*regexp.Regexp{
			compile(begin, digit, `{3}(?:[-.]|`, space, `)`, digit, `{3}(?:[-.]|`, space, `)`, digit, `{4}`, end),
			compile(`\(`, digit, `{3}\)`, space, `*`, digit, `{3}(?:[-.]|`, space, `)`, digit, `{4}`, end),
		},
	},
	{
		category: CategoryEmail,
		patterns: []*regexp.Regexp{
			compile(`[\p{L}\p{N}._%+\-]+@[\p{L}\p{N}.\-]+\.\p{L}{2,}`, end),
		},
	},
	{
		category: CategoryDOB,
		patterns: []*regexp.Regexp{
			compile(begin, digit, `{1,2}[/-]`, digit, `{1,2}[/-]`, digit, `{2,4}`, end),
			compile(begin, digit, `{4}-`, digit, `{1,2}-`, digit, `{1,2}`, end),
		},
	},
	{
		category: CategoryName,
		patterns: []*regexp.Regexp{
			compile(`(?:patient_?name|full_?name|first_?name|last_?name|surname)`, space, `*[=:]`, space, `*["']?\p{L}{2,}`),
			// a bare "name" label only counts when followed by two words, so "name: hemoglobin" passes
			compile(`name`, space, `*[=:]`, space, `*["']?\p{L}{2,}`, space, `+\p{L}{2,}`),
		},
	},
}

var nameKey = compile(`(?:patient|full|first|last)(?:[_\-]|`, space, `)?name|surname`)

// fold maps compatibility forms (full-width digits, no-break spaces) to their plain
// equivalents and lowercases the result.
func fold(text string) string {
	return strings.ToLower(norm.NFKC.String(text))
}

// Findings is the set of categories detected in one scan.
type Findings map[Category]struct{}

func (f Findings) Add(category Category) {
	f[category] = struct{}{}
}

func (f Findings) Has(category Category) bool {
	_, ok := f[category]
	return ok
}

func (f Findings) Empty() bool {
	return len(f) == 0
}

func (f Findings) merge(other Findings) {
	for category := range other {
		f[category] = struct{}{}
	}
}

// Types returns the detected labels in a stable order: ssn, phone, email, dob, name.
func (f Findings) Types() []string {
	types := make([]string, 0, len(f))
	for _, category := range categoryOrder {
		if f.Has(category) {
			types = append(types, string(category))
		}
	}
	return types
}

func (f Findings) String() string {
	return strings.Join(f.Types(), ",")
}

// ScanText applies every matcher to the folded text.
func ScanText(text string) Findings {
	findings := make(Findings)
	if text == "" {
		return findings
	}

	folded := fold(text)
	for _, r := range rules {
		for _, pattern := range r.patterns {
			if pattern.MatchString(folded) {
				findings.Add(r.category)
				break
			}
		}
	}

	return findings
}

// IsNameKey reports whether a mapping key itself denotes a person's name.
func IsNameKey(key string) bool {
	return nameKey.MatchString(fold(key))
}

// ScanStructure walks a decoded JSON tree. Every string leaf and every mapping key is scanned;
// keys are additionally checked against the name-bearing field names regardless of their value.
// Numbers, booleans and nulls are never matched. The walk uses an explicit stack, so nesting
// depth is bounded only by memory.
func ScanStructure(data any) Findings {
	findings := make(Findings)
	stack := []any{data}

	for len(stack) > 0 {
		last := len(stack) - 1
		node := stack[last]
		stack = stack[:last]

		switch v := node.(type) {
		case string:
			findings.merge(ScanText(v))
		case map[string]any:
			for key, nested := range v {
				scanKey(key, findings)
				stack = append(stack, nested)
			}
		case []any:
			stack = append(stack, v...)
		case map[string]string:
			for key, nested := range v {
				scanKey(key, findings)
				findings.merge(ScanText(nested))
			}
		case []string:
			for _, nested := range v {
				findings.merge(ScanText(nested))
			}
		}
	}

	return findings
}

func scanKey(key string, findings Findings) {
	if IsNameKey(key) {
		findings.Add(CategoryName)
	}
	findings.merge(ScanText(key))
}

// ScanJSON decodes a JSON document and scans the resulting tree.
func ScanJSON(body []byte) (Findings, error) {
	var tree any
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode payload for PII scan: %w", err)
	}
	return ScanStructure(tree), nil
}

// Scanner adapts ScanStructure to the orchestrator's collaborator interface.
type Scanner struct{}

func (Scanner) Scan(data any) Findings {
	return ScanStructure(data)
}
