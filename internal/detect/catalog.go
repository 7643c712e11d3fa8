package detect

import "regexp"

// RuleCategory groups catalog rules by what kind of problem they flag.
type RuleCategory string

const (
	CategoryLegacySyntax RuleCategory = "legacy-syntax"
	CategorySecurity     RuleCategory = "security"
	CategoryDeprecated   RuleCategory = "deprecated"
)

// Rule is one entry of the pattern catalog: a line-level regex with a
// fixed severity, description and fix suggestion.
type Rule struct {
	Pattern     *regexp.Regexp
	Category    RuleCategory
	Severity    Severity
	Description string
	Suggestion  string
}

func rule(cat RuleCategory, expr string, sev Severity, desc, fix string) Rule {
	return Rule{
		Pattern:     regexp.MustCompile(expr),
		Category:    cat,
		Severity:    sev,
		Description: desc,
		Suggestion:  fix,
	}
}

// Catalog is the ordered, fixed rule table. Order matters: issues for a
// line are emitted in catalog order.
var Catalog = []Rule{
	// Python 2 era syntax
	rule(CategoryLegacySyntax, `print\s+"`, SeverityHigh, "Python 2 print statement", "Use print() function"),
	rule(CategoryLegacySyntax, `print\s+'`, SeverityHigh, "Python 2 print statement", "Use print() function"),
	rule(CategoryLegacySyntax, `except\s+\w+\s*,\s*\w+:`, SeverityHigh, "Python 2 exception syntax", "Use 'except Exception as e:'"),
	rule(CategoryLegacySyntax, `\.iteritems\(\)`, SeverityHigh, "Python 2 dict method", "Use .items()"),
	rule(CategoryLegacySyntax, `\.iterkeys\(\)`, SeverityHigh, "Python 2 dict method", "Use .keys()"),
	rule(CategoryLegacySyntax, `\.itervalues\(\)`, SeverityHigh, "Python 2 dict method", "Use .values()"),
	rule(CategoryLegacySyntax, `\bxrange\(`, SeverityHigh, "Python 2 xrange", "Use range()"),
	rule(CategoryLegacySyntax, `\bunicode\(`, SeverityHigh, "Python 2 unicode", "Use str()"),
	rule(CategoryLegacySyntax, `"\s*%\s*\(`, SeverityMedium, "Old string formatting", "Use f-strings"),
	rule(CategoryLegacySyntax, `'\s*%\s*\(`, SeverityMedium, "Old string formatting", "Use f-strings"),
	rule(CategoryLegacySyntax, `\.format\(`, SeverityLow, "Old string formatting", "Consider f-strings"),

	// Security
	rule(CategorySecurity, `eval\(`, SeverityCritical, "Unsafe eval usage", "Avoid eval, use ast.literal_eval"),
	rule(CategorySecurity, `exec\(`, SeverityCritical, "Unsafe exec usage", "Avoid exec"),
	rule(CategorySecurity, `pickle\.loads?\(`, SeverityHigh, "Insecure deserialization", "Use json or safer alternatives"),
	rule(CategorySecurity, `md5\(`, SeverityHigh, "Weak hash algorithm", "Use SHA-256 or better"),
	rule(CategorySecurity, `sha1\(`, SeverityHigh, "Weak hash algorithm", "Use SHA-256 or better"),

	// Deprecated builtins and compat shims
	rule(CategoryDeprecated, `from __future__ import`, SeverityMedium, "Python 2 compatibility", "Remove if Python 3 only"),
	rule(CategoryDeprecated, `file\(`, SeverityHigh, "Deprecated file() builtin", "Use open()"),
	rule(CategoryDeprecated, `raw_input\(`, SeverityHigh, "Python 2 raw_input", "Use input()"),
}
