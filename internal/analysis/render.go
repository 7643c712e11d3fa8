package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aymerick/raymond"
	"github.com/beevik/etree"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/reliclabs/relic/internal/detect"
)

// displayNames maps language buckets to their conventional casing.
// Anything else falls back to title casing.
var displayNames = map[string]string{
	"python":     "Python",
	"javascript": "JavaScript",
	"typescript": "TypeScript",
}

var titleCaser = cases.Title(language.English)

func displayName(lang string) string {
	if name, ok := displayNames[lang]; ok {
		return name
	}
	return titleCaser.String(lang)
}

const markdownTemplate = `# Repository Analysis

**Grade:** {{grade}} ({{score}}/100)
**Estimated debt:** {{hours}}h ({{days}} days)

> {{{recommendation}}}

## Languages

{{#if languageRows}}{{#each languageRows}}{{this}}
{{/each}}{{else}}No classified source files.
{{/if}}
## Frameworks

{{#if frameworks}}{{#each frameworks}}- **{{name}}** ({{confidence}}{{#if version}}, {{version}}{{/if}})
{{/each}}{{else}}None detected.
{{/if}}
## Issues ({{totalIssues}})

{{#if issues}}{{#each issues}}- {{file}}:{{line}} [{{severity}}] {{{description}}}. {{{suggestion}}}
{{/each}}{{else}}No issues found in the sampled files.
{{/if}}`

// RenderMarkdown renders the result as a Handlebars-templated report.
func RenderMarkdown(r *Result) (string, error) {
	frameworks := make([]map[string]interface{}, 0, len(r.Frameworks))
	for _, f := range r.Frameworks {
		version := ""
		if f.Version != nil {
			version = *f.Version
		}
		frameworks = append(frameworks, map[string]interface{}{
			"name":       f.Name,
			"confidence": f.Confidence,
			"version":    version,
		})
	}

	issues := make([]map[string]interface{}, 0, len(r.Issues))
	for _, issue := range r.Issues {
		issues = append(issues, map[string]interface{}{
			"file":        issue.File,
			"line":        issue.LineNumber,
			"severity":    issue.Severity.String(),
			"description": issue.Description,
			"suggestion":  issue.Suggestion,
		})
	}

	data := map[string]interface{}{
		"grade":          r.TechDebt.Grade,
		"score":          r.TechDebt.MaintainabilityScore,
		"hours":          strconv.FormatFloat(r.TechDebt.EstimatedHours, 'f', -1, 64),
		"days":           strconv.FormatFloat(r.TechDebt.EstimatedDays, 'f', -1, 64),
		"recommendation": r.TechDebt.Recommendation,
		"languageRows":   languageTableRows(r.Languages),
		"frameworks":     frameworks,
		"totalIssues":    len(r.Issues),
		"issues":         issues,
	}

	out, err := raymond.Render(markdownTemplate, data)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// languageTableRows builds a markdown table with the name column
// padded to the widest display name. Rune width, not byte length,
// drives the padding.
func languageTableRows(stats []LanguageStat) []string {
	if len(stats) == 0 {
		return nil
	}

	const header = "Language"
	width := runewidth.StringWidth(header)
	for _, s := range stats {
		if w := runewidth.StringWidth(displayName(s.Name)); w > width {
			width = w
		}
	}

	rows := []string{
		fmt.Sprintf("| %s | %8s | %5s |", runewidth.FillRight(header, width), "Share", "Files"),
		fmt.Sprintf("| %s | %8s | %5s |", runewidth.FillRight("", width), "---:", "---:"),
	}
	for _, s := range stats {
		rows = append(rows, fmt.Sprintf("| %s | %7.2f%% | %5d |",
			runewidth.FillRight(displayName(s.Name), width), s.Percentage, s.FileCount))
	}
	return rows
}

// RenderYAML emits the result as YAML with the same snake_case keys as
// the JSON form. Keys are sorted by the encoder, so output is stable.
func RenderYAML(r *Result) ([]byte, error) {
	canonical, err := r.MarshalCanonical()
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(canonical, &doc); err != nil {
		return nil, fmt.Errorf("rebuilding result for yaml: %w", err)
	}
	return yaml.Marshal(doc)
}

// RenderCheckstyleXML emits the issue list in checkstyle format so CI
// annotators can consume it. Files appear in first-issue order;
// severities map CRITICAL/HIGH to error, MEDIUM to warning, LOW to
// info.
func RenderCheckstyleXML(r *Result) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("checkstyle")
	root.CreateAttr("version", "4.3")

	fileElems := make(map[string]*etree.Element)
	for _, issue := range r.Issues {
		elem, ok := fileElems[issue.File]
		if !ok {
			elem = root.CreateElement("file")
			elem.CreateAttr("name", issue.File)
			fileElems[issue.File] = elem
		}
		e := elem.CreateElement("error")
		e.CreateAttr("line", strconv.Itoa(issue.LineNumber))
		e.CreateAttr("severity", checkstyleSeverity(issue.Severity))
		e.CreateAttr("message", issue.Description+". "+issue.Suggestion)
		e.CreateAttr("source", issue.Pattern)
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("serializing checkstyle xml: %w", err)
	}
	return out, nil
}

func checkstyleSeverity(s detect.Severity) string {
	switch s {
	case detect.SeverityCritical, detect.SeverityHigh:
		return "error"
	case detect.SeverityMedium:
		return "warning"
	default:
		return "info"
	}
}
