// Package detect classifies pasted text as Mermaid source and derives a
// display name for it. Heuristics only; the render engine is the final
// arbiter of validity.
package detect

import (
	"regexp"
	"strings"
)

// diagramKeywords are the Mermaid diagram-type headers a document may start with.
var diagramKeywords = []string{
	"graph",
	"flowchart",
	"sequencediagram",
	"classdiagram",
	"statediagram",
	"journey",
	"gantt",
	"pie",
	"requirement",
	"erdiagram",
	"c4context",
	"mindmap",
	"timeline",
	"gitgraph",
	"quadrantchart",
	"xychart",
}

var diagramPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^[A-Z]\s*-->`),              // node connections
	regexp.MustCompile(`(?m)^[A-Z]\s*---`),              // dashed connections
	regexp.MustCompile(`(?m)^\s*participant\s+`),        // sequence participants
	regexp.MustCompile(`(?m)^\s*[A-Z][A-Z0-9]*\s*:\s*`), // class members
	regexp.MustCompile(`(?m)^\s*state\s+`),              // state declarations
	regexp.MustCompile(`(?m)^\s*[A-Z][A-Z0-9_]*\s*\|\|--o`), // ER relationships
}

var styleFillPattern = regexp.MustCompile(`(?m)style\s+\w+\s+fill:`)

// IsDiagram reports whether text looks like Mermaid source.
func IsDiagram(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 5 {
		return false
	}

	lower := strings.ToLower(trimmed)
	for _, kw := range diagramKeywords {
		if strings.HasPrefix(lower, kw) {
			return true
		}
	}
	for _, p := range diagramPatterns {
		if p.MatchString(trimmed) {
			return true
		}
	}

	hasEdges := strings.Contains(trimmed, "-->") || strings.Contains(trimmed, "---")
	hasNodes := strings.Contains(trimmed, "[") && strings.Contains(trimmed, "]")
	return (hasEdges && hasNodes) ||
		strings.Contains(trimmed, ":::") ||
		styleFillPattern.MatchString(trimmed)
}

// nameByPrefix maps a leading keyword to a human-readable diagram name.
var nameByPrefix = []struct {
	prefix string
	name   string
}{
	{"graph", "Flowchart Diagram"},
	{"flowchart", "Flowchart Diagram"},
	{"sequencediagram", "Sequence Diagram"},
	{"classdiagram", "Class Diagram"},
	{"statediagram", "State Diagram"},
	{"gantt", "Gantt Chart"},
	{"pie", "Pie Chart"},
	{"journey", "User Journey"},
	{"erdiagram", "Entity Relationship Diagram"},
	{"mindmap", "Mind Map"},
	{"timeline", "Timeline"},
	{"gitgraph", "Git Graph"},
	{"requirement", "Requirement Diagram"},
}

var labeledNodePattern = regexp.MustCompile(`[A-Z][A-Z0-9]*\[([^\]]+)\]`)

// SuggestName derives a display name from the first line of the source,
// falling back to the first labeled node and finally a generic name.
func SuggestName(code string) string {
	trimmed := strings.TrimSpace(code)
	firstLine := trimmed
	if i := strings.IndexByte(trimmed, '\n'); i >= 0 {
		firstLine = trimmed[:i]
	}
	lower := strings.ToLower(strings.TrimSpace(firstLine))

	for _, m := range nameByPrefix {
		if strings.HasPrefix(lower, m.prefix) {
			return m.name
		}
	}
	if match := labeledNodePattern.FindStringSubmatch(code); match != nil {
		return match[1] + " Diagram"
	}
	return "Pasted Diagram"
}
