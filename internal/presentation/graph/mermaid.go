package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/aretw0/stateworks/pkg/table"
)

// Overlay contains runtime data to highlight on the graph.
type Overlay struct {
	Visited []domain.StateID
	Current domain.StateID
}

// GenerateMermaid renders a table as a Mermaid flowchart.
// The initial state is drawn as a circle, states with entry or exit actions
// as subroutines, and the rest as rectangles. Wildcard transitions are
// dotted. Transition labels carry the condition and the actions.
func GenerateMermaid(tbl *table.Table, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, id := range tbl.States() {
		spec, _ := tbl.SpecOf(id)
		safeID := sanitizeMermaidID(string(id))

		opener, closer := "[", "]"
		switch {
		case id == tbl.Initial():
			opener, closer = "((", "))"
		case len(spec.Entry) > 0 || len(spec.Exit) > 0:
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escape(spec.Name), closer)

		for _, tr := range spec.Transitions {
			safeTo := sanitizeMermaidID(string(tr.To))
			label := escape(tr.Condition.String())
			if len(tr.Actions) > 0 {
				label += " / " + escape(joinActions(tr.Actions))
			}
			if tr.Condition.IsAlways() {
				fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", safeID, label, safeTo)
				continue
			}
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, label, safeTo)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Visited {
			safeID := sanitizeMermaidID(string(id))
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(string(overlay.Current)))
		}
	}

	return sb.String()
}

func joinActions(actions []domain.Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return r.Replace(id)
}
