package document

import (
	"fmt"
	"strings"

	"deal_evaluation/pkg/core/utils"
)

// ReportMarkdown renders a review into a markdown summary, worst
// findings first.
func ReportMarkdown(doc *Document, rev *Review) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Review: %s\n\n", doc.Name)

	order := []Severity{SeverityHigh, SeverityWarning, SeverityOK}
	headings := map[Severity]string{
		SeverityHigh:    "High Risk",
		SeverityWarning: "Needs Attention",
		SeverityOK:      "Passed Checks",
	}

	for _, sev := range order {
		var section []Finding
		for _, f := range rev.Findings {
			if f.Severity == sev {
				section = append(section, f)
			}
		}
		if len(section) == 0 {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n\n", headings[sev])
		for _, f := range section {
			fmt.Fprintf(&sb, "- **%s**: %s", f.Title, f.Detail)
			if f.ClauseRef != "" {
				fmt.Fprintf(&sb, " (%s)", f.ClauseRef)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(rev.Findings) == 0 {
		sb.WriteString("No findings.\n")
	}
	return sb.String()
}

// ReportHTML renders the review report as HTML for the document center.
func ReportHTML(doc *Document, rev *Review) (string, error) {
	return utils.RenderMarkdown(ReportMarkdown(doc, rev))
}
