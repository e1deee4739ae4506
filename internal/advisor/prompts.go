package advisor

import (
	"fmt"
	"strings"

	"github.com/certprep/backend/internal/models"
)

func briefingSystemPrompt() string {
	return `You are a study coach for cloud certification candidates.
Given a structured study plan, write a short encouraging briefing (3-5
sentences) that summarizes the plan, names the weak areas to focus on
first, and states the total time commitment. Plain prose, no lists, no
markdown.`
}

func buildBriefingPrompt(path models.StudyPath, weak []models.WeakCategory) string {
	var b strings.Builder

	if path.CertificationType != "" {
		fmt.Fprintf(&b, "Certification: %s\n", path.CertificationType)
	}
	fmt.Fprintf(&b, "Total estimated hours: %d\n", path.TotalEstimatedHours)

	for _, phase := range path.Phases {
		fmt.Fprintf(&b, "Phase: %s (%d hours)", phase.Name, phase.EstimatedHours)
		if len(phase.FocusAreas) > 0 {
			fmt.Fprintf(&b, " focusing on %s", strings.Join(phase.FocusAreas, ", "))
		}
		b.WriteString("\n")
	}

	if len(weak) > 0 {
		b.WriteString("Weak areas:\n")
		for _, w := range weak {
			fmt.Fprintf(&b, "- %s (average %.1f%%, severity %s)\n", w.Category, w.AvgScore, w.Severity)
		}
	}

	return b.String()
}
