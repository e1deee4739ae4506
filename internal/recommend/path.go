package recommend

import (
	"fmt"

	"github.com/certprep/backend/internal/models"
)

const (
	hoursPerWeakCategory = 4
	buildPhaseHours      = 8
	advancePhaseHours    = 12

	weakItemsPerCategory = 3
	tierItemsPerPhase    = 5
)

// coreTopicsByCert maps a certification code to the core topic list
// shown in the build phase. Unmapped certifications fall back to a
// generic entry.
var coreTopicsByCert = map[string][]string{
	"CCP": {"Cloud Concepts", "Security and Compliance", "Billing and Pricing", "Core Services"},
	"SAA": {"EC2", "S3", "VPC", "IAM", "RDS", "Route 53"},
	"DVA": {"Lambda", "DynamoDB", "API Gateway", "CI/CD", "SQS and SNS"},
	"SOA": {"CloudWatch", "Systems Manager", "High Availability", "Backup and Recovery"},
}

var advancedTopicsByCert = map[string][]string{
	"CCP": {"Well-Architected Framework", "Migration Strategies"},
	"SAA": {"Multi-Region Architectures", "Hybrid Networking", "Disaster Recovery", "Cost Optimization"},
	"DVA": {"Step Functions", "Advanced IAM Policies", "Event-Driven Architectures"},
	"SOA": {"Automation at Scale", "Advanced Monitoring", "Incident Response"},
}

var genericTopics = []string{"General AWS Topics"}

func coreTopics(certification string) []string {
	if topics, ok := coreTopicsByCert[certification]; ok {
		return topics
	}
	return genericTopics
}

func advancedTopics(certification string) []string {
	if topics, ok := advancedTopicsByCert[certification]; ok {
		return topics
	}
	return genericTopics
}

// buildStudyPath sequences the analyzer output into ordered phases with
// cumulative milestones. The weak-area phase appears only when weak
// categories exist; the advance phase only when a progression is
// recommended.
func (s *Service) buildStudyPath(userID, certification string, weak []models.WeakCategory, current, recommended models.DifficultyTier) models.StudyPath {
	path := models.StudyPath{
		UserID:            userID,
		CertificationType: certification,
	}

	if len(weak) > 0 {
		phase := models.StudyPhase{
			Name:           "Address Weak Areas",
			EstimatedHours: hoursPerWeakCategory * len(weak),
		}
		for _, w := range weak {
			phase.FocusAreas = append(phase.FocusAreas, w.Category)
			items, err := s.catalog.GetContentByCategory(w.Category, certification)
			if err != nil {
				continue
			}
			for i, item := range items {
				if i >= weakItemsPerCategory {
					break
				}
				phase.ContentIDs = append(phase.ContentIDs, item.ContentID)
			}
		}
		path.Phases = append(path.Phases, phase)
	}

	buildPhase := models.StudyPhase{
		Name:           fmt.Sprintf("Build %s Skills", current),
		EstimatedHours: buildPhaseHours,
		ContentIDs:     s.tierContentIDs(current, certification, tierItemsPerPhase),
		Topics:         coreTopics(certification),
	}
	path.Phases = append(path.Phases, buildPhase)

	if recommended != current {
		advancePhase := models.StudyPhase{
			Name:           fmt.Sprintf("Advance to %s", recommended),
			EstimatedHours: advancePhaseHours,
			ContentIDs:     s.tierContentIDs(recommended, certification, tierItemsPerPhase),
			Topics:         advancedTopics(certification),
		}
		path.Phases = append(path.Phases, advancePhase)
	}

	cumulative := 0
	for _, phase := range path.Phases {
		cumulative += phase.EstimatedHours
		path.Milestones = append(path.Milestones, models.Milestone{
			Phase:           phase.Name,
			CumulativeHours: cumulative,
		})
	}
	path.TotalEstimatedHours = cumulative

	return path
}

func (s *Service) tierContentIDs(tier models.DifficultyTier, certification string, limit int) []string {
	items, err := s.catalog.GetContentByDifficulty(tier, certification)
	if err != nil {
		return nil
	}
	var ids []string
	for i, item := range items {
		if i >= limit {
			break
		}
		ids = append(ids, item.ContentID)
	}
	return ids
}
