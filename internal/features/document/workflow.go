package document

import (
	"github.com/syffus01/BioGED/internal/common/models"

	"github.com/google/uuid"
)

// workflowTemplates maps a document type to the role-ordered approval steps
// seeded at upload. Types absent from the table carry no workflow and stay
// Draft until explicitly rejected.
var workflowTemplates = map[string][]WorkflowStep{
	"CTD":        regulatoryChain(),
	"eCTD":       regulatoryChain(),
	"Regulatory": regulatoryChain(),
	"SOP":        managementChain(),
	"Protocol":   managementChain(),
}

func regulatoryChain() []WorkflowStep {
	return []WorkflowStep{
		{StepName: "Quality Review", AssigneeRole: string(models.RoleQualityManager), Status: StepPending},
		{StepName: "Regulatory Review", AssigneeRole: string(models.RoleRegulatoryAffairs), Status: StepPending},
		{StepName: "Final Approval", AssigneeRole: string(models.RoleAdmin), Status: StepPending},
	}
}

func managementChain() []WorkflowStep {
	return []WorkflowStep{
		{StepName: "Technical Review", AssigneeRole: string(models.RoleQualityManager), Status: StepPending},
		{StepName: "Management Approval", AssigneeRole: string(models.RoleAdmin), Status: StepPending},
	}
}

// SeedWorkflow returns a fresh step list for the document type.
func SeedWorkflow(documentType string) []WorkflowStep {
	template, ok := workflowTemplates[documentType]
	if !ok {
		return []WorkflowStep{}
	}

	steps := make([]WorkflowStep, len(template))
	copy(steps, template)
	for i := range steps {
		steps[i].StepID = uuid.NewString()
	}
	return steps
}

// ComputeStatus derives the document status from its step list: Approved iff
// every step is Completed, UnderReview as soon as any approval happened,
// Draft otherwise. The scan is global; completion order does not matter.
func ComputeStatus(steps []WorkflowStep) DocumentStatus {
	if len(steps) == 0 {
		return StatusDraft
	}

	completed := 0
	for _, s := range steps {
		if s.Status == StepCompleted {
			completed++
		}
	}

	switch completed {
	case len(steps):
		return StatusApproved
	case 0:
		return StatusDraft
	default:
		return StatusUnderReview
	}
}
