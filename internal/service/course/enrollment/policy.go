package enrollment

import "SimpleMOOC/internal/models"

// ApprovalPolicy decides the status of a freshly created enrollment.
type ApprovalPolicy interface {
	Decide(e *models.Enrollment)
}

type AutoApprove struct{}

func (AutoApprove) Decide(e *models.Enrollment) {
	e.Approve()
}

// ManualApproval leaves the enrollment pending until staff approve it.
type ManualApproval struct{}

func (ManualApproval) Decide(*models.Enrollment) {}

func PolicyFor(autoApprove bool) ApprovalPolicy {
	if autoApprove {
		return AutoApprove{}
	}
	return ManualApproval{}
}
