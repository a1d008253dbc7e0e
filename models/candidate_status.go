package models

type CandidateStatus string

const (
	CandidateStatusUnderReview        CandidateStatus = "UNDER_REVIEW"
	CandidateStatusShortlisted        CandidateStatus = "SHORTLISTED"
	CandidateStatusRejected           CandidateStatus = "REJECTED"
	CandidateStatusArchived           CandidateStatus = "ARCHIVED"
	CandidateStatusActive             CandidateStatus = "ACTIVE"
	CandidateStatusInterviewScheduled CandidateStatus = "INTERVIEW_SCHEDULED"
	CandidateStatusReferenceCheck     CandidateStatus = "REFERENCE_CHECK"
	CandidateStatusOfferExtended      CandidateStatus = "OFFER_EXTENDED"
	CandidateStatusOfferAccepted      CandidateStatus = "OFFER_ACCEPTED"
	CandidateStatusHired              CandidateStatus = "HIRED"
	CandidateStatusWithdrawn          CandidateStatus = "WITHDRAWN"
)

var candidateStatusHumanName = map[CandidateStatus]string{
	CandidateStatusUnderReview:        "Under review",
	CandidateStatusShortlisted:        "Shortlisted",
	CandidateStatusRejected:           "Rejected",
	CandidateStatusArchived:           "Archived",
	CandidateStatusActive:             "Active",
	CandidateStatusInterviewScheduled: "Interview scheduled",
	CandidateStatusReferenceCheck:     "Reference check",
	CandidateStatusOfferExtended:      "Offer extended",
	CandidateStatusOfferAccepted:      "Offer accepted",
	CandidateStatusHired:              "Hired",
	CandidateStatusWithdrawn:          "Withdrawn",
}

func (s CandidateStatus) ToHuman() string {
	if human, exist := candidateStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s CandidateStatus) IsKnown() bool {
	_, exist := candidateStatusHumanName[s]
	return exist
}

// hired and withdrawn are final, nothing moves out of them
func (s CandidateStatus) IsTerminal() bool {
	return s == CandidateStatusHired || s == CandidateStatusWithdrawn
}

var candidateNextStatuses = map[CandidateStatus][]CandidateStatus{
	CandidateStatusUnderReview:        {CandidateStatusShortlisted, CandidateStatusRejected, CandidateStatusArchived},
	CandidateStatusActive:             {CandidateStatusUnderReview},
	CandidateStatusShortlisted:        {CandidateStatusInterviewScheduled, CandidateStatusArchived},
	CandidateStatusInterviewScheduled: {CandidateStatusReferenceCheck, CandidateStatusOfferExtended, CandidateStatusWithdrawn},
	CandidateStatusReferenceCheck:     {CandidateStatusOfferExtended, CandidateStatusWithdrawn},
	CandidateStatusOfferExtended:      {CandidateStatusOfferAccepted, CandidateStatusWithdrawn},
	CandidateStatusOfferAccepted:      {CandidateStatusHired},
	CandidateStatusArchived:           {CandidateStatusUnderReview},
}

// IsAllowedNext reports whether a candidate in status s may move to next.
// Archiving and rejecting are allowed from any non-terminal status.
func (s CandidateStatus) IsAllowedNext(next CandidateStatus) bool {
	if !next.IsKnown() || s == next {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	if next == CandidateStatusArchived || next == CandidateStatusRejected {
		return true
	}
	for _, allowed := range candidateNextStatuses[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// BulkAction is a batch operation over candidates, each maps to one target status.
type BulkAction string

const (
	BulkActionShortlist BulkAction = "shortlist"
	BulkActionReject    BulkAction = "reject"
	BulkActionArchive   BulkAction = "archive"
	BulkActionUnarchive BulkAction = "unarchive"
)

func (a BulkAction) TargetStatus() (CandidateStatus, bool) {
	switch a {
	case BulkActionShortlist:
		return CandidateStatusShortlisted, true
	case BulkActionReject:
		return CandidateStatusRejected, true
	case BulkActionArchive:
		return CandidateStatusArchived, true
	case BulkActionUnarchive:
		return CandidateStatusUnderReview, true
	}
	return "", false
}

type EvaluationStatus string

const (
	EvaluationStatusQueued     EvaluationStatus = "QUEUED"
	EvaluationStatusProcessing EvaluationStatus = "PROCESSING"
	EvaluationStatusCompleted  EvaluationStatus = "COMPLETED"
	EvaluationStatusFailed     EvaluationStatus = "FAILED"
)
