package models

import "time"

// Challenge status constants
const (
	ChallengeIdentified         = "identified"
	ChallengeRCAInProgress      = "rca-in-progress"
	ChallengeRCACompleted       = "rca-completed"
	ChallengeSolutionInProgress = "solution-in-progress"
	ChallengeResolved           = "resolved"
	ChallengeArchived           = "archived"
)

// Core problem status constants
const (
	CoreProblemIdentified   = "identified"
	CoreProblemOpen         = "open-for-solutions"
	CoreProblemImplementing = "solution-implementing"
	CoreProblemResolved     = "resolved"
	CoreProblemEscalated    = "escalated"
)

// Solution status constants
const (
	SolutionSubmitted   = "submitted"
	SolutionUnderReview = "under-review"
	SolutionAccepted    = "accepted"
	SolutionDiscarded   = "discarded"
)

// MaxRCALevels caps the 5-whys list on a core problem.
const MaxRCALevels = 5

type Challenge struct {
	ID            string    `json:"id"`
	PodID         string    `json:"podId"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Priority      string    `json:"priority"`
	Status        string    `json:"status"`
	CoreProblemID *string   `json:"coreProblemId,omitempty"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CoreProblem struct {
	ID                 string    `json:"id"`
	PodID              string    `json:"podId"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Status             string    `json:"status"`
	IsPublic           bool      `json:"isPublic"`
	IsSolved           bool      `json:"isSolved"`
	EscalatedTo        *string   `json:"escalatedTo,omitempty"`
	EscalationNotes    string    `json:"escalationNotes,omitempty"`
	WinReflection      string    `json:"winReflection,omitempty"`
	ResolvedSolutionID *string   `json:"resolvedSolutionId,omitempty"`
	OutcomeNotes       string    `json:"outcomeNotes,omitempty"`
	RootCauseAnalysis  []RCAStep `json:"rootCauseAnalysis"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// RCAStep is one level of a 5-whys root-cause analysis.
type RCAStep struct {
	Level  int    `json:"level"`
	Answer string `json:"answer"`
}

type Solution struct {
	ID            string    `json:"id"`
	CoreProblemID string    `json:"coreProblemId"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	SubmittedBy   string    `json:"submittedBy"`
	Status        string    `json:"status"`
	IsSelected    bool      `json:"isSelected"`
	ReviewNotes   string    `json:"reviewNotes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Request types

type CreateChallengeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

type UpdateChallengeRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

type LinkChallengeRequest struct {
	CoreProblemID string `json:"coreProblemId"`
}

type CreateCoreProblemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type UpdateRCARequest struct {
	Steps []RCAStep `json:"steps"`
}

type EscalateRequest struct {
	UserID string `json:"userId"`
	Notes  string `json:"notes"`
}

type ResolveCoreProblemRequest struct {
	SolutionID    string `json:"solutionId"`
	WinReflection string `json:"winReflection"`
}

type RecordOutcomeRequest struct {
	IsSolved bool   `json:"isSolved"`
	Notes    string `json:"notes"`
}

type CreateSolutionRequest struct {
	CoreProblemID string `json:"coreProblemId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
}

type ReviewSolutionRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}
