package models

import "time"

// Lead status constants
const (
	LeadResearchPending  = "ResearchPending"
	LeadVerified         = "Verified"
	LeadQualified        = "Qualified"
	LeadReadyForOutreach = "ReadyForOutreach"
)

// StageScores maps a startup stage to its automatic score.
var StageScores = map[string]float64{
	"Idea":           10,
	"MVP":            25,
	"Beta":           50,
	"Launched":       75,
	"MarketTraction": 100,
}

// ActivityScores maps an activity level to its automatic score.
var ActivityScores = map[string]float64{
	"Dormant":    10,
	"Occasional": 40,
	"Active":     70,
	"Consistent": 100,
}

// ManualScoreOptions are the only values accepted for the three
// manually-assessed criteria.
var ManualScoreOptions = []float64{25, 50, 100}

type StartupLead struct {
	ID            string    `json:"id"`
	StartupName   string    `json:"startupName"`
	Description   string    `json:"description"`
	Institution   string    `json:"institution"`
	Domain        string    `json:"domain"`
	StartupStage  string    `json:"startupStage"`
	WebsiteLink   string    `json:"websiteOrSocialLink,omitempty"`
	Source        string    `json:"source"`
	ActivityLevel string    `json:"activityLevel"`
	ServiceFit    []string  `json:"serviceFit"`
	LeadScore     float64   `json:"leadScore"`
	CurrentStatus string    `json:"currentStatus"`
	SPAOwner      string    `json:"spaOwner"`
	PRLAssigned   *string   `json:"prlAssigned,omitempty"`
	ProofLinks    []string  `json:"proofLinks"`
	POCCount      int       `json:"pocCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type POC struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"leadId"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	LinkedIn  string    `json:"linkedin,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ScoringMatrix struct {
	ID              string    `json:"id"`
	LeadID          string    `json:"leadId"`
	StageScore      float64   `json:"stageScore"`
	ActivityScore   float64   `json:"activityScore"`
	DomainScore     float64   `json:"domainScore"`
	EngagementScore float64   `json:"engagementScore"`
	StoryScore      float64   `json:"storyPotentialScore"`
	WeightedTotal   float64   `json:"weightedTotal"`
	Qualified       bool      `json:"qualified"`
	CreatedAt       time.Time `json:"createdAt"`
}

type DashboardStats struct {
	ResearchPending  int     `json:"researchPending"`
	Verified         int     `json:"verified"`
	Qualified        int     `json:"qualified"`
	ReadyForOutreach int     `json:"readyForOutreach"`
	TotalLeads       int     `json:"totalLeads"`
	AverageScore     float64 `json:"averageScore"`
}

// Request types

type CreateLeadRequest struct {
	StartupName   string   `json:"startupName"`
	Description   string   `json:"description"`
	Institution   string   `json:"institution"`
	Domain        string   `json:"domain"`
	StartupStage  string   `json:"startupStage"`
	WebsiteLink   string   `json:"websiteOrSocialLink"`
	Source        string   `json:"source"`
	ActivityLevel string   `json:"activityLevel"`
	ServiceFit    []string `json:"serviceFit"`
	ProofLinks    []string `json:"proofLinks"`
}

type UpdateLeadRequest struct {
	StartupName   *string   `json:"startupName"`
	Description   *string   `json:"description"`
	Institution   *string   `json:"institution"`
	Domain        *string   `json:"domain"`
	StartupStage  *string   `json:"startupStage"`
	WebsiteLink   *string   `json:"websiteOrSocialLink"`
	Source        *string   `json:"source"`
	ActivityLevel *string   `json:"activityLevel"`
	ServiceFit    *[]string `json:"serviceFit"`
	ProofLinks    *[]string `json:"proofLinks"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status"`
}

type ScoreLeadRequest struct {
	DomainScore     float64 `json:"domainScore"`
	EngagementScore float64 `json:"engagementScore"`
	StoryScore      float64 `json:"storyPotentialScore"`
}

type HandoverRequest struct {
	PRLReceiverID string   `json:"prlReceiverId"`
	Notes         string   `json:"notes"`
	Attachments   []string `json:"attachments"`
}

type CreatePOCRequest struct {
	LeadID   string `json:"leadId"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	Notes    string `json:"notes"`
}

type UpdatePOCRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	LinkedIn *string `json:"linkedin"`
	Notes    *string `json:"notes"`
}

// HandoverEligibility reports which parts of the handover gate hold for
// a lead. The gate is authoritative here; the dashboard only mirrors it
// for button affordance.
type HandoverEligibility struct {
	Eligible      bool    `json:"eligible"`
	Score         float64 `json:"score"`
	ScoreOK       bool    `json:"scoreOk"`
	POCCount      int     `json:"pocCount"`
	POCOK         bool    `json:"pocOk"`
	ProofLinks    int     `json:"proofLinks"`
	ProofLinksOK  bool    `json:"proofLinksOk"`
	CurrentStatus string  `json:"currentStatus"`
	StatusOK      bool    `json:"statusOk"`
}
