package models

import "time"

// Catalog tab constants
const (
	TabBMPs              = "bmps"
	TabCulture           = "culture"
	TabMarketing         = "marketing"
	TabStrategicPartners = "strategicPartners"
	TabPartnerRelations  = "partnerRelations"
	TabServices          = "services"
)

// Activation status constants
const (
	ActivationPending    = "pending"
	ActivationInProgress = "in-progress"
	ActivationCompleted  = "completed"
)

// Derived card status constants (what the dashboard renders)
const (
	CardLocked = "locked"
	CardReady  = "ready"
	CardActive = "active"
)

// KickoffItemID is the legacy identifier of the kickoff milestone,
// which is always rendered active no matter what progress says.
const KickoffItemID = "kickoff-caarya"

// Domain types

type Pod struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Crew      string    `json:"crew"`
	Category  string    `json:"category"`
	Stage     string    `json:"stage"`
	Members   int       `json:"members"`
	Goals     int       `json:"goals"`
	IsActive  bool      `json:"isActive"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnlockItem is a catalog entry: a process milestone, culture entry or
// marketing/partner/service asset. ItemID is the legacy human-assigned
// slug kept alongside the database-assigned ID; it is not unique across
// categories, so it is only ever used as a fallback lookup key.
type UnlockItem struct {
	ID           string `json:"id"`
	ItemID       string `json:"itemId"`
	Tab          string `json:"tabName"`
	Name         string `json:"name"`
	Subtitle     string `json:"subtitle"`
	Description  string `json:"desc"`
	Category     string `json:"category"`
	DepartmentID string `json:"departmentId"`
	Position     int    `json:"-"`
}

type Activation struct {
	PodID       string     `json:"podId"`
	UnlockID    string     `json:"unlockId"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type AssetStatus struct {
	PodID       string     `json:"podId"`
	AssetID     string     `json:"assetId"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Comment     *string    `json:"comment,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Board types (status-merge output)

type BoardItem struct {
	ID          string `json:"id"`
	ItemID      string `json:"itemId"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type BoardSection struct {
	Title string      `json:"title"`
	Items []BoardItem `json:"items"`
}

type Board struct {
	PodID    string         `json:"podId"`
	Tab      string         `json:"tab"`
	Sections []BoardSection `json:"sections"`
	// Degraded is set when progress could not be loaded and every
	// item was rendered locked from the legacy all-pending snapshot.
	Degraded bool `json:"degraded,omitempty"`
}

// User types

type User struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phoneNumber"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsLead    bool      `json:"isLead"`
	PodID     *string   `json:"podId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Request types

type RequestOTPRequest struct {
	Phone string `json:"phoneNumber"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phoneNumber"`
	Code  string `json:"code"`
}

type UpdateActivationRequest struct {
	Status string `json:"status"`
}

type AssetCommentRequest struct {
	Comment string `json:"comment"`
}

// Response types

type VerifyOTPResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ProgressResponse struct {
	Activations   []Activation  `json:"activations"`
	AssetStatuses []AssetStatus `json:"assetStatuses"`
}

// Envelope is the uniform response body shape the dashboard expects:
// { success, data?, message? }. Errors reuse it with success=false.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}
