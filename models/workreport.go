package models

import "time"

// Work plan status constants
const (
	WorkPlanSubmitted    = "submitted"
	WorkPlanNotSubmitted = "not-submitted"
	WorkPlanOnLeave      = "on-leave"
)

// DSR status constants
const (
	DSRNotSubmitted = "not-submitted"
	DSRPending      = "pending"
	DSRApproved     = "approved"
	DSRFlagged      = "flagged"
)

type WorkReportUser struct {
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phoneNumber"`
	WorkPlanStatus string `json:"workPlanStatus"`
	DSRStatus      string `json:"dsrStatus"`
	TotalDSRs      int    `json:"totalDSRsSubmitted"`
	WorkingDay     int    `json:"workingDayNumber,omitempty"`
}

type WorkReportSummary struct {
	Date               string           `json:"date"`
	TotalUsers         int              `json:"totalUsers"`
	UsersWorkingToday  int              `json:"usersWorkingToday"`
	WorkPlansSubmitted int              `json:"workPlansSubmitted"`
	DSRsSubmitted      int              `json:"dsrsSubmitted"`
	Users              []WorkReportUser `json:"users"`
}

// DSR detail types. The work breakdown is stored as an opaque JSON
// payload; these types give it shape on the way out.

type DSRSubtask struct {
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

type DSRWorkItem struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Subtasks []DSRSubtask `json:"subtasks"`
	Duration string       `json:"duration"`
}

type DSRSupportItem struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type DSRAccountabilityItem struct {
	Task        string `json:"task"`
	Completed   bool   `json:"completed"`
	Description string `json:"description,omitempty"`
}

type DSRVisionSyncItem struct {
	Task string `json:"task"`
}

type DSRResponsibilities struct {
	WorkDone       []DSRWorkItem    `json:"workDone"`
	TotalTime      string           `json:"totalTime"`
	Challenges     string           `json:"challenges"`
	SupportAvailed []DSRSupportItem `json:"supportAvailed"`
}

type DSRDetails struct {
	MemberName       string                  `json:"memberName"`
	Date             string                  `json:"date"`
	Status           string                  `json:"status"`
	SubmittedAt      time.Time               `json:"submittedAt"`
	SubmittedAgo     string                  `json:"submittedAgo"`
	Responsibilities DSRResponsibilities     `json:"responsibilities"`
	Accountability   []DSRAccountabilityItem `json:"accountability"`
	VisionSync       []DSRVisionSyncItem     `json:"visionSync"`
}

// Weekly report types

type WeeklyMemberProgress struct {
	UserID          string  `json:"userId"`
	Name            string  `json:"name"`
	AssignedQuests  int     `json:"assignedQuests"`
	WorkExTarget    float64 `json:"workExTarget"`
	WorkExCompleted float64 `json:"workExCompleted"`
	Progress        float64 `json:"progress"`
}

type WeeklyWorkReport struct {
	WeekStart       string                 `json:"weekStart"`
	WeekEnd         string                 `json:"weekEnd"`
	GoalsCompleted  int                    `json:"goalsCompleted"`
	PodProductivity float64                `json:"totalPodProductivity"`
	Members         []WeeklyMemberProgress `json:"members"`
}

// Member availability

type MemberAvailability struct {
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	AvailableDays []string  `json:"availableDays"`
	LastActiveAt  time.Time `json:"lastActiveAt"`
	LastActiveAgo string    `json:"lastActiveAgo"`
}
