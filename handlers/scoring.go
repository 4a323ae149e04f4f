// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import "github.com/caarya/caarya-live/models"

// Scoring weights. These are fixed business constants: stage carries
// the most signal, story potential the least.
const (
	weightStage      = 0.30
	weightActivity   = 0.20
	weightDomain     = 0.20
	weightEngagement = 0.20
	weightStory      = 0.10
)

// qualificationThreshold is the advisory score bar for the "qualified"
// badge. Scoring below it still moves a lead to Verified.
const qualificationThreshold = 50.0

// ComputeWeightedTotal calculates the lead score from the two automatic
// and three manual criteria.
func ComputeWeightedTotal(stageScore, activityScore, domainScore, engagementScore, storyScore float64) float64 {
	return stageScore*weightStage +
		activityScore*weightActivity +
		domainScore*weightDomain +
		engagementScore*weightEngagement +
		storyScore*weightStory
}

// IsQualified reports whether a total clears the qualification bar
// (inclusive).
func IsQualified(total float64) bool {
	return total >= qualificationThreshold
}

// ValidManualScore reports whether a manually-assessed criterion uses
// one of the allowed option values.
func ValidManualScore(v float64) bool {
	for _, opt := range models.ManualScoreOptions {
		if v == opt {
			return true
		}
	}
	return false
}

// CheckHandoverEligibility evaluates the full handover gate for a lead.
// Every check must hold: score at or above the bar, at least one POC,
// at least one proof link, and status Qualified. This is the
// authoritative check; the dashboard's client-side copy only drives
// button affordance.
func CheckHandoverEligibility(lead models.StartupLead, pocCount int) models.HandoverEligibility {
	e := models.HandoverEligibility{
		Score:         lead.LeadScore,
		ScoreOK:       lead.LeadScore >= qualificationThreshold,
		POCCount:      pocCount,
		POCOK:         pocCount >= 1,
		ProofLinks:    len(lead.ProofLinks),
		ProofLinksOK:  len(lead.ProofLinks) >= 1,
		CurrentStatus: lead.CurrentStatus,
		StatusOK:      lead.CurrentStatus == models.LeadQualified,
	}
	e.Eligible = e.ScoreOK && e.POCOK && e.ProofLinksOK && e.StatusOK
	return e
}
