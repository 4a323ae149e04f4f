// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/caarya/caarya-live/middleware"
	"github.com/caarya/caarya-live/models"
	"github.com/caarya/caarya-live/testutil"
)

func TestChallengeLifecycle(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewChallengeHandler(conn, cfg)

	user := testutil.CreateTestUser(t, conn, "+911234600001", "Asha")
	token := testutil.CreateTestSession(t, conn, user.ID)
	podID := testutil.CreateTestPod(t, conn, "Falcon", "Tech")

	req := testutil.MakeRequest("POST", "/pods/"+podID+"/challenges",
		models.CreateChallengeRequest{Title: "Slow onboarding", Description: "New members idle for a week"},
		testutil.AuthHeader(token))
	req.SetPathValue("id", podID)
	w := httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.CreateChallenge)(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var c models.Challenge
	testutil.DecodeData(t, w, &c)
	if c.Status != models.ChallengeIdentified {
		t.Errorf("expected new challenge identified, got %q", c.Status)
	}
	if c.CreatedBy != user.ID {
		t.Errorf("expected creator %s, got %s", user.ID, c.CreatedBy)
	}

	// The status dropdown is a free set; archive straight away
	archived := models.ChallengeArchived
	req = testutil.MakeRequest("PATCH", "/challenges/"+c.ID,
		models.UpdateChallengeRequest{Status: &archived}, testutil.AuthHeader(token))
	req.SetPathValue("id", c.ID)
	w = httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.UpdateChallenge)(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	testutil.DecodeData(t, w, &c)
	if c.Status != models.ChallengeArchived {
		t.Errorf("expected archived, got %q", c.Status)
	}

	// Unknown statuses are refused
	bogus := "solved-forever"
	req = testutil.MakeRequest("PATCH", "/challenges/"+c.ID,
		models.UpdateChallengeRequest{Status: &bogus}, testutil.AuthHeader(token))
	req.SetPathValue("id", c.ID)
	w = httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.UpdateChallenge)(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestLinkChallengeToCoreProblem(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewChallengeHandler(conn, cfg)

	user := testutil.CreateTestUser(t, conn, "+911234600002", "Ravi")
	token := testutil.CreateTestSession(t, conn, user.ID)
	podID := testutil.CreateTestPod(t, conn, "Falcon", "Tech")
	problemID := testutil.CreateTestCoreProblem(t, conn, podID, "Onboarding gap")

	req := testutil.MakeRequest("POST", "/pods/"+podID+"/challenges",
		models.CreateChallengeRequest{Title: "Slow onboarding", Description: "details"},
		testutil.AuthHeader(token))
	req.SetPathValue("id", podID)
	w := httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.CreateChallenge)(w, req)
	var c models.Challenge
	testutil.DecodeData(t, w, &c)

	req = testutil.MakeRequest("POST", "/challenges/"+c.ID+"/link",
		models.LinkChallengeRequest{CoreProblemID: problemID}, testutil.AuthHeader(token))
	req.SetPathValue("id", c.ID)
	w = httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.LinkChallenge)(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	testutil.DecodeData(t, w, &c)
	if c.CoreProblemID == nil || *c.CoreProblemID != problemID {
		t.Errorf("expected link to %s, got %v", problemID, c.CoreProblemID)
	}

	// Linking to a nonexistent problem fails
	req = testutil.MakeRequest("POST", "/challenges/"+c.ID+"/link",
		models.LinkChallengeRequest{CoreProblemID: "nope"}, testutil.AuthHeader(token))
	req.SetPathValue("id", c.ID)
	w = httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.LinkChallenge)(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestUpdateRCA(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewCoreProblemHandler(conn, cfg)

	user := testutil.CreateTestUser(t, conn, "+911234600003", "Meera")
	token := testutil.CreateTestSession(t, conn, user.ID)
	podID := testutil.CreateTestPod(t, conn, "Falcon", "Tech")
	problemID := testutil.CreateTestCoreProblem(t, conn, podID, "Onboarding gap")

	putRCA := func(steps []models.RCAStep) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("PUT", "/core-problems/"+problemID+"/rca",
			models.UpdateRCARequest{Steps: steps}, testutil.AuthHeader(token))
		req.SetPathValue("id", problemID)
		w := httptest.NewRecorder()
		middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.UpdateRCA)(w, req)
		return w
	}

	w := putRCA([]models.RCAStep{
		{Level: 1, Answer: "No onboarding doc"},
		{Level: 2, Answer: "Nobody owns it"},
	})
	testutil.AssertStatus(t, w, http.StatusOK)

	var cp models.CoreProblem
	testutil.DecodeData(t, w, &cp)
	if len(cp.RootCauseAnalysis) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(cp.RootCauseAnalysis))
	}

	// A later submission replaces the list wholesale
	w = putRCA([]models.RCAStep{{Level: 1, Answer: "Rewritten"}})
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.DecodeData(t, w, &cp)
	if len(cp.RootCauseAnalysis) != 1 || cp.RootCauseAnalysis[0].Answer != "Rewritten" {
		t.Errorf("expected replacement, got %+v", cp.RootCauseAnalysis)
	}

	// Six levels is over the cap
	six := make([]models.RCAStep, 6)
	for i := range six {
		six[i] = models.RCAStep{Level: i + 1, Answer: "why"}
	}
	testutil.AssertStatus(t, putRCA(six), http.StatusBadRequest)

	// Levels must be sequential from 1
	testutil.AssertStatus(t, putRCA([]models.RCAStep{{Level: 3, Answer: "skip"}}), http.StatusBadRequest)
}

func TestEscalateFromAnyState(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewCoreProblemHandler(conn, cfg)

	user := testutil.CreateTestUser(t, conn, "+911234600004", "Divya")
	mentor := testutil.CreateTestUser(t, conn, "+911234600005", "Mentor")
	token := testutil.CreateTestSession(t, conn, user.ID)
	podID := testutil.CreateTestPod(t, conn, "Falcon", "Tech")

	for _, status := range []string{
		models.CoreProblemIdentified, models.CoreProblemOpen,
		models.CoreProblemImplementing, models.CoreProblemResolved,
	} {
		problemID := testutil.CreateTestCoreProblem(t, conn, podID, "From "+status)
		if _, err := conn.Exec(`UPDATE core_problem SET status = $1 WHERE id = $2`, status, problemID); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		req := testutil.MakeRequest("POST", "/core-problems/"+problemID+"/escalate",
			models.EscalateRequest{UserID: mentor.ID, Notes: "stuck"}, testutil.AuthHeader(token))
		req.SetPathValue("id", problemID)
		w := httptest.NewRecorder()
		middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.Escalate)(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var cp models.CoreProblem
		testutil.DecodeData(t, w, &cp)
		if cp.Status != models.CoreProblemEscalated {
			t.Errorf("from %s: expected escalated, got %q", status, cp.Status)
		}
		if cp.EscalatedTo == nil || *cp.EscalatedTo != mentor.ID {
			t.Errorf("from %s: expected escalation to %s, got %v", status, mentor.ID, cp.EscalatedTo)
		}
	}
}

func TestResolveRequiresSelectedAcceptedSolution(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cpHandler := NewCoreProblemHandler(conn, cfg)
	solHandler := NewSolutionHandler(conn, cfg)

	user := testutil.CreateTestUser(t, conn, "+911234600006", "Kiran")
	token := testutil.CreateTestSession(t, conn, user.ID)
	podID := testutil.CreateTestPod(t, conn, "Falcon", "Tech")
	problemID := testutil.CreateTestCoreProblem(t, conn, podID, "Onboarding gap")

	resolve := func(solutionID string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/core-problems/"+problemID+"/resolve",
			models.ResolveCoreProblemRequest{SolutionID: solutionID, WinReflection: "went well"},
			testutil.AuthHeader(token))
		req.SetPathValue("id", problemID)
		w := httptest.NewRecorder()
		middleware.RequireAuth(conn, cfg.SessionTokenSalt, cpHandler.Resolve)(w, req)
		return w
	}
	selectSolution := func(solutionID string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/solutions/"+solutionID+"/select", nil, testutil.AuthHeader(token))
		req.SetPathValue("id", solutionID)
		w := httptest.NewRecorder()
		middleware.RequireAuth(conn, cfg.SessionTokenSalt, solHandler.SelectSolution)(w, req)
		return w
	}

	submitted := testutil.CreateTestSolution(t, conn, problemID, "Write the doc", models.SolutionSubmitted)
	accepted := testutil.CreateTestSolution(t, conn, problemID, "Assign an owner", models.SolutionAccepted)

	// Submitted solutions cannot be selected
	testutil.AssertStatus(t, selectSolution(submitted), http.StatusConflict)

	// Resolving before any selection is refused
	testutil.AssertStatus(t, resolve(accepted), http.StatusConflict)

	// Select the accepted one, then resolve against it
	testutil.AssertStatus(t, selectSolution(accepted), http.StatusOK)

	var s models.Solution
	req := testutil.MakeRequest("GET", "/core-problems/"+problemID+"/solutions", nil, testutil.AuthHeader(token))
	req.SetPathValue("id", problemID)
	w := httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, solHandler.ListSolutions)(w, req)
	var solutions []models.Solution
	testutil.DecodeData(t, w, &solutions)
	for _, sol := range solutions {
		if sol.ID == accepted {
			s = sol
		}
	}
	// Selection flags the solution without touching its status
	if !s.IsSelected || s.Status != models.SolutionAccepted {
		t.Errorf("expected selected accepted solution, got %+v", s)
	}

	// A second selection on the same problem is refused
	accepted2 := testutil.CreateTestSolution(t, conn, problemID, "Another way", models.SolutionAccepted)
	testutil.AssertStatus(t, selectSolution(accepted2), http.StatusConflict)

	w = resolve(accepted)
	testutil.AssertStatus(t, w, http.StatusOK)

	var cp models.CoreProblem
	testutil.DecodeData(t, w, &cp)
	if cp.Status != models.CoreProblemResolved {
		t.Errorf("expected resolved, got %q", cp.Status)
	}
	if cp.ResolvedSolutionID == nil || *cp.ResolvedSolutionID != accepted {
		t.Errorf("expected resolved solution %s recorded, got %v", accepted, cp.ResolvedSolutionID)
	}
	if cp.WinReflection != "went well" {
		t.Errorf("expected win reflection recorded, got %q", cp.WinReflection)
	}
}

func TestReviewSolution(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewSolutionHandler(conn, cfg)

	user := testutil.CreateTestUser(t, conn, "+911234600007", "Noor")
	token := testutil.CreateTestSession(t, conn, user.ID)
	podID := testutil.CreateTestPod(t, conn, "Falcon", "Tech")
	problemID := testutil.CreateTestCoreProblem(t, conn, podID, "Onboarding gap")

	review := func(solutionID, verdict string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/solutions/"+solutionID+"/review",
			models.ReviewSolutionRequest{Status: verdict, Notes: "notes"}, testutil.AuthHeader(token))
		req.SetPathValue("id", solutionID)
		w := httptest.NewRecorder()
		middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.ReviewSolution)(w, req)
		return w
	}

	solutionID := testutil.CreateTestSolution(t, conn, problemID, "Write the doc", models.SolutionSubmitted)

	// submitted → under-review → accepted
	testutil.AssertStatus(t, review(solutionID, models.SolutionUnderReview), http.StatusOK)
	testutil.AssertStatus(t, review(solutionID, models.SolutionAccepted), http.StatusOK)

	// A settled verdict cannot be re-reviewed
	testutil.AssertStatus(t, review(solutionID, models.SolutionDiscarded), http.StatusConflict)

	// "submitted" is not a reviewer verdict
	another := testutil.CreateTestSolution(t, conn, problemID, "Other", models.SolutionSubmitted)
	testutil.AssertStatus(t, review(another, models.SolutionSubmitted), http.StatusBadRequest)
}

func TestRecordOutcome(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewCoreProblemHandler(conn, cfg)

	user := testutil.CreateTestUser(t, conn, "+911234600008", "Zara")
	token := testutil.CreateTestSession(t, conn, user.ID)
	podID := testutil.CreateTestPod(t, conn, "Falcon", "Tech")
	problemID := testutil.CreateTestCoreProblem(t, conn, podID, "Onboarding gap")

	req := testutil.MakeRequest("POST", "/core-problems/"+problemID+"/outcome",
		models.RecordOutcomeRequest{IsSolved: true, Notes: "onboarding time halved"},
		testutil.AuthHeader(token))
	req.SetPathValue("id", problemID)
	w := httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.RecordOutcome)(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var cp models.CoreProblem
	testutil.DecodeData(t, w, &cp)
	if !cp.IsSolved || cp.OutcomeNotes != "onboarding time halved" {
		t.Errorf("unexpected outcome record: %+v", cp)
	}
}
