// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/caarya/caarya-live/middleware"
	"github.com/caarya/caarya-live/models"
	"github.com/caarya/caarya-live/testutil"
)

func TestWorkReportSummary(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewWorkReportHandler(conn, cfg)

	viewer := testutil.CreateTestUser(t, conn, "+911235000001", "Lead")
	token := testutil.CreateTestSession(t, conn, viewer.ID)

	working := testutil.CreateTestUser(t, conn, "+911235000002", "Asha")
	onLeave := testutil.CreateTestUser(t, conn, "+911235000003", "Ravi")
	silent := testutil.CreateTestUser(t, conn, "+911235000004", "Zara")

	const date = "2026-08-27"
	mustExec := func(q string, args ...any) {
		t.Helper()
		if _, err := conn.Exec(q, args...); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}
	mustExec(`INSERT INTO work_plan (id, user_id, plan_date, status) VALUES ($1, $2, $3, 'submitted')`,
		uuid.NewString(), working.ID, date)
	mustExec(`INSERT INTO work_plan (id, user_id, plan_date, status) VALUES ($1, $2, $3, 'on-leave')`,
		uuid.NewString(), onLeave.ID, date)
	mustExec(`INSERT INTO dsr (id, user_id, report_date, status, total_time) VALUES ($1, $2, $3, 'pending', '6h')`,
		uuid.NewString(), working.ID, date)

	req := testutil.MakeRequest("GET", "/work-reports/summary?date="+date, nil, testutil.AuthHeader(token))
	w := httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.Summary)(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var summary models.WorkReportSummary
	testutil.DecodeData(t, w, &summary)

	if summary.Date != date {
		t.Errorf("expected date %s, got %s", date, summary.Date)
	}
	if summary.TotalUsers != 4 {
		t.Errorf("expected 4 users, got %d", summary.TotalUsers)
	}
	if summary.WorkPlansSubmitted != 1 || summary.UsersWorkingToday != 1 {
		t.Errorf("expected 1 submitted plan, got %+v", summary)
	}
	if summary.DSRsSubmitted != 1 {
		t.Errorf("expected 1 DSR, got %d", summary.DSRsSubmitted)
	}

	byName := map[string]models.WorkReportUser{}
	for _, u := range summary.Users {
		byName[u.Name] = u
	}
	if byName["Asha"].WorkPlanStatus != models.WorkPlanSubmitted || byName["Asha"].DSRStatus != models.DSRPending {
		t.Errorf("unexpected working user row: %+v", byName["Asha"])
	}
	if byName["Ravi"].WorkPlanStatus != models.WorkPlanOnLeave {
		t.Errorf("unexpected on-leave row: %+v", byName["Ravi"])
	}
	if byName[silent.Name].WorkPlanStatus != models.WorkPlanNotSubmitted || byName[silent.Name].DSRStatus != models.DSRNotSubmitted {
		t.Errorf("unexpected silent row: %+v", byName[silent.Name])
	}
}

func TestWorkReportSummaryRejectsBadDate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewWorkReportHandler(conn, cfg)

	viewer := testutil.CreateTestUser(t, conn, "+911235000005", "Lead")
	token := testutil.CreateTestSession(t, conn, viewer.ID)

	req := testutil.MakeRequest("GET", "/work-reports/summary?date=tomorrow", nil, testutil.AuthHeader(token))
	w := httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.Summary)(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestWeeklyReport(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewWorkReportHandler(conn, cfg)

	viewer := testutil.CreateTestUser(t, conn, "+911235000006", "Lead")
	token := testutil.CreateTestSession(t, conn, viewer.ID)
	member := testutil.CreateTestUser(t, conn, "+911235000007", "Asha")

	// 2026-08-27 is a Thursday; its week runs Mon 24 → Sun 30
	mustExec := func(q string, args ...any) {
		t.Helper()
		if _, err := conn.Exec(q, args...); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}
	mustExec(`INSERT INTO dsr (id, user_id, report_date, status, total_time) VALUES ($1, $2, '2026-08-24', 'approved', '8h')`,
		uuid.NewString(), member.ID)
	mustExec(`INSERT INTO dsr (id, user_id, report_date, status, total_time) VALUES ($1, $2, '2026-08-25', 'pending', '4h30m')`,
		uuid.NewString(), member.ID)
	// Outside the week, must not count
	mustExec(`INSERT INTO dsr (id, user_id, report_date, status, total_time) VALUES ($1, $2, '2026-08-20', 'approved', '8h')`,
		uuid.NewString(), member.ID)

	req := testutil.MakeRequest("GET", "/work-reports/weekly?date=2026-08-27", nil, testutil.AuthHeader(token))
	w := httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.Weekly)(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var report models.WeeklyWorkReport
	testutil.DecodeData(t, w, &report)

	if report.WeekStart != "2026-08-24" || report.WeekEnd != "2026-08-30" {
		t.Errorf("unexpected week bounds: %s → %s", report.WeekStart, report.WeekEnd)
	}
	if report.GoalsCompleted != 1 {
		t.Errorf("expected 1 approved report in week, got %d", report.GoalsCompleted)
	}

	var asha models.WeeklyMemberProgress
	for _, m := range report.Members {
		if m.UserID == member.ID {
			asha = m
		}
	}
	if asha.AssignedQuests != 2 {
		t.Errorf("expected 2 in-week reports, got %d", asha.AssignedQuests)
	}
	if asha.WorkExCompleted != 12.5 {
		t.Errorf("expected 12.5 hours, got %v", asha.WorkExCompleted)
	}
}

func TestGetDSR(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewWorkReportHandler(conn, cfg)

	viewer := testutil.CreateTestUser(t, conn, "+911235000008", "Lead")
	token := testutil.CreateTestSession(t, conn, viewer.ID)
	member := testutil.CreateTestUser(t, conn, "+911235000009", "Asha")

	const date = "2026-08-27"
	payload := `{
		"responsibilities": {
			"workDone": [{"id": "q1", "title": "Outreach sprint", "subtasks": [{"description": "Call list", "duration": "2h"}], "duration": "2h"}],
			"totalTime": "6h",
			"challenges": "Flaky leads",
			"supportAvailed": [{"type": "mentor", "description": "Pitch review"}]
		},
		"accountability": [{"task": "Daily standup", "completed": true}],
		"visionSync": [{"task": "Q3 goal review"}]
	}`
	if _, err := conn.Exec(`
		INSERT INTO dsr (id, user_id, report_date, status, total_time, payload, submitted_at)
		VALUES ($1, $2, $3, 'approved', '6h', $4, $5)
	`, uuid.NewString(), member.ID, date, payload, time.Now().Add(-2*time.Hour)); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	req := testutil.MakeRequest("GET", "/work-reports/users/"+member.ID+"/dsr?date="+date, nil, testutil.AuthHeader(token))
	req.SetPathValue("id", member.ID)
	w := httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.GetDSR)(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var details models.DSRDetails
	testutil.DecodeData(t, w, &details)

	if details.MemberName != "Asha" || details.Status != models.DSRApproved {
		t.Errorf("unexpected header fields: %+v", details)
	}
	if details.SubmittedAgo == "" {
		t.Error("expected a relative submission time")
	}
	if len(details.Responsibilities.WorkDone) != 1 || details.Responsibilities.WorkDone[0].Title != "Outreach sprint" {
		t.Errorf("unexpected work breakdown: %+v", details.Responsibilities)
	}
	if len(details.Accountability) != 1 || !details.Accountability[0].Completed {
		t.Errorf("unexpected accountability: %+v", details.Accountability)
	}

	// A date with no report is a 404
	req = testutil.MakeRequest("GET", "/work-reports/users/"+member.ID+"/dsr?date=2026-08-01", nil, testutil.AuthHeader(token))
	req.SetPathValue("id", member.ID)
	w = httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.GetDSR)(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetDSRPayloadCannotShadowRowFields(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewWorkReportHandler(conn, cfg)

	viewer := testutil.CreateTestUser(t, conn, "+911235000012", "Lead")
	token := testutil.CreateTestSession(t, conn, viewer.ID)
	member := testutil.CreateTestUser(t, conn, "+911235000013", "Asha")

	const date = "2026-08-27"
	// A payload carrying row-level keys must not override the row
	payload := `{
		"memberName": "Impostor",
		"status": "flagged",
		"date": "1999-01-01",
		"accountability": [{"task": "Daily standup", "completed": true}]
	}`
	if _, err := conn.Exec(`
		INSERT INTO dsr (id, user_id, report_date, status, total_time, payload)
		VALUES ($1, $2, $3, 'approved', '6h', $4)
	`, uuid.NewString(), member.ID, date, payload); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	req := testutil.MakeRequest("GET", "/work-reports/users/"+member.ID+"/dsr?date="+date, nil, testutil.AuthHeader(token))
	req.SetPathValue("id", member.ID)
	w := httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.GetDSR)(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var details models.DSRDetails
	testutil.DecodeData(t, w, &details)

	if details.MemberName != "Asha" {
		t.Errorf("payload overrode member name: %q", details.MemberName)
	}
	if details.Status != models.DSRApproved {
		t.Errorf("payload overrode status: %q", details.Status)
	}
	if details.Date != date {
		t.Errorf("payload overrode date: %q", details.Date)
	}
	if len(details.Accountability) != 1 {
		t.Errorf("payload content should survive: %+v", details.Accountability)
	}
}

func TestMemberAvailability(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewWorkReportHandler(conn, cfg)

	viewer := testutil.CreateTestUser(t, conn, "+911235000010", "Lead")
	token := testutil.CreateTestSession(t, conn, viewer.ID)
	member := testutil.CreateTestUser(t, conn, "+911235000011", "Asha")

	mustExec := func(q string, args ...any) {
		t.Helper()
		if _, err := conn.Exec(q, args...); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}
	mustExec(`INSERT INTO member_availability (user_id, day) VALUES ($1, 'Monday')`, member.ID)
	mustExec(`INSERT INTO member_availability (user_id, day) VALUES ($1, 'Wednesday')`, member.ID)
	mustExec(`UPDATE allowed_user SET last_active_at = $1 WHERE id = $2`, time.Now().Add(-time.Hour), member.ID)

	req := testutil.MakeRequest("GET", "/members/availability", nil, testutil.AuthHeader(token))
	w := httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.Availability)(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var members []models.MemberAvailability
	testutil.DecodeData(t, w, &members)

	byName := map[string]models.MemberAvailability{}
	for _, m := range members {
		byName[m.Name] = m
	}
	if len(byName["Asha"].AvailableDays) != 2 {
		t.Errorf("expected 2 available days, got %+v", byName["Asha"])
	}
	if byName["Asha"].LastActiveAgo == "" || byName["Asha"].LastActiveAgo == "never" {
		t.Errorf("expected a relative last-active time, got %q", byName["Asha"].LastActiveAgo)
	}
	if byName["Lead"].LastActiveAgo != "never" {
		t.Errorf("expected never for a user with no activity, got %q", byName["Lead"].LastActiveAgo)
	}
}
