// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/caarya/caarya-live/cliparse"
	"github.com/caarya/caarya-live/middleware"
	"github.com/caarya/caarya-live/models"
)

type WorkReportHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewWorkReportHandler(db *sql.DB, cfg cliparse.Config) *WorkReportHandler {
	return &WorkReportHandler{db: db, cfg: cfg}
}

const dateLayout = "2006-01-02"

// reportDate reads ?date=YYYY-MM-DD, defaulting to today.
func reportDate(r *http.Request) (string, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now().Format(dateLayout), true
	}
	if _, err := time.Parse(dateLayout, raw); err != nil {
		return "", false
	}
	return raw, true
}

// Summary handles GET /work-reports/summary
func (h *WorkReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	date, ok := reportDate(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	rows, err := h.db.Query(`
		SELECT u.id, u.name, u.email, u.phone,
		       wp.status,
		       d.status,
		       (SELECT COUNT(*) FROM dsr WHERE user_id = u.id) AS total_dsrs,
		       (SELECT COUNT(*) FROM work_plan WHERE user_id = u.id AND status = 'submitted' AND plan_date <= $1) AS working_day
		FROM allowed_user u
		LEFT JOIN work_plan wp ON wp.user_id = u.id AND wp.plan_date = $1
		LEFT JOIN dsr d ON d.user_id = u.id AND d.report_date = $1
		ORDER BY u.name
	`, date)
	if err != nil {
		slog.Error("failed to query work report summary", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	summary := models.WorkReportSummary{Date: date, Users: []models.WorkReportUser{}}
	for rows.Next() {
		var u models.WorkReportUser
		var planStatus, dsrStatus sql.NullString
		if err := rows.Scan(&u.UserID, &u.Name, &u.Email, &u.Phone,
			&planStatus, &dsrStatus, &u.TotalDSRs, &u.WorkingDay); err != nil {
			slog.Error("failed to scan work report row", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		u.WorkPlanStatus = models.WorkPlanNotSubmitted
		if planStatus.Valid {
			u.WorkPlanStatus = planStatus.String
		}
		u.DSRStatus = models.DSRNotSubmitted
		if dsrStatus.Valid {
			u.DSRStatus = dsrStatus.String
		}

		summary.TotalUsers++
		if u.WorkPlanStatus == models.WorkPlanSubmitted {
			summary.WorkPlansSubmitted++
			summary.UsersWorkingToday++
		}
		if u.DSRStatus != models.DSRNotSubmitted {
			summary.DSRsSubmitted++
		}
		summary.Users = append(summary.Users, u)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate work report rows", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, summary)
}

// Weekly handles GET /work-reports/weekly
// The report covers the Monday-to-Sunday week containing the requested date.
func (h *WorkReportHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	date, ok := reportDate(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	day, _ := time.Parse(dateLayout, date)
	offset := (int(day.Weekday()) + 6) % 7
	weekStart := day.AddDate(0, 0, -offset)
	weekEnd := weekStart.AddDate(0, 0, 6)

	report := models.WeeklyWorkReport{
		WeekStart: weekStart.Format(dateLayout),
		WeekEnd:   weekEnd.Format(dateLayout),
		Members:   []models.WeeklyMemberProgress{},
	}

	rows, err := h.db.Query(`
		SELECT u.id, u.name, d.status, d.total_time
		FROM allowed_user u
		LEFT JOIN dsr d ON d.user_id = u.id AND d.report_date >= $1 AND d.report_date <= $2
		ORDER BY u.name
	`, report.WeekStart, report.WeekEnd)
	if err != nil {
		slog.Error("failed to query weekly report", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	const weeklyTargetHours = 40.0

	index := map[string]int{}
	for rows.Next() {
		var (
			id, name  string
			status    sql.NullString
			totalTime sql.NullString
		)
		if err := rows.Scan(&id, &name, &status, &totalTime); err != nil {
			slog.Error("failed to scan weekly report row", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		i, seen := index[id]
		if !seen {
			index[id] = len(report.Members)
			i = len(report.Members)
			report.Members = append(report.Members, models.WeeklyMemberProgress{
				UserID: id, Name: name, WorkExTarget: weeklyTargetHours,
			})
		}
		if status.Valid {
			report.Members[i].AssignedQuests++
			report.Members[i].WorkExCompleted += sumDurationHours(totalTime.String)
			if status.String == models.DSRApproved {
				report.GoalsCompleted++
			}
		}
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate weekly report rows", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var progressSum float64
	for i := range report.Members {
		p := report.Members[i].WorkExCompleted / weeklyTargetHours * 100
		if p > 100 {
			p = 100
		}
		report.Members[i].Progress = p
		progressSum += p
	}
	if len(report.Members) > 0 {
		report.PodProductivity = progressSum / float64(len(report.Members))
	}

	middleware.JSONResponse(w, http.StatusOK, report)
}

// GetDSR handles GET /work-reports/users/{id}/dsr
func (h *WorkReportHandler) GetDSR(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user id is required")
		return
	}
	date, ok := reportDate(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	var (
		name        string
		status      string
		payload     string
		submittedAt time.Time
	)
	err := h.db.QueryRow(`
		SELECT u.name, d.status, d.payload, d.submitted_at
		FROM dsr d
		JOIN allowed_user u ON u.id = d.user_id
		WHERE d.user_id = $1 AND d.report_date = $2
	`, userID, date).Scan(&name, &status, &payload, &submittedAt)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No daily status report for that date")
		return
	}
	if err != nil {
		slog.Error("failed to query dsr", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Decode the payload first so its keys cannot shadow the row fields
	var details models.DSRDetails
	if err := json.Unmarshal([]byte(payload), &details); err != nil {
		slog.Error("failed to decode dsr payload", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Corrupt report payload")
		return
	}
	details.MemberName = name
	details.Date = date
	details.Status = status
	details.SubmittedAt = submittedAt
	details.SubmittedAgo = humanize.Time(submittedAt)

	middleware.JSONResponse(w, http.StatusOK, details)
}

// Availability handles GET /members/availability
func (h *WorkReportHandler) Availability(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT u.id, u.name, u.last_active_at, ma.day
		FROM allowed_user u
		LEFT JOIN member_availability ma ON ma.user_id = u.id
		ORDER BY u.name, ma.day
	`)
	if err != nil {
		slog.Error("failed to query availability", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	members := []models.MemberAvailability{}
	index := map[string]int{}
	for rows.Next() {
		var (
			id, name   string
			lastActive sql.NullTime
			day        sql.NullString
		)
		if err := rows.Scan(&id, &name, &lastActive, &day); err != nil {
			slog.Error("failed to scan availability row", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		i, seen := index[id]
		if !seen {
			m := models.MemberAvailability{UserID: id, Name: name, AvailableDays: []string{}}
			if lastActive.Valid {
				m.LastActiveAt = lastActive.Time
				m.LastActiveAgo = humanize.Time(lastActive.Time)
			} else {
				m.LastActiveAgo = "never"
			}
			index[id] = len(members)
			i = len(members)
			members = append(members, m)
		}
		if day.Valid {
			members[i].AvailableDays = append(members[i].AvailableDays, day.String)
		}
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate availability rows", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, members)
}

// sumDurationHours adds up duration strings like "4h", "90m", or "2h30m".
// Unparseable entries count as zero.
func sumDurationHours(joined string) float64 {
	var total float64
	for _, entry := range strings.Split(joined, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if h, m, ok := splitDuration(entry); ok {
			total += float64(h) + float64(m)/60
		}
	}
	return total
}

func splitDuration(s string) (hours, minutes int, ok bool) {
	rest := s
	if i := strings.Index(rest, "h"); i >= 0 {
		n, err := strconv.Atoi(strings.TrimSpace(rest[:i]))
		if err != nil {
			return 0, 0, false
		}
		hours = n
		rest = rest[i+1:]
	}
	if i := strings.Index(rest, "m"); i >= 0 {
		n, err := strconv.Atoi(strings.TrimSpace(rest[:i]))
		if err != nil {
			return 0, 0, false
		}
		minutes = n
		rest = rest[i+1:]
	}
	if strings.TrimSpace(rest) != "" {
		return 0, 0, false
	}
	return hours, minutes, hours > 0 || minutes > 0
}
