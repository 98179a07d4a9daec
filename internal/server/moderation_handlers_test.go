package server

import (
	"fmt"
	"net/http"
	"testing"

	"uniwiz/internal/models"
	"uniwiz/internal/service"
	"uniwiz/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportWorkflow(t *testing.T) {
	e := newTestEnv(t)
	student := testutil.CreateUser(t, e.db, models.RoleStudent)
	publisher := testutil.CreateUser(t, e.db, models.RolePublisher)
	outsider := testutil.CreateUser(t, e.db, models.RoleStudent)
	admin := testutil.CreateUser(t, e.db, models.RoleAdmin)
	adminToken := e.token(t, admin)

	var sent service.SendMessageResult
	resp := e.do(t, http.MethodPost, "/api/messages", e.token(t, publisher), fiber.Map{
		"receiver_id":  student.ID,
		"message_text": "send me your bank details",
	}, &sent)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	tests := []struct {
		name   string
		user   *models.User
		body   fiber.Map
		status int
	}{
		{"blank reason", student, fiber.Map{"conversation_id": sent.ConversationID, "reported_user_id": publisher.ID, "reason": "   "}, fiber.StatusBadRequest},
		{"not a participant", outsider, fiber.Map{"conversation_id": sent.ConversationID, "reported_user_id": publisher.ID, "reason": "spam"}, fiber.StatusForbidden},
		{"reporting yourself", student, fiber.Map{"conversation_id": sent.ConversationID, "reported_user_id": student.ID, "reason": "spam"}, fiber.StatusBadRequest},
		{"unknown conversation", student, fiber.Map{"conversation_id": 999999, "reported_user_id": publisher.ID, "reason": "spam"}, fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := e.do(t, http.MethodPost, "/api/reports", e.token(t, tt.user), tt.body, nil)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}

	var report models.Report
	resp = e.do(t, http.MethodPost, "/api/reports", e.token(t, student), fiber.Map{
		"conversation_id":  sent.ConversationID,
		"reported_user_id": publisher.ID,
		"reason":           " asked for bank details ",
	}, &report)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, models.ReportPending, report.Status)
	assert.Equal(t, "asked for bank details", report.Reason)

	var count struct {
		Count int64 `json:"count"`
	}
	e.do(t, http.MethodGet, "/api/admin/reports/pending-count", adminToken, nil, &count)
	assert.Equal(t, int64(1), count.Count)

	var page struct {
		Items []models.Report `json:"items"`
		Total int64           `json:"total"`
	}
	e.do(t, http.MethodGet, "/api/admin/reports?status=pending", adminToken, nil, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, report.ID, page.Items[0].ID)

	resp = e.do(t, http.MethodGet, "/api/admin/reports?status=bogus", adminToken, nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	reportPath := fmt.Sprintf("/api/admin/reports/%d", report.ID)
	var resolved models.Report
	resp = e.do(t, http.MethodPut, reportPath, adminToken, fiber.Map{
		"status": "resolved", "admin_note": "warned the publisher",
	}, &resolved)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, models.ReportResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, admin.ID, *resolved.ResolvedBy)

	e.do(t, http.MethodGet, "/api/admin/reports/pending-count", adminToken, nil, &count)
	assert.Equal(t, int64(0), count.Count)

	resp = e.do(t, http.MethodPut, "/api/admin/reports/999999", adminToken, fiber.Map{"status": "dismissed"}, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminUserManagement(t *testing.T) {
	e := newTestEnv(t)
	admin := testutil.CreateUser(t, e.db, models.RoleAdmin)
	otherAdmin := testutil.CreateUser(t, e.db, models.RoleAdmin)
	student := testutil.CreateUser(t, e.db, models.RoleStudent)
	publisher := testutil.CreateUser(t, e.db, models.RolePublisher)
	testutil.CreateJob(t, e.db, publisher.ID)
	adminToken := e.token(t, admin)

	var page struct {
		Items []models.User `json:"items"`
		Total int64         `json:"total"`
	}
	resp := e.do(t, http.MethodGet, "/api/admin/users?role=student", adminToken, nil, &page)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, page.Items, 1)
	assert.Equal(t, student.ID, page.Items[0].ID)

	resp = e.do(t, http.MethodGet, "/api/admin/users?role=wizard", adminToken, nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	statusPath := func(id uint) string { return fmt.Sprintf("/api/admin/users/%d/status", id) }

	resp = e.do(t, http.MethodPut, statusPath(admin.ID), adminToken, fiber.Map{"status": "blocked"}, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp = e.do(t, http.MethodPut, statusPath(otherAdmin.ID), adminToken, fiber.Map{"status": "blocked"}, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp = e.do(t, http.MethodPut, statusPath(student.ID), adminToken, fiber.Map{"status": "frozen"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	studentToken := e.token(t, student)
	var blocked models.User
	resp = e.do(t, http.MethodPut, statusPath(student.ID), adminToken, fiber.Map{"status": "blocked"}, &blocked)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, models.UserStatusBlocked, blocked.Status)

	resp = e.do(t, http.MethodGet, "/api/users/me", studentToken, nil, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	verifyPath := fmt.Sprintf("/api/admin/users/%d/verify", publisher.ID)
	resp = e.do(t, http.MethodPut, verifyPath, adminToken, fiber.Map{}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var verified models.User
	resp = e.do(t, http.MethodPut, verifyPath, adminToken, fiber.Map{"is_verified": true}, &verified)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, verified.IsVerified)

	var stats models.AdminStats
	resp = e.do(t, http.MethodGet, "/api/admin/stats", adminToken, nil, &stats)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", admin.ID), adminToken, nil, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = e.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", publisher.ID), adminToken, nil, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	var jobs int64
	require.NoError(t, e.db.Model(&models.Job{}).Where("publisher_id = ?", publisher.ID).Count(&jobs).Error)
	assert.Zero(t, jobs)

	resp = e.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", publisher.ID), adminToken, nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestFooterSettings(t *testing.T) {
	e := newTestEnv(t)
	admin := testutil.CreateUser(t, e.db, models.RoleAdmin)
	student := testutil.CreateUser(t, e.db, models.RoleStudent)

	var defaults []models.FooterLinkGroup
	resp := e.do(t, http.MethodGet, "/api/settings/footer", "", nil, &defaults)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, defaults)

	groups := []fiber.Map{{
		"title": "Company",
		"links": []fiber.Map{{"label": "About", "url": "/about"}},
	}}
	resp = e.do(t, http.MethodPut, "/api/admin/settings/footer", e.token(t, student), groups, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	bad := []fiber.Map{{
		"title": "Company",
		"links": []fiber.Map{{"label": "Evil", "url": "javascript:alert(1)"}},
	}}
	var errBody models.ErrorResponse
	resp = e.do(t, http.MethodPut, "/api/admin/settings/footer", e.token(t, admin), bad, &errBody)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeValidation, errBody.Code)

	resp = e.do(t, http.MethodPut, "/api/admin/settings/footer", e.token(t, admin), groups, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var saved []models.FooterLinkGroup
	e.do(t, http.MethodGet, "/api/settings/footer", "", nil, &saved)
	require.Len(t, saved, 1)
	assert.Equal(t, "Company", saved[0].Title)
	require.Len(t, saved[0].Links, 1)
	assert.Equal(t, "/about", saved[0].Links[0].URL)
}
