package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hakwonlab/center-schedule-api/internal/models"
	"github.com/hakwonlab/center-schedule-api/internal/service"
	appErrors "github.com/hakwonlab/center-schedule-api/pkg/errors"
	"github.com/hakwonlab/center-schedule-api/pkg/response"
)

// StudentHandler wires the student-facing endpoints: login, settings,
// weekly submission and drafts.
type StudentHandler struct {
	roster      *service.RosterService
	submissions *service.SubmissionService
	settings    *service.SettingsService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(roster *service.RosterService, submissions *service.SubmissionService, settings *service.SettingsService) *StudentHandler {
	return &StudentHandler{roster: roster, submissions: submissions, settings: settings}
}

// Login authenticates a student by name and assigned code.
func (h *StudentHandler) Login(c *gin.Context) {
	var req models.StudentLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	student, err := h.roster.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, student, nil)
}

// Settings returns the published form texts along with the week students
// are currently submitting for.
func (h *StudentHandler) Settings(c *gin.Context) {
	settings, err := h.settings.Latest(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	weekStart, err := h.settings.ActiveWeekStart(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, settings, nil, map[string]interface{}{"active_week_start": weekStart})
}

// SaveWeek validates and stores a full week of day inputs.
func (h *StudentHandler) SaveWeek(c *gin.Context) {
	var req models.SaveWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}

	sub, err := h.submissions.SaveWeek(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sub, nil)
}

// GetWeek returns the canonical submission for a student. The week_start
// query is optional; without it the most recently saved week is returned.
func (h *StudentHandler) GetWeek(c *gin.Context) {
	studentID := c.Param("id")
	weekStart := c.Query("week_start")

	sub, err := h.submissions.GetWeek(c.Request.Context(), studentID, weekStart)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sub, nil)
}

// RecentSaves lists the student's latest save history entries.
func (h *StudentHandler) RecentSaves(c *gin.Context) {
	studentID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "3"))

	saves, err := h.submissions.RecentSaves(c.Request.Context(), studentID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, saves, nil)
}

// CopyFromPrevious replays an earlier week into the target week.
func (h *StudentHandler) CopyFromPrevious(c *gin.Context) {
	var req models.CopyWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid copy payload"))
		return
	}

	sub, err := h.submissions.CopyFromPrevious(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sub, nil)
}

// SaveDraft stores the raw, unvalidated form state.
func (h *StudentHandler) SaveDraft(c *gin.Context) {
	var draft models.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}

	if err := h.submissions.SaveDraft(c.Request.Context(), draft); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetDraft loads a stored draft, if any.
func (h *StudentHandler) GetDraft(c *gin.Context) {
	studentID := c.Query("student_id")
	weekStart := c.Query("week_start")

	draft, err := h.submissions.GetDraft(c.Request.Context(), studentID, weekStart)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, draft, nil)
}
