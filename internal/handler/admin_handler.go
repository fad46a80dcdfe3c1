package handler

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/hakwonlab/center-schedule-api/internal/middleware"
	"github.com/hakwonlab/center-schedule-api/internal/models"
	"github.com/hakwonlab/center-schedule-api/internal/service"
	appErrors "github.com/hakwonlab/center-schedule-api/pkg/errors"
	"github.com/hakwonlab/center-schedule-api/pkg/response"
)

// AdminHandler wires the admin console endpoints: authentication, roster
// management, settings, week overviews, exports and notifications.
type AdminHandler struct {
	auth        *service.AuthService
	roster      *service.RosterService
	submissions *service.SubmissionService
	settings    *service.SettingsService
	exports     *service.ExportService
	notify      *service.NotifyService
}

// NewAdminHandler creates a new handler. Exports and notify are optional
// and their endpoints fail with 404 when disabled.
func NewAdminHandler(auth *service.AuthService, roster *service.RosterService, submissions *service.SubmissionService, settings *service.SettingsService, exports *service.ExportService, notify *service.NotifyService) *AdminHandler {
	return &AdminHandler{
		auth:        auth,
		roster:      roster,
		submissions: submissions,
		settings:    settings,
		exports:     exports,
		notify:      notify,
	}
}

// Login authenticates an admin and issues an access token.
func (h *AdminHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Me returns the authenticated admin's identity.
func (h *AdminHandler) Me(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	response.JSON(c, http.StatusOK, models.UserInfo{
		ID:       claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil)
}

// AuthCheck confirms the token is still valid. Reaching it at all means
// the JWT middleware accepted the request.
func (h *AdminHandler) AuthCheck(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"authenticated": true}, nil)
}

// GetSettings returns the current published settings.
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Latest(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, settings, nil)
}

// UpdateSettings publishes a new settings row.
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid settings payload"))
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, settings, nil)
}

// ListStudents returns the full roster.
func (h *AdminHandler) ListStudents(c *gin.Context) {
	students, err := h.roster.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, students, nil)
}

// CreateStudent registers a student and assigns their login code.
func (h *AdminHandler) CreateStudent(c *gin.Context) {
	var req models.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}

	student, err := h.roster.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, student)
}

// UpdateStudent edits a student's profile.
func (h *AdminHandler) UpdateStudent(c *gin.Context) {
	var req models.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}

	student, err := h.roster.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, student, nil)
}

// DeleteStudent removes a student and all of their schedule records.
func (h *AdminHandler) DeleteStudent(c *gin.Context) {
	if err := h.roster.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// WeekSchedules returns every student's canonical submission for a week.
// Without a week_start query the active submission week is used.
func (h *AdminHandler) WeekSchedules(c *gin.Context) {
	weekStart := c.Query("week_start")
	if weekStart == "" {
		active, err := h.settings.ActiveWeekStart(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		weekStart = active
	}

	overview, err := h.submissions.WeekOverview(c.Request.Context(), weekStart)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, overview, nil, map[string]interface{}{"week_start": weekStart})
}

// CopyWeek carries schedules forward into the target week for the listed
// students, or for the whole roster when none are listed. Students with
// nothing to copy are skipped.
func (h *AdminHandler) CopyWeek(c *gin.Context) {
	var req models.AdminCopyWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid copy payload"))
		return
	}
	if req.TargetWeek == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "target_week is required"))
		return
	}

	ids := req.StudentIDs
	if len(ids) == 0 {
		students, err := h.roster.List(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		for _, s := range students {
			ids = append(ids, s.ID)
		}
	}

	copied := make([]string, 0, len(ids))
	skipped := make([]string, 0)
	for _, id := range ids {
		_, err := h.submissions.CopyFromPrevious(c.Request.Context(), models.CopyWeekRequest{
			StudentID:  id,
			TargetWeek: req.TargetWeek,
			SourceWeek: req.SourceWeek,
		})
		if err != nil {
			if appErrors.FromError(err).Code == appErrors.ErrNotFound.Code {
				skipped = append(skipped, id)
				continue
			}
			response.Error(c, err)
			return
		}
		copied = append(copied, id)
	}

	response.JSON(c, http.StatusOK, gin.H{"copied": copied, "skipped": skipped}, nil)
}

// ExportWeek renders the week's schedule as CSV or PDF and returns a
// signed download token.
func (h *AdminHandler) ExportWeek(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}

	weekStart := c.Query("week_start")
	if weekStart == "" {
		active, err := h.settings.ActiveWeekStart(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		weekStart = active
	}
	format := c.DefaultQuery("format", service.FormatCSV)

	result, err := h.exports.ExportWeek(c.Request.Context(), weekStart, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// DownloadExport streams an export file. The signed token is the only
// credential, so the route needs no JWT.
func (h *AdminHandler) DownloadExport(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}

	token := c.Query("token")
	file, name, err := h.exports.Open(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export"))
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, map[string]string{
		"Content-Disposition": `attachment; filename="` + filepath.Base(name) + `"`,
	})
}

// SendSummary texts a student's weekly schedule summary to their parent.
func (h *AdminHandler) SendSummary(c *gin.Context) {
	if h.notify == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "notifications are disabled"))
		return
	}

	var req models.SendSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.StudentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student_id is required"))
		return
	}

	sub, err := h.submissions.GetWeek(c.Request.Context(), req.StudentID, req.WeekStart)
	if err != nil {
		response.Error(c, err)
		return
	}

	body, err := h.notify.SendWeeklySummary(c.Request.Context(), *sub)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"body": body}, nil)
}
