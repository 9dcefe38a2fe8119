package export

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mailwork-backend/internal/analyses"
	"mailwork-backend/internal/shared/server/middleware"
	"mailwork-backend/internal/shared/server/respond"
)

// Handler serves artifact exports for completed analyses.
type Handler struct {
	Svc *analyses.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *analyses.Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches export routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/analyses/export", h.exportHistory)
	rg.GET("/analyses/:id/calendar", h.exportCalendarZip)
	rg.GET("/analyses/:id/calendar/:index", h.exportCalendarEvent)
	rg.GET("/analyses/:id/report", h.exportTaskCSV)
	rg.GET("/analyses/:id/report.txt", h.exportTextReport)
}

func (h *Handler) loadResult(c *gin.Context) (analyses.Analysis, bool) {
	userID := middleware.UserIDFromContext(c)
	analysisID := c.Param("id")

	analysis, err := h.Svc.Get(c.Request.Context(), userID, analysisID)
	if err != nil {
		switch {
		case errors.Is(err, analyses.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return analyses.Analysis{}, false
	}
	if analysis.Result == nil {
		respond.Error(c, http.StatusConflict, "no_result", "analysis has no result to export", nil)
		return analyses.Analysis{}, false
	}
	return analysis, true
}

func (h *Handler) exportCalendarZip(c *gin.Context) {
	analysis, ok := h.loadResult(c)
	if !ok {
		return
	}

	payload, err := EncodeCalendarZip(analysis.Result.Tasks, analysis.Subject, time.Now().UTC())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to encode calendar", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "calendar_"+analysis.ID+".zip"))
	c.Data(http.StatusOK, "application/zip", payload)
}

func (h *Handler) exportCalendarEvent(c *gin.Context) {
	analysis, ok := h.loadResult(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 1 || index > len(analysis.Result.Tasks) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid task index", nil)
		return
	}

	task := analysis.Result.Tasks[index-1]
	doc := EncodeTaskEvent(task, analysis.Subject, time.Now().UTC(), index)
	if doc == nil {
		respond.Error(c, http.StatusConflict, "no_deadline", "task has no deadline", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("task_%d.ics", index)))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", doc)
}

func (h *Handler) exportTaskCSV(c *gin.Context) {
	analysis, ok := h.loadResult(c)
	if !ok {
		return
	}

	payload, err := EncodeTaskCSV(*analysis.Result)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to encode report", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "tasks_"+analysis.ID+".csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
}

func (h *Handler) exportTextReport(c *gin.Context) {
	analysis, ok := h.loadResult(c)
	if !ok {
		return
	}

	payload := EncodeTextReport(*analysis.Result, time.Now().UTC())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report_"+analysis.ID+".txt"))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", payload)
}

func (h *Handler) exportHistory(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	records, err := h.Svc.List(c.Request.Context(), userID, 1000, 0)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}

	payload, err := EncodeHistoryCSV(records)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to encode history", nil)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="analyses_history.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
}
