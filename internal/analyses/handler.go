package analyses

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mailwork-backend/internal/llm"
	"mailwork-backend/internal/mailparse"
	"mailwork-backend/internal/shared/server/middleware"
	"mailwork-backend/internal/shared/server/respond"
)

const maxUploadBytes = 10 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.createAnalysis)
	rg.POST("/analyses/upload", h.uploadAnalysis)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
}

type createAnalysisRequest struct {
	Content    string `json:"content"`
	Subject    string `json:"subject"`
	Sender     string `json:"sender"`
	Recipients string `json:"recipients"`
	Date       string `json:"date"`
	Body       string `json:"body"`
}

func (h *Handler) createAnalysis(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	var record mailparse.EmailRecord
	var err error
	sourceKind := mailparse.SourceText
	if req.Subject != "" || req.Body != "" {
		record, err = mailparse.NewRecord(req.Subject, req.Sender, req.Recipients, req.Date, req.Body)
		sourceKind = "envelope"
	} else {
		record, err = mailparse.ParsePlainText([]byte(req.Content))
	}
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "parse_error", "email content is empty or unreadable", nil)
		return
	}

	h.runPipeline(c, userID, record, sourceKind, nil)
}

func (h *Handler) uploadAnalysis(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "file too large", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "cannot open uploaded file", nil)
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "cannot read uploaded file", nil)
		return
	}
	if len(raw) > maxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "file too large", nil)
		return
	}

	kind := mailparse.KindForFileName(fileHeader.Filename)
	record, err := mailparse.Parse(raw, kind)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "parse_error", "email content is empty or unreadable", nil)
		return
	}

	h.runPipeline(c, userID, record, kind, raw)
}

func (h *Handler) runPipeline(c *gin.Context, userID string, record mailparse.EmailRecord, sourceKind string, raw []byte) {
	analysis, err := h.Svc.Analyze(c.Request.Context(), userID, record, sourceKind, raw)
	if err != nil {
		var transportErr *llm.TransportError
		switch {
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, "extraction_unavailable", "analysis service is not configured", nil)
		case errors.As(err, &transportErr):
			respond.Error(c, http.StatusBadGateway, "extraction_transport_error", "analysis service request failed", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to run analysis", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, analysis)
}

func (h *Handler) getAnalysis(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	analysisID := c.Param("id")

	analysis, err := h.Svc.Get(c.Request.Context(), userID, analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, analysis)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	analyses, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}

	resp := make([]gin.H, 0, len(analyses))
	for _, a := range analyses {
		item := gin.H{
			"analysisId": a.ID,
			"sourceKind": a.SourceKind,
			"subject":    a.Subject,
			"status":     a.Status,
			"createdAt":  a.CreatedAt,
		}
		if a.Result != nil {
			item["summary"] = a.Result.Summary
			item["taskCount"] = len(a.Result.Tasks)
		}
		resp = append(resp, item)
	}

	respond.JSON(c, http.StatusOK, resp)
}
