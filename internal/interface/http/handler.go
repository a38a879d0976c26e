package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/djvaroli/brevity/internal/domain/summarizer"
)

const greeting = "Hey, I'm Brevity!"

// Handler wires the HTTP transport to the summarization service.
type Handler struct {
	svc    summarizer.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc summarizer.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

// Root answers the liveness greeting.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": greeting})
}

// SummarizeFile summarizes the document at the url parameter. Parameters may
// come from the query string, a JSON body, or both; the body wins.
func (h *Handler) SummarizeFile(c *gin.Context) {
	var req summarizer.Request
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if c.Request.ContentLength != 0 && c.ContentType() == gin.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
			return
		}
	}

	resp, err := h.svc.SummarizeFile(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RecentSummaries lists the newest completed summaries.
func (h *Handler) RecentSummaries(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer", err))
			return
		}
		limit = parsed
	}

	records, err := h.svc.Recent(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": records})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
