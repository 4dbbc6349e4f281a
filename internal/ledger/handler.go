package ledger

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/shared/server/middleware"
	"resume-ats/internal/shared/server/respond"
	"resume-ats/internal/shared/util"
)

// Handler exposes the caller's AI call history.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches ledger routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ai/logs", h.history)
	rg.GET("/ai/logs/export", h.export)
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(util.DefaultPageSize)))

	out, err := h.Svc.History(c.Request.Context(), userID, page, size)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load ai logs")
		return
	}
	respond.OK(c, out)
}

func (h *Handler) export(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	var buf bytes.Buffer
	if err := h.Svc.ExportCSV(c.Request.Context(), userID, &buf); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to export ai logs")
		return
	}
	respond.CSV(c, "ai_logs.csv", buf.Bytes())
}
