package jobs

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/extract"
	"resume-ats/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler exposes job parsing over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches job parsing routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ai/parse-job", h.parseJob)
	rg.POST("/ai/parse-job/upload", h.parseJobUpload)
}

type parseJobRequest struct {
	Text string `json:"text"`
}

func (h *Handler) parseJob(c *gin.Context) {
	var req parseJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body")
		return
	}
	parsed := h.Svc.Parse(c.Request.Context(), req.Text)
	respond.OK(c, gin.H{
		"parsedText": req.Text,
		"parsed":     parsed,
	})
}

// parseJobUpload extracts text from a PDF, DOCX or plain text posting and
// parses it.
func (h *Handler) parseJobUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file")
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file")
		return
	}
	text, err := extract.FromBytes(c.Request.Context(), buf.Bytes(), fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupported) {
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_media_type", err.Error())
			return
		}
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "unable to extract text from file")
		return
	}
	respond.OK(c, gin.H{
		"parsedText": text,
		"parsed":     h.Svc.Parse(c.Request.Context(), text),
		"filename":   fileHeader.Filename,
	})
}
