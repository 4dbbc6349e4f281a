package ats

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/extract"
	"resume-ats/internal/shared/server/middleware"
	"resume-ats/internal/shared/server/respond"
	"resume-ats/internal/shared/util"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler exposes ATS scoring over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches ATS routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ats/score", h.score)
	rg.POST("/ats/score/upload", h.scoreUpload)
	rg.GET("/ats/history", h.history)
	rg.GET("/ats/history/export", h.export)
}

type scoreRequest struct {
	ResumeID       string `json:"resumeId"`
	ResumeText     string `json:"resumeText"`
	JobText        string `json:"jobText"`
	JobDescription string `json:"jobDescription"`
}

func (h *Handler) score(c *gin.Context) {
	var req scoreRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body")
			return
		}
	}
	jobText := req.JobText
	if jobText == "" {
		jobText = req.JobDescription
	}
	h.writeScore(c, req.ResumeID, req.ResumeText, jobText)
}

func (h *Handler) scoreUpload(c *gin.Context) {
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
	resumeText, err := extract.FromBytes(c.Request.Context(), buf.Bytes(), fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupported) {
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_media_type", err.Error())
			return
		}
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "unable to extract text from file")
		return
	}
	h.writeScore(c, c.PostForm("resumeId"), resumeText, c.PostForm("jobText"))
}

func (h *Handler) writeScore(c *gin.Context, resumeID, resumeText, jobText string) {
	userID := middleware.UserIDFromContext(c)
	rec, res, err := h.Svc.Score(c.Request.Context(), userID, resumeID, resumeText, jobText)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to save ats score")
		return
	}
	c.Set("scoreId", rec.ID)
	respond.OK(c, gin.H{
		"score":    res.Score,
		"keywords": res.Keywords,
		"matched":  res.Matched,
		"missing":  res.Missing,
		"recordId": rec.ID,
	})
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(util.DefaultPageSize)))

	out, err := h.Svc.History(c.Request.Context(), userID, page, size)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load ats history")
		return
	}
	respond.OK(c, out)
}

func (h *Handler) export(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	var buf bytes.Buffer
	if err := h.Svc.ExportCSV(c.Request.Context(), userID, &buf); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to export ats history")
		return
	}
	respond.CSV(c, "ats_history.csv", buf.Bytes())
}
