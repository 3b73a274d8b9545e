package interfaces

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kkratossdead/Cv-Ia/analyzer"
	"github.com/kkratossdead/Cv-Ia/infrastructure"
)

type HTTPHandler struct {
	Store    *infrastructure.Store
	Pipeline *analyzer.Pipeline
	Model    string
	Logger   *zap.Logger
}

func NewHTTPHandler(router *gin.Engine, store *infrastructure.Store, pipeline *analyzer.Pipeline, model string, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	h := &HTTPHandler{Store: store, Pipeline: pipeline, Model: model, Logger: log}

	router.POST("/analyze", h.AnalyzeBatch)
	router.GET("/job-offers", h.ListJobOffers)
	router.GET("/job-offers/:id/stats", h.JobOfferStats)
	router.GET("/analyses", h.ListAnalyses)
}

// AnalyzeBatch accepts a multipart form with job_title, job_offer and one or
// more cv_files PDFs, runs the batch synchronously in upload order and
// responds with the per-document outcomes plus the export artifact.
func (h *HTTPHandler) AnalyzeBatch(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("job_title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_title is required"})
		return
	}
	offerText := strings.TrimSpace(c.PostForm("job_offer"))
	if offerText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_offer is required"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form: " + err.Error()})
		return
	}
	files := form.File["cv_files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one cv_files PDF is required"})
		return
	}

	docs := make([]analyzer.Document, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "open " + header.Filename + ": " + err.Error()})
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "read " + header.Filename + ": " + err.Error()})
			return
		}
		docs = append(docs, analyzer.Document{Filename: header.Filename, Data: data})
	}

	batch, err := h.Pipeline.Run(c.Request.Context(), title, offerText, docs)
	if err != nil {
		h.Logger.Error("batch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_offer_id": batch.JobOffer.ID,
		"attempted":    batch.Attempted,
		"succeeded":    batch.Succeeded,
		"results":      batch.Results,
		"export":       analyzer.BuildExport(batch, h.Model, time.Now()),
	})
}

// ListJobOffers returns every offer with its linked-analysis count.
func (h *HTTPHandler) ListJobOffers(c *gin.Context) {
	offers, err := h.Store.ListJobOffers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job_offers": offers})
}

// JobOfferStats returns aggregate score statistics for one offer.
func (h *HTTPHandler) JobOfferStats(c *gin.Context) {
	stats, err := h.Store.JobOfferStats(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListAnalyses returns stored analyses newest first, optionally filtered by
// job_offer_id.
func (h *HTTPHandler) ListAnalyses(c *gin.Context) {
	analyses, err := h.Store.ListAnalyses(c.Query("job_offer_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}
