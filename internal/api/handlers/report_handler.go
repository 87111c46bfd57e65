package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Githubtestacc12/reorder-dashboard/internal/domain"
	"github.com/Githubtestacc12/reorder-dashboard/internal/export"
	"github.com/Githubtestacc12/reorder-dashboard/internal/report"
	"github.com/Githubtestacc12/reorder-dashboard/internal/service"
)

type ReportHandler struct {
	service   *service.ReportService
	uploadDir string
}

func NewReportHandler(svc *service.ReportService, uploadDir string) *ReportHandler {
	return &ReportHandler{service: svc, uploadDir: uploadDir}
}

// parseSelection reads a categorical filter: an absent parameter means
// select-all; a present one is an explicit subset (possibly empty, which
// matches nothing). Both repeated params and comma-separated values are
// supported:
//
//	?customers=A&customers=B
//	?customers=A,B
func parseSelection(c *gin.Context, param string) domain.Selection {
	values, present := c.GetQueryArray(param)
	if !present {
		return domain.SelectAll()
	}

	var flattened []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				flattened = append(flattened, part)
			}
		}
	}

	return domain.SelectSubset(flattened...)
}

// parseCriteria decodes the filter criteria from the query string. Malformed
// values degrade to the neutral criterion rather than erroring.
func (h *ReportHandler) parseCriteria(c *gin.Context) domain.Criteria {
	criteria := domain.Criteria{
		Customers: parseSelection(c, "customers"),
		Items:     parseSelection(c, "items"),
		Status:    strings.TrimSpace(c.DefaultQuery("status", domain.StatusAll)),
		Search:    c.Query("q"),
	}

	if raw := strings.TrimSpace(c.Query("max_days")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			limit := float64(v)
			criteria.MaxDays = &limit
		}
	}

	if raw := strings.TrimSpace(c.Query("due_from")); raw != "" {
		if d, err := time.Parse(domain.DateLayout, raw); err == nil {
			criteria.DueFrom = &d
		}
	}

	if raw := strings.TrimSpace(c.Query("due_to")); raw != "" {
		if d, err := time.Parse(domain.DateLayout, raw); err == nil {
			criteria.DueTo = &d
		}
	}

	return criteria
}

// GetReport returns the filtered rows plus the KPI summary.
func (h *ReportHandler) GetReport(c *gin.Context) {
	view := h.service.View(h.parseCriteria(c))
	c.JSON(http.StatusOK, view)
}

// GetSummary returns only the KPI scalars for the filtered view.
func (h *ReportHandler) GetSummary(c *gin.Context) {
	summary := h.service.Summary(h.parseCriteria(c))
	c.JSON(http.StatusOK, summary)
}

// GetCharts returns the bar, pie and trend datasets for the filtered view.
func (h *ReportHandler) GetCharts(c *gin.Context) {
	charts := h.service.Charts(h.parseCriteria(c))
	c.JSON(http.StatusOK, charts)
}

// GetFacets returns the observed filter domains. An optional customers
// parameter narrows the item list, mirroring the dependent item picker.
func (h *ReportHandler) GetFacets(c *gin.Context) {
	facets := h.service.Facets(parseSelection(c, "customers"))
	c.JSON(http.StatusOK, facets)
}

// ExportCSV downloads the filtered view as a CSV attachment.
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	data, err := h.service.ExportCSV(h.parseCriteria(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to export filtered report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export filtered report"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.DefaultFilename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// Upload replaces the working table with a freshly uploaded report and echoes
// it back raw: no derivation, no filters. This is deliberately a separate,
// simpler path from the main pipeline.
func (h *ReportHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no report file provided"})
		return
	}

	savedPath := filepath.Join(h.uploadDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, savedPath); err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to save uploaded report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save uploaded report"})
		return
	}

	loader := report.NewLoader(report.NewNoopTableCache())
	table, err := loader.Load(c.Request.Context(), savedPath)
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to parse uploaded report")
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse uploaded report", "details": err.Error()})
		return
	}

	h.service.Replace(table)

	rows := make([][]string, 0, table.Len())
	for _, row := range table.Rows {
		rendered := make([]string, len(table.Columns))
		for i := range table.Columns {
			rendered[i] = row[i].String()
		}
		rows = append(rows, rendered)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "new report loaded",
		"columns": table.Columns,
		"rows":    rows,
	})
}
