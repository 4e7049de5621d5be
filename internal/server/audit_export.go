package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	auditdomain "github.com/billforgelabs/billforge/internal/audit/domain"
	"github.com/gin-gonic/gin"
)

// ExportAuditLogs handles GET /api/v1/audit_logs/export
func (s *Server) ExportAuditLogs(c *gin.Context) {
	// Parse query parameters
	startDateStr := strings.TrimSpace(c.Query("start_date"))
	endDateStr := strings.TrimSpace(c.Query("end_date"))
	formatStr := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "csv")))
	endpointsStr := strings.TrimSpace(c.Query("endpoints"))

	// Validate required parameters
	if startDateStr == "" || endDateStr == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// Parse dates
	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// End date should be exclusive (end of day)
	endDate = endDate.Add(24 * time.Hour)

	// Validate date range
	if endDate.Before(startDate) {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// Limit export to 90 days
	if endDate.Sub(startDate) > 90*24*time.Hour {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// Parse format
	var format auditdomain.ExportFormat
	switch formatStr {
	case "csv":
		format = auditdomain.ExportFormatCSV
	case "json":
		format = auditdomain.ExportFormatJSON
	default:
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// Parse endpoints filter (optional)
	var endpoints []string
	if endpointsStr != "" {
		endpoints = strings.Split(endpointsStr, ",")
		for i := range endpoints {
			endpoints[i] = strings.TrimSpace(endpoints[i])
		}
	}

	// Execute export
	result, err := s.auditExportSvc.Export(c.Request.Context(), auditdomain.ExportRequest{
		StartDate: startDate,
		EndDate:   endDate,
		Format:    format,
		Endpoints: endpoints,
	})
	if err != nil {
		AbortWithError(c, ErrInternal)
		return
	}

	// Set response headers
	c.Header("X-Audit-Export-Checksum", result.Checksum)
	c.Header("X-Audit-Export-Count", strconv.Itoa(result.Count))

	// Set content type and filename
	var contentType, filename string
	switch result.Format {
	case auditdomain.ExportFormatCSV:
		contentType = "text/csv"
		filename = "audit_export_" + startDateStr + "_" + endDateStr + ".csv"
	case auditdomain.ExportFormatJSON:
		contentType = "application/json"
		filename = "audit_export_" + startDateStr + "_" + endDateStr + ".json"
	}

	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(http.StatusOK, contentType, result.Data)
}
