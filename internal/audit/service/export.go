package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	auditdomain "github.com/billforgelabs/billforge/internal/audit/domain"
	"gorm.io/gorm"
)

type ExportService struct {
	db   *gorm.DB
	repo auditdomain.Repository
}

func NewExportService(db *gorm.DB, repo auditdomain.Repository) auditdomain.ExportService {
	return &ExportService{db: db, repo: repo}
}

func (s *ExportService) Export(ctx context.Context, req auditdomain.ExportRequest) (*auditdomain.ExportResult, error) {
	logs, err := s.repo.ListBetween(ctx, s.db, req.StartDate, req.EndDate, req.Endpoints)
	if err != nil {
		return nil, err
	}

	var data []byte

	switch req.Format {
	case auditdomain.ExportFormatCSV:
		data, err = s.formatCSV(logs)
	case auditdomain.ExportFormatJSON:
		data, err = s.formatJSON(logs)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", req.Format)
	}

	if err != nil {
		return nil, err
	}

	// Calculate checksum for integrity verification
	checksum := calculateChecksum(data)

	return &auditdomain.ExportResult{
		Data:     data,
		Checksum: checksum,
		Format:   req.Format,
		Count:    len(logs),
	}, nil
}

func (s *ExportService) formatCSV(logs []auditdomain.CallLog) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// Write header
	header := []string{
		"timestamp",
		"method",
		"url",
		"endpoint",
		"status_code",
		"duration_ms",
		"request",
		"response",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	// Write rows
	for _, log := range logs {
		row := []string{
			log.CreatedAt.Format(time.RFC3339),
			log.Method,
			log.URL,
			log.Endpoint,
			strconv.Itoa(log.StatusCode),
			strconv.FormatInt(log.DurationMS, 10),
			log.RequestSummary,
			log.ResponseSummary,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (s *ExportService) formatJSON(logs []auditdomain.CallLog) ([]byte, error) {
	// Create export-friendly structure
	type ExportRecord struct {
		Timestamp  string `json:"timestamp"`
		Method     string `json:"method"`
		URL        string `json:"url"`
		Endpoint   string `json:"endpoint"`
		StatusCode int    `json:"status_code"`
		DurationMS int64  `json:"duration_ms"`
		Request    string `json:"request,omitempty"`
		Response   string `json:"response,omitempty"`
	}

	records := make([]ExportRecord, 0, len(logs))
	for _, log := range logs {
		records = append(records, ExportRecord{
			Timestamp:  log.CreatedAt.Format(time.RFC3339),
			Method:     log.Method,
			URL:        log.URL,
			Endpoint:   log.Endpoint,
			StatusCode: log.StatusCode,
			DurationMS: log.DurationMS,
			Request:    log.RequestSummary,
			Response:   log.ResponseSummary,
		})
	}

	return json.MarshalIndent(records, "", "  ")
}

func calculateChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
