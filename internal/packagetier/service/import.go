package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	domain "github.com/billforgelabs/billforge/internal/packagetier/domain"
)

// Import reads package tiers from CSV. Expected header:
// min_value,max_value,amount,percentage,start_date,end_date. Each row is
// validated and conflict-checked individually; rejected rows are reported
// with their row number and do not block the rest of the file.
func (s *Service) Import(ctx context.Context, r io.Reader) (domain.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("packagetier: reading csv header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return domain.ImportResult{}, err
	}

	var result domain.ImportResult
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			result.Errors = append(result.Errors, domain.ImportRowError{Row: row, Message: err.Error()})
			continue
		}

		req, err := rowToRequest(record, cols)
		if err != nil {
			result.Errors = append(result.Errors, domain.ImportRowError{Row: row, Message: err.Error()})
			continue
		}

		if _, err := s.Create(ctx, req); err != nil {
			result.Errors = append(result.Errors, domain.ImportRowError{Row: row, Message: err.Error()})
			continue
		}
		result.Created++
	}
	return result, nil
}

type columnIndex struct {
	minValue   int
	maxValue   int
	amount     int
	percentage int
	startDate  int
	endDate    int
}

func mapColumns(header []string) (columnIndex, error) {
	idx := columnIndex{minValue: -1, maxValue: -1, amount: -1, percentage: -1, startDate: -1, endDate: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "min_value":
			idx.minValue = i
		case "max_value":
			idx.maxValue = i
		case "amount":
			idx.amount = i
		case "percentage":
			idx.percentage = i
		case "start_date":
			idx.startDate = i
		case "end_date":
			idx.endDate = i
		}
	}
	if idx.minValue < 0 || idx.maxValue < 0 || idx.amount < 0 || idx.startDate < 0 || idx.endDate < 0 {
		return idx, fmt.Errorf("packagetier: csv header must contain min_value, max_value, amount, start_date, end_date")
	}
	return idx, nil
}

func rowToRequest(record []string, cols columnIndex) (domain.CreateRequest, error) {
	var req domain.CreateRequest

	minValue, err := parseFloat(record, cols.minValue, "min_value")
	if err != nil {
		return req, err
	}
	maxValue, err := parseFloat(record, cols.maxValue, "max_value")
	if err != nil {
		return req, err
	}
	amount, err := parseFloat(record, cols.amount, "amount")
	if err != nil {
		return req, err
	}

	req.MinValue = minValue
	req.MaxValue = maxValue
	req.Amount = amount
	req.StartDate = cell(record, cols.startDate)
	req.EndDate = cell(record, cols.endDate)

	if cols.percentage >= 0 {
		if raw := cell(record, cols.percentage); raw != "" {
			pct, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return req, fmt.Errorf("invalid percentage %q", raw)
			}
			req.Percentage = &pct
		}
	}
	return req, nil
}

func parseFloat(record []string, idx int, name string) (float64, error) {
	raw := cell(record, idx)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
