package services

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/leadrelay/leadrelay-go/internal/domain/apperr"
	"github.com/leadrelay/leadrelay-go/internal/domain/entities"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/export"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/logging"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/performance"
)

// ExportRequest describes one export job: the (already window-filtered) leads
// plus the naming and formatting selections.
type ExportRequest struct {
	Leads      []entities.Lead
	FormName   string
	RangeKey   entities.RangeKey
	Window     entities.DateRange
	RangeLabel string
	Format     export.Format
	SplitCount int
}

// ExportService turns lead sets into downloadable or attachable artifacts.
type ExportService struct {
	logger   *logging.ChanneledLogger
	perf     *performance.Tracker
	maxSplit int
	widthCap float64
}

// NewExportService creates an export service.
func NewExportService(logger *logging.ChanneledLogger, perf *performance.Tracker, maxSplit int, widthCap float64) *ExportService {
	return &ExportService{
		logger:   logger,
		perf:     perf,
		maxSplit: maxSplit,
		widthCap: widthCap,
	}
}

// Build projects the leads into the tabular form and encodes one artifact per
// chunk. The split count is clamped to [1, maxSplit].
func (s *ExportService) Build(req ExportRequest) ([]export.Artifact, error) {
	if len(req.Leads) == 0 {
		return nil, apperr.InvalidInput("no leads to export")
	}

	splitCount := req.SplitCount
	if splitCount < 1 {
		splitCount = 1
	}
	if splitCount > s.maxSplit {
		splitCount = s.maxSplit
	}

	marker := s.perf.StartOperation("export_build")
	defer marker.Complete()

	table := export.BuildTable(req.Leads)
	label := entities.FilenameLabel(req.RangeKey, req.Window, req.RangeLabel)
	base := export.BaseFilename(req.FormName, label)

	artifacts, err := export.BuildArtifacts(table, req.Format, base, splitCount, s.widthCap)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}
	marker.SetSuccess(true)

	s.logger.Export().Info("Built export artifacts",
		"form", req.FormName, "rows", len(table.Rows), "parts", len(artifacts), "format", string(req.Format))
	return artifacts, nil
}

// Bundle zips multiple artifacts into one archive so a split export still
// downloads as a single response body.
func (s *ExportService) Bundle(artifacts []export.Artifact, baseName string) (export.Artifact, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	rows := 0
	for _, artifact := range artifacts {
		entry, err := w.Create(artifact.Filename)
		if err != nil {
			return export.Artifact{}, fmt.Errorf("failed to open archive entry: %w", err)
		}
		if _, err := entry.Write(artifact.Data); err != nil {
			return export.Artifact{}, fmt.Errorf("failed to write archive entry: %w", err)
		}
		rows += artifact.RowCount
	}
	if err := w.Close(); err != nil {
		return export.Artifact{}, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return export.Artifact{
		Filename:    baseName + ".zip",
		ContentType: export.ContentTypeZip,
		Data:        buf.Bytes(),
		RowCount:    rows,
	}, nil
}
