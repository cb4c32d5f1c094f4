package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadrelay/leadrelay-go/internal/domain/apperr"
	"github.com/leadrelay/leadrelay-go/internal/domain/entities"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/export"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/performance"
)

func sampleLeads(n int) []entities.Lead {
	leads := make([]entities.Lead, 0, n)
	for i := 0; i < n; i++ {
		leads = append(leads, entities.Lead{
			ID:          fmt.Sprintf("lead-%d", i),
			CreatedTime: "2024-03-15T09:30:00+0000",
			FieldData: []entities.LeadField{
				{Name: "full_name", Values: []string{fmt.Sprintf("Lead %d", i)}},
			},
		})
	}
	return leads
}

func newExportService() *ExportService {
	return NewExportService(testLogger(), performance.NewTracker(16), 20, 50)
}

func TestExportBuildSplitsWithPartNames(t *testing.T) {
	svc := newExportService()

	artifacts, err := svc.Build(ExportRequest{
		Leads:      sampleLeads(10),
		FormName:   "Spring Campaign",
		RangeKey:   entities.RangeAllTime,
		RangeLabel: "All time",
		Format:     export.FormatCSV,
		SplitCount: 3,
	})
	require.NoError(t, err)
	require.Len(t, artifacts, 3)

	assert.Equal(t, "Spring_Campaign_all_time_part1_of_3.csv", artifacts[0].Filename)
	assert.Equal(t, "Spring_Campaign_all_time_part3_of_3.csv", artifacts[2].Filename)
	assert.Equal(t, 4, artifacts[0].RowCount)
	assert.Equal(t, 2, artifacts[2].RowCount)
}

func TestExportBuildClampsSplitCount(t *testing.T) {
	svc := newExportService()

	// 100 rows with an absurd split request stays within the configured cap.
	artifacts, err := svc.Build(ExportRequest{
		Leads:      sampleLeads(100),
		FormName:   "form",
		RangeKey:   entities.RangeAllTime,
		RangeLabel: "All time",
		Format:     export.FormatCSV,
		SplitCount: 500,
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(artifacts), 20)

	artifacts, err = svc.Build(ExportRequest{
		Leads:      sampleLeads(4),
		FormName:   "form",
		RangeKey:   entities.RangeAllTime,
		RangeLabel: "All time",
		Format:     export.FormatCSV,
		SplitCount: -2,
	})
	require.NoError(t, err)
	assert.Len(t, artifacts, 1)
}

func TestExportBuildRejectsEmptyLeadSet(t *testing.T) {
	svc := newExportService()

	_, err := svc.Build(ExportRequest{FormName: "form", Format: export.FormatCSV})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestExportBundleZipRoundTrip(t *testing.T) {
	svc := newExportService()

	artifacts, err := svc.Build(ExportRequest{
		Leads:      sampleLeads(10),
		FormName:   "form",
		RangeKey:   entities.RangeAllTime,
		RangeLabel: "All time",
		Format:     export.FormatCSV,
		SplitCount: 3,
	})
	require.NoError(t, err)

	bundle, err := svc.Bundle(artifacts, "form_all_time")
	require.NoError(t, err)
	assert.Equal(t, "form_all_time.zip", bundle.Filename)
	assert.Equal(t, export.ContentTypeZip, bundle.ContentType)
	assert.Equal(t, 10, bundle.RowCount)

	reader, err := zip.NewReader(bytes.NewReader(bundle.Data), int64(len(bundle.Data)))
	require.NoError(t, err)
	require.Len(t, reader.File, 3)
	assert.Equal(t, artifacts[0].Filename, reader.File[0].Name)
}
