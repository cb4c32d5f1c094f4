package export

// Format selects the artifact serialization.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

// Content types for the two artifact formats.
const (
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeZip  = "application/zip"
)

// Artifact is one generated file, ready to download or attach.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	RowCount    int
}

// ParseFormat normalizes a format query value; anything unrecognized maps to
// the spreadsheet default.
func ParseFormat(s string) Format {
	if s == string(FormatCSV) {
		return FormatCSV
	}
	return FormatExcel
}

// BuildArtifacts projects the table into one artifact per chunk. splitCount
// <= 1, or a row count not exceeding splitCount, yields a single artifact;
// otherwise each non-empty chunk carries the _partK_of_N suffix.
func BuildArtifacts(table Table, format Format, baseName string, splitCount int, widthCap float64) ([]Artifact, error) {
	chunks := SplitRows(table.Rows, splitCount)

	artifacts := make([]Artifact, 0, len(chunks))
	for i, chunk := range chunks {
		name := baseName
		if len(chunks) > 1 {
			name = PartFilename(baseName, i+1, splitCount)
		}

		var (
			data        []byte
			contentType string
			err         error
		)
		switch format {
		case FormatCSV:
			data, err = EncodeCSV(table.Columns, chunk)
			name += ".csv"
			contentType = ContentTypeCSV
		default:
			data, err = EncodeXLSX(table.Columns, chunk, widthCap)
			name += ".xlsx"
			contentType = ContentTypeXLSX
		}
		if err != nil {
			return nil, err
		}

		artifacts = append(artifacts, Artifact{
			Filename:    name,
			ContentType: contentType,
			Data:        data,
			RowCount:    len(chunk),
		})
	}
	return artifacts, nil
}
