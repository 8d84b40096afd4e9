package archive

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ExportFormat selects the encoding used by Export.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
)

var csvHeader = []string{
	"id", "document", "file", "target", "translated", "parameters",
	"query_hash", "error", "duration_ms", "created_at",
}

// Export writes records to w. JSON output is an indented array; CSV output
// has a header row and joins parameters with ';'.
func Export(w io.Writer, records []*Record, format ExportFormat) error {
	switch format {
	case FormatJSON, "":
		if records == nil {
			records = []*Record{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("json export of %d records failed: %w", len(records), err)
		}
		return nil

	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(csvHeader); err != nil {
			return fmt.Errorf("csv export failed: %w", err)
		}
		for _, r := range records {
			row := []string{
				r.ID,
				r.Document,
				r.File,
				r.Target,
				r.Translated,
				strings.Join(r.Parameters, ";"),
				r.QueryHash,
				r.Error,
				strconv.FormatFloat(float64(r.Duration)/float64(time.Millisecond), 'f', 3, 64),
				r.CreatedAt.Format(time.RFC3339Nano),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("csv export of %d records failed: %w", len(records), err)
			}
		}
		cw.Flush()
		return cw.Error()
	}
	return fmt.Errorf("unknown export format %q (want json or csv)", format)
}
