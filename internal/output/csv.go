package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	awslib "cloudpwn/internal/aws"
)

// CSVFile is the merged content of one resource kind across regions
type CSVFile struct {
	Kind    string
	Headers []string
	Rows    []awslib.Row
}

// FileName returns <kind>_<YYYYMMDD>.csv with dashes in kind replaced by underscores
func (f CSVFile) FileName(t time.Time) string {
	return fmt.Sprintf("%s_%s.csv", strings.ReplaceAll(f.Kind, "-", "_"), t.Format("20060102"))
}

// Encode writes the header row followed by every data row
func (f CSVFile) Encode(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range f.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// Bytes returns the encoded file content
func (f CSVFile) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadCSV parses content written by Encode
func ReadCSV(r io.Reader) ([]string, []awslib.Row, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("CSV has no header row")
	}
	rows := make([]awslib.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, awslib.Row(record))
	}
	return records[0], rows, nil
}

// MergeReports groups reports by routine in first-seen order. Every routine
// yields one file, header-only when no region returned rows.
func MergeReports(reports []awslib.Report) []CSVFile {
	var files []CSVFile
	index := make(map[string]int)
	for _, r := range reports {
		i, ok := index[r.Name]
		if !ok {
			i = len(files)
			index[r.Name] = i
			files = append(files, CSVFile{Kind: r.Name, Headers: r.Headers})
		}
		if r.Result.HasRows() {
			files[i].Rows = append(files[i].Rows, r.Result.Rows...)
		}
	}
	return files
}
