package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	awslib "cloudpwn/internal/aws"
)

// NoResults is rendered in place of a table without rows
const NoResults = "No results found"

// Table renders rows as a bordered grid. rows are never modified.
func Table(w io.Writer, headers []string, rows []awslib.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, NoResults)
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetRowLine(true)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range rows {
		table.Append(append([]string(nil), row...))
	}
	table.Render()
}

// JSON writes v indented by four spaces
func JSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
