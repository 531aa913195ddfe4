package extract

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/DolphinWorld/demandsolution-codex/internal/intake"
	"github.com/DolphinWorld/demandsolution-codex/internal/models"
)

// Header names accepted for each import column.
var columnAliases = map[string]string{
	"raw_input_text":    "raw_input_text",
	"idea":              "raw_input_text",
	"text":              "raw_input_text",
	"title":             "title",
	"problem_statement": "problem_statement",
	"problem":           "problem_statement",
	"tags":              "tags",
	"upvotes":           "upvotes",
	"target_users":      "target_users",
	"platform":          "platform",
	"constraints":       "constraints",
}

func extractExcel(content []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	var buf strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			buf.WriteString(strings.Join(row, "\t"))
			buf.WriteByte('\n')
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

// excelRecords reads one record per row. The first row of each sheet names the
// columns; sheets without an idea text column are ignored.
func excelRecords(content []byte) ([]intake.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	var records []intake.Record
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}
		columns := headerColumns(rows[0])
		if _, ok := columns["raw_input_text"]; !ok {
			continue
		}
		for _, row := range rows[1:] {
			cell := func(name string) string {
				i, ok := columns[name]
				if !ok || i >= len(row) {
					return ""
				}
				return strings.TrimSpace(row[i])
			}
			raw := cell("raw_input_text")
			if raw == "" {
				continue
			}
			upvotes, _ := strconv.Atoi(cell("upvotes"))
			records = append(records, intake.Record{
				Input: models.IdeaInput{
					RawInputText: raw,
					TargetUsers:  cell("target_users"),
					Platform:     cell("platform"),
					Constraints:  cell("constraints"),
				},
				Title:            cell("title"),
				ProblemStatement: cell("problem_statement"),
				Tags:             splitTags(cell("tags")),
				Upvotes:          upvotes,
			})
		}
	}
	return records, nil
}

func headerColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
		if canonical, ok := columnAliases[key]; ok {
			if _, dup := columns[canonical]; !dup {
				columns[canonical] = i
			}
		}
	}
	return columns
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
