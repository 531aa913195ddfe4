package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/DolphinWorld/demandsolution-codex/internal/intake"
	"github.com/DolphinWorld/demandsolution-codex/internal/models"
	"github.com/DolphinWorld/demandsolution-codex/pkg/utils"
)

// extractPlain returns content as string, validating it is valid UTF-8.
// Invalid UTF-8 sequences are replaced with the replacement character.
func extractPlain(content []byte) (string, error) {
	if !utf8.Valid(content) {
		content = []byte(strings.ToValidUTF8(string(content), "\ufffd"))
	}
	return string(content), nil
}

// paragraphRecords makes one record per blank-line separated paragraph. Markdown
// heading marks, list bullets and "---" rules are dropped.
func paragraphRecords(text string) []intake.Record {
	var records []intake.Record
	var para []string
	flush := func() {
		if raw := utils.CollapseWhitespace(strings.Join(para, " ")); raw != "" {
			raw = utils.FirstNRunes(raw, models.MaxRawInputLength)
			records = append(records, intake.Record{Input: models.IdeaInput{RawInputText: raw}})
		}
		para = para[:0]
	}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Trim(line, "-*=") == "" {
			flush()
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "#"))
		for _, bullet := range []string{"- ", "* ", "+ "} {
			line = strings.TrimPrefix(line, bullet)
		}
		para = append(para, line)
	}
	flush()
	return records
}
