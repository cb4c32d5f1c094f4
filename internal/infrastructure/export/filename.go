package export

import (
	"fmt"
	"regexp"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeFormName collapses whitespace runs in a form name into underscores;
// an empty name falls back to "leads".
func SanitizeFormName(name string) string {
	sanitized := whitespaceRun.ReplaceAllString(name, "_")
	if sanitized == "" {
		return "leads"
	}
	return sanitized
}

// BaseFilename joins the sanitized form name with the active date-selection
// label. The extension is appended by the encoder.
func BaseFilename(formName, rangeLabel string) string {
	return SanitizeFormName(formName) + "_" + rangeLabel
}

// PartFilename appends the _partK_of_N suffix for split artifacts; part
// numbering is 1-based.
func PartFilename(base string, part, total int) string {
	return fmt.Sprintf("%s_part%d_of_%d", base, part, total)
}
