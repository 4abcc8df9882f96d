// Package prompt loads the system directive that frames every
// conversation run.
package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/system.txt
var systemTemplate string

const dateToken = "{{CURRENT_DATE}}"

// System renders the system directive, anchoring relative-date reasoning
// on currentDate (YYYY-MM-DD). An empty currentDate leaves the directive
// without an anchor sentence.
func System(currentDate string) string {
	text := strings.TrimSpace(systemTemplate)
	if strings.TrimSpace(currentDate) == "" {
		return strings.ReplaceAll(text, "Today's date is "+dateToken+".", "")
	}
	return strings.ReplaceAll(text, dateToken, currentDate)
}
