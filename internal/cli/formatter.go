package cli

import (
	"fmt"
	"strings"

	"github.com/stationsim/station-cli/internal/models"
	"github.com/stationsim/station-cli/internal/timeutil"
)

// renderOccupancy draws the platform row as filled/empty blocks, one glyph
// per platform in ascending number order.
func renderOccupancy(platforms []models.PlatformState) string {
	var b strings.Builder
	for _, p := range platforms {
		if p.Train != nil {
			b.WriteString("█")
		} else {
			b.WriteString("░")
		}
	}
	return b.String()
}

// statusLine renders one console line for a snapshot.
func statusLine(s models.Snapshot) string {
	return fmt.Sprintf("%s  %s  waiting=%d  report=%d",
		timeutil.Format12Hour(s.CurrentTime), renderOccupancy(s.Platforms),
		len(s.Waiting), len(s.Reports))
}
