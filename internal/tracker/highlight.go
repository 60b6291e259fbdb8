// internal/tracker/highlight.go
package tracker

import "remotehire/internal/models"

// statusColors maps each status to the row highlight token applied after a
// transition. Cosmetic only; highlight failures never fail the operation.
var statusColors = map[models.Status]string{
	models.StatusNew:       "gray",
	models.StatusAudioPass: "blue",
	models.StatusInterview: "amber",
	models.StatusHired:     "green",
	models.StatusRejected:  "red",
}

// StatusColor returns the highlight token for a status.
func StatusColor(s models.Status) string {
	return statusColors[s]
}
