package discord

import "time"

const revisionLayout = "02/01/2006 15:04 MST"

// FormatRevisionDate renders a PO-Revision-Date in UTC for embeds.
func FormatRevisionDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(revisionLayout)
}
