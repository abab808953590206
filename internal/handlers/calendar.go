package handlers

import (
	"net/http"

	"summitreg/internal/mailer"
)

// Calendar serves the event as an .ics file so attendees can add it to
// their calendars straight from the site.
func Calendar(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="summit.ics"`)
	_, _ = w.Write(mailer.BuildInvite())
}
