package mailer

import (
	"bytes"
	"io"
	"text/template"
	"time"
)

// Event dates mirror the badge artwork; keep them in sync when the summit
// moves.
var (
	eventStart = time.Date(2025, time.November, 10, 8, 0, 0, 0, time.UTC)
	eventEnd   = time.Date(2025, time.November, 12, 18, 0, 0, 0, time.UTC)
)

const eventName = "Innovation Summit 2025"
const eventVenue = "Moi University Annex Campus, Eldoret Kenya"

// icsTemplate is RFC 5545; lines end CRLF.
var icsTemplate = template.Must(template.New("ics").Parse(
	"BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"PRODID:-//summitreg//registration//EN\r\n" +
		"METHOD:PUBLISH\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:{{.UID}}\r\n" +
		"DTSTAMP:{{.Stamp}}\r\n" +
		"DTSTART:{{.Start}}\r\n" +
		"DTEND:{{.End}}\r\n" +
		"SUMMARY:{{.Summary}}\r\n" +
		"LOCATION:{{.Location}}\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"))

type icsData struct {
	UID      string
	Stamp    string
	Start    string
	End      string
	Summary  string
	Location string
}

const icsTimeLayout = "20060102T150405Z"

// BuildInvite renders the event's calendar file. The UID is stable so
// repeated imports update the same event instead of duplicating it.
func BuildInvite() []byte {
	var buf bytes.Buffer
	_ = icsTemplate.Execute(&buf, icsData{
		UID:      "summit-2025@summitreg",
		Stamp:    time.Now().UTC().Format(icsTimeLayout),
		Start:    eventStart.Format(icsTimeLayout),
		End:      eventEnd.Format(icsTimeLayout),
		Summary:  eventName,
		Location: eventVenue,
	})
	return buf.Bytes()
}

func writeInvite(w io.Writer) error {
	_, err := w.Write(BuildInvite())
	return err
}
