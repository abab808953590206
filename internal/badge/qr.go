package badge

import (
	"fmt"
	"image"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const qrImagePx = 256

// qrPayload builds the newline-delimited text block scanned at check-in.
// Field order is fixed so downstream scanners can parse positionally.
func qrPayload(p PersonRecord, fields []QRField) string {
	var b strings.Builder
	for _, f := range fields {
		switch f {
		case QRName:
			fmt.Fprintf(&b, "Name: %s\n", p.FullName)
		case QRNationalID:
			fmt.Fprintf(&b, "National ID/ Passport NO: %s\n", p.NationalID)
		case QROrganization:
			fmt.Fprintf(&b, "Organization: %s\n", p.Organization)
		case QRJobTitle:
			fmt.Fprintf(&b, "Job Title: %s\n", p.JobTitle)
		case QRCategory:
			fmt.Fprintf(&b, "Category: %s\n", p.Category)
		}
	}
	return b.String()
}

// qrFallbackPayload is the degraded payload used when the full one does not
// fit the symbol: name and identifier only. Badges always render.
func qrFallbackPayload(p PersonRecord) string {
	return fmt.Sprintf("Name: %s\nID: %d\n", p.FullName, p.ID)
}

// qrImage encodes the payload at medium error correction, falling back to
// the short payload when the content is too long for the symbol.
func qrImage(p PersonRecord, fields []QRField) (image.Image, bool, error) {
	code, err := qrcode.New(qrPayload(p, fields), qrcode.Medium)
	if err == nil {
		return code.Image(qrImagePx), false, nil
	}
	code, err = qrcode.New(qrFallbackPayload(p), qrcode.Medium)
	if err != nil {
		return nil, true, err
	}
	return code.Image(qrImagePx), true, nil
}
