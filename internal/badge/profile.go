package badge

// Page sizes in PDF points. The layout constants were authored against
// portrait A7; other sizes are reached through the averaged scale factor.
const (
	refPageWidth  = 209.76
	refPageHeight = 297.64

	a8PageWidth  = 147.40
	a8PageHeight = 209.76
)

// QRField selects which person fields end up in the scannable payload.
type QRField string

const (
	QRName         QRField = "name"
	QRNationalID   QRField = "national_id"
	QROrganization QRField = "organization"
	QRJobTitle     QRField = "job_title"
	QRCategory     QRField = "category"
)

// EventInfo is the static event branding printed on every badge.
type EventInfo struct {
	FirstDay  int
	LastDay   int
	MonthYear string
	Venue1    string
	Venue2    string
}

// Profile is a named badge variant: page size, sidedness, field limits.
// The duplicated layouts of earlier print runs are collapsed into this one
// configuration value.
type Profile struct {
	Name       string
	PageWidth  float64
	PageHeight float64
	TwoSided   bool

	// Hard-slice truncation limits, in runes.
	MaxName     int
	MaxJobTitle int
	MaxOrg      int
	MaxCategory int

	QRFields []QRField

	GridMaxLogos int
	GridColumns  int

	Event EventInfo
}

func defaultEvent() EventInfo {
	return EventInfo{
		FirstDay:  10,
		LastDay:   12,
		MonthYear: "November 2025",
		Venue1:    "Moi University Annex Campus,",
		Venue2:    "Eldoret Kenya,",
	}
}

func defaultQRFields() []QRField {
	return []QRField{QRName, QRNationalID, QROrganization, QRJobTitle, QRCategory}
}

// ProfileBadgeA7 is the two-sided badge at the reference page size.
func ProfileBadgeA7() Profile {
	return Profile{
		Name:         "badge-a7",
		PageWidth:    refPageWidth,
		PageHeight:   refPageHeight,
		TwoSided:     true,
		MaxName:      40,
		MaxJobTitle:  45,
		MaxOrg:       45,
		MaxCategory:  35,
		QRFields:     defaultQRFields(),
		GridMaxLogos: 20,
		GridColumns:  5,
		Event:        defaultEvent(),
	}
}

// ProfileBadgeA8 is the same two-sided layout on the smaller badge stock.
func ProfileBadgeA8() Profile {
	p := ProfileBadgeA7()
	p.Name = "badge-a8"
	p.PageWidth = a8PageWidth
	p.PageHeight = a8PageHeight
	return p
}

// ProfileCardA7 is the single-sided card: front page only, no sponsor grid.
func ProfileCardA7() Profile {
	p := ProfileBadgeA7()
	p.Name = "card-a7"
	p.TwoSided = false
	return p
}

// ProfileByName resolves a page-size selector from a request parameter.
func ProfileByName(name string) (Profile, bool) {
	switch name {
	case "", "badge-a7", "a7":
		return ProfileBadgeA7(), true
	case "badge-a8", "a8":
		return ProfileBadgeA8(), true
	case "card-a7", "card":
		return ProfileCardA7(), true
	}
	return Profile{}, false
}

// Scale returns the averaged isotropic factor that maps the reference
// layout onto this profile's page. Every layout constant goes through it.
func (p Profile) Scale() float64 {
	return (p.PageWidth/refPageWidth + p.PageHeight/refPageHeight) / 2
}
