package badge

import (
	"image"
	"log/slog"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/signintech/gopdf"
)

const (
	fontRegular = "sans"
	fontBold    = "sans-bold"
)

var (
	accentGreen = rgb{0x3a, 0xa6, 0x55}
	accentRed   = rgb{0xd6, 0x26, 0x12}
	lightGrey   = rgb{211, 211, 211}
	darkGrey    = rgb{105, 105, 105}
	white       = rgb{255, 255, 255}
)

// canvas wraps one document while its pages are drawn. Coordinates are
// top-left origin in PDF points; text positions are given as baselines.
type canvas struct {
	pdf     *gopdf.GoPdf
	w, h    float64
	scale   float64
	assets  AssetStore
	profile Profile
	log     *slog.Logger
}

func (c *canvas) s(v float64) float64 { return v * c.scale }

func (c *canvas) setFont(family string, size float64) {
	if err := c.pdf.SetFont(family, "", size); err != nil {
		c.log.Warn("font select failed", "family", family, "error", err)
	}
}

// textWidth measures with the currently selected font.
func (c *canvas) textWidth(text string) float64 {
	w, err := c.pdf.MeasureTextWidth(text)
	if err != nil {
		return 0
	}
	return w
}

func (c *canvas) text(x, baseline float64, text string, size float64) {
	c.pdf.SetXY(x, baseline-size)
	_ = c.pdf.Cell(nil, text)
}

func (c *canvas) textCentered(cx, baseline float64, text string, size float64) {
	c.text(cx-c.textWidth(text)/2, baseline, text, size)
}

// drawImageFit places img inside the box preserving aspect ratio, centered.
func (c *canvas) drawImageFit(img image.Image, x, y, boxW, boxH float64) {
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw <= 0 || ih <= 0 || boxW <= 0 || boxH <= 0 {
		return
	}
	k := boxW / iw
	if boxH/ih < k {
		k = boxH / ih
	}
	w, h := iw*k, ih*k
	if err := c.pdf.ImageFrom(img, x+(boxW-w)/2, y+(boxH-h)/2, &gopdf.Rect{W: w, H: h}); err != nil {
		c.log.Warn("image draw failed", "error", err)
	}
}

type logoSlot struct {
	path  string
	width float64
}

// drawLogoRow centers the loadable logos as one horizontal group. Missing
// files are skipped and the remaining logos re-center; no dead space is
// reserved.
func (c *canvas) drawLogoRow(slots []logoSlot, yTop, rowH, spacing float64) {
	type loaded struct {
		img   image.Image
		width float64
	}
	var imgs []loaded
	total := 0.0
	for _, s := range slots {
		img, err := imaging.Open(s.path)
		if err != nil {
			continue
		}
		if len(imgs) > 0 {
			total += spacing
		}
		imgs = append(imgs, loaded{img, s.width})
		total += s.width
	}
	x := (c.w - total) / 2
	for _, l := range imgs {
		c.drawImageFit(l.img, x, yTop, l.width, rowH)
		x += l.width + spacing
	}
}

func (c *canvas) drawFront(p PersonRecord) {
	c.pdf.AddPage()
	c.drawAccents(parseHex(p.AccentHex))

	c.drawLogoRow([]logoSlot{
		{c.assets.PartnerLogo(), 0.48 * c.w},
		{c.assets.SummitLogo(), 0.52 * c.w},
	}, 0.06*c.h, 0.25*c.h, 0.01*c.w)

	photoBottom := c.drawAvatar(p)
	c.drawNameBlock(p, photoBottom)
	c.drawEventDates()
	c.drawQR(p)
}

// drawAccents paints the flag-like background shapes. The third triangle
// carries the category color.
func (c *canvas) drawAccents(accent rgb) {
	c.pdf.SetFillColor(accentGreen.r, accentGreen.g, accentGreen.b)
	c.pdf.Polygon([]gopdf.Point{
		{X: 0.68 * c.w, Y: 0.82 * c.h},
		{X: 0.83 * c.w, Y: 0.72 * c.h},
		{X: 0.68 * c.w, Y: 0.64 * c.h},
	}, "F")

	offset := c.s(45)
	c.pdf.SetStrokeColor(accentRed.r, accentRed.g, accentRed.b)
	c.pdf.SetLineWidth(c.s(0.5))
	c.pdf.Line(0.5*c.w-offset, c.h, c.w-offset, 0.65*c.h)

	c.pdf.SetFillColor(accent.r, accent.g, accent.b)
	c.pdf.Polygon([]gopdf.Point{
		{X: 0, Y: c.h},
		{X: 0.8 * c.w, Y: c.h},
		{X: 0, Y: 0.6 * c.h},
	}, "F")

	c.pdf.SetFillColor(accentRed.r, accentRed.g, accentRed.b)
	c.pdf.Polygon([]gopdf.Point{
		{X: c.w, Y: c.h},
		{X: c.w, Y: 0.65 * c.h},
		{X: 0.5 * c.w, Y: c.h},
	}, "F")
}

// drawAvatar renders the circular photo (or its placeholder treatment) and
// returns the bottom edge the text stack hangs from. The bounding box is
// identical whether or not a photo exists, so text positions never move.
func (c *canvas) drawAvatar(p PersonRecord) float64 {
	size := c.s(65)
	x := (c.w - size) / 2
	top := c.s(55)
	px := int(size * 2)

	var img image.Image
	if len(p.Photo) > 0 {
		var err error
		img, err = circularAvatar(p.Photo, px)
		if err != nil {
			c.log.Warn("photo unreadable, using placeholder", "id", p.ID, "error", err)
		}
	}
	if img == nil {
		var err error
		img, err = circularAvatarFile(c.assets.Placeholder(), px)
		if err != nil {
			c.log.Warn("placeholder unreadable", "path", c.assets.Placeholder(), "error", err)
		}
	}

	if img == nil {
		// Last resort: neutral box in the same bounding rectangle.
		c.pdf.SetFillColor(lightGrey.r, lightGrey.g, lightGrey.b)
		_ = c.pdf.Rectangle(x, top, x+size, top+size, "F", c.s(6), 16)
		c.pdf.SetTextColor(darkGrey.r, darkGrey.g, darkGrey.b)
		c.setFont(fontRegular, c.s(6))
		c.textCentered(c.w/2, top+size/2+c.s(2), "No Photo", c.s(6))
		return top + size
	}

	_ = c.pdf.ImageFrom(img, x, top, &gopdf.Rect{W: size, H: size})

	// Concentric rings are page-level decoration, drawn after placement so
	// they sit on top of the composited photo.
	cx, cy := c.w/2, top+size/2
	c.pdf.SetLineWidth(c.s(1.6))
	c.pdf.SetStrokeColor(white.r, white.g, white.b)
	r1 := size/2 + c.s(1)
	c.pdf.Oval(cx-r1, cy-r1, cx+r1, cy+r1)

	c.pdf.SetLineWidth(c.s(0.8))
	c.pdf.SetStrokeColor(accentGreen.r, accentGreen.g, accentGreen.b)
	r2 := size/2 + c.s(2)
	c.pdf.Oval(cx-r2, cy-r2, cx+r2, cy+r2)

	return top + size
}

func (c *canvas) drawNameBlock(p PersonRecord, photoBottom float64) {
	c.pdf.SetTextColor(0, 0, 0)

	nameSize := c.s(8.5)
	c.setFont(fontBold, nameSize)
	c.textCentered(c.w/2, photoBottom+c.s(12), truncate(p.FullName, c.profile.MaxName), nameSize)

	line2 := p.Category
	if line2 == "" {
		line2 = p.Organization
	}
	catSize := c.s(13)
	c.setFont(fontBold, catSize)
	c.textCentered(c.w/2, photoBottom+c.s(12)+c.s(11), truncate(line2, c.profile.MaxCategory), catSize)
}

// drawEventDates draws the "10th – 12th" glyph with true superscript
// ordinal suffixes. Every sub-run is measured first so the whole group can
// be centered before any drawing happens.
func (c *canvas) drawEventDates() {
	ev := c.profile.Event
	main1 := strconv.Itoa(ev.FirstDay)
	sup1 := ordinalSuffix(ev.FirstDay)
	main2 := strconv.Itoa(ev.LastDay)
	sup2 := ordinalSuffix(ev.LastDay)
	dash := " – "

	baseSize := c.s(20)
	supSize := c.s(12)

	c.setFont(fontBold, baseSize)
	wMain1 := c.textWidth(main1)
	wDash := c.textWidth(dash)
	wMain2 := c.textWidth(main2)
	c.setFont(fontBold, supSize)
	wSup1 := c.textWidth(sup1)
	wSup2 := c.textWidth(sup2)

	total := wMain1 + wSup1 + wDash + wMain2 + wSup2
	x := c.w/4.3 - total/2
	baseline := c.h - c.s(40)
	supBaseline := baseline - c.s(7)

	c.pdf.SetTextColor(white.r, white.g, white.b)

	c.setFont(fontBold, baseSize)
	c.text(x, baseline, main1, baseSize)
	x += wMain1

	c.setFont(fontBold, supSize)
	c.text(x, supBaseline, sup1, supSize)
	x += wSup1

	c.setFont(fontBold, baseSize)
	c.text(x, baseline, dash, baseSize)
	x += wDash
	c.text(x, baseline, main2, baseSize)
	x += wMain2

	c.setFont(fontBold, supSize)
	c.text(x, supBaseline, sup2, supSize)

	// Month-year line with its underline accent.
	monthSize := c.s(11)
	mx := c.w / 4.2
	mBaseline := c.h - c.s(30)
	c.setFont(fontRegular, monthSize)
	c.textCentered(mx, mBaseline, ev.MonthYear, monthSize)

	tw := c.textWidth(ev.MonthYear)
	c.pdf.SetStrokeColor(white.r, white.g, white.b)
	c.pdf.SetLineWidth(c.s(0.6))
	ly := mBaseline + c.s(3)
	c.pdf.Line(mx-tw/2, ly, mx+tw/2, ly)

	venueSize := c.s(6)
	c.setFont(fontRegular, venueSize)
	c.textCentered(c.w/4, c.h-c.s(20), ev.Venue1, venueSize)
	c.textCentered(c.w/6.8, c.h-c.s(12), ev.Venue2, venueSize)
}

func (c *canvas) drawQR(p PersonRecord) {
	img, degraded, err := qrImage(p, c.profile.QRFields)
	if err != nil {
		c.log.Warn("qr encode failed", "id", p.ID, "error", err)
		return
	}
	if degraded {
		c.log.Warn("qr payload too long, encoded short form", "id", p.ID)
	}
	size := c.s(40)
	margin := c.s(7)
	_ = c.pdf.ImageFrom(img, c.w-size-margin, c.h-size-margin, &gopdf.Rect{W: size, H: size})
}

func (c *canvas) drawBack() {
	c.pdf.AddPage()

	c.drawLogoRow([]logoSlot{
		{c.assets.TechPartnerLogo(), 0.50 * c.w},
		{c.assets.OrganizerLogo(), 0.50 * c.w},
	}, 0.06*c.h+c.s(12), 0.10*c.h, 0.003*c.w)

	c.drawSponsorGrid()
}

// drawSponsorGrid lays out up to the profile's cap of logos in a fixed
// column count; rows are derived by ceiling division. Unreadable files are
// skipped with a warning, leaving their cell empty.
func (c *canvas) drawSponsorGrid() {
	files := c.assets.GridLogos(c.profile.GridMaxLogos)
	if len(files) == 0 {
		return
	}

	cols := c.profile.GridColumns
	rows := (len(files) + cols - 1) / cols

	gridTop := c.s(75)
	gridH := c.s(95)
	gridW := 0.95 * c.w
	startX := (c.w - gridW) / 2
	cellW := gridW / float64(cols)
	cellH := gridH / float64(rows)
	pad := c.s(1.5)

	for i, f := range files {
		img, err := imaging.Open(f)
		if err != nil {
			c.log.Warn("grid logo unreadable", "path", f, "error", err)
			continue
		}
		x := startX + float64(i%cols)*cellW
		y := gridTop + float64(i/cols)*cellH
		c.drawImageFit(img, x+pad, y+pad, cellW-2*pad, cellH-2*pad)
	}
}
