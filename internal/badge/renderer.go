package badge

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/signintech/gopdf"
)

// PersonRecord is the minimal data needed to render one badge. The caller
// composes and trims the fields; the renderer only truncates for layout.
type PersonRecord struct {
	ID           uint
	FullName     string
	Organization string
	JobTitle     string
	Category     string
	NationalID   string

	// AccentHex is the category display color (e.g. "#3aa655"). Empty or
	// unparseable values fall back to black.
	AccentHex string

	// Photo holds the raw JPEG/PNG bytes, nil when no photo was uploaded.
	Photo []byte
}

var (
	ErrMissingName     = errors.New("badge: person record has no name")
	ErrInvalidPageSize = errors.New("badge: profile page size is invalid")
)

// Renderer turns person records into badge PDFs. It holds only immutable
// configuration, so one Renderer is safe for concurrent use; every Render
// call builds its own document and image buffers.
type Renderer struct {
	Assets  AssetStore
	Profile Profile
	Log     *slog.Logger
}

func New(assets AssetStore, profile Profile, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{Assets: assets, Profile: profile, Log: log}
}

// Render produces the finished badge document as in-memory bytes. Missing
// logos and unreadable photos degrade with a logged warning; missing fonts,
// an invalid page size or an empty name abort the render.
func (r *Renderer) Render(p PersonRecord) ([]byte, error) {
	if strings.TrimSpace(p.FullName) == "" {
		return nil, ErrMissingName
	}
	if r.Profile.PageWidth <= 0 || r.Profile.PageHeight <= 0 {
		return nil, ErrInvalidPageSize
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: gopdf.Rect{W: r.Profile.PageWidth, H: r.Profile.PageHeight}})
	pdf.SetCompressLevel(9)

	if err := pdf.AddTTFFont(fontRegular, r.Assets.FontRegular()); err != nil {
		return nil, fmt.Errorf("badge: load font %s: %w", r.Assets.FontRegular(), err)
	}
	if err := pdf.AddTTFFont(fontBold, r.Assets.FontBold()); err != nil {
		return nil, fmt.Errorf("badge: load font %s: %w", r.Assets.FontBold(), err)
	}

	c := &canvas{
		pdf:     pdf,
		w:       r.Profile.PageWidth,
		h:       r.Profile.PageHeight,
		scale:   r.Profile.Scale(),
		assets:  r.Assets,
		profile: r.Profile,
		log:     r.Log,
	}

	c.drawFront(p)
	if r.Profile.TwoSided {
		c.drawBack()
	}

	// GetBytesPdf would fatal the process on an assembly error; the caller
	// gets the error instead.
	data, err := pdf.GetBytesPdfReturnErr()
	if err != nil {
		return nil, fmt.Errorf("badge: assemble pdf: %w", err)
	}
	return data, nil
}

// Filename derives the deterministic download name for a badge. The numeric
// identifier guarantees uniqueness even when sanitized names collide.
func Filename(id uint, fullName string) string {
	name := strings.TrimSpace(fullName)
	if name == "" {
		name = fmt.Sprintf("registrant_%d", id)
	}
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "/", "_")
	var b strings.Builder
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '_', ch == '-':
			b.WriteRune(ch)
		}
	}
	return fmt.Sprintf("badge_%d_%s.pdf", id, b.String())
}

// truncate hard-slices to at most n runes. Not word-aware: print layouts
// were tuned against the exact prefix.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

type rgb struct{ r, g, b uint8 }

var black = rgb{0, 0, 0}

// parseHex resolves a "#rrggbb" accent to a color, black when absent or
// malformed.
func parseHex(s string) rgb {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return black
	}
	var out [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexVal(s[2*i])
		lo, ok2 := hexVal(s[2*i+1])
		if !ok1 || !ok2 {
			return black
		}
		out[i] = hi<<4 | lo
	}
	return rgb{out[0], out[1], out[2]}
}

func hexVal(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// ordinalSuffix returns the English suffix for a day of month.
func ordinalSuffix(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
