package badge

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAssets points at the checked-in fixture fonts. Logos and the photo
// placeholder are deliberately absent: renders must degrade, not fail.
func testAssets() AssetStore {
	return AssetStore{Root: "testdata"}
}

// pdfPageCount reads the page total from the document's page-tree /Count
// entry.
func pdfPageCount(t *testing.T, data []byte) int {
	t.Helper()
	for n := 1; n <= 4; n++ {
		if bytes.Contains(data, []byte("/Count "+string(rune('0'+n)))) {
			return n
		}
	}
	return 0
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		id       uint
		fullName string
		want     string
	}{
		{"simple", 42, "Jane Doe", "badge_42_Jane_Doe.pdf"},
		{"title kept", 7, "Dr Jane Doe", "badge_7_Dr_Jane_Doe.pdf"},
		{"special chars stripped", 9, "O'Brien / Smith?", "badge_9_OBrien___Smith.pdf"},
		{"hyphen kept", 3, "Anna-Lena Meyer", "badge_3_Anna-Lena_Meyer.pdf"},
		{"empty name", 11, "", "badge_11_registrant_11.pdf"},
		{"whitespace only", 12, "   ", "badge_12_registrant_12.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.id, tt.fullName))
		})
	}
}

func TestFilenameUniquePerID(t *testing.T) {
	a := Filename(1, "Jane Doe")
	b := Filename(2, "Jane Doe")
	assert.NotEqual(t, a, b)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcde", truncate("abcde", 5))
	assert.Equal(t, "abcde", truncate("abcdef", 5))
	// rune-aware, not byte-aware
	assert.Equal(t, "äöü", truncate("äöüß", 3))
}

func TestOrdinalSuffix(t *testing.T) {
	tests := map[int]string{
		1: "st", 2: "nd", 3: "rd", 4: "th",
		10: "th", 11: "th", 12: "th", 13: "th",
		21: "st", 22: "nd", 23: "rd", 30: "th", 31: "st",
	}
	for n, want := range tests {
		assert.Equal(t, want, ordinalSuffix(n), "day %d", n)
	}
}

func TestParseHex(t *testing.T) {
	assert.Equal(t, rgb{0x3a, 0xa6, 0x55}, parseHex("#3aa655"))
	assert.Equal(t, rgb{0xd6, 0x26, 0x12}, parseHex("d62612"))
	assert.Equal(t, black, parseHex(""))
	assert.Equal(t, black, parseHex("#fff"))
	assert.Equal(t, black, parseHex("#zzzzzz"))
}

func TestRenderRejectsEmptyName(t *testing.T) {
	r := New(AssetStore{Root: t.TempDir()}, ProfileBadgeA7(), nil)
	_, err := r.Render(PersonRecord{ID: 1, FullName: "   "})
	require.ErrorIs(t, err, ErrMissingName)
}

func TestRenderRejectsInvalidPageSize(t *testing.T) {
	p := ProfileBadgeA7()
	p.PageWidth = 0
	r := New(AssetStore{Root: t.TempDir()}, p, nil)
	_, err := r.Render(PersonRecord{ID: 1, FullName: "Jane Doe"})
	require.ErrorIs(t, err, ErrInvalidPageSize)
}

func TestRenderFailsWithoutFonts(t *testing.T) {
	// Fonts are the one mandatory asset: without them the render aborts
	// instead of degrading.
	r := New(AssetStore{Root: t.TempDir()}, ProfileBadgeA7(), nil)
	_, err := r.Render(PersonRecord{ID: 1, FullName: "Jane Doe"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "font"))
}

func TestRenderTwoSidedBadge(t *testing.T) {
	r := New(testAssets(), ProfileBadgeA7(), nil)
	data, err := r.Render(PersonRecord{
		ID:           42,
		FullName:     "Dr Jane Doe",
		Organization: "Private Company - Acme",
		JobTitle:     "Director",
		Category:     "Delegate",
		NationalID:   "12345678",
		AccentHex:    "#3aa655",
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, 2, pdfPageCount(t, data))
}

func TestRenderCardIsSinglePage(t *testing.T) {
	r := New(testAssets(), ProfileCardA7(), nil)
	data, err := r.Render(PersonRecord{ID: 7, FullName: "Jane Doe", Category: "VIP Guest"})
	require.NoError(t, err)
	assert.Equal(t, 1, pdfPageCount(t, data))
}

func TestRenderWithPhoto(t *testing.T) {
	r := New(testAssets(), ProfileBadgeA7(), nil)
	data, err := r.Render(PersonRecord{
		ID:       8,
		FullName: "Jane Doe",
		Category: "Delegate",
		Photo:    jpegBytes(t, 120, 160, color.NRGBA{R: 180, G: 150, B: 120, A: 255}),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderSurvivesCorruptPhoto(t *testing.T) {
	// A broken upload degrades to the no-photo treatment; the badge still
	// comes out.
	r := New(testAssets(), ProfileBadgeA7(), nil)
	data, err := r.Render(PersonRecord{
		ID:       9,
		FullName: "Jane Doe",
		Category: "Delegate",
		Photo:    []byte("not an image at all"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, pdfPageCount(t, data))
}

func TestRenderA8Profile(t *testing.T) {
	r := New(testAssets(), ProfileBadgeA8(), nil)
	data, err := r.Render(PersonRecord{ID: 10, FullName: "Jane Doe", Category: "Delegate"})
	require.NoError(t, err)
	assert.Equal(t, 2, pdfPageCount(t, data))
}

func TestProfileScale(t *testing.T) {
	assert.InDelta(t, 1.0, ProfileBadgeA7().Scale(), 1e-9)
	assert.InDelta(t, 0.7037, ProfileBadgeA8().Scale(), 1e-3)
}

func TestProfileByName(t *testing.T) {
	p, ok := ProfileByName("")
	require.True(t, ok)
	assert.Equal(t, "badge-a7", p.Name)
	assert.True(t, p.TwoSided)

	p, ok = ProfileByName("a8")
	require.True(t, ok)
	assert.Equal(t, "badge-a8", p.Name)

	p, ok = ProfileByName("card")
	require.True(t, ok)
	assert.False(t, p.TwoSided)

	_, ok = ProfileByName("a3")
	assert.False(t, ok)
}
