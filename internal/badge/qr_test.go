package badge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRPayloadFieldOrder(t *testing.T) {
	p := PersonRecord{
		ID:           42,
		FullName:     "Jane Doe",
		Organization: "Ministry of Testing",
		JobTitle:     "Director",
		Category:     "Delegate",
		NationalID:   "12345678",
	}
	got := qrPayload(p, defaultQRFields())
	want := "Name: Jane Doe\n" +
		"National ID/ Passport NO: 12345678\n" +
		"Organization: Ministry of Testing\n" +
		"Job Title: Director\n" +
		"Category: Delegate\n"
	assert.Equal(t, want, got)
}

func TestQRPayloadSubset(t *testing.T) {
	p := PersonRecord{FullName: "Jane Doe", Category: "Delegate"}
	got := qrPayload(p, []QRField{QRName, QRCategory})
	assert.Equal(t, "Name: Jane Doe\nCategory: Delegate\n", got)
}

func TestQRImageHappyPath(t *testing.T) {
	img, degraded, err := qrImage(PersonRecord{ID: 1, FullName: "Jane Doe"}, defaultQRFields())
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Equal(t, qrImagePx, img.Bounds().Dx())
}

func TestQRImageFallsBackWhenPayloadTooLong(t *testing.T) {
	p := PersonRecord{
		ID:           1,
		FullName:     "Jane Doe",
		Organization: strings.Repeat("x", 4000),
	}
	img, degraded, err := qrImage(p, defaultQRFields())
	require.NoError(t, err)
	assert.True(t, degraded)
	require.NotNil(t, img)
}

func TestGridLogosCapAndOrder(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "images", "badge_logos")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	names := []string{
		"zeta.png", "alpha.jpg", "beta.jpeg", "notes.txt", "gamma.PNG",
	}
	for i := 0; i < 30; i++ {
		names = append(names, filepath.Join("", "logo_"+string(rune('a'+i%26))+".png"))
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644))
	}

	store := AssetStore{Root: root}
	got := store.GridLogos(20)
	assert.Len(t, got, 20)
	// Sorted filename order, non-image files excluded.
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i])
	}
	for _, f := range got {
		assert.NotContains(t, f, ".txt")
	}
}

func TestGridLogosMissingDir(t *testing.T) {
	store := AssetStore{Root: filepath.Join(t.TempDir(), "nope")}
	assert.Empty(t, store.GridLogos(20))
}
