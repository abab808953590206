package badge

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AssetStore resolves the static files a badge needs below one root
// directory. Missing optional assets (logos, placeholder) degrade the
// render; missing fonts abort it.
type AssetStore struct {
	Root string
}

func (a AssetStore) FontRegular() string { return filepath.Join(a.Root, "fonts", "sans.ttf") }
func (a AssetStore) FontBold() string    { return filepath.Join(a.Root, "fonts", "sans_bold.ttf") }

func (a AssetStore) SummitLogo() string  { return filepath.Join(a.Root, "images", "summit_logo.png") }
func (a AssetStore) PartnerLogo() string { return filepath.Join(a.Root, "images", "badge_partner.png") }

func (a AssetStore) OrganizerLogo() string {
	return filepath.Join(a.Root, "images", "organizer_logo.png")
}

func (a AssetStore) TechPartnerLogo() string {
	return filepath.Join(a.Root, "images", "technology_partner.png")
}

func (a AssetStore) Placeholder() string {
	return filepath.Join(a.Root, "images", "placeholder.jpg")
}

func (a AssetStore) GridDir() string { return filepath.Join(a.Root, "images", "badge_logos") }

// GridLogos lists the sponsor-grid image files in sorted filename order,
// capped at max. A missing directory yields an empty list, not an error.
func (a AssetStore) GridLogos(max int) []string {
	entries, err := os.ReadDir(a.GridDir())
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			files = append(files, filepath.Join(a.GridDir(), e.Name()))
		}
	}
	sort.Strings(files)
	if len(files) > max {
		files = files[:max]
	}
	return files
}
