package jobs

import (
	"context"
	"os"

	"gorm.io/gorm"

	"summitreg/internal/badge"
	"summitreg/internal/models"
)

// GormSource feeds the processor from the registrants table, oldest first,
// skipping anyone already printed. The afterID cursor keeps the scan moving
// forward even past records whose render failed.
type GormSource struct {
	DB *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{DB: db}
}

func (s *GormSource) NextBatch(ctx context.Context, afterID uint, limit int) ([]BadgeItem, error) {
	// Categories are re-read every batch so renames and color edits made
	// while a job is queued show up on the badges it prints.
	cats, err := s.loadCategories(ctx)
	if err != nil {
		return nil, err
	}

	var regs []models.Registrant
	err = s.DB.WithContext(ctx).
		Where("is_printed = ? AND id > ?", false, afterID).
		Order("id asc").
		Limit(limit).
		Find(&regs).Error
	if err != nil {
		return nil, err
	}

	items := make([]BadgeItem, 0, len(regs))
	for _, r := range regs {
		items = append(items, itemFromRegistrant(r, cats))
	}
	return items, nil
}

func (s *GormSource) MarkPrinted(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).
		Model(&models.Registrant{}).
		Where("id = ?", id).
		Update("is_printed", true).Error
}

func (s *GormSource) loadCategories(ctx context.Context) (map[uint]models.Category, error) {
	var cats []models.Category
	if err := s.DB.WithContext(ctx).Find(&cats).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]models.Category, len(cats))
	for _, c := range cats {
		out[c.ID] = c
	}
	return out, nil
}

func itemFromRegistrant(r models.Registrant, cats map[uint]models.Category) BadgeItem {
	cat := cats[r.CategoryID]
	return BadgeItem{
		Person: badge.PersonRecord{
			ID:           r.ID,
			FullName:     r.FullName(),
			Organization: r.DisplayOrgType(),
			JobTitle:     r.JobTitle,
			Category:     cat.Name,
			NationalID:   r.NationalIDNumber,
			AccentHex:    cat.Color,
			Photo:        readPhoto(r.PassportPhoto),
		},
		Category: cat.Name,
	}
}

// readPhoto returns nil for a missing or unreadable file; the renderer falls
// back to its placeholder in that case.
func readPhoto(path string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}
