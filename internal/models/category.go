package models

// Category is a registration category (Delegate, Exhibitor, Student, ...).
// Color is the hex value the badge renderer uses for the category accent.
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
	Color       string `gorm:"size:7" json:"color"`
}
