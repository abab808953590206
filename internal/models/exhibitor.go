package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Exhibitor struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Title      string `gorm:"size:10" json:"title"`
	FirstName  string `gorm:"size:100;not null" json:"first_name"`
	SecondName string `gorm:"size:100" json:"second_name"`
	Email      string `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Phone      string `gorm:"size:20" json:"phone"`

	OrganizationName string `gorm:"size:200" json:"organization_name"`
	JobTitle         string `gorm:"size:200" json:"job_title"`
	CategoryID       uint   `json:"category_id"`

	ProductDescription string `json:"product_description"`
	BoothNumber        string `gorm:"size:20" json:"booth_number"`
	Section            string `gorm:"size:100" json:"section"`

	// local or international
	BusinessType          string `gorm:"size:20;default:local" json:"business_type"`
	CountryOfRegistration string `gorm:"size:2" json:"country_of_registration"`

	NationalIDNumber string `gorm:"size:50" json:"national_id_number"`
	PassportPhoto    string `gorm:"size:255" json:"passport_photo"`

	PrivacyAgreed bool `json:"privacy_agreed"`
	IsPrinted     bool `json:"is_printed"`

	CreatedAt time.Time `json:"created_at"`
}

func (e Exhibitor) FullName() string {
	return strings.TrimSpace(strings.Join([]string{e.Title, e.FirstName, e.SecondName}, " "))
}
