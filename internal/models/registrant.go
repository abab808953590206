package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Titles and organization types offered on the public form. The frontend
// renders these; the backend validates against them.
var (
	Titles = []string{"Prof", "Dr", "Eng", "Mr", "Mrs", "Ms"}

	OrgTypes = []string{
		"Government Agency",
		"Private Company",
		"Academic Institution",
		"Sector Association",
		"Industry Advocacy Groups",
		"Development Partners",
		"Student",
		"other",
	}

	InterestLabels = map[string]string{
		"knowledge":  "Knowledge and skill development",
		"networking": "Networking and Community building",
		"business":   "Business and Career Growth",
		"others":     "Others",
	}
)

type Registrant struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Title      string `gorm:"size:10" json:"title"`
	FirstName  string `gorm:"size:100;not null" json:"first_name"`
	SecondName string `gorm:"size:100;not null" json:"second_name"`

	Email string `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Phone string `gorm:"size:50" json:"phone"`

	OrganizationType      string `gorm:"size:100" json:"organization_type"`
	OtherOrganizationType string `gorm:"size:255" json:"other_organization_type"`

	JobTitle string `gorm:"size:255" json:"job_title"`

	Interests     []string `gorm:"serializer:json" json:"interests"`
	OtherInterest string   `json:"other_interest"`

	CategoryID uint `json:"category_id"`

	PrivacyAgreed      bool   `json:"privacy_agreed"`
	AccessibilityNeeds string `json:"accessibility_needs"`
	UpdatesOptIn       bool   `json:"updates_opt_in"`

	NationalIDNumber string `gorm:"size:20;index" json:"national_id_number"`
	PassportPhoto    string `gorm:"size:255" json:"passport_photo"`

	IsPrinted bool `json:"is_printed"`

	UnsubscribeToken uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"-"`
	CreatedAt        time.Time `json:"created_at"`

	EmailLogs []EmailLog `gorm:"foreignKey:RegistrantID" json:"-"`
}

// FullName joins title and names the way badges and exports print them.
func (r Registrant) FullName() string {
	return strings.TrimSpace(strings.Join([]string{r.Title, r.FirstName, r.SecondName}, " "))
}

// DisplayOrgType merges the dropdown value with the free-text "other" field,
// e.g. "Private Company - Safaricom".
func (r Registrant) DisplayOrgType() string {
	if r.OtherOrganizationType != "" {
		return r.OrganizationType + " - " + r.OtherOrganizationType
	}
	return r.OrganizationType
}

// DisplayInterests returns interests as labels, substituting the custom text
// when "others" was selected.
func (r Registrant) DisplayInterests() string {
	items := make([]string, 0, len(r.Interests))
	for _, i := range r.Interests {
		if (i == "other" || i == "others") && r.OtherInterest != "" {
			items = append(items, r.OtherInterest)
			continue
		}
		if label, ok := InterestLabels[i]; ok {
			items = append(items, label)
		} else {
			items = append(items, i)
		}
	}
	return strings.Join(items, ", ")
}
