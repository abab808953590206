package models

import "time"

const (
	EmailStatusSuccess = "success"
	EmailStatusFailed  = "failed"
	EmailStatusPending = "pending"
)

// EmailLog records every delivery attempt to a registrant so the dashboard
// can show status and operators can retry failures.
type EmailLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RegistrantID uint      `gorm:"index;not null" json:"registrant_id"`
	Recipient    string    `gorm:"size:254;not null" json:"recipient"`
	Subject      string    `gorm:"size:255" json:"subject"`
	Status       string    `gorm:"size:20;default:pending" json:"status"`
	Attempts     int       `json:"attempts"`
	ErrorMessage string    `json:"error_message"`
	SentAt       time.Time `json:"sent_at"`
}

// Partner is a sponsor or partner whose logo may appear on the site and in
// the badge sponsor grid.
type Partner struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	Logo      string    `gorm:"size:255" json:"logo"`
	Website   string    `gorm:"size:255" json:"website"`
	Order     int       `gorm:"column:display_order" json:"order"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
