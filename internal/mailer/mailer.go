// Package mailer sends registrant-facing email over SMTP and records every
// attempt in the email log so the dashboard can audit and retry deliveries.
package mailer

import (
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"summitreg/internal/models"
)

// Sender is satisfied by *gomail.Dialer; tests substitute a fake.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	Sender      Sender
	DB          *gorm.DB
	From        string
	FrontendURL string
	Log         *slog.Logger
}

func New(host string, port int, user, password, from, frontendURL string, db *gorm.DB, log *slog.Logger) *Mailer {
	if log == nil {
		log = slog.Default()
	}
	return &Mailer{
		Sender:      gomail.NewDialer(host, port, user, password),
		DB:          db,
		From:        from,
		FrontendURL: frontendURL,
		Log:         log,
	}
}

// SendConfirmation mails the post-registration confirmation, with the event
// calendar invite attached and a personal unsubscribe link in the footer.
func (m *Mailer) SendConfirmation(reg *models.Registrant) error {
	subject := "Your registration is confirmed"
	body := confirmationBody(reg, m.unsubscribeURL(reg))

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", reg.Email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	msg.Attach("summit.ics", gomail.SetCopyFunc(writeInvite))

	err := m.Sender.DialAndSend(msg)
	m.logAttempt(reg.ID, reg.Email, subject, err)
	if err != nil {
		return fmt.Errorf("send confirmation to %s: %w", reg.Email, err)
	}
	return nil
}

// SendBulk delivers one message per registrant, skipping anyone who has
// opted out of updates. Individual failures are logged and counted, never
// fatal.
func (m *Mailer) SendBulk(subject, htmlBody string, regs []models.Registrant) (sent, failed int) {
	for i := range regs {
		reg := &regs[i]
		if !reg.UpdatesOptIn {
			continue
		}

		msg := gomail.NewMessage()
		msg.SetHeader("From", m.From)
		msg.SetHeader("To", reg.Email)
		msg.SetHeader("Subject", subject)
		msg.SetBody("text/html", htmlBody+unsubscribeFooter(m.unsubscribeURL(reg)))

		err := m.Sender.DialAndSend(msg)
		m.logAttempt(reg.ID, reg.Email, subject, err)
		if err != nil {
			m.Log.Error("bulk email failed", "recipient", reg.Email, "error", err)
			failed++
			continue
		}
		sent++
	}
	return sent, failed
}

// ResendFailed retries every logged delivery that previously failed,
// bumping its attempt counter either way.
func (m *Mailer) ResendFailed() (retried, stillFailing int, err error) {
	var logs []models.EmailLog
	if err := m.DB.Where("status = ?", models.EmailStatusFailed).Find(&logs).Error; err != nil {
		return 0, 0, err
	}

	for i := range logs {
		if m.Resend(&logs[i]) {
			retried++
		} else {
			stillFailing++
		}
	}
	return retried, stillFailing, nil
}

// Resend retries one logged delivery and updates its log row. Returns true
// when the retry went through.
func (m *Mailer) Resend(entry *models.EmailLog) bool {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", entry.Recipient)
	msg.SetHeader("Subject", entry.Subject)
	msg.SetBody("text/html", retryBody(entry.Subject))

	sendErr := m.Sender.DialAndSend(msg)
	entry.Attempts++
	if sendErr != nil {
		entry.Status = models.EmailStatusFailed
		entry.ErrorMessage = sendErr.Error()
	} else {
		entry.Status = models.EmailStatusSuccess
		entry.ErrorMessage = ""
		entry.SentAt = time.Now()
	}
	if m.DB != nil {
		if dbErr := m.DB.Save(entry).Error; dbErr != nil {
			m.Log.Error("update email log", "log_id", entry.ID, "error", dbErr)
		}
	}
	return sendErr == nil
}

func (m *Mailer) unsubscribeURL(reg *models.Registrant) string {
	return fmt.Sprintf("%s/unsubscribe/%s", m.FrontendURL, reg.UnsubscribeToken)
}

func (m *Mailer) logAttempt(registrantID uint, recipient, subject string, sendErr error) {
	if m.DB == nil {
		return
	}
	entry := newLogEntry(registrantID, recipient, subject, sendErr)
	if err := m.DB.Create(&entry).Error; err != nil {
		m.Log.Error("write email log", "recipient", recipient, "error", err)
	}
}

// newLogEntry records one delivery attempt. SentAt stays zero when the send
// failed: the log must never show a send time for mail that never went out.
func newLogEntry(registrantID uint, recipient, subject string, sendErr error) models.EmailLog {
	entry := models.EmailLog{
		RegistrantID: registrantID,
		Recipient:    recipient,
		Subject:      subject,
		Attempts:     1,
	}
	if sendErr != nil {
		entry.Status = models.EmailStatusFailed
		entry.ErrorMessage = sendErr.Error()
		return entry
	}
	entry.Status = models.EmailStatusSuccess
	entry.SentAt = time.Now()
	return entry
}

func confirmationBody(reg *models.Registrant, unsubURL string) string {
	return fmt.Sprintf(`<p>Dear %s %s,</p>
<p>Thank you for registering. Your details have been received and your badge
will be ready for collection at the registration desk.</p>
<p>We look forward to welcoming you.</p>%s`,
		reg.Title, reg.FullName(), unsubscribeFooter(unsubURL))
}

func retryBody(subject string) string {
	return fmt.Sprintf("<p>Re-sending an earlier message: %s</p>", subject)
}

func unsubscribeFooter(unsubURL string) string {
	return fmt.Sprintf(`<hr><p style="font-size:12px;color:#888">If you no longer wish to receive
these emails, <a href="%s">unsubscribe here</a>.</p>`, unsubURL)
}
