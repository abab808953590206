package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"summitreg/internal/db"
	"summitreg/internal/models"
)

// SendBulkMail emails every opted-in registrant, optionally restricted to one
// category. Delivery runs inline so the admin sees the final counts.
func SendBulkMail(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	subject, _ := body["subject"].(string)
	content, _ := body["body"].(string)
	subject = strings.TrimSpace(subject)
	if subject == "" || strings.TrimSpace(content) == "" {
		writeError(w, http.StatusBadRequest, "subject and body are required")
		return
	}

	q := db.DB.Model(&models.Registrant{}).Where("updates_opt_in = ?", true)
	if cid, ok := body["category_id"].(float64); ok && cid > 0 {
		q = q.Where("category_id = ?", uint(cid))
	}

	var regs []models.Registrant
	if err := q.Find(&regs).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	sent, failed := Mail.SendBulk(subject, content, regs)
	writeJSONResp(w, http.StatusOK, map[string]any{
		"recipients": len(regs),
		"sent":       sent,
		"failed":     failed,
	})
}

// ResendMail retries one logged delivery by its log id.
func ResendMail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(pathParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid email log id")
		return
	}

	var entry models.EmailLog
	if err := db.DB.First(&entry, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "email log not found")
		} else {
			writeError(w, http.StatusInternalServerError, "database error")
		}
		return
	}

	ok := Mail.Resend(&entry)
	writeJSONResp(w, http.StatusOK, map[string]any{
		"delivered": ok,
		"attempts":  entry.Attempts,
		"status":    entry.Status,
	})
}

// ResendFailedMail retries every delivery the log recorded as failed.
func ResendFailedMail(w http.ResponseWriter, r *http.Request) {
	retried, stillFailing, err := Mail.ResendFailed()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{
		"resent":        retried,
		"still_failing": stillFailing,
	})
}

// ListEmailLogs serves the delivery audit trail, newest first.
func ListEmailLogs(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r, 100)

	q := db.DB.Model(&models.EmailLog{})
	if status := r.URL.Query().Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	var logs []models.EmailLog
	if err := q.Order("sent_at desc").Offset((page - 1) * limit).Limit(limit).Find(&logs).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSONResp(w, http.StatusOK, map[string]any{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
