package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"summitreg/internal/db"
	"summitreg/internal/middleware"
	"summitreg/internal/models"
)

type countRow struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// DashboardStats aggregates the numbers the admin landing page shows.
func DashboardStats(w http.ResponseWriter, r *http.Request) {
	var total, printed, exhibitors int64
	if err := db.DB.Model(&models.Registrant{}).Count(&total).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	db.DB.Model(&models.Registrant{}).Where("is_printed = ?", true).Count(&printed)
	db.DB.Model(&models.Exhibitor{}).Count(&exhibitors)

	var byCategory []countRow
	db.DB.Model(&models.Registrant{}).
		Select("categories.name as label, count(registrants.id) as count").
		Joins("left join categories on categories.id = registrants.category_id").
		Group("categories.name").
		Scan(&byCategory)

	var byOrgType []countRow
	db.DB.Model(&models.Registrant{}).
		Select("organization_type as label, count(id) as count").
		Group("organization_type").
		Scan(&byOrgType)

	var recent []models.Registrant
	db.DB.Order("created_at desc").Limit(10).Find(&recent)

	writeJSONResp(w, http.StatusOK, map[string]any{
		"total_registrants":  total,
		"badges_printed":     printed,
		"total_exhibitors":   exhibitors,
		"by_category":        byCategory,
		"by_organization":    byOrgType,
		"recent_registrants": recent,
	})
}

// ListRegistrants serves the paginated admin table, with optional free-text
// search over name and email.
func ListRegistrants(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r, 50)

	q := db.DB.Model(&models.Registrant{})
	if search := r.URL.Query().Get("q"); search != "" {
		like := "%" + search + "%"
		q = q.Where("first_name ILIKE ? OR second_name ILIKE ? OR email ILIKE ?", like, like, like)
	}
	if cat := r.URL.Query().Get("category_id"); cat != "" {
		q = q.Where("category_id = ?", cat)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	var regs []models.Registrant
	if err := q.Order("id asc").Offset((page - 1) * limit).Limit(limit).Find(&regs).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSONResp(w, http.StatusOK, map[string]any{
		"page":        page,
		"limit":       limit,
		"total":       total,
		"registrants": regs,
	})
}

// GetRegistrant serves one registrant with their email history.
func GetRegistrant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(pathParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid registrant id")
		return
	}

	var reg models.Registrant
	if err := db.DB.Preload("EmailLogs").First(&reg, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "registrant not found")
		} else {
			writeError(w, http.StatusInternalServerError, "database error")
		}
		return
	}

	var logs []models.EmailLog
	db.DB.Where("registrant_id = ?", reg.ID).Order("sent_at desc").Find(&logs)

	writeJSONResp(w, http.StatusOK, map[string]any{
		"registrant": reg,
		"email_logs": logs,
	})
}

// DeleteRegistrant removes a registrant and their email history.
func DeleteRegistrant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(pathParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid registrant id")
		return
	}

	var reg models.Registrant
	if err := db.DB.First(&reg, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "registrant not found")
		} else {
			writeError(w, http.StatusInternalServerError, "database error")
		}
		return
	}

	if err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("registrant_id = ?", reg.ID).Delete(&models.EmailLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&reg).Error
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete registrant")
		return
	}

	Log.Info("registrant deleted", "registrant_id", reg.ID,
		"by", middleware.AdminEmail(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// pageParams reads ?page and ?limit with sane bounds.
func pageParams(r *http.Request, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 200 {
		limit = 200
	}
	return page, limit
}
