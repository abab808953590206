package handlers

import (
	"net/http"

	"summitreg/internal/db"
	"summitreg/internal/models"
)

// ListPartners serves the active partner logos the public site renders,
// in display order.
func ListPartners(w http.ResponseWriter, r *http.Request) {
	var partners []models.Partner
	if err := db.DB.Where("is_active = ?", true).
		Order("display_order asc").Find(&partners).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{"partners": partners})
}

var partnerSortColumns = map[string]string{
	"id":         "id",
	"created_at": "created_at",
	"email":      "email",
	"first_name": "first_name",
}

// PartnerRegistrants is the read-only feed consumed by partner systems
// (check-in kiosks, lead scanners). Auth is a static bearer key.
func PartnerRegistrants(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r, 100)

	sort, ok := partnerSortColumns[r.URL.Query().Get("sort")]
	if !ok {
		sort = "id"
	}
	order := sort + " asc"
	if r.URL.Query().Get("dir") == "desc" {
		order = sort + " desc"
	}

	var total int64
	if err := db.DB.Model(&models.Registrant{}).Count(&total).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	var regs []models.Registrant
	if err := db.DB.Order(order).Offset((page - 1) * limit).Limit(limit).Find(&regs).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	results := make([]map[string]any, 0, len(regs))
	for _, reg := range regs {
		results = append(results, map[string]any{
			"id":           reg.ID,
			"full_name":    reg.FullName(),
			"email":        reg.Email,
			"organization": reg.DisplayOrgType(),
			"job_title":    reg.JobTitle,
			"category_id":  reg.CategoryID,
			"is_printed":   reg.IsPrinted,
			"created_at":   reg.CreatedAt,
		})
	}

	writeJSONResp(w, http.StatusOK, map[string]any{
		"page":    page,
		"limit":   limit,
		"total":   total,
		"results": results,
	})
}
