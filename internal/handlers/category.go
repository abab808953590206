package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"summitreg/internal/db"
	"summitreg/internal/models"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ListCategories serves all badge categories.
func ListCategories(w http.ResponseWriter, r *http.Request) {
	var categories []models.Category
	if err := db.DB.Order("id asc").Find(&categories).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{"categories": categories})
}

// CreateCategory adds a badge category. The color becomes the accent
// triangle on printed badges, so it must be a full hex code.
func CreateCategory(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	name, _ := body["name"].(string)
	desc, _ := body["description"].(string)
	color, _ := body["color"].(string)

	cat := models.Category{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(desc),
		Color:       strings.ToLower(strings.TrimSpace(color)),
	}
	if err := validateCategory(&cat); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var existing models.Category
	if err := db.DB.Where("name = ?", cat.Name).First(&existing).Error; err == nil {
		writeError(w, http.StatusConflict, "a category with this name already exists")
		return
	}

	if err := db.DB.Create(&cat).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}
	writeJSONResp(w, http.StatusCreated, cat)
}

// UpdateCategory changes name, description or color of a category.
func UpdateCategory(w http.ResponseWriter, r *http.Request) {
	cat, ok := categoryByPathID(w, r)
	if !ok {
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if v, ok := body["name"].(string); ok {
		cat.Name = strings.TrimSpace(v)
	}
	if v, ok := body["description"].(string); ok {
		cat.Description = strings.TrimSpace(v)
	}
	if v, ok := body["color"].(string); ok {
		cat.Color = strings.ToLower(strings.TrimSpace(v))
	}
	if err := validateCategory(cat); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := db.DB.Save(cat).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update category")
		return
	}
	writeJSONResp(w, http.StatusOK, cat)
}

// DeleteCategory removes a category that no registrant uses.
func DeleteCategory(w http.ResponseWriter, r *http.Request) {
	cat, ok := categoryByPathID(w, r)
	if !ok {
		return
	}

	var inUse int64
	if err := db.DB.Model(&models.Registrant{}).
		Where("category_id = ?", cat.ID).Count(&inUse).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if inUse > 0 {
		writeJSONResp(w, http.StatusConflict, map[string]any{
			"error":       "category_in_use",
			"registrants": inUse,
		})
		return
	}

	if err := db.DB.Delete(cat).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateCategory(cat *models.Category) error {
	if cat.Name == "" {
		return errors.New("name is required")
	}
	if !hexColorRe.MatchString(cat.Color) {
		return errors.New(`color must be a hex code like "#3aa655"`)
	}
	return nil
}

func categoryByPathID(w http.ResponseWriter, r *http.Request) (*models.Category, bool) {
	id, err := strconv.ParseUint(pathParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return nil, false
	}

	var cat models.Category
	if err := db.DB.First(&cat, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
		} else {
			writeError(w, http.StatusInternalServerError, "database error")
		}
		return nil, false
	}
	return &cat, true
}
