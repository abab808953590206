package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/mail"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"summitreg/internal/db"
	"summitreg/internal/models"
)

const maxPhotoBytes = 5 << 20

// Register handles the public delegate registration form. The frontend posts
// multipart/form-data so the passport photo rides along with the fields.
func Register(w http.ResponseWriter, r *http.Request) {
	// Plain form posts (no photo) are accepted too.
	if err := r.ParseMultipartForm(maxPhotoBytes + (1 << 20)); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, "failed to parse form or photo too large")
		return
	}

	reg, err := registrantFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var existing models.Registrant
	err = db.DB.Where("email = ?", reg.Email).First(&existing).Error
	if err == nil {
		writeJSONResp(w, http.StatusConflict, map[string]any{
			"error":   "already_registered",
			"message": "This email address is already registered.",
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	if file, header, ferr := r.FormFile("passport_photo"); ferr == nil {
		defer file.Close()
		path, serr := savePhoto(file, header)
		if serr != nil {
			writeError(w, http.StatusBadRequest, serr.Error())
			return
		}
		reg.PassportPhoto = path
	}

	reg.UnsubscribeToken = uuid.New()
	if err := db.DB.Create(reg).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save registration")
		return
	}

	// Confirmation email must not hold up the response.
	go func(saved models.Registrant) {
		if err := Mail.SendConfirmation(&saved); err != nil {
			Log.Error("confirmation email", "registrant_id", saved.ID, "error", err)
		}
	}(*reg)

	writeJSONResp(w, http.StatusCreated, map[string]any{
		"id":      reg.ID,
		"message": "Registration received. A confirmation email is on its way.",
	})
}

func registrantFromForm(r *http.Request) (*models.Registrant, error) {
	form := func(key string) string { return strings.TrimSpace(r.FormValue(key)) }

	reg := &models.Registrant{
		Title:                 form("title"),
		FirstName:             form("first_name"),
		SecondName:            form("second_name"),
		Email:                 strings.ToLower(form("email")),
		Phone:                 form("phone"),
		OrganizationType:      form("organization_type"),
		OtherOrganizationType: form("other_organization_type"),
		JobTitle:              form("job_title"),
		OtherInterest:         form("other_interest"),
		AccessibilityNeeds:    form("accessibility_needs"),
		NationalIDNumber:      form("national_id_number"),
		PrivacyAgreed:         form("privacy_agreed") == "true",
		UpdatesOptIn:          form("updates_opt_in") == "true",
	}

	if r.Form != nil {
		for _, v := range r.Form["interests"] {
			for _, item := range strings.Split(v, ",") {
				if item = strings.TrimSpace(item); item != "" {
					reg.Interests = append(reg.Interests, item)
				}
			}
		}
	}
	if v := form("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, errors.New("category_id must be a number")
		}
		reg.CategoryID = uint(id)
	}

	if err := validateRegistrant(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func validateRegistrant(reg *models.Registrant) error {
	if reg.FirstName == "" || reg.SecondName == "" {
		return errors.New("first_name and second_name are required")
	}
	if _, err := mail.ParseAddress(reg.Email); err != nil {
		return errors.New("a valid email address is required")
	}
	if !reg.PrivacyAgreed {
		return errors.New("the privacy policy must be accepted")
	}
	if reg.Title != "" && !slices.Contains(models.Titles, reg.Title) {
		return fmt.Errorf("unknown title %q", reg.Title)
	}
	if reg.OrganizationType != "" && !slices.Contains(models.OrgTypes, reg.OrganizationType) {
		return fmt.Errorf("unknown organization type %q", reg.OrganizationType)
	}
	return nil
}

var photoExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

func savePhoto(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > maxPhotoBytes {
		return "", errors.New("passport photo exceeds the 5MB limit")
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !photoExts[ext] {
		return "", errors.New("passport photo must be a JPEG or PNG")
	}

	if err := os.MkdirAll(Cfg.PhotoDir, 0o755); err != nil {
		return "", errors.New("failed to store photo")
	}
	path := filepath.Join(Cfg.PhotoDir, "photo_"+uuid.New().String()+ext)
	out, err := os.Create(path)
	if err != nil {
		return "", errors.New("failed to store photo")
	}
	defer out.Close()
	if _, err := io.Copy(out, io.LimitReader(file, maxPhotoBytes)); err != nil {
		return "", errors.New("failed to store photo")
	}
	return path, nil
}

// FormMeta serves the option lists the public form renders.
func FormMeta(w http.ResponseWriter, r *http.Request) {
	var categories []models.Category
	if err := db.DB.Order("id asc").Find(&categories).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{
		"titles":             models.Titles,
		"organization_types": models.OrgTypes,
		"interests":          models.InterestLabels,
		"categories":         categories,
	})
}

// Unsubscribe flips off email updates for the registrant holding this token.
// Tokens are unguessable UUIDs sent only in that registrant's own email.
func Unsubscribe(w http.ResponseWriter, r *http.Request) {
	token, err := uuid.Parse(strings.TrimSpace(pathParam(r, "token")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid unsubscribe token")
		return
	}

	res := db.DB.Model(&models.Registrant{}).
		Where("unsubscribe_token = ?", token).
		Update("updates_opt_in", false)
	if res.Error != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "unknown unsubscribe token")
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{
		"message": "You have been unsubscribed from event updates.",
	})
}
