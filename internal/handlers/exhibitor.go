package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"summitreg/internal/db"
	"summitreg/internal/models"
)

// RegisterExhibitor handles the public exhibitor registration form.
func RegisterExhibitor(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoBytes + (1 << 20)); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, "failed to parse form or photo too large")
		return
	}

	ex, err := exhibitorFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var existing models.Exhibitor
	err = db.DB.Where("email = ?", ex.Email).First(&existing).Error
	if err == nil {
		writeJSONResp(w, http.StatusConflict, map[string]any{
			"error":   "already_registered",
			"message": "This email address is already registered as an exhibitor.",
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
		ex.PassportPhoto = path
	}

	ex.ID = uuid.New()
	if err := db.DB.Create(ex).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save registration")
		return
	}

	writeJSONResp(w, http.StatusCreated, map[string]any{
		"id":      ex.ID,
		"message": "Exhibitor registration received.",
	})
}

func exhibitorFromForm(r *http.Request) (*models.Exhibitor, error) {
	form := func(key string) string { return strings.TrimSpace(r.FormValue(key)) }

	ex := &models.Exhibitor{
		Title:                 form("title"),
		FirstName:             form("first_name"),
		SecondName:            form("second_name"),
		Email:                 strings.ToLower(form("email")),
		Phone:                 form("phone"),
		OrganizationName:      form("organization_name"),
		JobTitle:              form("job_title"),
		ProductDescription:    form("product_description"),
		BoothNumber:           form("booth_number"),
		Section:               form("section"),
		BusinessType:          form("business_type"),
		CountryOfRegistration: strings.ToUpper(form("country_of_registration")),
		NationalIDNumber:      form("national_id_number"),
		PrivacyAgreed:         form("privacy_agreed") == "true",
	}

	if ex.FirstName == "" {
		return nil, errors.New("first_name is required")
	}
	if _, err := mail.ParseAddress(ex.Email); err != nil {
		return nil, errors.New("a valid email address is required")
	}
	if !ex.PrivacyAgreed {
		return nil, errors.New("the privacy policy must be accepted")
	}
	if ex.OrganizationName == "" {
		return nil, errors.New("organization_name is required")
	}
	switch ex.BusinessType {
	case "":
		ex.BusinessType = "local"
	case "local", "international":
	default:
		return nil, errors.New(`business_type must be "local" or "international"`)
	}
	if ex.BusinessType == "international" && len(ex.CountryOfRegistration) != 2 {
		return nil, errors.New("country_of_registration (ISO 3166-1 alpha-2) is required for international exhibitors")
	}
	return ex, nil
}

// ListExhibitors serves the admin table of exhibitors.
func ListExhibitors(w http.ResponseWriter, r *http.Request) {
	var exhibitors []models.Exhibitor
	if err := db.DB.Order("created_at desc").Find(&exhibitors).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{
		"count":      len(exhibitors),
		"exhibitors": exhibitors,
	})
}
