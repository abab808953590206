package handlers

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"summitreg/internal/badge"
	"summitreg/internal/db"
	"summitreg/internal/models"
)

// DownloadBadge renders one registrant's badge on demand. An optional
// ?profile= query switches the page format (a7, a8, card).
func DownloadBadge(w http.ResponseWriter, r *http.Request) {
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

	var cat models.Category
	db.DB.First(&cat, reg.CategoryID)

	person := badge.PersonRecord{
		ID:           reg.ID,
		FullName:     reg.FullName(),
		Organization: reg.DisplayOrgType(),
		JobTitle:     reg.JobTitle,
		Category:     cat.Name,
		NationalID:   reg.NationalIDNumber,
		AccentHex:    cat.Color,
		Photo:        loadPhoto(reg.PassportPhoto),
	}
	serveBadge(w, r, person)
}

// DownloadExhibitorBadge renders an exhibitor badge; exhibitors always get
// the Exhibitor category label with their organization below it.
func DownloadExhibitorBadge(w http.ResponseWriter, r *http.Request) {
	exID, err := uuid.Parse(pathParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid exhibitor id")
		return
	}

	var ex models.Exhibitor
	if err := db.DB.First(&ex, "id = ?", exID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "exhibitor not found")
		} else {
			writeError(w, http.StatusInternalServerError, "database error")
		}
		return
	}

	var cat models.Category
	db.DB.First(&cat, ex.CategoryID)
	if cat.Name == "" {
		cat.Name = "Exhibitor"
	}

	person := badge.PersonRecord{
		ID:           uint(ex.ID.ID()), // stable 32-bit fold of the UUID for filenames
		FullName:     ex.FullName(),
		Organization: ex.OrganizationName,
		JobTitle:     ex.JobTitle,
		Category:     cat.Name,
		NationalID:   ex.NationalIDNumber,
		AccentHex:    cat.Color,
		Photo:        loadPhoto(ex.PassportPhoto),
	}
	serveBadge(w, r, person)
}

func serveBadge(w http.ResponseWriter, r *http.Request, person badge.PersonRecord) {
	renderer := Renderer
	if name := r.URL.Query().Get("profile"); name != "" {
		profile, ok := badge.ProfileByName(name)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown badge profile")
			return
		}
		renderer = badge.New(Renderer.Assets, profile, Log)
	}

	data, err := renderer.Render(person)
	if err != nil {
		Log.Error("render badge", "id", person.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render badge")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+badge.Filename(person.ID, person.FullName)+`"`)
	_, _ = w.Write(data)
}

func loadPhoto(path string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}
