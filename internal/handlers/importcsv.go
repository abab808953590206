package handlers

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"net/mail"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/google/uuid"

	"summitreg/internal/db"
	"summitreg/internal/models"
)

var importHeaders = []string{
	"title", "first_name", "second_name", "email", "phone",
	"organization_type", "job_title", "category", "national_id_number",
}

// nameSimilarityThreshold marks two full names as the same person; tuned to
// catch typo-level differences without merging genuinely distinct people.
const nameSimilarityThreshold = 0.92

// ImportRegistrants bulk-loads registrants from a CSV upload inside one
// transaction. Rows matching an existing email are skipped; rows whose full
// name is near-identical to an existing registrant are skipped as likely
// duplicates and reported.
func ImportRegistrants(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, `a CSV upload in field "file" is required`)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		writeError(w, http.StatusBadRequest, "unable to read CSV header")
		return
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
	}
	if !equalStringSlices(headers, importHeaders) {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{
			"error":    "Invalid CSV format. Please use the provided template.",
			"expected": importHeaders,
			"got":      headers,
		})
		return
	}

	// Existing emails and names for duplicate detection, loaded once.
	var existing []models.Registrant
	if err := db.DB.Select("id", "title", "first_name", "second_name", "email").
		Find(&existing).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	seenEmails := make(map[string]bool, len(existing))
	people := make([]knownPerson, 0, len(existing))
	for _, e := range existing {
		email := strings.ToLower(e.Email)
		seenEmails[email] = true
		people = append(people, knownPerson{
			name:   strings.ToLower(e.FullName()),
			domain: emailDomain(email),
		})
	}

	categories := categoryIDsByName()
	metric := metrics.NewJaroWinkler()

	tx := db.DB.Begin()
	if tx.Error != nil {
		writeError(w, http.StatusInternalServerError, "could not start transaction")
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			panic(rec)
		}
	}()

	var imported, duplicates, nearDuplicates int
	var skipped []map[string]any
	line := 1

	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil || len(rec) != len(importHeaders) {
			tx.Rollback()
			writeJSONResp(w, http.StatusBadRequest, map[string]any{
				"error": "malformed CSV row",
				"line":  line,
			})
			return
		}

		reg := models.Registrant{
			Title:            strings.TrimSpace(rec[0]),
			FirstName:        strings.TrimSpace(rec[1]),
			SecondName:       strings.TrimSpace(rec[2]),
			Email:            strings.ToLower(strings.TrimSpace(rec[3])),
			Phone:            strings.TrimSpace(rec[4]),
			OrganizationType: strings.TrimSpace(rec[5]),
			JobTitle:         strings.TrimSpace(rec[6]),
			CategoryID:       categories[strings.ToLower(strings.TrimSpace(rec[7]))],
			NationalIDNumber: strings.TrimSpace(rec[8]),
			PrivacyAgreed:    true,
			UnsubscribeToken: uuid.New(),
		}

		if reg.FirstName == "" || reg.SecondName == "" {
			tx.Rollback()
			writeJSONResp(w, http.StatusBadRequest, map[string]any{
				"error": "first_name and second_name are required",
				"line":  line,
			})
			return
		}
		if _, err := mail.ParseAddress(reg.Email); err != nil {
			tx.Rollback()
			writeJSONResp(w, http.StatusBadRequest, map[string]any{
				"error": "invalid email address",
				"line":  line,
			})
			return
		}

		if seenEmails[reg.Email] {
			duplicates++
			continue
		}
		// Near-identical names only count as duplicates when the email
		// domain matches too; same-sounding people from unrelated
		// organizations must both get in.
		match, score := closestName(strings.ToLower(reg.FullName()), emailDomain(reg.Email), people, metric)
		if score >= nameSimilarityThreshold {
			nearDuplicates++
			skipped = append(skipped, map[string]any{
				"line":       line,
				"name":       reg.FullName(),
				"matched":    match,
				"similarity": score,
			})
			continue
		}

		if err := tx.Create(&reg).Error; err != nil {
			tx.Rollback()
			writeError(w, http.StatusInternalServerError, "failed to insert row")
			return
		}
		seenEmails[reg.Email] = true
		people = append(people, knownPerson{
			name:   strings.ToLower(reg.FullName()),
			domain: emailDomain(reg.Email),
		})
		imported++
	}

	if err := tx.Commit().Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to commit import")
		return
	}

	writeJSONResp(w, http.StatusOK, map[string]any{
		"imported":        imported,
		"duplicates":      duplicates,
		"near_duplicates": nearDuplicates,
		"skipped":         skipped,
	})
}

func categoryIDsByName() map[string]uint {
	var cats []models.Category
	db.DB.Find(&cats)
	out := make(map[string]uint, len(cats))
	for _, c := range cats {
		out[strings.ToLower(c.Name)] = c.ID
	}
	return out
}

type knownPerson struct {
	name   string
	domain string
}

// closestName returns the best Jaro-Winkler match among known people who
// share the email domain.
func closestName(name, domain string, people []knownPerson, metric *metrics.JaroWinkler) (string, float64) {
	var best string
	var bestScore float64
	for _, p := range people {
		if p.domain != domain {
			continue
		}
		if score := strutil.Similarity(name, p.name, metric); score > bestScore {
			best, bestScore = p.name, score
		}
	}
	return best, bestScore
}

func emailDomain(email string) string {
	if at := strings.LastIndex(email, "@"); at >= 0 {
		return email[at+1:]
	}
	return ""
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
