package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/adrg/strutil/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summitreg/internal/config"
	"summitreg/internal/middleware"
	"summitreg/internal/models"
)

func TestValidateRegistrant(t *testing.T) {
	valid := func() *models.Registrant {
		return &models.Registrant{
			Title:            "Dr",
			FirstName:        "Amina",
			SecondName:       "Uwase",
			Email:            "amina@example.com",
			OrganizationType: "Private Company",
			PrivacyAgreed:    true,
		}
	}

	t.Run("accepts a complete registrant", func(t *testing.T) {
		assert.NoError(t, validateRegistrant(valid()))
	})

	cases := []struct {
		name   string
		mutate func(*models.Registrant)
		want   string
	}{
		{"missing first name", func(r *models.Registrant) { r.FirstName = "" }, "first_name"},
		{"missing second name", func(r *models.Registrant) { r.SecondName = "" }, "second_name"},
		{"bad email", func(r *models.Registrant) { r.Email = "not-an-email" }, "email"},
		{"privacy not accepted", func(r *models.Registrant) { r.PrivacyAgreed = false }, "privacy"},
		{"unknown title", func(r *models.Registrant) { r.Title = "Capt" }, "title"},
		{"unknown org type", func(r *models.Registrant) { r.OrganizationType = "Circus" }, "organization type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := valid()
			tc.mutate(reg)
			err := validateRegistrant(reg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestExhibitorFromForm(t *testing.T) {
	post := func(values url.Values) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/exhibitors",
			strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}
	base := func() url.Values {
		return url.Values{
			"first_name":        {"Joan"},
			"email":             {"Joan@Example.com"},
			"organization_name": {"Acme Ltd"},
			"privacy_agreed":    {"true"},
		}
	}

	t.Run("defaults business type to local and lowers email", func(t *testing.T) {
		ex, err := exhibitorFromForm(post(base()))
		require.NoError(t, err)
		assert.Equal(t, "local", ex.BusinessType)
		assert.Equal(t, "joan@example.com", ex.Email)
	})

	t.Run("international requires a country code", func(t *testing.T) {
		v := base()
		v.Set("business_type", "international")
		_, err := exhibitorFromForm(post(v))
		require.Error(t, err)

		v.Set("country_of_registration", "ke")
		ex, err := exhibitorFromForm(post(v))
		require.NoError(t, err)
		assert.Equal(t, "KE", ex.CountryOfRegistration)
	})

	t.Run("rejects unknown business type", func(t *testing.T) {
		v := base()
		v.Set("business_type", "galactic")
		_, err := exhibitorFromForm(post(v))
		assert.Error(t, err)
	})
}

func TestValidateCategory(t *testing.T) {
	assert.NoError(t, validateCategory(&models.Category{Name: "Delegate", Color: "#3aa655"}))
	assert.Error(t, validateCategory(&models.Category{Name: "", Color: "#3aa655"}))
	assert.Error(t, validateCategory(&models.Category{Name: "Delegate", Color: "green"}))
	assert.Error(t, validateCategory(&models.Category{Name: "Delegate", Color: "#3aa6"}))
}

func TestPageParams(t *testing.T) {
	get := func(q string) *http.Request {
		return httptest.NewRequest(http.MethodGet, "/registrants?"+q, nil)
	}

	page, limit := pageParams(get(""), 50)
	assert.Equal(t, 1, page)
	assert.Equal(t, 50, limit)

	page, limit = pageParams(get("page=3&limit=25"), 50)
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, limit)

	page, limit = pageParams(get("page=-1&limit=9999"), 50)
	assert.Equal(t, 1, page)
	assert.Equal(t, 200, limit)
}

func TestClosestName(t *testing.T) {
	metric := metrics.NewJaroWinkler()
	people := []knownPerson{
		{name: "dr amina uwase", domain: "gov.rw"},
		{name: "mr john kamau", domain: "acme.co.ke"},
		{name: "ms grace wanjiru", domain: "moi.ac.ke"},
	}

	match, score := closestName("dr amina uwase", "gov.rw", people, metric)
	assert.Equal(t, "dr amina uwase", match)
	assert.Equal(t, 1.0, score)

	_, score = closestName("dr amina uwasse", "gov.rw", people, metric)
	assert.GreaterOrEqual(t, score, nameSimilarityThreshold)

	_, score = closestName("completely different person", "gov.rw", people, metric)
	assert.Less(t, score, nameSimilarityThreshold)
}

func TestClosestNameIgnoresOtherDomains(t *testing.T) {
	// A namesake with an unrelated email address is a different person, not
	// an import duplicate.
	metric := metrics.NewJaroWinkler()
	people := []knownPerson{{name: "mr john kamau", domain: "acme.co.ke"}}

	match, score := closestName("mr john kamau", "othercorp.com", people, metric)
	assert.Empty(t, match)
	assert.Less(t, score, nameSimilarityThreshold)

	_, score = closestName("mr john kamau", "acme.co.ke", people, metric)
	assert.GreaterOrEqual(t, score, nameSimilarityThreshold)
}

func TestEmailDomain(t *testing.T) {
	assert.Equal(t, "acme.co.ke", emailDomain("john@acme.co.ke"))
	assert.Equal(t, "b.com", emailDomain("weird@a@b.com"))
	assert.Empty(t, emailDomain("no-at-sign"))
}

func TestClipCell(t *testing.T) {
	assert.Equal(t, "short", clipCell("short", 40))
	assert.Equal(t, strings.Repeat("a", 40), clipCell(strings.Repeat("a", 50), 40))
	// Rune-aware: never cuts inside a multi-byte character.
	assert.Equal(t, "Müll", clipCell("Müller", 4))
	assert.True(t, utf8.ValidString(clipCell("ÄÖÜäöüß name", 7)))
}

func TestEqualStringSlices(t *testing.T) {
	assert.True(t, equalStringSlices([]string{"a", "b"}, []string{"a", "b"}))
	assert.False(t, equalStringSlices([]string{"a"}, []string{"a", "b"}))
	assert.False(t, equalStringSlices([]string{"a", "b"}, []string{"a", "c"}))
}

func TestLogin(t *testing.T) {
	Cfg = config.Config{
		AdminEmail:    "admin@summit.example",
		AdminPassword: "correct-horse",
		TokenTTL:      time.Hour,
	}
	Tokens = middleware.NewTokens("test-secret", time.Hour)
	Log = slog.New(slog.NewTextHandler(io.Discard, nil))

	do := func(body map[string]any) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(payload))
		rec := httptest.NewRecorder()
		Login(rec, req)
		return rec
	}

	t.Run("valid credentials return a working token", func(t *testing.T) {
		rec := do(map[string]any{"email": "Admin@summit.example", "password": "correct-horse"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		token, _ := resp["token"].(string)
		require.NotEmpty(t, token)

		email, err := Tokens.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "admin@summit.example", email)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		rec := do(map[string]any{"email": "admin@summit.example", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unconfigured password fails closed", func(t *testing.T) {
		defer func() { Cfg.AdminPassword = "correct-horse" }()
		Cfg.AdminPassword = ""
		rec := do(map[string]any{"email": "admin@summit.example", "password": ""})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
