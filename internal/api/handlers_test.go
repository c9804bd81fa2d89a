// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/chartel/chartel/internal/auth"
	"github.com/chartel/chartel/internal/catalog"
	"github.com/chartel/chartel/internal/config"
	"github.com/chartel/chartel/internal/models"
	"github.com/chartel/chartel/internal/service"
	"github.com/chartel/chartel/internal/store"
	"github.com/chartel/chartel/internal/store/storetest"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Store.URL = "http://store.local"
	cfg.Security.AuthMode = "none"
	cfg.Security.RateLimitDisabled = true
	return cfg
}

func newTestRouter(t *testing.T, fake store.Client, authenticator auth.Authenticator) http.Handler {
	t.Helper()
	cfg := testConfig()
	h := NewHandler(
		cfg,
		service.NewChannelService(fake),
		service.NewAdvertiserService(fake),
		service.NewMiniAppService(fake),
		service.NewRankingService(fake),
		service.NewHomeService(fake),
		auth.NewStoreAccessChecker(fake),
	)
	if authenticator == nil {
		authenticator = auth.NoneAuthenticator{}
	}
	return NewRouter(h, authenticator, cfg)
}

func seededFake() *storetest.Fake {
	fake := storetest.NewFake()
	fake.Rows("vw_catalog_channels", []models.ChannelRow{
		{ID: "ch_a", Name: "Crypto Daily", Username: "cryptodaily",
			Subscribers: catalog.Float(2100000)},
		{ID: "ch_b", Name: "Morning Brew", Username: "brewnews",
			Subscribers: catalog.Float(1800000)},
	}, 2)
	return fake
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.APIError {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error payload %q: %v", rec.Body.String(), err)
	}
	return resp.Error
}

func TestListChannelsEnvelope(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, seededFake(), nil)
	rec := get(t, router, "/v1.0/channels?limit=1&sort_by=subscribers&sort_order=desc")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var env models.ListEnvelope[models.ChannelListItem]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if len(env.Data) != 1 || env.Data[0].ID != "ch_a" || env.Data[0].Rank != 1 {
		t.Errorf("data = %+v", env.Data)
	}
	if !env.Page.HasMore || env.Page.NextCursor == nil {
		t.Errorf("page = %+v", env.Page)
	}
	if env.Meta.TotalEstimate != 2 {
		t.Errorf("total_estimate = %d", env.Meta.TotalEstimate)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestListChannelsSortOrderAscending(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, seededFake(), nil)
	rec := get(t, router, "/v1.0/channels?sort_by=subscribers&sort_order=asc")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var env models.ListEnvelope[models.ChannelListItem]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if len(env.Data) != 2 || env.Data[0].ID != "ch_b" || env.Data[1].ID != "ch_a" {
		t.Errorf("ascending order = %+v, want ch_b before ch_a", env.Data)
	}
}

func TestListChannelsClientErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		wantCode models.ErrorCode
	}{
		{"invalid cursor", "/v1.0/channels?cursor=%21%21garbage", models.CodeInvalidCursor},
		{"unknown sort field", "/v1.0/channels?sort_by=bogus", models.CodeUnknownSort},
		{"contradictory er range", "/v1.0/channels?er_min=5&er_max=1", models.CodeValidationError},
		{"limit zero", "/v1.0/channels?limit=0", models.CodeValidationError},
		{"limit above protocol cap", "/v1.0/channels?limit=9999", models.CodeValidationError},
		{"bad sort order", "/v1.0/channels?sort_order=sideways", models.CodeValidationError},
		{"bad size bucket", "/v1.0/channels?size_bucket=gigantic", models.CodeValidationError},
		{"non-numeric er_min", "/v1.0/channels?er_min=abc", models.CodeValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := seededFake()
			router := newTestRouter(t, fake, nil)
			rec := get(t, router, tt.path)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if apiErr := decodeError(t, rec); apiErr.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", apiErr.Code, tt.wantCode)
			}
			if fake.CallCount("") != 0 {
				t.Errorf("bad request reached the store %d times", fake.CallCount(""))
			}
		})
	}
}

func TestChannelOverviewNotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, storetest.NewFake(), nil)
	rec := get(t, router, "/v1.0/channels/ch_missing/overview")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != models.CodeNotFound {
		t.Errorf("code = %s", apiErr.Code)
	}
}

func TestJWTModeRejectsAnonymous(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
	router := newTestRouter(t, seededFake(), auth.NewJWTAuthenticator(manager))

	rec := get(t, router, "/v1.0/channels")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != models.CodeAuthentication {
		t.Errorf("code = %s", apiErr.Code)
	}

	token, err := manager.GenerateToken("user_1", "")
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/v1.0/channels", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	okRec := httptest.NewRecorder()
	router.ServeHTTP(okRec, req)
	if okRec.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, body = %s", okRec.Code, okRec.Body.String())
	}
}

func TestMembership(t *testing.T) {
	t.Parallel()

	t.Run("member gets role", func(t *testing.T) {
		t.Parallel()

		fake := storetest.NewFake()
		fake.Rows("team_members", []models.TeamMember{
			{AccountID: "acct_1", UserID: "dev", Role: "viewer", Status: "accepted"},
		}, 1)

		router := newTestRouter(t, fake, nil)
		rec := get(t, router, "/v1.0/accounts/acct_1/membership")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var m models.Membership
		if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
			t.Fatal(err)
		}
		if m.Role != "viewer" || m.AccountID != "acct_1" {
			t.Errorf("membership = %+v", m)
		}
	})

	t.Run("non-member forbidden", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, storetest.NewFake(), nil)
		rec := get(t, router, "/v1.0/accounts/acct_1/membership")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d", rec.Code)
		}
		if apiErr := decodeError(t, rec); apiErr.Code != models.CodeAuthorization {
			t.Errorf("code = %s", apiErr.Code)
		}
	})
}

func TestMiniAppSummaryBadPeriod(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, storetest.NewFake(), nil)
	rec := get(t, router, "/v1.0/mini-apps/summary?period=90d")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAdvertiserPeriodValidation(t *testing.T) {
	t.Parallel()

	fake := seededFake()
	router := newTestRouter(t, fake, nil)
	rec := get(t, router, "/v1.0/advertisers?period_days=13")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if fake.CallCount("") != 0 {
		t.Errorf("invalid period reached the store %d times", fake.CallCount(""))
	}
}

func TestHealthAndMetricsOutsideAuth(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
	router := newTestRouter(t, storetest.NewFake(), auth.NewJWTAuthenticator(manager))

	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		if rec := get(t, router, path); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200 without credentials", path, rec.Code)
		}
	}
}

func TestStoreFailureIsServiceUnavailable(t *testing.T) {
	t.Parallel()

	fake := storetest.NewFake()
	fake.On("vw_catalog_channels", func(storetest.Call) (interface{}, int, error) {
		return nil, 0, store.ErrStoreUnavailable
	})

	router := newTestRouter(t, fake, nil)
	rec := get(t, router, "/v1.0/channels")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != models.CodeStoreError {
		t.Errorf("code = %s", apiErr.Code)
	}
}
