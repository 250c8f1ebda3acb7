//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/app"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/config"
)

const (
	adminEmail    = "admin@descubreboyaca.co"
	adminPassword = "Admin123!"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		ServerPort:              "0",
		ServerReadHeaderTimeout: 10 * time.Second,
		ServerWriteTimeout:      30 * time.Second,
		ServerIdleTimeout:       120 * time.Second,
		RequestTimeout:          30 * time.Second,
		DatabaseDriver:          config.DriverSQLite,
		SQLitePath:              filepath.Join(t.TempDir(), "integration.db"),
		DBMaxConns:              4,
		JWTSecret:               "test-secret",
		JWTAccessTTL:            15 * time.Minute,
		JWTRefreshTTL:           24 * time.Hour,
		CORSOrigins:             []string{"*"},
		RateLimitRPM:            1000,
		AuthRateLimitRPM:        1000,
		AdminEmail:              adminEmail,
		AdminPassword:           adminPassword,
		LogLevel:                "warn",
		LogFormat:               "pretty",
	}
}

func newServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	application, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(application.Close)

	server := httptest.NewServer(application.Handler())
	t.Cleanup(server.Close)
	return server
}

// newAuthedServer starts the app and logs in as the bootstrap admin.
func newAuthedServer(t *testing.T) (*httptest.Server, string, string) {
	t.Helper()

	server := newServer(t, testConfig(t))
	access, refresh := login(t, server, adminEmail, adminPassword)
	return server, access, refresh
}

func login(t *testing.T, server *httptest.Server, email, password string) (string, string) {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", map[string]string{
		"email": email, "password": password,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	decodeData(t, resp, &tokens)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	return tokens.AccessToken, tokens.RefreshToken
}

func doJSON(t *testing.T, method string, url string, body any, accessToken string) *http.Response {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) apiResponse {
	t.Helper()

	var parsed apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed
}

func decodeData(t *testing.T, resp *http.Response, dst any) {
	t.Helper()

	parsed := decodeResponse(t, resp)
	require.True(t, parsed.Success)
	require.NoError(t, json.Unmarshal(parsed.Data, dst))
}
