package analytics

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneview/server/internal/module/kpi/source"
	"github.com/oneview/server/internal/shared/config"
)

const dailyReport = `{"rows": [
  {"dimensionValues": [{"value": "20240601"}],
   "metricValues": [{"value": "100"}, {"value": "80"}, {"value": "300"}, {"value": "40"}, {"value": "120"}, {"value": "4"}, {"value": "250.5"}]},
  {"dimensionValues": [{"value": "20240602"}],
   "metricValues": [{"value": "300"}, {"value": "200"}, {"value": "900"}, {"value": "60"}, {"value": "200"}, {"value": "8"}, {"value": "749.56"}]},
  {"dimensionValues": [{"value": "20240603"}],
   "metricValues": [{"value": "0"}, {"value": "0"}, {"value": "0"}, {"value": "0"}, {"value": "0"}, {"value": ""}, {"value": "0"}]}
]}`

func writeCredentials(t *testing.T, tokenURL string) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	creds, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     "oneview-test",
		"private_key_id": "key-1",
		"private_key":    string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})),
		"client_email":   "reporter@oneview-test.iam.gserviceaccount.com",
		"client_id":      "1",
		"token_uri":      tokenURL,
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "service-account-key.json")
	require.NoError(t, os.WriteFile(path, creds, 0o600))
	return path
}

func newTestClient(t *testing.T, report http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"ga-token","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/v1beta/properties/42:runReport", report)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := New(config.GoogleAnalyticsConfig{
		BaseURL:         srv.URL + "/v1beta",
		PropertyID:      "42",
		CredentialsFile: writeCredentials(t, srv.URL+"/token"),
	}, srv.Client(), nil)
	c.now = func() time.Time { return time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestClient_NotConfigured(t *testing.T) {
	c := New(config.GoogleAnalyticsConfig{
		PropertyID:      "42",
		CredentialsFile: filepath.Join(t.TempDir(), "missing.json"),
	}, nil, nil)

	_, err := c.Fetch(context.Background())
	assert.ErrorIs(t, err, source.ErrNotConfigured)
}

func TestClient_Fetch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ga-token", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(string(body), `"sessionSource"`):
			_, _ = io.WriteString(w, `{"rows": [{"dimensionValues": [{"value": "google"}], "metricValues": [{"value": "320"}]}]}`)
		case strings.Contains(string(body), `"pagePath"`):
			_, _ = io.WriteString(w, `{"rows": [{"dimensionValues": [{"value": "/pricing"}], "metricValues": [{"value": "75"}]}]}`)
		default:
			assert.Contains(t, string(body), `"startDate":"2024-05-31"`)
			_, _ = io.WriteString(w, dailyReport)
		}
	})

	p, err := c.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(400), p.TotalSessions)
	assert.Equal(t, int64(280), p.TotalUsers)
	assert.Equal(t, int64(1200), p.PageViews)
	assert.Equal(t, 50.0, p.BounceRate)
	assert.Equal(t, 180.0, p.AvgSessionDuration)
	assert.Equal(t, 3.0, p.ConversionRate)
	assert.Equal(t, 1000.06, p.Revenue)

	require.Len(t, p.HistoricalData, 3)
	first := p.HistoricalData[0]
	assert.Equal(t, "2024-06-01", first.Date)
	require.NotNil(t, first.Sessions)
	assert.Equal(t, int64(100), *first.Sessions)
	assert.Equal(t, 40.0, *first.BounceRate)

	assert.Equal(t, []source.TrafficSource{{Source: "google", Sessions: 320}}, p.TrafficSources)
	assert.Equal(t, []source.TopPage{{Page: "/pricing", PageViews: 75}}, p.TopPages)
}

func TestClient_SubReportsDegrade(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), `"limit":5`) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, dailyReport)
	})

	p, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, p.TrafficSources)
	assert.Empty(t, p.TrafficSources)
	assert.Empty(t, p.TopPages)
}

func TestClient_MainReportFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Fetch(context.Background())
	var apiErr *source.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestSummarize_NoActivity(t *testing.T) {
	p := summarize(nil)
	assert.Zero(t, p.BounceRate)
	assert.Zero(t, p.AvgSessionDuration)
	assert.Zero(t, p.ConversionRate)
	assert.NotNil(t, p.HistoricalData)
}
