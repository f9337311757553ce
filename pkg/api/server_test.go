package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kdeps/photofind/pkg/api"
	"github.com/kdeps/photofind/pkg/environment"
	"github.com/kdeps/photofind/pkg/logging"
	"github.com/kdeps/photofind/pkg/mail"
	"github.com/kdeps/photofind/pkg/photo"
	"github.com/kdeps/photofind/pkg/report"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, fs afero.Fs, relayURL string) *api.Server {
	t.Helper()

	logger := logging.NewTestLogger()
	env := &environment.Environment{
		PhotosFolder: "/photos",
		MailRelayURL: relayURL,
		HostIP:       "127.0.0.1",
		Port:         "0",
		ReportsDir:   "/reports",
	}

	generator := report.NewGenerator(fs, env.ReportsDir, logger)
	relay := mail.NewClient(fs, env.MailRelayURL, logger)
	service := photo.NewService(fs, env.PhotosFolder, generator, relay, logger)

	return api.NewServer(env, service, logger)
}

func seedPhotos(t *testing.T, fs afero.Fs, names ...string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll("/photos", 0o755))
	for _, name := range names {
		require.NoError(t, afero.WriteFile(fs, "/photos/"+name, []byte("data"), 0o644))
	}
}

func doRequest(server *api.Server, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, req)
	return recorder
}

func TestHealthEndpoint(t *testing.T) {
	fs := afero.NewMemMapFs()
	server := newTestServer(t, fs, "http://relay.invalid")

	recorder := doRequest(server, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestSearchReturnsMatchedPhotos(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedPhotos(t, fs, "vacation_12.jpg", "vacation_99.png", "notes.txt", "trip_5.jpg")
	server := newTestServer(t, fs, "http://relay.invalid")

	recorder := doRequest(server, http.MethodGet, "/api/search?query=vacation", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Photos []string `json:"photos"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, []string{"vacation_12.jpg", "vacation_99.png"}, body.Photos)
}

func TestSearchNumericRangeQuery(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedPhotos(t, fs, "vacation_12.jpg", "vacation_99.png", "trip_5.jpg")
	server := newTestServer(t, fs, "http://relay.invalid")

	recorder := doRequest(server, http.MethodGet, "/api/search?min=10&max=50", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Photos []string `json:"photos"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, []string{"vacation_12.jpg"}, body.Photos)
}

func TestSearchWithoutAnyCriterion(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedPhotos(t, fs, "vacation_12.jpg")
	server := newTestServer(t, fs, "http://relay.invalid")

	recorder := doRequest(server, http.MethodGet, "/api/search", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Search query is required.")
}

func TestSearchNonNumericBound(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedPhotos(t, fs, "vacation_12.jpg")
	server := newTestServer(t, fs, "http://relay.invalid")

	recorder := doRequest(server, http.MethodGet, "/api/search?min=ten&max=50", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "min must be an integer")
}

func TestSearchMissingPhotosFolder(t *testing.T) {
	fs := afero.NewMemMapFs()
	server := newTestServer(t, fs, "http://relay.invalid")

	recorder := doRequest(server, http.MethodGet, "/api/search?query=vacation", "")
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Failed to search photos.")
}

func TestMailDeliversReport(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedPhotos(t, fs, "vacation_12.jpg", "trip_5.jpg")

	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "user@example.com", r.FormValue("to"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messageId":"abc-123"}`))
	}))
	defer relay.Close()

	server := newTestServer(t, fs, relay.URL)

	recorder := doRequest(server, http.MethodPost, "/api/mail",
		`{"query":"vacation","to":"user@example.com"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Message      string          `json:"message"`
		MailResponse json.RawMessage `json:"mailResponse"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Photo report sent.", body.Message)
	assert.JSONEq(t, `{"messageId":"abc-123"}`, string(body.MailResponse))

	reports, err := afero.Glob(fs, "/reports/*")
	require.NoError(t, err)
	assert.Empty(t, reports, "artifact must be cleaned up after delivery")
}

func TestMailMissingRecipient(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedPhotos(t, fs, "vacation_12.jpg")
	server := newTestServer(t, fs, "http://relay.invalid")

	recorder := doRequest(server, http.MethodPost, "/api/mail", `{"query":"vacation"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "recipient is required")
}

func TestMailNoMatches(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedPhotos(t, fs, "vacation_12.jpg")
	server := newTestServer(t, fs, "http://relay.invalid")

	recorder := doRequest(server, http.MethodPost, "/api/mail",
		`{"query":"zebra","to":"user@example.com"}`)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "No matching photos.")
}

func TestMailRelayFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedPhotos(t, fs, "vacation_12.jpg")

	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer relay.Close()

	server := newTestServer(t, fs, relay.URL)

	recorder := doRequest(server, http.MethodPost, "/api/mail",
		`{"query":"vacation","to":"user@example.com"}`)
	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Failed to send mail.")

	reports, err := afero.Glob(fs, "/reports/*")
	require.NoError(t, err)
	assert.Empty(t, reports, "artifact must be cleaned up after a failed delivery")
}

func TestMailInvalidBody(t *testing.T) {
	fs := afero.NewMemMapFs()
	server := newTestServer(t, fs, "http://relay.invalid")

	recorder := doRequest(server, http.MethodPost, "/api/mail", `{"query":`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid request body.")
}

func TestRequestIDHeader(t *testing.T) {
	fs := afero.NewMemMapFs()
	server := newTestServer(t, fs, "http://relay.invalid")

	recorder := doRequest(server, http.MethodGet, "/health", "")
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}
