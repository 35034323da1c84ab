package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/activity-board/internal/board"
	"github.com/Shivanand-hulikatti/activity-board/internal/client"
	"github.com/Shivanand-hulikatti/activity-board/internal/logging"
	"github.com/Shivanand-hulikatti/activity-board/internal/metrics"
	"github.com/Shivanand-hulikatti/activity-board/internal/model"
	"github.com/Shivanand-hulikatti/activity-board/internal/repository"
	"github.com/Shivanand-hulikatti/activity-board/internal/service"
)

// newTestServer serves the API and the board from one router, with the
// board's client pointed back at the same server.
func newTestServer(t *testing.T, activities ...model.Activity) *httptest.Server {
	t.Helper()

	if len(activities) == 0 {
		seed, err := repository.DefaultSeed()
		require.NoError(t, err)
		activities = seed
	}

	repo := repository.NewMemoryRepository()
	require.NoError(t, repo.Seed(context.Background(), activities))

	reg, err := metrics.NewRegistry()
	require.NoError(t, err)

	logger := logging.Discard()
	var baseURL string
	sessions := board.NewSessions(func() *board.Controller {
		return board.NewController(client.New(baseURL, client.WithLogger(logger)),
			board.WithLogger(logger),
			board.WithRecorder(reg),
			board.WithMessageTimeout(0),
		)
	}, logger)
	t.Cleanup(sessions.Close)

	srv := httptest.NewServer(NewRouter(Routes{
		Activities: NewActivityHandler(service.NewActivityService(repo), reg, logger),
		Board:      NewBoardHandler(sessions, logger),
		Metrics:    reg.Handler(),
		Logger:     logger,
	}))
	t.Cleanup(srv.Close)
	baseURL = srv.URL
	return srv
}

func do(t *testing.T, method, target string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, target, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func detail(t *testing.T, body []byte) string {
	t.Helper()
	var e model.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Detail
}

func TestRootServesBoard(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "Chess Club")
	assert.Contains(t, string(body), `data-email="michael@mergington.edu"`)

	var session string
	for _, c := range resp.Cookies() {
		if c.Name == board.SessionCookie {
			session = c.Value
		}
	}
	assert.NotEmpty(t, session)
}

func TestGetActivities(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/activities")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var catalog model.Catalog
	require.NoError(t, json.Unmarshal(body, &catalog))
	chess, ok := catalog.Get("Chess Club")
	require.True(t, ok)
	assert.NotEmpty(t, chess.Participants)
	assert.Equal(t, "Chess Club", catalog.Names()[0], "seed order is preserved")
}

func TestSignupAndUnregister(t *testing.T) {
	srv := newTestServer(t)
	const email = "pytestuser@mergington.edu"
	base := srv.URL + "/activities/Chess%20Club"

	resp, body := do(t, http.MethodPost, base+"/signup?email="+url.QueryEscape(email))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Signed up")

	resp, body = do(t, http.MethodPost, base+"/signup?email="+url.QueryEscape(email))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Student is already signed up", detail(t, body))

	resp, body = do(t, http.MethodDelete, base+"/unregister?email="+url.QueryEscape(email))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Unregistered")

	resp, body = do(t, http.MethodDelete, base+"/unregister?email="+url.QueryEscape(email))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Student is not signed up for this activity", detail(t, body))
}

func TestParticipantErrors(t *testing.T) {
	srv := newTestServer(t, model.Activity{
		Name:            "Tiny Club",
		MaxParticipants: 1,
		Participants:    []string{"first@x.com"},
	})

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantDetail string
	}{
		{"unknown activity signup", http.MethodPost, "/activities/Nope/signup?email=a@x.com", http.StatusNotFound, "Activity not found"},
		{"unknown activity unregister", http.MethodDelete, "/activities/Nope/unregister?email=a@x.com", http.StatusNotFound, "Activity not found"},
		{"full", http.MethodPost, "/activities/Tiny%20Club/signup?email=second@x.com", http.StatusBadRequest, "Activity is full"},
		{"missing email", http.MethodPost, "/activities/Tiny%20Club/signup", http.StatusBadRequest, "email is required"},
		{"blank email", http.MethodDelete, "/activities/Tiny%20Club/unregister?email=%20", http.StatusBadRequest, "email is required"},
		{"unknown route", http.MethodGet, "/nope", http.StatusNotFound, "Not Found"},
		{"wrong method", http.MethodGet, "/activities/Tiny%20Club/signup", http.StatusMethodNotAllowed, "Method Not Allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, tt.method, srv.URL+tt.path)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantDetail, detail(t, body))
		})
	}
}

func TestSignup_EscapedActivityName(t *testing.T) {
	srv := newTestServer(t, model.Activity{Name: "Chess Club/Advanced", MaxParticipants: 5})

	resp, err := client.New(srv.URL).Signup(context.Background(), "Chess Club/Advanced", "a+b@x.com")
	require.NoError(t, err)
	assert.True(t, resp.OK(), "status %d: %s", resp.Status, resp.Body)
	assert.Equal(t, "Signed up a+b@x.com for Chess Club/Advanced", resp.Message())
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	do(t, http.MethodGet, srv.URL+"/activities")
	resp, body = do(t, http.MethodGet, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `activity_api_requests_total{operation="list",outcome="success"}`)
}

func TestStaticStylesheet(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/static/styles.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), ".activity-card")
}

func TestBoardFlows(t *testing.T) {
	srv := newTestServer(t)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	browser := &http.Client{Jar: jar}

	page := func(resp *http.Response) string {
		t.Helper()
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return string(body)
	}

	resp, err := browser.Get(srv.URL + "/")
	require.NoError(t, err)
	assert.Contains(t, page(resp), "Chess Club")

	const email = "new@mergington.edu"
	resp, err = browser.PostForm(srv.URL+board.SignupPath, url.Values{
		"email":    {email},
		"activity": {"Chess Club"},
	})
	require.NoError(t, err)
	body := page(resp)
	assert.Contains(t, body, "Signed up new@mergington.edu for Chess Club")
	assert.Contains(t, body, `class="success"`)
	assert.Contains(t, body, `data-email="new@mergington.edu"`)

	resp, err = browser.PostForm(srv.URL+board.SignupPath, url.Values{
		"email":    {email},
		"activity": {"Chess Club"},
	})
	require.NoError(t, err)
	body = page(resp)
	assert.Contains(t, body, "Error (400): Student is already signed up")
	assert.Contains(t, body, `class="error"`)

	q := url.Values{"activity": {"Chess Club"}, "email": {email}}
	resp, err = browser.Post(srv.URL+board.UnregisterPath+"?"+q.Encode(), "application/x-www-form-urlencoded", strings.NewReader(""))
	require.NoError(t, err)
	body = page(resp)
	assert.Contains(t, body, "Unregistered new@mergington.edu from Chess Club")
	assert.NotContains(t, body, `data-email="new@mergington.edu"`)
}
