package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/nihongo/internal/cryptox"
	"github.com/dmitrijs2005/nihongo/internal/logging"
	"github.com/dmitrijs2005/nihongo/internal/modules"
	"github.com/dmitrijs2005/nihongo/internal/server/config"
	"github.com/dmitrijs2005/nihongo/internal/server/models"
	"github.com/dmitrijs2005/nihongo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nihongo/internal/server/services"
	"github.com/dmitrijs2005/nihongo/internal/server/sessions"
)

type testServer struct {
	router  *gin.Engine
	manager *repomanager.MemoryRepositoryManager
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupTestServer(t *testing.T, archive services.Archive) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := discardLogger()
	m := repomanager.NewMemoryRepositoryManager()
	cipher, err := cryptox.NewCipher("handler-test-passphrase")
	require.NoError(t, err)
	cfg := &config.Config{SecretKey: "handler-test-jwt", SessionTokenValidityDuration: time.Hour}

	authSvc := services.NewAuthService(m, cipher, sessions.NewMemoryRevoker(), cfg, log)
	history := services.NewHistoryService(m, 50, log)
	h := &Handler{
		Auth:    authSvc,
		History: history,
		Export:  services.NewExportService(history, archive, log),
		Ready:   m.Ping,
	}

	return &testServer{
		router:  NewRouter(h, log, RouterOptions{CORSAllowedOrigins: []string{"http://localhost:5173"}}),
		manager: m,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) register(t *testing.T, username, password, apiKey string) sessionResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/register", gin.H{"username": username, "password": password, "apiKey": apiKey}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[sessionResponse](t, w)
}

func TestScenario_RegisterWrongPasswordLogin(t *testing.T) {
	s := setupTestServer(t, nil)

	reg := s.register(t, "alice", "p1", "AIzaXYZ")
	assert.Equal(t, "AIzaXYZ", reg.APIKey)
	assert.Equal(t, "alice", reg.User.Username)
	assert.NotEmpty(t, reg.User.ID)
	assert.NotEmpty(t, reg.Token)

	w := s.do(t, http.MethodPost, "/login", gin.H{"username": "alice", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/login", gin.H{"username": "alice", "password": "p1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[sessionResponse](t, w)
	assert.Equal(t, "AIzaXYZ", login.APIKey)
	assert.Equal(t, reg.User, login.User)
}

func TestRegister_Errors(t *testing.T) {
	s := setupTestServer(t, nil)
	s.register(t, "alice", "p1", "k")

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"missing api key", gin.H{"username": "bob", "password": "p"}, http.StatusBadRequest},
		{"empty body", "", http.StatusBadRequest},
		{"malformed json", "{", http.StatusBadRequest},
		{"duplicate", gin.H{"username": "alice", "password": "p2", "apiKey": "k2"}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/register", tt.body, "")
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, decode[map[string]string](t, w)["error"])
		})
	}
}

func TestLogin_UniformUnauthorized(t *testing.T) {
	s := setupTestServer(t, nil)
	s.register(t, "alice", "p1", "k")

	unknown := s.do(t, http.MethodPost, "/login", gin.H{"username": "nobody", "password": "p1"}, "")
	wrong := s.do(t, http.MethodPost, "/login", gin.H{"username": "alice", "password": "bad"}, "")

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.JSONEq(t, unknown.Body.String(), wrong.Body.String())
}

func TestRoutesMountedUnderAPI(t *testing.T) {
	s := setupTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/register", gin.H{"username": "alice", "password": "p1", "apiKey": "k"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/login", gin.H{"username": "alice", "password": "p1"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHistory_RecordAndList(t *testing.T) {
	s := setupTestServer(t, nil)
	reg := s.register(t, "alice", "p1", "k")

	w := s.do(t, http.MethodGet, "/history?userId="+reg.User.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	for _, m := range []string{"QUIZ", "WRITING"} {
		w = s.do(t, http.MethodPost, "/history", gin.H{
			"user_id": reg.User.ID, "module_type": m, "duration_sec": 65, "accuracy_score": 90,
		}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
	}

	w = s.do(t, http.MethodGet, "/history?userId="+reg.User.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode[[]models.StudyLog](t, w)
	require.Len(t, logs, 2)
	assert.Equal(t, modules.Writing, logs[0].ModuleType)
	assert.Equal(t, 65, logs[0].DurationSec)
	assert.Equal(t, reg.User.ID, logs[0].UserID)
}

func TestHistory_Errors(t *testing.T) {
	s := setupTestServer(t, nil)
	reg := s.register(t, "alice", "p1", "k")

	w := s.do(t, http.MethodGet, "/history", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	tests := []struct {
		name string
		body any
	}{
		{"missing user", gin.H{"module_type": "QUIZ"}},
		{"missing module", gin.H{"user_id": reg.User.ID}},
		{"unknown module", gin.H{"user_id": reg.User.ID, "module_type": "KARAOKE"}},
		{"negative duration", gin.H{"user_id": reg.User.ID, "module_type": "QUIZ", "duration_sec": -3}},
		{"score out of range", gin.H{"user_id": reg.User.ID, "module_type": "QUIZ", "accuracy_score": 140}},
		{"unknown user", gin.H{"user_id": "ghost", "module_type": "QUIZ"}},
		{"fractional duration", `{"user_id":"x","module_type":"QUIZ","duration_sec":1.5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/history", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestHistory_NumericUserIDAccepted(t *testing.T) {
	var id flexID
	require.NoError(t, json.Unmarshal([]byte(`42`), &id))
	assert.Equal(t, flexID("42"), id)
	require.NoError(t, json.Unmarshal([]byte(`"u-1"`), &id))
	assert.Equal(t, flexID("u-1"), id)
	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.Equal(t, flexID(""), id)
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))
}

func TestHistory_TokenOwnership(t *testing.T) {
	s := setupTestServer(t, nil)
	alice := s.register(t, "alice", "p1", "k")
	bob := s.register(t, "bob", "p2", "k")

	w := s.do(t, http.MethodGet, "/history?userId="+alice.User.ID, nil, alice.Token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/history?userId="+alice.User.ID, nil, bob.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/history", gin.H{"user_id": alice.User.ID, "module_type": "QUIZ"}, bob.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/history?userId="+alice.User.ID, nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionResumeAndLogout(t *testing.T) {
	s := setupTestServer(t, nil)
	reg := s.register(t, "alice", "p1", "AIzaXYZ")

	w := s.do(t, http.MethodGet, "/session", nil, reg.Token)
	require.Equal(t, http.StatusOK, w.Code)
	resumed := decode[sessionResponse](t, w)
	assert.Equal(t, reg.User, resumed.User)
	assert.Equal(t, "AIzaXYZ", resumed.APIKey)

	w = s.do(t, http.MethodGet, "/session", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/logout", nil, reg.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/logout", nil, reg.Token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/session", nil, reg.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/logout", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type stubArchive struct{ err error }

func (a *stubArchive) Put(context.Context, string, []byte, string) error { return a.err }
func (a *stubArchive) PresignGet(_ context.Context, key string) (string, error) {
	return "https://signed.example/" + key, a.err
}

func TestExport(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		s := setupTestServer(t, nil)
		reg := s.register(t, "alice", "p1", "k")

		w := s.do(t, http.MethodPost, "/history/export", gin.H{"user_id": reg.User.ID}, "")
		assert.Equal(t, http.StatusNotImplemented, w.Code)
	})

	t.Run("ok", func(t *testing.T) {
		s := setupTestServer(t, &stubArchive{})
		reg := s.register(t, "alice", "p1", "k")

		w := s.do(t, http.MethodPost, "/history/export", gin.H{"user_id": reg.User.ID}, reg.Token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		out := decode[services.Export](t, w)
		assert.Contains(t, out.Key, "history/"+reg.User.ID+"/")
		assert.Equal(t, "https://signed.example/"+out.Key, out.URL)
	})

	t.Run("missing user", func(t *testing.T) {
		s := setupTestServer(t, &stubArchive{})
		w := s.do(t, http.MethodPost, "/history/export", gin.H{}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("upload failure hides detail", func(t *testing.T) {
		s := setupTestServer(t, &stubArchive{err: errors.New("s3: AccessDenied for key")})
		reg := s.register(t, "alice", "p1", "k")

		w := s.do(t, http.MethodPost, "/history/export", gin.H{"user_id": reg.User.ID}, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "AccessDenied")
	})
}

func TestHealthAndRequestID(t *testing.T) {
	s := setupTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "fixed-id")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get(requestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	s := setupTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHistory_ModuleTypeCaseInsensitive(t *testing.T) {
	s := setupTestServer(t, nil)
	reg := s.register(t, "alice", "p1", "k")

	w := s.do(t, http.MethodPost, "/history", `{"user_id":"`+reg.User.ID+`","module_type":" quiz "}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	logs := decode[[]models.StudyLog](t, s.do(t, http.MethodGet, "/history?userId="+reg.User.ID, nil, ""))
	require.Len(t, logs, 1)
	assert.Equal(t, modules.Quiz, logs[0].ModuleType)
	assert.Zero(t, logs[0].DurationSec)
	assert.Zero(t, logs[0].AccuracyScore)
}
