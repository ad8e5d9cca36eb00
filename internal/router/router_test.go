package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"socialportfolio/backend/internal/account"
	"socialportfolio/backend/internal/handler"
	"socialportfolio/backend/internal/social"
	"socialportfolio/backend/internal/store/sqlstore"
	"socialportfolio/backend/internal/testutil"
	"socialportfolio/backend/pkg/jwt"
	"socialportfolio/backend/pkg/password"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := sqlstore.New(testutil.OpenSQLite(t))
	tokens := jwt.NewService("test-secret", time.Hour)
	feed := social.NewFeed(store)
	h := handler.New(
		account.NewService(store, password.NewHasher(bcrypt.MinCost), tokens),
		social.NewEngine(store, feed, nil),
		feed,
		nil,
	)
	return &testServer{t: t, router: New(h, tokens, Options{CORSOrigins: []string{"http://localhost:5500"}})}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func (s *testServer) signupAndLogin(username string) (id, token string) {
	s.t.Helper()
	w, _ := s.do(http.MethodPost, "/signup", "", gin.H{"username": username, "password": "secret"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w, body := s.do(http.MethodPost, "/login", "", gin.H{"username": username, "password": "secret"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	token = body["token"].(string)

	w, body = s.do(http.MethodGet, "/me", token, nil)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return body["user"].(map[string]any)["_id"].(string), token
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Backend is running!", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(handler.RequestIDHeader))

	w, body := s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", body["message"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(handler.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(handler.RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/me", nil)
	req.Header.Set("Origin", "http://localhost:5500")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5500", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestSignupAndLoginScenario(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(http.MethodPost, "/signup", "", gin.H{"username": "alice", "password": "p"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "alice", body["username"])

	w, body = s.do(http.MethodPost, "/signup", "", gin.H{"username": "alice", "password": "q"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Username already exists", body["message"])

	w, body = s.do(http.MethodPost, "/login", "", gin.H{"username": "alice", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Wrong Password!", body["message"])

	w, body = s.do(http.MethodPost, "/login", "", gin.H{"username": "alice", "password": "p"})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	w, body = s.do(http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")
}

func TestSignup_Validation(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(http.MethodPost, "/signup", "", gin.H{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username and password are required", body["message"])

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodDelete, "/me"},
		{http.MethodPost, "/connections/request/x"},
		{http.MethodPost, "/connections/accept/x"},
		{http.MethodPost, "/connections/reject/x"},
		{http.MethodPost, "/connections/cancel/x"},
		{http.MethodPost, "/connections/disconnect/x"},
		{http.MethodPost, "/like/x"},
		{http.MethodPost, "/unlike/x"},
		{http.MethodGet, "/notifications"},
		{http.MethodGet, "/notifications/unread-count"},
		{http.MethodPost, "/notifications/read"},
		{http.MethodDelete, "/notifications/x"},
	} {
		w, body := s.do(route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
		assert.Equal(t, false, body["success"])

		w, _ = s.do(route.method, route.path, "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}

func TestConnectionFlow(t *testing.T) {
	s := newTestServer(t)
	aliceID, alice := s.signupAndLogin("alice")
	bobID, bob := s.signupAndLogin("bob")

	w, body := s.do(http.MethodPost, "/connections/request/"+bobID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Connection request sent", body["message"])

	w, body = s.do(http.MethodPost, "/connections/request/"+bobID, alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Connection request already sent", body["message"])

	w, body = s.do(http.MethodPost, "/connections/request/"+aliceID, alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You cannot connect with yourself", body["message"])

	w, body = s.do(http.MethodPost, "/connections/request/ghost", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", body["message"])

	// Bob's feed has the request.
	w, body = s.do(http.MethodGet, "/notifications", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := body["notifications"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "connection_request", entry["type"])
	assert.Equal(t, false, entry["isRead"])
	assert.Equal(t, "sent you a connection request", entry["message"])
	assert.Equal(t, map[string]any{"_id": aliceID, "username": "alice"}, entry["from"])
	assert.EqualValues(t, 1, body["unreadCount"])

	w, body = s.do(http.MethodPost, "/connections/accept/"+aliceID, bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Connection accepted", body["message"])

	w, body = s.do(http.MethodPost, "/connections/accept/"+aliceID, bob, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No such connection request", body["message"])

	w, body = s.do(http.MethodPost, "/connections/request/"+bobID, alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Already connected", body["message"])

	_, body = s.do(http.MethodGet, "/me", alice, nil)
	me := body["user"].(map[string]any)
	assert.Equal(t, []any{map[string]any{"_id": bobID, "username": "bob"}}, me["connections"])
	assert.Empty(t, me["sentConnectionRequests"])

	w, body = s.do(http.MethodPost, "/connections/disconnect/"+bobID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Disconnected", body["message"])

	_, body = s.do(http.MethodGet, "/me", bob, nil)
	assert.Empty(t, body["user"].(map[string]any)["connections"])
}

func TestRejectAndCancel(t *testing.T) {
	s := newTestServer(t)
	aliceID, alice := s.signupAndLogin("alice")
	bobID, bob := s.signupAndLogin("bob")

	s.do(http.MethodPost, "/connections/request/"+bobID, alice, nil)
	w, body := s.do(http.MethodPost, "/connections/reject/"+aliceID, bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Connection request rejected", body["message"])

	s.do(http.MethodPost, "/connections/request/"+bobID, alice, nil)
	w, body = s.do(http.MethodPost, "/connections/cancel/"+bobID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Request cancelled", body["message"])

	_, body = s.do(http.MethodGet, "/me", bob, nil)
	assert.Empty(t, body["user"].(map[string]any)["connectionRequests"])

	w, _ = s.do(http.MethodPost, "/connections/reject/ghost", bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikes(t *testing.T) {
	s := newTestServer(t)
	aliceID, alice := s.signupAndLogin("alice")
	bobID, bob := s.signupAndLogin("bob")

	w, body := s.do(http.MethodPost, "/like/"+bobID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Profile liked", body["message"])

	w, body = s.do(http.MethodPost, "/like/"+bobID, alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Already liked", body["message"])

	w, body = s.do(http.MethodPost, "/like/"+aliceID, alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You cannot like your own profile", body["message"])

	w, _ = s.do(http.MethodPost, "/like/ghost", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = s.do(http.MethodGet, "/likes/"+bobID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["likesCount"])

	w, body = s.do(http.MethodGet, "/users/"+bobID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"status": "none", "liked": true}, body["relationship"])

	w, body = s.do(http.MethodPost, "/unlike/"+bobID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Profile unliked", body["message"])
	w, _ = s.do(http.MethodPost, "/unlike/"+bobID, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code, "unlike is idempotent")

	_, body = s.do(http.MethodGet, "/likes/"+bobID, "", nil)
	assert.EqualValues(t, 0, body["likesCount"])

	w, _ = s.do(http.MethodGet, "/likes/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, body = s.do(http.MethodGet, "/notifications", bob, nil)
	entries := body["notifications"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "like", entries[0].(map[string]any)["type"])
}

func TestPublicUsers(t *testing.T) {
	s := newTestServer(t)
	aliceID, _ := s.signupAndLogin("alice")
	s.signupAndLogin("Malice")
	s.signupAndLogin("bob")

	w, body := s.do(http.MethodGet, "/users?search=ALI", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["users"], 2)

	_, body = s.do(http.MethodGet, "/users", "", nil)
	assert.Len(t, body["users"], 3)

	w, body = s.do(http.MethodGet, "/users/"+aliceID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := body["user"].(map[string]any)
	assert.Equal(t, "alice", profile["username"])
	assert.NotContains(t, profile, "connectionRequests")
	assert.NotContains(t, body, "relationship")

	w, body = s.do(http.MethodGet, "/users/not-an-id", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", body["message"])
}

func TestNotificationsReadAndDelete(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.signupAndLogin("alice")
	bobID, bob := s.signupAndLogin("bob")

	s.do(http.MethodPost, "/like/"+bobID, alice, nil)
	s.do(http.MethodPost, "/connections/request/"+bobID, alice, nil)

	_, body := s.do(http.MethodGet, "/notifications/unread-count", bob, nil)
	assert.EqualValues(t, 2, body["unreadCount"])

	_, body = s.do(http.MethodGet, "/notifications", bob, nil)
	entries := body["notifications"].([]any)
	require.Len(t, entries, 2)
	newest := entries[0].(map[string]any)
	assert.Equal(t, "connection_request", newest["type"], "newest first")

	w, body := s.do(http.MethodPost, "/notifications/read", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	_, body = s.do(http.MethodGet, "/notifications/unread-count", bob, nil)
	assert.EqualValues(t, 0, body["unreadCount"])

	// Alice cannot delete Bob's entry.
	w, _ = s.do(http.MethodDelete, "/notifications/"+newest["_id"].(string), alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	_, body = s.do(http.MethodGet, "/notifications", bob, nil)
	assert.Len(t, body["notifications"], 2)

	w, body = s.do(http.MethodDelete, "/notifications/"+newest["_id"].(string), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Notification deleted", body["message"])
	_, body = s.do(http.MethodGet, "/notifications", bob, nil)
	assert.Len(t, body["notifications"], 1)
}

func TestDeleteMe(t *testing.T) {
	s := newTestServer(t)
	aliceID, alice := s.signupAndLogin("alice")
	bobID, bob := s.signupAndLogin("bob")

	s.do(http.MethodPost, "/connections/request/"+bobID, alice, nil)
	s.do(http.MethodPost, "/connections/accept/"+aliceID, bob, nil)
	s.do(http.MethodPost, "/like/"+bobID, alice, nil)

	w, body := s.do(http.MethodDelete, "/me", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Account deleted successfully", body["message"])

	_, body = s.do(http.MethodGet, "/me", bob, nil)
	me := body["user"].(map[string]any)
	assert.Empty(t, me["connections"])
	assert.Empty(t, me["likes"])

	// The token outlives the account.
	w, _ = s.do(http.MethodGet, "/me", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(http.MethodDelete, "/me", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Bob's feed keeps the entries, with the source unresolved.
	_, body = s.do(http.MethodGet, "/notifications", bob, nil)
	entries := body["notifications"].([]any)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Nil(t, e.(map[string]any)["from"])
	}

	w, _ = s.do(http.MethodPost, "/login", "", gin.H{"username": "alice", "password": "secret"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
