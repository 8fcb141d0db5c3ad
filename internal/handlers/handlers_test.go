package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partiallymisplaced/so-connect/internal/database"
	"github.com/partiallymisplaced/so-connect/internal/engine"
	"github.com/partiallymisplaced/so-connect/internal/middleware"
	"github.com/partiallymisplaced/so-connect/internal/utils"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()

	store := database.NewMemoryStore()
	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, store)
	server := NewServer(system, eng, utils.NewMetricsCollector())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", server.HandleHealth())
	mux.HandleFunc("POST /api/users/register", server.HandleUserRegistration())
	mux.HandleFunc("POST /api/users/login", server.HandleUserLogin())
	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(server.HandleCurrentProfile()))
	mux.HandleFunc("POST /api/profile", middleware.RequireAuth(server.HandleUpsertProfile()))
	mux.HandleFunc("GET /api/profile/all", server.HandleAllProfiles())
	mux.HandleFunc("GET /api/profile/handle/{handle}", server.HandleProfileByHandle())
	mux.HandleFunc("GET /api/profile/user/{user_id}", server.HandleProfileByUser())
	mux.HandleFunc("POST /api/profile/experience", middleware.RequireAuth(server.HandleAddExperience()))
	mux.HandleFunc("DELETE /api/profile/experience/{id}", middleware.RequireAuth(server.HandleRemoveExperience()))
	mux.HandleFunc("POST /api/profile/education", middleware.RequireAuth(server.HandleAddEducation()))
	mux.HandleFunc("DELETE /api/profile/education/{id}", middleware.RequireAuth(server.HandleRemoveEducation()))
	mux.HandleFunc("DELETE /api/profile", middleware.RequireAuth(server.HandleDeleteAccount()))
	mux.HandleFunc("POST /api/posts", middleware.RequireAuth(server.HandleCreatePost()))
	mux.HandleFunc("GET /api/posts", server.HandleAllPosts())
	mux.HandleFunc("GET /api/posts/{id}", server.HandleGetPost())
	mux.HandleFunc("DELETE /api/posts/{id}", middleware.RequireAuth(server.HandleDeletePost()))
	mux.HandleFunc("POST /api/posts/like/{id}", middleware.RequireAuth(server.HandleLikePost()))
	mux.HandleFunc("POST /api/posts/unlike/{id}", middleware.RequireAuth(server.HandleUnlikePost()))
	mux.HandleFunc("POST /api/posts/comment/{id}", middleware.RequireAuth(server.HandleAddComment()))
	mux.HandleFunc("DELETE /api/posts/comment/{id}/{comment_id}", middleware.RequireAuth(server.HandleRemoveComment()))
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// registerAndLogin creates a user and returns the Authorization header value.
func registerAndLogin(t *testing.T, mux *http.ServeMux, name, email string) string {
	t.Helper()

	rec := doJSON(t, mux, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": name, "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, mux, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegistrationAndLogin(t *testing.T) {
	mux := newTestRouter(t)

	// Validation failures come back as a field-keyed map
	rec := doJSON(t, mux, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "A", "email": "bad", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Name must be between 2 and 30 characters", body["name"])
	assert.Equal(t, "Email is invalid", body["email"])

	rec = doJSON(t, mux, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "Al Gator", "email": "al@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "Al Gator", body["name"])
	assert.Contains(t, body["avatar"], "gravatar.com")
	assert.NotContains(t, rec.Body.String(), "password123")

	// Duplicate email
	rec = doJSON(t, mux, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "Al Gator", "email": "al@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", decodeBody(t, rec)["email"])

	// Wrong password
	rec = doJSON(t, mux, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "al@example.com", "password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeBody(t, rec)["login"])

	token := registerAndLogin(t, mux, "Cay Man", "cay@example.com")
	assert.Contains(t, token, "Bearer ")
}

func TestProfileLifecycle(t *testing.T) {
	mux := newTestRouter(t)
	token := registerAndLogin(t, mux, "Al Gator", "al@example.com")

	// No token
	rec := doJSON(t, mux, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// No profile yet
	rec = doJSON(t, mux, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "There is no profile for this user", decodeBody(t, rec)["noprofile"])

	// Create
	rec = doJSON(t, mux, http.MethodPost, "/api/profile", token, map[string]string{
		"handle": "gator", "status": "Developer", "skills": "Go, MongoDB",
		"twitter": "https://twitter.com/gator",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "gator", body["handle"])
	assert.Equal(t, []interface{}{"Go", "MongoDB"}, body["skills"])

	// Merge keeps unsubmitted fields
	rec = doJSON(t, mux, http.MethodPost, "/api/profile", token, map[string]string{
		"handle": "gator", "status": "Senior Developer", "skills": "Go, MongoDB",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "Senior Developer", body["status"])
	social := body["social"].(map[string]interface{})
	assert.Equal(t, "https://twitter.com/gator", social["twitter"])

	// Public lookups
	rec = doJSON(t, mux, http.MethodGet, "/api/profile/handle/gator", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	userID := decodeBody(t, rec)["user"].(string)

	rec = doJSON(t, mux, http.MethodGet, "/api/profile/user/"+userID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/api/profile/handle/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "There is no profile", decodeBody(t, rec)["noprofile"])

	rec = doJSON(t, mux, http.MethodGet, "/api/profile/all", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Handle collisions are rejected for a second user
	other := registerAndLogin(t, mux, "Cay Man", "cay@example.com")
	rec = doJSON(t, mux, http.MethodPost, "/api/profile", other, map[string]string{
		"handle": "gator", "status": "Dev", "skills": "Go",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "That handle already exists", decodeBody(t, rec)["handle"])
}

func TestExperienceAndEducationRoutes(t *testing.T) {
	mux := newTestRouter(t)
	token := registerAndLogin(t, mux, "Al Gator", "al@example.com")

	doJSON(t, mux, http.MethodPost, "/api/profile", token, map[string]string{
		"handle": "gator", "status": "Developer", "skills": "Go",
	})

	// Missing required fields
	rec := doJSON(t, mux, http.MethodPost, "/api/profile/experience", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please include your job title", decodeBody(t, rec)["title"])

	rec = doJSON(t, mux, http.MethodPost, "/api/profile/experience", token, map[string]string{
		"title": "Engineer", "company": "Swamp Inc", "from": "2020-01-01",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	experience := body["experience"].([]interface{})
	require.Len(t, experience, 1)
	entryID := experience[0].(map[string]interface{})["id"].(string)

	// Unknown entry
	rec = doJSON(t, mux, http.MethodDelete, "/api/profile/experience/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Experience is not found", decodeBody(t, rec)["experiencenotfound"])

	rec = doJSON(t, mux, http.MethodDelete, "/api/profile/experience/"+entryID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody(t, rec)["experience"])

	rec = doJSON(t, mux, http.MethodPost, "/api/profile/education", token, map[string]string{
		"school": "University of Florida", "degree": "BS", "fieldOfStudy": "CS", "from": "2016-08-01",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	education := decodeBody(t, rec)["education"].([]interface{})
	require.Len(t, education, 1)
	eduID := education[0].(map[string]interface{})["id"].(string)

	rec = doJSON(t, mux, http.MethodDelete, "/api/profile/education/"+eduID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody(t, rec)["education"])
}

func TestPostRoutes(t *testing.T) {
	mux := newTestRouter(t)
	author := registerAndLogin(t, mux, "Al Gator", "al@example.com")
	reader := registerAndLogin(t, mux, "Cay Man", "cay@example.com")

	// Too short
	rec := doJSON(t, mux, http.MethodPost, "/api/posts", author, map[string]string{"text": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Post must be between 10 and 300 characters", decodeBody(t, rec)["text"])

	rec = doJSON(t, mux, http.MethodPost, "/api/posts", author, map[string]string{
		"text": "a perfectly fine post about gators",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	postID := body["id"].(string)
	assert.Equal(t, "Al Gator", body["name"])
	assert.Equal(t, []interface{}{}, body["likes"])
	assert.Equal(t, []interface{}{}, body["comments"])

	rec = doJSON(t, mux, http.MethodGet, "/api/posts/"+postID, reader, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Like, double-like, unlike, double-unlike
	rec = doJSON(t, mux, http.MethodPost, "/api/posts/like/"+postID, reader, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["likes"], 1)

	rec = doJSON(t, mux, http.MethodPost, "/api/posts/like/"+postID, reader, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already liked this post", decodeBody(t, rec)["postliked"])

	rec = doJSON(t, mux, http.MethodPost, "/api/posts/unlike/"+postID, reader, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody(t, rec)["likes"])

	rec = doJSON(t, mux, http.MethodPost, "/api/posts/unlike/"+postID, reader, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "The user has not liked this post yet", decodeBody(t, rec)["notliked"])

	// Comments
	rec = doJSON(t, mux, http.MethodPost, "/api/posts/comment/"+postID, reader, map[string]string{
		"text": "nice post, well done",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	comments := decodeBody(t, rec)["comments"].([]interface{})
	require.Len(t, comments, 1)
	commentID := comments[0].(map[string]interface{})["id"].(string)
	assert.Equal(t, "Cay Man", comments[0].(map[string]interface{})["name"])

	rec = doJSON(t, mux, http.MethodDelete, "/api/posts/comment/"+postID+"/"+commentID, reader, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody(t, rec)["comments"])

	// Only the author deletes
	rec = doJSON(t, mux, http.MethodDelete, "/api/posts/"+postID, reader, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decodeBody(t, rec)["unauthorized"])

	rec = doJSON(t, mux, http.MethodDelete, "/api/posts/"+postID, author, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/api/posts/"+postID, author, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post not found", decodeBody(t, rec)["noposts"])
}

func TestPostReadsArePublic(t *testing.T) {
	mux := newTestRouter(t)
	author := registerAndLogin(t, mux, "Al Gator", "al@example.com")

	rec := doJSON(t, mux, http.MethodPost, "/api/posts", author, map[string]string{
		"text": "a perfectly fine post about gators",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	postID := decodeBody(t, rec)["id"].(string)

	// Reads need no token
	rec = doJSON(t, mux, http.MethodGet, "/api/posts", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var posts []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, postID, posts[0]["id"])

	rec = doJSON(t, mux, http.MethodGet, "/api/posts/"+postID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, postID, decodeBody(t, rec)["id"])

	// Writes still do
	rec = doJSON(t, mux, http.MethodPost, "/api/posts", "", map[string]string{
		"text": "a perfectly fine post about gators",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = doJSON(t, mux, http.MethodPost, "/api/posts/like/"+postID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConcurrentLikesFromDistinctUsers(t *testing.T) {
	mux := newTestRouter(t)
	author := registerAndLogin(t, mux, "Al Gator", "al@example.com")

	rec := doJSON(t, mux, http.MethodPost, "/api/posts", author, map[string]string{
		"text": "a perfectly fine post about gators",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	postID := decodeBody(t, rec)["id"].(string)

	tokens := []string{
		registerAndLogin(t, mux, "Cay Man", "cay@example.com"),
		registerAndLogin(t, mux, "Croc O'Dile", "croc@example.com"),
	}

	var wg sync.WaitGroup
	wg.Add(len(tokens))
	for _, token := range tokens {
		go func(token string) {
			defer wg.Done()
			rec := doJSON(t, mux, http.MethodPost, "/api/posts/like/"+postID, token, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
		}(token)
	}
	wg.Wait()

	rec = doJSON(t, mux, http.MethodGet, "/api/posts/"+postID, author, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["likes"], 2)
}

func TestHealthReportsCounters(t *testing.T) {
	mux := newTestRouter(t)
	registerAndLogin(t, mux, "Al Gator", "al@example.com")

	rec := doJSON(t, mux, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.GreaterOrEqual(t, body["requests"].(float64), float64(2))
	assert.Contains(t, body, "avg_actor_latency_ms")
}

func TestDeleteAccountRoute(t *testing.T) {
	mux := newTestRouter(t)
	token := registerAndLogin(t, mux, "Al Gator", "al@example.com")

	doJSON(t, mux, http.MethodPost, "/api/profile", token, map[string]string{
		"handle": "gator", "status": "Developer", "skills": "Go",
	})

	rec := doJSON(t, mux, http.MethodDelete, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])

	// Profile is gone; login no longer possible
	rec = doJSON(t, mux, http.MethodGet, "/api/profile/handle/gator", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "al@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
