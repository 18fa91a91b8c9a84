package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/susradar/susradar-server/internal/tokens"
	"github.com/susradar/susradar-server/internal/userdata"
	"github.com/susradar/susradar-server/internal/users"
	"github.com/susradar/susradar-server/pkg/middleware"
	"golang.org/x/crypto/bcrypt"
)

// newTestRouter wires the full API against in-memory/temp-dir storage with a
// fixed signing secret.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dataSvc := userdata.NewService(userdata.NewMemoryRepository())
	userRepo, err := users.NewFileRepository(t.TempDir())
	require.NoError(t, err)
	userSvc := users.NewService(userRepo, dataSvc, bcrypt.MinCost)
	tokenSvc := tokens.NewService("handler-test-secret-32-bytes-xxx", time.Hour)

	g := gin.New()
	api := g.Group("/api")
	NewAuthHandler(userSvc, tokenSvc).Register(api)
	protected := api.Group("", middleware.Auth(tokenSvc))
	NewDataHandler(dataSvc).Register(protected)
	return g
}

func postJSON(g *gin.Engine, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestRegister_Flow(t *testing.T) {
	g := newTestRouter(t)

	w := postJSON(g, "/api/register", `{"username":"Alice","password":"password8"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	// same name, different case -> conflict
	w = postJSON(g, "/api/register", `{"username":"alice","password":"password8"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// short password -> 400
	w = postJSON(g, "/api/register", `{"username":"bob","password":"1234567"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// invalid username -> 400
	w = postJSON(g, "/api/register", `{"username":"b!","password":"password8"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing fields -> 400
	w = postJSON(g, "/api/register", `{"username":"carol"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_Flow(t *testing.T) {
	g := newTestRouter(t)

	w := postJSON(g, "/api/register", `{"username":"alice","password":"password8"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	// good credentials -> token payload
	w = postJSON(g, "/api/login", `{"username":"ALICE ","password":"password8"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp["username"])
	assert.NotEmpty(t, resp["token"])
	assert.Equal(t, float64(3600), resp["expires_in"])

	// wrong password and unknown user -> identical 401 body
	wWrong := postJSON(g, "/api/login", `{"username":"alice","password":"wrongpass"}`, "")
	wGhost := postJSON(g, "/api/login", `{"username":"ghost","password":"password8"}`, "")
	assert.Equal(t, http.StatusUnauthorized, wWrong.Code)
	assert.Equal(t, http.StatusUnauthorized, wGhost.Code)
	assert.Equal(t, wWrong.Body.String(), wGhost.Body.String())
}

func TestLogin_TokenWorksOnProtectedRoute(t *testing.T) {
	g := newTestRouter(t)

	require.Equal(t, http.StatusCreated, postJSON(g, "/api/register", `{"username":"alice","password":"password8"}`, "").Code)
	w := postJSON(g, "/api/login", `{"username":"alice","password":"password8"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	require.Equal(t, http.StatusOK, rw.Code)

	// registration initialized an empty document
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &doc))
	assert.Empty(t, doc["companies"])
	assert.Empty(t, doc["mappings"])
}
