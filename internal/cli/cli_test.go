package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialportfolio/backend/internal/config"
	"socialportfolio/backend/internal/store/sqlstore"
	"socialportfolio/backend/internal/testutil"
)

func setEnv(t *testing.T, driver, dsn string) {
	t.Setenv("STORE_DRIVER", driver)
	t.Setenv("DATABASE_URL", dsn)
	t.Setenv("JWT_SECRET", "test-secret")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateCommand_SQLite(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, config.DriverSQLite, filepath.Join(dir, "app.db"))

	out, err := execute(t, "migrate", "--env-file", filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite store is up to date")
}

func TestCommands_RejectInvalidConfig(t *testing.T) {
	setEnv(t, "cassandra", "x")

	_, err := execute(t, "migrate", "--env-file", filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "unknown STORE_DRIVER")

	t.Setenv("JWT_SECRET", "")
	_, err = execute(t, "serve", "--env-file", filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestNewEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := sqlstore.New(testutil.OpenSQLite(t))
	engine := NewEngine(store, &config.Config{JWTSecret: "secret", BcryptCost: 4})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/connections/request/{id}")
}
