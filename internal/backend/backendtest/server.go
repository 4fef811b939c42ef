// Package backendtest runs the real API in-process for client tests.
package backendtest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/timmy/learnx/internal/api"
	"github.com/timmy/learnx/internal/api/middleware"
	"github.com/timmy/learnx/internal/config"
	"github.com/timmy/learnx/internal/gateway"
	"github.com/timmy/learnx/internal/realtime"
	"github.com/timmy/learnx/internal/repository"
	"github.com/timmy/learnx/internal/service"
)

// ProjectKey is the key the test server accepts.
const ProjectKey = "project-key"

// NewServer starts the API backed by in-memory sqlite and a fake gateway that
// answers every completion with status and body. It returns the base URL.
func NewServer(t testing.TB, status int, body string) string {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(upstream.Close)

	db, err := repository.InitDB(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         "file::memory:",
		MaxOpenConns: 1,
		AutoMigrate:  true,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}

	hub := realtime.NewHub(8)
	router := api.SetupRouter(&api.RouterConfig{
		Mode:       "test",
		ProjectKey: ProjectKey,
		CORS:       middleware.CORSConfig{AllowAllOrigins: true},
		DB:         db,
		Functions: service.NewFunctionService(
			gateway.NewClient(&gateway.Config{BaseURL: upstream.URL, APIKey: "gateway-key"}),
			&service.FunctionConfig{TextModel: "google/gemini-2.5-flash", ImageModel: "google/gemini-2.5-flash-image-preview"},
		),
		Gallery: service.NewGalleryService(repository.NewImageRepository(db, hub), nil),
		Hub:     hub,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
		sqlDB.Close()
	})
	return srv.URL
}
