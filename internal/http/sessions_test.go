package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/memodeck/internal/database"
	"github.com/avolkov/memodeck/internal/database/flashcards"
	"github.com/avolkov/memodeck/internal/database/sessions"
	"github.com/avolkov/memodeck/internal/entities"
)

func setupControllerDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestSessionsController_Get(t *testing.T) {
	db, cleanup := setupControllerDB(t)
	defer cleanup()

	repo := sessions.NewRepository(db.DB)
	session := &entities.ImportSession{Filename: "geo.apkg"}
	require.NoError(t, repo.Create(session))

	controller := NewSessionsController(repo)
	router := gin.New()
	router.GET("/import/sessions/:id", controller.Get)

	t.Run("returns the session", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/import/sessions/1", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var loaded entities.ImportSession
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
		assert.Equal(t, "geo.apkg", loaded.Filename)
		assert.Equal(t, entities.ImportStatusPending, loaded.Status)
	})

	t.Run("404 for unknown session", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/import/sessions/999", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("400 for non-numeric ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/import/sessions/latest", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDecksController(t *testing.T) {
	db, cleanup := setupControllerDB(t)
	defer cleanup()

	repo := flashcards.NewRepository(db.DB)
	deck, err := repo.GetOrCreateDeck("World Capitals", "general")
	require.NoError(t, err)
	require.NoError(t, repo.CreateFlashcard(&entities.Flashcard{
		ID:           "00000000-0000-0000-0000-000000000001",
		DeckID:       deck.ID,
		Front:        "Paris",
		Back:         "France",
		SourceNoteID: 1,
	}))

	controller := NewDecksController(repo)
	router := gin.New()
	router.GET("/api/decks", controller.List)
	router.GET("/api/decks/:id/cards", controller.Cards)

	t.Run("lists decks with card counts", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/decks", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var summaries []DeckSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
		require.Len(t, summaries, 1)
		assert.Equal(t, "World Capitals", summaries[0].Name)
		assert.Equal(t, int64(1), summaries[0].CardCount)
	})

	t.Run("lists deck cards", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/decks/1/cards", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Paris")
	})

	t.Run("404 for unknown deck", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/decks/99/cards", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
