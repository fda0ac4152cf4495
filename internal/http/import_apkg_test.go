package http

import (
	"archive/zip"
	"bytes"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildAPKG produces a minimal modern-schema archive with one Basic note
// per front/back pair.
func buildAPKG(t *testing.T, deckName string, notes [][2]string) []byte {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "collection.db")
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)

	mustExec := func(query string, args ...any) {
		_, err := db.Exec(query, args...)
		require.NoError(t, err)
	}
	mustExec(`CREATE TABLE notetypes (id INTEGER PRIMARY KEY, name TEXT)`)
	mustExec(`CREATE TABLE fields (ntid INTEGER, ord INTEGER, name TEXT)`)
	mustExec(`CREATE TABLE decks (id INTEGER PRIMARY KEY, name TEXT)`)
	mustExec(`CREATE TABLE notes (
		id INTEGER PRIMARY KEY, guid TEXT, mid INTEGER, mod INTEGER,
		tags TEXT, flds TEXT, sfld TEXT
	)`)
	mustExec(`CREATE TABLE cards (
		id INTEGER PRIMARY KEY, nid INTEGER, did INTEGER, ord INTEGER,
		ivl INTEGER, factor INTEGER, lapses INTEGER
	)`)
	mustExec(`INSERT INTO notetypes (id, name) VALUES (1, 'Basic')`)
	mustExec(`INSERT INTO fields (ntid, ord, name) VALUES (1, 0, 'Front'), (1, 1, 'Back')`)
	mustExec(`INSERT INTO decks (id, name) VALUES (1, 'Default'), (2, ?)`, deckName)
	for i, note := range notes {
		id := int64(i + 1)
		mustExec(`INSERT INTO notes (id, guid, mid, mod, tags, flds, sfld) VALUES (?, 'g', 1, 0, '', ?, '')`,
			id, note[0]+"\x1f"+note[1])
		mustExec(`INSERT INTO cards (id, nid, did, ord, ivl, factor, lapses) VALUES (?, ?, 2, 0, 0, 2500, 0)`,
			id, id)
	}
	require.NoError(t, db.Close())

	dbBytes, err := os.ReadFile(dbPath)
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entry, err := zw.Create("collection.anki21")
	require.NoError(t, err)
	_, err = entry.Write(dbBytes)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// multipartUpload builds a request body with the archive under the given
// field name plus optional extra form values.
func multipartUpload(t *testing.T, field, filename string, content []byte, form map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	for key, value := range form {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func setupImportRouter(t *testing.T, cfg RouterConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	controller := NewAPKGImportController(cfg)
	router := gin.New()
	router.POST("/import/apkg", controller.Import)
	return router
}

func TestAPKGImportController_Preview(t *testing.T) {
	router := setupImportRouter(t, RouterConfig{PreviewCardCap: 10})

	archive := buildAPKG(t, "European Capitals", [][2]string{
		{"Paris", "Capital of France"},
		{"Berlin", "Capital of Germany"},
	})
	body, contentType := multipartUpload(t, "apkg_file", "capitals.apkg", archive, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/import/apkg", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response PreviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "European Capitals", response.Stats.Label)
	assert.Equal(t, 2, response.Stats.CardCount)
	assert.Equal(t, 2, response.TotalCards)
	require.Len(t, response.Cards, 2)
	assert.Equal(t, "Paris", response.Cards[0].Front)
}

func TestAPKGImportController_PreviewCapsCardSample(t *testing.T) {
	router := setupImportRouter(t, RouterConfig{PreviewCardCap: 1})

	archive := buildAPKG(t, "Caps", [][2]string{
		{"Paris", "France"},
		{"Berlin", "Germany"},
		{"Madrid", "Spain"},
	})
	body, contentType := multipartUpload(t, "apkg_file", "caps.apkg", archive, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/import/apkg", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response PreviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Cards, 1)
	assert.Equal(t, 3, response.TotalCards)
}

func TestAPKGImportController_RejectsMissingFile(t *testing.T) {
	router := setupImportRouter(t, RouterConfig{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/import/apkg", bytes.NewBufferString(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPKGImportController_RejectsWrongExtension(t *testing.T) {
	router := setupImportRouter(t, RouterConfig{})

	body, contentType := multipartUpload(t, "apkg_file", "cards.zip", []byte("data"), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/import/apkg", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ".apkg")
}

func TestAPKGImportController_RejectsOversizedUpload(t *testing.T) {
	router := setupImportRouter(t, RouterConfig{MaxUploadBytes: 8})

	body, contentType := multipartUpload(t, "apkg_file", "big.apkg", bytes.Repeat([]byte("a"), 64), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/import/apkg", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestAPKGImportController_RejectsNonZipPayload(t *testing.T) {
	router := setupImportRouter(t, RouterConfig{})

	body, contentType := multipartUpload(t, "apkg_file", "broken.apkg", []byte("this is not a zip"), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/import/apkg", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAPKGImportController_RejectsUnknownMode(t *testing.T) {
	router := setupImportRouter(t, RouterConfig{})

	archive := buildAPKG(t, "Deck", [][2]string{{"a", "b"}})
	body, contentType := multipartUpload(t, "apkg_file", "deck.apkg", archive, map[string]string{"mode": "dryrun"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/import/apkg", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "mode")
}

func TestAPKGImportController_CommitWithoutTaskQueue(t *testing.T) {
	router := setupImportRouter(t, RouterConfig{UploadsDir: t.TempDir()})

	archive := buildAPKG(t, "Deck", [][2]string{{"a", "b"}})
	body, contentType := multipartUpload(t, "apkg_file", "deck.apkg", archive, map[string]string{"mode": "commit"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/import/apkg", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
