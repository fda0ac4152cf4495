package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avolkov/memodeck/internal/apkg"
	"github.com/avolkov/memodeck/internal/config"
	"github.com/avolkov/memodeck/internal/database/sessions"
	"github.com/avolkov/memodeck/internal/entities"
	"github.com/avolkov/memodeck/internal/tasks"
)

const (
	importModePreview = "preview"
	importModeCommit  = "commit"

	// Form field carrying the uploaded archive
	uploadFieldName = "apkg_file"
)

// PreviewCard is the JSON shape of one normalized card in a preview
// response.
type PreviewCard struct {
	Front        string   `json:"front"`
	Back         string   `json:"back"`
	Extra        string   `json:"extra,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Media        []string `json:"media,omitempty"`
	ClozeIndex   int      `json:"cloze_index,omitempty"`
	IsCloze      bool     `json:"is_cloze"`
	SourceNoteID int64    `json:"source_note_id"`
}

// PreviewResponse is returned for mode=preview: aggregate stats plus a
// capped sample of the cards the import would create. Nothing persists.
type PreviewResponse struct {
	Stats      apkg.ImportStats `json:"stats"`
	Cards      []PreviewCard    `json:"cards"`
	TotalCards int              `json:"total_cards"`
}

// CommitResponse is returned for mode=commit: the upload was accepted
// and queued, poll the session for progress.
type CommitResponse struct {
	SessionID uint   `json:"session_id"`
	Status    string `json:"status"`
}

// APKGImportController handles Anki APKG archive uploads.
type APKGImportController struct {
	sessions       *sessions.Repository
	taskClient     *tasks.Client
	uploadsDir     string
	maxUploadBytes int64
	previewCardCap int
}

func NewAPKGImportController(cfg RouterConfig) *APKGImportController {
	return &APKGImportController{
		sessions:       cfg.Sessions,
		taskClient:     cfg.TaskClient,
		uploadsDir:     cfg.UploadsDir,
		maxUploadBytes: cfg.MaxUploadBytes,
		previewCardCap: cfg.PreviewCardCap,
	}
}

// Import handles POST /import/apkg. mode=preview (the default) runs the
// pipeline in memory and returns stats without persisting anything;
// mode=commit spills the upload to disk and queues a background import.
func (controller *APKGImportController) Import(c *gin.Context) {
	fileHeader, err := c.FormFile(uploadFieldName)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "missing upload field '" + uploadFieldName + "'"})
		return
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), config.APKGExtension) {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "only " + config.APKGExtension + " files are accepted"})
		return
	}

	if controller.maxUploadBytes > 0 && fileHeader.Size > controller.maxUploadBytes {
		c.IndentedJSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file exceeds the %d byte upload limit", controller.maxUploadBytes),
		})
		return
	}

	mode := c.DefaultPostForm("mode", importModePreview)
	switch mode {
	case importModePreview:
		controller.preview(c, fileHeader)
	case importModeCommit:
		controller.commit(c, fileHeader)
	default:
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "mode must be 'preview' or 'commit'"})
	}
}

// preview runs the full pipeline over the upload without touching
// storage.
func (controller *APKGImportController) preview(c *gin.Context, fileHeader *multipart.FileHeader) {
	buf, err := readUpload(fileHeader)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload: " + err.Error()})
		return
	}

	result, err := apkg.Import(c.Request.Context(), buf, nil)
	if err != nil {
		status, message := classifyPipelineError(err)
		c.IndentedJSON(status, gin.H{"error": message})
		return
	}

	limit := controller.previewCardCap
	if limit <= 0 || limit > len(result.Cards) {
		limit = len(result.Cards)
	}

	cards := make([]PreviewCard, 0, limit)
	for _, card := range result.Cards[:limit] {
		cards = append(cards, PreviewCard{
			Front:        card.Front,
			Back:         card.Back,
			Extra:        card.Extra,
			Tags:         card.Tags,
			Media:        card.ReferencedMedia,
			ClozeIndex:   card.ClozeIndex,
			IsCloze:      card.IsCloze,
			SourceNoteID: card.SourceNoteID,
		})
	}

	c.IndentedJSON(http.StatusOK, PreviewResponse{
		Stats:      result.Stats,
		Cards:      cards,
		TotalCards: len(result.Cards),
	})
}

// commit spills the upload next to the database and queues the import.
func (controller *APKGImportController) commit(c *gin.Context, fileHeader *multipart.FileHeader) {
	if controller.taskClient == nil {
		c.IndentedJSON(http.StatusServiceUnavailable, gin.H{"error": "background processing is disabled, use mode=preview"})
		return
	}

	if err := os.MkdirAll(controller.uploadsDir, 0o755); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare uploads directory: " + err.Error()})
		return
	}

	spillPath := filepath.Join(controller.uploadsDir, uuid.NewString()+config.APKGExtension)
	if err := c.SaveUploadedFile(fileHeader, spillPath); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload: " + err.Error()})
		return
	}

	session := &entities.ImportSession{
		Filename:   filepath.Base(fileHeader.Filename),
		UploadPath: spillPath,
	}
	if err := controller.sessions.Create(session); err != nil {
		os.Remove(spillPath)
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": "failed to create import session: " + err.Error()})
		return
	}

	task := tasks.ImportAPKGTask{
		SessionID: session.ID,
		Path:      spillPath,
	}
	if _, err := controller.taskClient.Add(task).Save(); err != nil {
		failure := fmt.Errorf("failed to queue import: %w", err)
		_ = controller.sessions.MarkFailed(session.ID, failure)
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": failure.Error()})
		return
	}

	c.IndentedJSON(http.StatusAccepted, CommitResponse{
		SessionID: session.ID,
		Status:    string(entities.ImportStatusPending),
	})
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// classifyPipelineError maps pipeline failures to HTTP statuses: fatal
// format errors are the client's fault, everything else is ours.
func classifyPipelineError(err error) (int, string) {
	switch {
	case errors.Is(err, apkg.ErrNotAZip),
		errors.Is(err, apkg.ErrNoDatabase),
		errors.Is(err, apkg.ErrUnrecognizedSchema):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
