package entities

import (
	"time"

	"gorm.io/gorm"
)

type ImportStatus string

const (
	ImportStatusPending   ImportStatus = "pending"
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// Deck is a named collection of imported flashcards. Its name comes from
// the import pipeline's label heuristic.
type Deck struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"index;size:512" json:"name"`
	Category  string         `gorm:"index;size:100" json:"category,omitempty"`
	Cards     []Flashcard    `gorm:"foreignKey:DeckID" json:"cards,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Flashcard is one reviewable card produced by an import. Cloze notes
// yield several Flashcards sharing a SourceNoteID.
type Flashcard struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"` // UUID assigned at persistence time
	DeckID uint   `gorm:"index" json:"deck_id"`
	Deck   Deck   `gorm:"foreignKey:DeckID" json:"-"`

	Front string `gorm:"type:text" json:"front"`
	Back  string `gorm:"type:text" json:"back"`
	Extra string `gorm:"type:text" json:"extra,omitempty"`

	ClozeIndex   int   `json:"cloze_index,omitempty"` // 0 for non-cloze cards
	IsCloze      bool  `gorm:"default:false" json:"is_cloze"`
	SourceNoteID int64 `gorm:"index" json:"source_note_id"`

	Tags  []Tag        `gorm:"many2many:flashcard_tags;" json:"tags,omitempty"`
	Media []MediaAsset `gorm:"many2many:flashcard_media;" json:"media,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MediaAsset is one stored attachment: the original filename from the
// archive plus the stable URL the media store rewrote it to.
type MediaAsset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Filename  string    `gorm:"index;size:512" json:"filename"`
	URL       string    `gorm:"size:1024" json:"url"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// ImportSession tracks one upload through the pipeline so the UI can poll
// progress and show the preview stats afterwards.
type ImportSession struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Status         ImportStatus `gorm:"size:20;default:'pending'" json:"status"`
	Filename       string       `gorm:"size:512" json:"filename"`
	UploadPath     string       `gorm:"size:1024" json:"-"`
	DeckLabel      string       `gorm:"size:512" json:"deck_label,omitempty"`
	NotesProcessed int          `json:"notes_processed"`
	NotesTotal     int          `json:"notes_total"`
	CardsCreated   int          `json:"cards_created"`
	NotesSkipped   int          `json:"notes_skipped"`
	MediaStored    int          `json:"media_stored"`
	Error          string       `gorm:"type:text" json:"error,omitempty"`
	StartedAt      time.Time    `json:"started_at"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
}

func (Deck) TableName() string          { return "decks" }
func (Flashcard) TableName() string     { return "flashcards" }
func (Tag) TableName() string           { return "tags" }
func (MediaAsset) TableName() string    { return "media_assets" }
func (ImportSession) TableName() string { return "import_sessions" }
