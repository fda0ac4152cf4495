package services

import "github.com/avolkov/memodeck/internal/entities"

// CardStore is the subset of the flashcards repository the import
// service needs.
type CardStore interface {
	GetOrCreateDeck(name, category string) (*entities.Deck, error)
	GetOrCreateTag(name string) (*entities.Tag, error)
	GetOrCreateMediaAsset(filename, url string, size int64) (*entities.MediaAsset, error)
	CreateFlashcard(card *entities.Flashcard) error
}

// BlobStore persists attachment bytes and returns a stable URL.
type BlobStore interface {
	Store(filename string, data []byte) (string, error)
}

// MediaSource resolves an original attachment filename to its bytes.
// The APKG pipeline's media resolver implements this.
type MediaSource interface {
	Resolve(filename string) ([]byte, bool)
}
