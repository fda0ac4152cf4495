// Package flashcards persists imported decks, cards, tags and media
// associations.
package flashcards

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/avolkov/memodeck/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreateDeck finds a deck by name or creates it with the given
// category label.
func (r *Repository) GetOrCreateDeck(name, category string) (*entities.Deck, error) {
	var deck entities.Deck
	err := r.db.Where("name = ?", name).First(&deck).Error
	if err == nil {
		return &deck, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	deck = entities.Deck{Name: name, Category: category}
	if err := r.db.Create(&deck).Error; err != nil {
		return nil, fmt.Errorf("create deck %q: %w", name, err)
	}
	return &deck, nil
}

// GetOrCreateTag finds a tag case-insensitively or creates it.
func (r *Repository) GetOrCreateTag(name string) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	tag = entities.Tag{Name: name}
	if err := r.db.Create(&tag).Error; err != nil {
		return nil, fmt.Errorf("create tag %q: %w", name, err)
	}
	return &tag, nil
}

// GetOrCreateMediaAsset records a stored attachment by filename.
func (r *Repository) GetOrCreateMediaAsset(filename, url string, size int64) (*entities.MediaAsset, error) {
	var asset entities.MediaAsset
	err := r.db.Where("filename = ?", filename).First(&asset).Error
	if err == nil {
		return &asset, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	asset = entities.MediaAsset{Filename: filename, URL: url, SizeBytes: size}
	if err := r.db.Create(&asset).Error; err != nil {
		return nil, fmt.Errorf("create media asset %q: %w", filename, err)
	}
	return &asset, nil
}

// CreateFlashcard persists one card with its tag and media associations.
func (r *Repository) CreateFlashcard(card *entities.Flashcard) error {
	if err := r.db.Create(card).Error; err != nil {
		return fmt.Errorf("create flashcard %s: %w", card.ID, err)
	}
	return nil
}

// ListDecks returns every deck, newest first.
func (r *Repository) ListDecks() ([]entities.Deck, error) {
	var decks []entities.Deck
	err := r.db.Order("created_at DESC").Find(&decks).Error
	return decks, err
}

// GetDeck loads one deck by ID.
func (r *Repository) GetDeck(id uint) (*entities.Deck, error) {
	var deck entities.Deck
	if err := r.db.First(&deck, id).Error; err != nil {
		return nil, err
	}
	return &deck, nil
}

// CountByDeck returns how many cards a deck holds.
func (r *Repository) CountByDeck(deckID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Flashcard{}).Where("deck_id = ?", deckID).Count(&count).Error
	return count, err
}

// ListByDeck returns a page of cards for a deck, oldest import first.
func (r *Repository) ListByDeck(deckID uint, limit, offset int) ([]entities.Flashcard, error) {
	var cards []entities.Flashcard
	err := r.db.
		Preload("Tags").
		Preload("Media").
		Where("deck_id = ?", deckID).
		Order("source_note_id, cloze_index").
		Limit(limit).
		Offset(offset).
		Find(&cards).Error
	return cards, err
}
