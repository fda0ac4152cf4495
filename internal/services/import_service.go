package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/avolkov/memodeck/internal/apkg"
	"github.com/avolkov/memodeck/internal/entities"
)

// categoryRules derives the deck's system category from note tags. Rules
// are evaluated in order against lower-cased tags; the first keyword hit
// wins. The mapping is deterministic so re-imports land in the same
// category.
var categoryRules = []struct {
	category string
	keywords []string
}{
	{"language", []string{"vocab", "vocabulary", "language", "grammar", "spanish", "french", "german", "japanese"}},
	{"medicine", []string{"anatomy", "pharm", "pharmacology", "med", "medicine", "usmle", "step1", "step2"}},
	{"science", []string{"bio", "biology", "chem", "chemistry", "physics", "math"}},
	{"history", []string{"history", "geography", "geo"}},
	{"tech", []string{"programming", "code", "cs", "computer"}},
}

const defaultCategory = "general"

// ImportResult summarizes what a committed import persisted.
type ImportResult struct {
	DeckID       uint   `json:"deck_id"`
	DeckName     string `json:"deck_name"`
	Category     string `json:"category"`
	CardsCreated int    `json:"cards_created"`
	MediaStored  int    `json:"media_stored"`
	MediaMissing int    `json:"media_missing"`
}

// ImportService is the persistence collaborator behind the APKG
// pipeline: it assigns storage identifiers, stores referenced media and
// rewrites the references to stable URLs, and tags the deck with a
// category label derived from the note tags.
type ImportService struct {
	cards CardStore
	blobs BlobStore
}

func NewImportService(cards CardStore, blobs BlobStore) *ImportService {
	return &ImportService{cards: cards, blobs: blobs}
}

// Commit persists every normalized flashcard of a pipeline result. Media
// files that never resolved to bytes are dropped from the stored card
// with a log line, matching the pipeline's degraded-continue policy.
func (s *ImportService) Commit(result *apkg.Result, media MediaSource) (ImportResult, error) {
	category := CategoryForTags(result.Stats.TagSample)

	deck, err := s.cards.GetOrCreateDeck(result.Stats.Label, category)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to create deck: %w", err)
	}

	summary := ImportResult{
		DeckID:   deck.ID,
		DeckName: deck.Name,
		Category: category,
	}

	// filename -> stored asset, so one attachment shared by many cards
	// is stored once.
	assets := make(map[string]*entities.MediaAsset)

	for _, card := range result.Cards {
		stored := entities.Flashcard{
			ID:           uuid.NewString(),
			DeckID:       deck.ID,
			Front:        card.Front,
			Back:         card.Back,
			Extra:        card.Extra,
			ClozeIndex:   card.ClozeIndex,
			IsCloze:      card.IsCloze,
			SourceNoteID: card.SourceNoteID,
		}

		for _, tagName := range card.Tags {
			tag, err := s.cards.GetOrCreateTag(tagName)
			if err != nil {
				return summary, fmt.Errorf("failed to create tag: %w", err)
			}
			stored.Tags = append(stored.Tags, *tag)
		}

		for _, filename := range card.ReferencedMedia {
			asset, ok := assets[filename]
			if !ok {
				asset = s.storeMedia(filename, media, &summary)
				assets[filename] = asset
			}
			if asset != nil {
				stored.Media = append(stored.Media, *asset)
			}
		}

		if err := s.cards.CreateFlashcard(&stored); err != nil {
			return summary, fmt.Errorf("failed to store flashcard: %w", err)
		}
		summary.CardsCreated++
	}

	return summary, nil
}

// storeMedia resolves and persists one attachment. A nil return means
// the filename never resolved; the card keeps its text but loses the
// media reference.
func (s *ImportService) storeMedia(filename string, media MediaSource, summary *ImportResult) *entities.MediaAsset {
	if media == nil {
		summary.MediaMissing++
		return nil
	}
	data, ok := media.Resolve(filename)
	if !ok {
		log.Printf("import: media %q referenced but not resolvable, dropping reference", filename)
		summary.MediaMissing++
		return nil
	}

	url, err := s.blobs.Store(filename, data)
	if err != nil {
		log.Printf("import: failed to store media %q: %v", filename, err)
		summary.MediaMissing++
		return nil
	}

	asset, err := s.cards.GetOrCreateMediaAsset(filename, url, int64(len(data)))
	if err != nil {
		log.Printf("import: failed to record media asset %q: %v", filename, err)
		summary.MediaMissing++
		return nil
	}
	summary.MediaStored++
	return asset
}

// CategoryForTags maps a tag sample to the deck's system category.
func CategoryForTags(tags []string) string {
	for _, rule := range categoryRules {
		for _, tag := range tags {
			lower := strings.ToLower(tag)
			for _, keyword := range rule.keywords {
				if lower == keyword || strings.HasPrefix(lower, keyword+"::") {
					return rule.category
				}
			}
		}
	}
	return defaultCategory
}
