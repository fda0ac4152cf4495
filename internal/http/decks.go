package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avolkov/memodeck/internal/database/flashcards"
	"github.com/avolkov/memodeck/internal/entities"
)

const defaultCardPageSize = 50

// DeckSummary is one deck plus its card count.
type DeckSummary struct {
	entities.Deck
	CardCount int64 `json:"card_count"`
}

// DecksController exposes read access to imported decks and their cards.
type DecksController struct {
	flashcards *flashcards.Repository
}

func NewDecksController(repo *flashcards.Repository) *DecksController {
	return &DecksController{flashcards: repo}
}

// List handles GET /api/decks
func (controller *DecksController) List(c *gin.Context) {
	decks, err := controller.flashcards.ListDecks()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summaries := make([]DeckSummary, 0, len(decks))
	for _, deck := range decks {
		count, err := controller.flashcards.CountByDeck(deck.ID)
		if err != nil {
			c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		summaries = append(summaries, DeckSummary{Deck: deck, CardCount: count})
	}

	c.IndentedJSON(http.StatusOK, summaries)
}

// Cards handles GET /api/decks/:id/cards with limit/offset pagination.
func (controller *DecksController) Cards(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid deck ID"})
		return
	}

	deck, err := controller.flashcards.GetDeck(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.IndentedJSON(http.StatusNotFound, gin.H{"error": "deck not found"})
			return
		}
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultCardPageSize)))
	if limit <= 0 {
		limit = defaultCardPageSize
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	cards, err := controller.flashcards.ListByDeck(deck.ID, limit, offset)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"deck":   deck,
		"cards":  cards,
		"limit":  limit,
		"offset": offset,
	})
}
