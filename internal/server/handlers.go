package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/wordweave/internal/articlecache"
	"github.com/example/wordweave/internal/database"
	"github.com/example/wordweave/internal/importer"
	"github.com/example/wordweave/internal/mastery"
	"github.com/example/wordweave/pkg/models"
)

type handler struct {
	articles ArticleResolver
	mastery  MasteryService
	words    WordStore
	importer WordImporter
	log      *slog.Logger
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type resolveArticleRequest struct {
	WordIDs []int64 `json:"word_ids" binding:"required"`
}

func (h *handler) resolveArticle(c *gin.Context) {
	var req resolveArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	key, err := articlecache.BuildKey(req.WordIDs)
	if err != nil {
		h.writeError(c, err)
		return
	}
	// The canonical key is the deduplicated ID set; resolve those words.
	ids, err := articlecache.ParseKey(key)
	if err != nil {
		h.writeError(c, err)
		return
	}

	words, err := h.words.GetByIDs(c.Request.Context(), ids)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if len(words) != len(ids) {
		h.writeError(c, articlecache.ErrUnknownWord)
		return
	}

	article, err := h.articles.Resolve(c.Request.Context(), words)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"key":         article.Key,
		"text":        article.Text,
		"blank_count": article.BlankCount,
		"words":       words,
	})
}

func (h *handler) cacheStats(c *gin.Context) {
	stats, err := h.articles.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handler) listWords(c *gin.Context) {
	words, err := h.words.GetAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": words, "count": len(words)})
}

func (h *handler) searchWords(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}
	words, err := h.words.Search(c.Request.Context(), query)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": words, "count": len(words)})
}

func (h *handler) getWord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	word, err := h.words.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, word)
}

type wordRequest struct {
	Word        string `json:"word" binding:"required"`
	Translation string `json:"translation" binding:"required"`
	Definition  string `json:"definition"`
}

func (h *handler) createWord(c *gin.Context) {
	var req wordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	word := &models.Word{Word: req.Word, Translation: req.Translation, Definition: req.Definition}
	if err := h.words.Create(c.Request.Context(), word); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, word)
}

func (h *handler) updateWord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req wordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	word := &models.Word{ID: id, Word: req.Word, Translation: req.Translation, Definition: req.Definition}
	if err := h.words.Update(c.Request.Context(), word); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, word)
}

func (h *handler) deleteWord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.words.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type importRequest struct {
	FilePath  string `json:"file_path" binding:"required"`
	SheetName string `json:"sheet_name"`
	StartRow  int    `json:"start_row"`
}

func (h *handler) importWords(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	config := importer.DefaultImportConfig()
	config.FilePath = req.FilePath
	if req.SheetName != "" {
		config.SheetName = req.SheetName
	}
	if req.StartRow > 0 {
		config.StartRow = req.StartRow
	}
	result, err := h.importer.ImportWords(c.Request.Context(), config)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type saveWordRequest struct {
	WordID int64 `json:"word_id" binding:"required"`
}

func (h *handler) saveWord(c *gin.Context) {
	userID, ok := pathID(c, "userID")
	if !ok {
		return
	}
	var req saveWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.mastery.SaveWord(c.Request.Context(), userID, req.WordID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "word_id": req.WordID, "bucket": models.BucketNeedsWork})
}

func (h *handler) quizWords(c *gin.Context) {
	userID, ok := pathID(c, "userID")
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	words, err := h.mastery.SelectForQuiz(c.Request.Context(), userID, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": words, "count": len(words)})
}

type quizResultRequest struct {
	WordID    int64 `json:"word_id" binding:"required"`
	IsCorrect *bool `json:"is_correct" binding:"required"`
}

func (h *handler) recordQuizResult(c *gin.Context) {
	userID, ok := pathID(c, "userID")
	if !ok {
		return
	}
	var req quizResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	bucket, err := h.mastery.RecordResult(c.Request.Context(), userID, req.WordID, *req.IsCorrect)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"word_id": req.WordID, "new_bucket": bucket})
}

func (h *handler) completeQuiz(c *gin.Context) {
	userID, ok := pathID(c, "userID")
	if !ok {
		return
	}
	if err := h.mastery.CompleteQuiz(c.Request.Context(), userID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) dailyStats(c *gin.Context) {
	userID, ok := pathID(c, "userID")
	if !ok {
		return
	}
	stats, err := h.mastery.DailyStats(c.Request.Context(), userID, c.Query("day"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// pathID parses a positive int64 path parameter, writing a 400 on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// writeError maps domain errors to HTTP status codes.
func (h *handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, articlecache.ErrEmptyWordSet),
		errors.Is(err, articlecache.ErrUnknownWord),
		errors.Is(err, mastery.ErrInvalidDay):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
