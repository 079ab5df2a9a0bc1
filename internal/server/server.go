// Package server exposes the HTTP API.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/wordweave/internal/articlecache"
	"github.com/example/wordweave/internal/importer"
	"github.com/example/wordweave/pkg/models"
)

// ArticleResolver resolves word sets into cached fill-in-the-blank articles.
type ArticleResolver interface {
	Resolve(ctx context.Context, words []models.Word) (articlecache.Article, error)
	Stats(ctx context.Context) (articlecache.CacheStats, error)
}

// MasteryService applies quiz outcomes and selects quiz words.
type MasteryService interface {
	SaveWord(ctx context.Context, userID, wordID int64) error
	RecordResult(ctx context.Context, userID, wordID int64, isCorrect bool) (models.Bucket, error)
	SelectForQuiz(ctx context.Context, userID int64, maxWords int) ([]models.QuizWord, error)
	CompleteQuiz(ctx context.Context, userID int64) error
	DailyStats(ctx context.Context, userID int64, day string) (*models.DailyAggregate, error)
}

// WordStore is the word catalog consumed by the handlers.
type WordStore interface {
	GetAll(ctx context.Context) ([]models.Word, error)
	GetByID(ctx context.Context, id int64) (*models.Word, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.Word, error)
	Create(ctx context.Context, word *models.Word) error
	Update(ctx context.Context, word *models.Word) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string) ([]models.Word, error)
}

// WordImporter bulk-loads words from spreadsheet files.
type WordImporter interface {
	ImportWords(ctx context.Context, config importer.ImportConfig) (*importer.ImportResult, error)
}

// Server hosts the HTTP API.
type Server struct {
	httpServer *http.Server
	log        *slog.Logger
}

// New builds the server and registers all routes.
func New(addr string, articles ArticleResolver, mastery MasteryService, words WordStore, imp WordImporter, log *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	h := &handler{
		articles: articles,
		mastery:  mastery,
		words:    words,
		importer: imp,
		log:      log,
	}
	h.registerRoutes(router)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

func (h *handler) registerRoutes(router *gin.Engine) {
	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/articles/resolve", h.resolveArticle)
		api.GET("/cache/stats", h.cacheStats)

		api.GET("/words", h.listWords)
		api.GET("/words/search", h.searchWords)
		api.GET("/words/:id", h.getWord)
		api.POST("/words", h.createWord)
		api.PUT("/words/:id", h.updateWord)
		api.DELETE("/words/:id", h.deleteWord)
		api.POST("/words/import", h.importWords)

		users := api.Group("/users/:userID")
		{
			users.POST("/words", h.saveWord)
			users.GET("/quiz/words", h.quizWords)
			users.POST("/quiz/results", h.recordQuizResult)
			users.POST("/quiz/complete", h.completeQuiz)
			users.GET("/stats/daily", h.dailyStats)
		}
	}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
