package app

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/osari-hq/seobot/internal/archive"
	"github.com/osari-hq/seobot/internal/domain"
	"github.com/osari-hq/seobot/internal/generator"
	"github.com/osari-hq/seobot/internal/logger"
	"github.com/osari-hq/seobot/internal/tasks"
)

// Server is the control panel HTTP API. Generation runs in background
// goroutines; the panel hands out task ids and reports their progress.
type Server struct {
	bot   *Bot
	tasks *tasks.Store
	log   logger.Logger
	echo  *echo.Echo
}

// NewServer builds the panel over an initialized bot.
func NewServer(bot *Bot, log logger.Logger) *Server {
	if log == nil {
		log = &logger.NopLogger{}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{
		bot:   bot,
		tasks: tasks.NewStore(),
		log:   log,
		echo:  e,
	}
	s.register(e)
	return s
}

func (s *Server) register(e *echo.Echo) {
	e.GET("/health", s.health)

	api := e.Group("/api")
	api.GET("/topics", s.listTopics)
	api.POST("/generate", s.generate)
	api.GET("/task/:id", s.taskStatus)
	api.GET("/articles", s.listArticles)
	api.GET("/article/:name", s.getArticle)
	api.POST("/publish", s.publishArchived)
}

// Start runs the HTTP server until it fails or is shut down.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (s *Server) listTopics(c echo.Context) error {
	found, err := s.bot.ListTopics(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if found == nil {
		found = []domain.Topic{}
	}
	return c.JSON(http.StatusOK, echo.Map{"topics": found})
}

type generateRequest struct {
	Topic        string   `json:"topic"`
	Description  string   `json:"description"`
	ProductSpecs string   `json:"product_specs"`
	ResearchData string   `json:"research_data"`
	ArticleType  string   `json:"article_type"`
	VideoEmbeds  []string `json:"video_embeds"`
	Publish      bool     `json:"publish"`
	LocalOnly    bool     `json:"local_only"`
}

func (s *Server) generate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	if strings.TrimSpace(req.Topic) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "topic is required"})
	}
	variant := strings.TrimSpace(req.ArticleType)
	switch variant {
	case "", generator.VariantGeneral, generator.VariantExpert:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown article_type"})
	}

	topic := domain.Topic{
		Title:       strings.TrimSpace(req.Topic),
		Description: strings.TrimSpace(req.Description),
		Source:      domain.SourceManual,
	}
	id := s.tasks.Start(topic.Title)

	// The request context dies with the response; the job keeps its own.
	go func() {
		ctx := context.Background()
		res, err := s.bot.ProcessTopicWith(ctx, topic, GenerateOptions{
			ProductSpecs: req.ProductSpecs,
			ResearchData: req.ResearchData,
			Variant:      variant,
			VideoEmbeds:  req.VideoEmbeds,
			Publish:      req.Publish,
			LocalOnly:    req.LocalOnly,
		})
		if err != nil {
			s.tasks.Fail(id, err)
			return
		}
		s.tasks.Done(id, res.Entry.URL, []string{res.ArchiveFile})
	}()

	return c.JSON(http.StatusAccepted, echo.Map{"task_id": id})
}

func (s *Server) taskStatus(c echo.Context) error {
	task, ok := s.tasks.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) listArticles(c echo.Context) error {
	entries, err := archive.List(s.bot.cfg.ArchiveDir)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if entries == nil {
		entries = []archive.Entry{}
	}
	return c.JSON(http.StatusOK, echo.Map{"articles": entries})
}

func (s *Server) getArticle(c echo.Context) error {
	article, err := archive.Load(s.bot.cfg.ArchiveDir, c.Param("name"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, article)
}

type publishRequest struct {
	Name    string `json:"name"`
	Publish bool   `json:"publish"`
}

// publishArchived republishes an article from the local archive without
// regenerating it.
func (s *Server) publishArchived(c echo.Context) error {
	var req publishRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	article, err := archive.Load(s.bot.cfg.ArchiveDir, req.Name)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}

	id := s.tasks.Start(article.Title)
	go func() {
		ctx := context.Background()
		photoPaths, err := s.bot.library.Pick(s.bot.cfg.PhotosPerArticle)
		if err != nil {
			photoPaths = nil
		}
		entry, err := s.bot.client.PublishArticle(ctx, article, photoPaths, req.Publish)
		if err != nil {
			s.tasks.Fail(id, err)
			return
		}
		s.tasks.Done(id, entry.URL, nil)
	}()

	return c.JSON(http.StatusAccepted, echo.Map{"task_id": id})
}
