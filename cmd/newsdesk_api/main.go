package main

import (
	"log/slog"
	"os"

	"github.com/vartahub/newsdesk/internal/articles"
	"github.com/vartahub/newsdesk/internal/auth"
	"github.com/vartahub/newsdesk/internal/creators"
	"github.com/vartahub/newsdesk/internal/editorial"
	"github.com/vartahub/newsdesk/internal/media"
	"github.com/vartahub/newsdesk/internal/newsfeed"
	"github.com/vartahub/newsdesk/internal/oracle"
	"github.com/vartahub/newsdesk/internal/questions"
	"github.com/vartahub/newsdesk/internal/router"
	"github.com/vartahub/newsdesk/internal/server"
	"github.com/vartahub/newsdesk/internal/stories"
	"github.com/vartahub/newsdesk/internal/storage/pg"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelInfo)
	logger := slog.Default()

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	cfg, err := LoadAppConfig()
	if err != nil {
		slog.Error("Failed to load app config", "error", err)
		os.Exit(1)
	}

	s := server.New(sCfg).
		SetupMiddlewares().
		SetupErrorHandler()

	pool, err := pg.NewConnectionPool(s.Context(), pg.PoolConfig{ConnStr: cfg.DatabaseURL})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	s.SetupHealthChecks("/health", pool)

	storyStore := pg.NewStoryStore(pool)
	questionStore := pg.NewQuestionStore(pool)
	answerStore := pg.NewAnswerStore(pool)
	articleStore := pg.NewArticleStore(pool)
	locationStore := pg.NewLocationStore(pool)
	rawStore := pg.NewRawStoryStore(pool)
	userStore := pg.NewUserStore(pool)

	generator, err := oracle.NewGeminiGenerator(s.Context(), cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		slog.Error("Failed to create generation client", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authn := auth.NewAuthenticator(tokens, userStore)
	authService := auth.NewService(userStore, tokens, logger)

	storyService := stories.NewService(storyStore, questionStore, answerStore, articleStore, logger)
	questionGen := questions.NewGenerator(storyStore, questionStore, generator, logger)
	synthesizer := articles.NewSynthesizer(storyStore, answerStore, articleStore, generator, logger)
	workflow := editorial.NewWorkflow(articleStore, logger)
	creatorService := creators.NewService(userStore, logger)

	fetcher := newsfeed.NewSearchFetcher(cfg.NewsSearchURL, cfg.NewsSearchKey, nil, logger)
	scheduler := newsfeed.NewScheduler(locationStore, rawStore, fetcher, logger)

	feedSources, err := newsfeed.LoadFeedSources(cfg.FeedSources)
	if err != nil {
		slog.Warn("Feed sources unavailable, rss endpoint serves nothing", "error", err)
	}
	aggregator := newsfeed.NewAggregator(feedSources, logger)

	router.NewAuthRouter(s.Echo, authService).Bind()
	router.NewCreatorsRouter(s.Echo, authn, creatorService).Bind()
	router.NewAdminRouter(s.Echo, authn, creatorService).Bind()
	router.NewStoriesRouter(s.Echo, authn, storyService, questionGen, synthesizer).Bind()
	router.NewEditorRouter(s.Echo, authn, workflow).Bind()
	router.NewNewsRouter(s.Echo, scheduler, aggregator, articleStore).Bind()

	if cfg.S3Enabled {
		mediaStore, err := media.NewStore(s.Context(), cfg.S3Bucket, cfg.S3Region, logger)
		if err != nil {
			slog.Error("Failed to create media store", "error", err)
			os.Exit(1)
		}
		router.NewMediaRouter(s.Echo, authn, mediaStore).Bind()
	} else {
		slog.Info("S3 bucket not configured, media routes disabled")
	}

	if err := s.Start(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
