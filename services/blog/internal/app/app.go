package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog/pkg/cache"
	"blog/pkg/config"
	"blog/pkg/database"
	"blog/pkg/logger"
	"blog/pkg/middleware"
	"blog/pkg/queue"
	"blog/pkg/s3"
	blogHTTP "blog/services/blog/internal/controller/http"
	"blog/services/blog/internal/repo/media"
	"blog/services/blog/internal/repo/persistent"
	"blog/services/blog/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	_ "blog/services/blog/docs" // Swagger docs
)

// multipart framing allowance on top of the image limit
const formOverhead = 1 << 20

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	mongoClient *mongo.Client
	redisClient *redis.Client
	queueClient *queue.Client
	postRepo    persistent.PostRepository
	images      media.ImageStore
	diskStore   *media.DiskStore
	httpServer  *http.Server
}

// NewApp connects the backends selected by cfg. Redis and RabbitMQ are optional and
// are skipped when unreachable.
func NewApp(cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	if err := a.openStorage(); err != nil {
		return nil, err
	}
	if err := a.openImageStore(); err != nil {
		a.closeStorage()
		return nil, err
	}

	if cfg.RedisEnabled() {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Warn("Failed to connect to redis: %v (continuing without cache)", err)
		} else {
			a.redisClient = redisClient
		}
	}

	if cfg.RabbitMQEnabled() {
		queueClient, err := queue.NewRabbitMQClient(cfg, log)
		if err != nil {
			log.Warn("Failed to connect to RabbitMQ: %v (continuing without events)", err)
		} else {
			a.queueClient = queueClient
		}
	}

	return a, nil
}

func (a *App) openStorage() error {
	switch a.cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := database.NewPostgresDB(a.cfg)
		if err != nil {
			a.log.Error("Failed to connect to database: %v", err)
			return err
		}
		a.db = db
		a.postRepo = persistent.NewPostRepository(db)
	case config.StorageMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, db, err := database.NewMongoDB(ctx, a.cfg)
		if err != nil {
			a.log.Error("Failed to connect to MongoDB: %v", err)
			return err
		}
		a.mongoClient = client
		a.postRepo = persistent.NewMongoRepository(db)
	default:
		a.postRepo = persistent.NewFileRepository(a.cfg.PostsFile)
	}

	a.log.Info("Using %s post storage", a.cfg.StorageDriver)
	return nil
}

func (a *App) openImageStore() error {
	if a.cfg.ImageStore == config.ImageStoreS3 {
		s3Client, err := s3.NewClient(a.cfg)
		if err != nil {
			a.log.Error("Failed to create S3 client: %v", err)
			return err
		}
		a.images = media.NewS3Store(s3Client)
		return nil
	}

	diskStore, err := media.NewDiskStore(a.cfg.ImagesDir, a.cfg.ImagesPublicPath)
	if err != nil {
		return fmt.Errorf("failed to prepare image directory: %w", err)
	}
	a.diskStore = diskStore
	a.images = diskStore
	return nil
}

func (a *App) Run() error {
	rules := usecase.Rules{
		MinTitleLength:   a.cfg.PostMinTitleLength,
		MinContentLength: a.cfg.PostMinContentLength,
		MaxImageSize:     a.cfg.MaxImageSize,
	}

	// queueClient is a typed pointer, so only hand it over when connected
	var publisher usecase.EventPublisher
	if a.queueClient != nil {
		publisher = a.queueClient
	}

	postUseCase := usecase.NewPostUseCase(a.postRepo, a.images, a.redisClient, publisher, rules, a.log)

	router, err := NewRouter(a.cfg, a.log, postUseCase, a.redisClient, a.diskStore)
	if err != nil {
		return err
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: router,
	}

	go func() {
		a.log.Info("Blog starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

// NewRouter builds the API, page and feed routes. diskStore is nil when images live
// in S3, in which case nothing is served under the public image path.
func NewRouter(
	cfg *config.Config,
	log *logger.Logger,
	postUseCase usecase.PostUseCase,
	redisClient *redis.Client,
	diskStore *media.DiskStore,
) (*gin.Engine, error) {
	site := blogHTTP.SiteInfo{Title: cfg.SiteTitle, URL: cfg.SiteURL, AuthorName: cfg.AuthorName}

	postHandler := blogHTTP.NewPostHandler(postUseCase, log)
	feedHandler := blogHTTP.NewFeedHandler(postUseCase, log, site, cfg.SnippetLength)
	pageHandler, err := blogHTTP.NewPageHandler(postUseCase, log, blogHTTP.PageConfig{
		Site:           site,
		HomePostLimit:  cfg.HomePostLimit,
		SnippetLength:  cfg.SnippetLength,
		AdminTokenHash: cfg.AdminTokenHash,
	})
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.HandleMethodNotAllowed = true
	r.NoMethod(blogHTTP.MethodNotAllowed)

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.AdminTokenHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if diskStore != nil {
		images := r.Group("", noSniff)
		images.Static(diskStore.PublicPath(), diskStore.Dir())
	}

	bodyLimit := middleware.BodyLimitMiddleware(cfg.MaxImageSize + formOverhead)
	rateLimit := middleware.RateLimitMiddleware(redisClient, cfg.RateLimitPerMinute, time.Minute)

	api := r.Group("/api")
	{
		api.GET("/posts", postHandler.ListPosts)
		api.POST("/posts", bodyLimit, rateLimit, middleware.AdminTokenMiddleware(cfg.AdminTokenHash), postHandler.CreatePost)
		api.GET("/posts/:id", postHandler.GetPost)
	}

	r.GET("/", pageHandler.Home)
	r.GET("/all-posts", pageHandler.AllPosts)
	r.GET("/posts/:id", pageHandler.Post)
	r.GET("/create-post", pageHandler.CreatePostForm)
	r.POST("/create-post", bodyLimit, rateLimit, pageHandler.CreatePostSubmit)
	r.GET("/about", pageHandler.About)
	r.GET("/rss.xml", feedHandler.RSS)
	r.NoRoute(pageHandler.NotFound)

	return r, nil
}

// noSniff stops browsers from second-guessing the type of uploaded files.
func noSniff(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Next()
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down blog...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var shutdownErr error
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			shutdownErr = err
		}
	}

	a.closeStorage()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	a.log.Info("Blog exited")
	return shutdownErr
}

func (a *App) closeStorage() {
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.log.Error("Error closing database: %v", err)
			}
		}
	}

	if a.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.log.Error("Error closing MongoDB: %v", err)
		}
	}
}
