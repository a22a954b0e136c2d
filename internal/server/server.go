package server

import (
	"context"
	"net/http"
	"time"

	"anoa.com/folio/internal/bootstrap"
	"anoa.com/folio/internal/config"
	"anoa.com/folio/internal/middleware"
	"anoa.com/folio/internal/ordering"
	"anoa.com/folio/internal/validation"
	"anoa.com/folio/pkg/cache"
	"anoa.com/folio/pkg/ratelimiter"
	validatorPkg "anoa.com/folio/pkg/validator"

	accountHttp "anoa.com/folio/internal/modules/account/delivery/http"
	accountRepo "anoa.com/folio/internal/modules/account/repository"
	accountService "anoa.com/folio/internal/modules/account/service"

	profileHttp "anoa.com/folio/internal/modules/profile/delivery/http"
	profileRepo "anoa.com/folio/internal/modules/profile/repository"
	profileService "anoa.com/folio/internal/modules/profile/service"

	resourceHttp "anoa.com/folio/internal/modules/resource/delivery/http"
	"anoa.com/folio/internal/modules/resource/kind"
	resourceRepo "anoa.com/folio/internal/modules/resource/repository"
	resourceService "anoa.com/folio/internal/modules/resource/service"

	postHttp "anoa.com/folio/internal/modules/post/delivery/http"
	postRepo "anoa.com/folio/internal/modules/post/repository"
	postService "anoa.com/folio/internal/modules/post/service"

	tagHttp "anoa.com/folio/internal/modules/tag/delivery/http"
	tagRepo "anoa.com/folio/internal/modules/tag/repository"
	tagService "anoa.com/folio/internal/modules/tag/service"

	uniquenessHttp "anoa.com/folio/internal/modules/uniqueness/delivery/http"
	uniquenessService "anoa.com/folio/internal/modules/uniqueness/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	seeder      *bootstrap.Seeder
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	validate := validatorPkg.New()
	responseCache := cache.New(redisClient, cfg.CacheTTL)
	orderingSvc := ordering.NewService(db)

	accountRepo := accountRepo.NewAccountRepository(db)
	profileRepo := profileRepo.NewProfileRepository(db)
	resourceRepo := resourceRepo.NewResourceRepository(db)
	tagRepo := tagRepo.NewTagRepository(db)
	postRepo := postRepo.NewPostRepository(db, tagRepo)

	guard := uniquenessService.NewUniquenessService(profileRepo, accountRepo)

	engine := validation.NewEngine(validate,
		ordering.Schema(ordering.SchemaName),
		accountService.Schema(guard),
		profileService.Schema(guard),
		postService.Schema(resourceRepo),
	)
	kind.RegisterSchemas(engine)

	accountSvc := accountService.NewAccountService(accountRepo, engine)
	accountHandler := accountHttp.NewAccountHandler(accountSvc)

	profileSvc := profileService.NewProfileService(profileRepo, engine, responseCache)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	resourceSvc := resourceService.NewResourceService(resourceRepo, engine, orderingSvc, responseCache)
	resourceHandler := resourceHttp.NewResourceHandler(resourceSvc)

	postSvc := postService.NewPostService(postRepo, engine, responseCache)
	postHandler := postHttp.NewPostHandler(postSvc)

	tagSvc := tagService.NewTagService(tagRepo, engine, orderingSvc, responseCache)
	tagHandler := tagHttp.NewTagHandler(tagSvc)

	checkHandler := uniquenessHttp.NewCheckHandler(guard, validate)
	validateHandler := uniquenessHttp.NewValidateHandler(engine)
	checkLimiter := ratelimiter.New(redisClient, "check", cfg.RateLimitCheck, cfg.RateLimitCheckWindow)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/health"},
	}))

	authMiddleware := middleware.NewAuthMiddleware(profileRepo, cfg.JWTSecret)

	api := router.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.GET("/kinds", resourceHandler.Kinds)

	check := api.Group("/check")
	check.Use(checkLimiter.PerClientIP())
	{
		check.GET("/username", checkHandler.Username)
		check.GET("/email", checkHandler.Email)
	}

	api.POST("/validate/:schema", validateHandler.Validate)

	account := api.Group("/account")
	account.Use(authMiddleware.RequireAuth())
	{
		account.POST("", accountHandler.Register)
		account.GET("", accountHandler.Get)
		account.PUT("/email", accountHandler.UpdateEmail)
		account.GET("/profiles", profileHandler.Mine)
	}

	api.POST("/profiles", authMiddleware.RequireAuth(), profileHandler.Create)

	profile := api.Group("/profiles/:username")
	profile.Use(authMiddleware.OptionalAuth(), authMiddleware.ResolveProfile())
	requireOwner := authMiddleware.RequireOwner()
	{
		profile.GET("", profileHandler.Get)
		profile.PUT("", requireOwner, profileHandler.Update)
		profile.DELETE("", requireOwner, profileHandler.Delete)

		resourceHandler.Register(profile, requireOwner)
		postHandler.Register(profile, requireOwner)
		tagHandler.Register(profile, requireOwner)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		seeder:      bootstrap.NewSeeder(accountSvc, profileSvc, resourceSvc, postSvc, time.Now().UnixNano()),
	}
}

// SeedDemo fills the database with the demo profile.
func (s *Server) SeedDemo(ctx context.Context) error {
	return s.seeder.SeedDemo(ctx)
}

// Handler exposes the router for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Location", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
