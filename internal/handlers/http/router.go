package http

import (
	"net/http"
	"strings"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rafabene/skillboard/internal/domain/ports"
	"github.com/rafabene/skillboard/internal/handlers/dto"
	"github.com/rafabene/skillboard/internal/handlers/middleware"
	"github.com/rafabene/skillboard/internal/infrastructure/config"
	"github.com/rafabene/skillboard/internal/infrastructure/flash"
	"github.com/rafabene/skillboard/internal/infrastructure/i18n"
	"github.com/rafabene/skillboard/internal/infrastructure/metrics"
	"github.com/rafabene/skillboard/internal/services"
	"github.com/rafabene/skillboard/internal/web"
)

// RouterDeps reúne o que o roteador precisa
type RouterDeps struct {
	Config         *config.Config
	UserService    *services.UserService
	CatalogService *services.CatalogService
	I18n           *i18n.Service
	Flash          *flash.Store
	Renderer       *web.Renderer
	Metrics        *metrics.Metrics // nil desativa /metrics
	Logger         ports.Logger
}

// NewRouter monta o engine Gin com páginas HTML, API JSON, health, métricas e swagger.
// O handler devolvido já aplica o override de método dos formulários.
func NewRouter(deps RouterDeps) http.Handler {
	cfg := deps.Config

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.HTMLRender = deps.Renderer

	// Sentry antes dos demais para que o hub exista no contexto
	if cfg.Sentry.DSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	router.Use(middleware.RequestID())

	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// Middleware global para adicionar base URL ao contexto
	router.Use(func(c *gin.Context) {
		c.Set(dto.BaseURLContextKey, cfg.Server.BaseURL)
		c.Next()
	})

	// Middleware i18n
	i18nMiddleware := middleware.NewI18nMiddleware(deps.I18n)
	router.Use(i18nMiddleware.DetectLanguage())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    cfg.Env,
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Páginas HTML
	webHandler := NewUserWebHandler(deps.UserService, deps.CatalogService, deps.Flash, deps.Logger)
	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/users") })
	users := router.Group("/users")
	{
		users.GET("", webHandler.Index)
		users.GET("/new", webHandler.New)
		users.POST("", webHandler.Create)
		users.GET("/:id", webHandler.Show)
		users.GET("/:id/edit", webHandler.Edit)
		users.PUT("/:id", webHandler.Update)
		users.PATCH("/:id", webHandler.Update)
		users.DELETE("/:id", webHandler.Destroy)
	}

	// API routes
	userHandler := NewUserHandler(deps.UserService)
	catalogHandler := NewCatalogHandler(deps.CatalogService)
	v1 := router.Group("/api/v1")
	v1.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	{
		apiUsers := v1.Group("/users")
		{
			apiUsers.GET("", userHandler.ListUsers)
			apiUsers.POST("", userHandler.CreateUser)
			apiUsers.GET("/:id", userHandler.GetUser)
			apiUsers.PUT("/:id", userHandler.UpdateUser)
			apiUsers.DELETE("/:id", userHandler.DeleteUser)
		}
		v1.GET("/professions", catalogHandler.ListProfessions)
		v1.GET("/skills", catalogHandler.ListSkills)
		// Preflight: o middleware de CORS responde antes deste handler
		v1.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			dto.Abort(c, dto.NotFoundErrorResponseI18n(c, "resource.route"))
			return
		}
		webHandler.NotFound(c)
	})

	return middleware.MethodOverride(router)
}
