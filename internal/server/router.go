package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/Kosench/go-shortlink/internal/cache"
	"github.com/Kosench/go-shortlink/internal/config"
	"github.com/Kosench/go-shortlink/internal/database"
	"github.com/Kosench/go-shortlink/internal/handler"
	"github.com/Kosench/go-shortlink/internal/web"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const SessionName = "shortlink_session"

// ReservedCodes are first path segments owned by fixed routes.
var ReservedCodes = []string{"create", "stats", "health", "info"}

type Deps struct {
	DB      *sql.DB
	Dialect database.Dialect
	Cache   cache.Cache
	Links   *handler.LinkHandler
	Log     zerolog.Logger
}

func NewRouter(cfg *config.Config, deps Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	router.Use(RequestID(), AccessLog(deps.Log), Recovery(deps.Log))

	if cfg.Sentry.DSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.GetAllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(SessionName, store))

	router.GET("/", deps.Links.Index)
	router.POST("/create", deps.Links.Create)
	router.GET("/health", healthHandler(deps.DB, deps.Cache, cfg.Cache.Driver))
	router.GET("/info", infoHandler(deps.DB, deps.Dialect, cfg.Cache.Driver))
	router.GET("/stats/:short", deps.Links.Stats)
	router.GET("/:short", deps.Links.Redirect)

	return router, nil
}

func NewHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        h,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
}
