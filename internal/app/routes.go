package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vietlabour/portal/internal/middleware"
	"github.com/vietlabour/portal/internal/modules/contact"
	"github.com/vietlabour/portal/internal/modules/keyword"
	"github.com/vietlabour/portal/internal/modules/linkage"
	"github.com/vietlabour/portal/internal/modules/post"
	"github.com/vietlabour/portal/internal/modules/publication"
	"github.com/vietlabour/portal/internal/modules/scholar"
	"github.com/vietlabour/portal/internal/modules/search"
	"github.com/vietlabour/portal/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router
	db := a.db

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		response.BadRequest(c, "method not allowed")
	})

	// Legacy-style liveness endpoint; the old portal answered {ok: true}.
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Services
	linkageSvc := linkage.NewService(db, a.logger)
	keywordSvc := keyword.NewService(db)
	scholarSvc := scholar.NewService(db)
	publicationSvc := publication.NewService(db)
	publicationSvc.SetLinkage(linkageSvc)
	searchSvc := search.NewService(db, keywordSvc)
	contactSvc := contact.NewService(db)
	postStore := post.NewStore()

	a.linkage = linkageSvc

	// Public surface, behind the short-TTL response cache when redis is up.
	public := r.Group("")
	if a.rc != nil {
		public.Use(middleware.HTTPCache(a.rc.Raw(), middleware.HTTPCacheOptions{
			TTL:       time.Duration(a.cfg.CacheTTLSeconds) * time.Second,
			Disable:   a.cfg.IsDev(),
			SkipPaths: []string{"/healthz", "/metrics", "/contact"},
		}))
	}

	scholarHandler := scholar.NewHandler(scholarSvc, keywordSvc)
	keywordHandler := keyword.NewHandler(keywordSvc)
	contactHandler := contact.NewHandler(contactSvc)
	postHandler := post.NewHandler(postStore)

	search.NewHandler(searchSvc).RegisterRoutes(public)
	scholarHandler.RegisterRoutes(public)
	keywordHandler.RegisterRoutes(public)
	postHandler.RegisterRoutes(public)
	contactHandler.RegisterRoutes(r.Group(""))

	// Admin surface. Authentication is handled upstream by the deployment
	// (reverse proxy); the API itself carries none.
	admin := r.Group("/admin")
	scholarHandler.RegisterAdminRoutes(admin)
	keywordHandler.RegisterAdminRoutes(admin)
	publication.NewHandler(publicationSvc).RegisterAdminRoutes(admin)
	linkage.NewHandler(linkageSvc).RegisterAdminRoutes(admin)
	contactHandler.RegisterAdminRoutes(admin)
	postHandler.RegisterAdminRoutes(admin)
}
