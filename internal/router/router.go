package router

import (
	"net/http"
	"time"

	"mccb-go/internal/analytics"
	"mccb-go/internal/config"
	"mccb-go/internal/handlers"
	"mccb-go/internal/parser"
	"mccb-go/internal/repository"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}
func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Try again later."})
}

func Setup(log *zap.Logger, p *parser.Parser, engines *analytics.Manager, customers *repository.CustomerStore) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("mccbsession", store))

	// --- Now that sessions are initialized, other middleware can use them ---
	router.Use(CSRFProtection())
	router.Use(UserLoaderMiddleware())

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// Handlers and routes
	authHandler := handlers.NewAuthHandler(log, engines)
	importHandler := handlers.NewImportHandler(log, p, engines)
	resultsHandler := handlers.NewResultsHandler(log, engines)
	chartsHandler := handlers.NewChartsHandler(log, engines)
	exportHandler := handlers.NewExportHandler(log, engines)
	customerHandler := handlers.NewCustomerHandler(log, customers)
	backupHandler := handlers.NewBackupHandler(log)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	router.GET("/api/csrf", CSRFToken)
	router.POST("/api/login", limiter, authHandler.Login)
	router.POST("/api/logout", authHandler.Logout)
	router.POST("/api/register", limiter, authHandler.Register)

	// The registration form and the desktop tooling are unauthenticated.
	router.POST("/api/customers", customerHandler.Create)
	router.GET("/customers.xml", customerHandler.RawXML)
	router.POST("/api/backup", backupHandler.Save)

	authorized := router.Group("/api")
	authorized.Use(AuthRequired())
	{
		authorized.POST("/import", importHandler.ImportFiles)

		resultsRoutes := authorized.Group("/results")
		{
			resultsRoutes.GET("", resultsHandler.Summary)
			resultsRoutes.GET("/records", resultsHandler.Records)
			resultsRoutes.GET("/types", resultsHandler.TypeStatistics)
			resultsRoutes.GET("/trends", resultsHandler.ImprovementTrends)
			resultsRoutes.GET("/sessions", resultsHandler.Sessions)
			resultsRoutes.DELETE("", resultsHandler.Clear)
		}

		chartsRoutes := authorized.Group("/charts")
		{
			chartsRoutes.GET("/timeline", chartsHandler.ScoreTimeline)
			chartsRoutes.GET("/sessions", chartsHandler.SessionHistory)
			chartsRoutes.GET("/types", chartsHandler.TypeComparison)
			chartsRoutes.GET("/distribution", chartsHandler.ErrorAnalysis)
		}

		authorized.GET("/export", exportHandler.Export)
		authorized.GET("/export/merge", exportHandler.Merge)
		authorized.POST("/export/save", exportHandler.SaveMerged)

		authorized.GET("/customers", customerHandler.List)
		authorized.GET("/backups", backupHandler.List)
	}

	return router
}
