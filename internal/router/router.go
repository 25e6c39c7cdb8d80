package router

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/tasksync/internal/handlers"
	"github.com/monocle-dev/tasksync/internal/middleware"
	"github.com/monocle-dev/tasksync/internal/repository"
	"github.com/monocle-dev/tasksync/internal/services"
	"github.com/monocle-dev/tasksync/internal/types"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Repo     *repository.Repository
	Accounts *services.AccountService
	Sync     *services.SyncService
	Tokens   middleware.TokenVerifier
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(ctx *gin.Context, recovered any) {
		log.Printf("Recovered from panic: %v", recovered)
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              types.AllowedMethods,
		AllowHeaders:              types.AllowedHeaders,
		MaxAge:                    types.PreflightMaxAge,
		OptionsResponseStatusCode: http.StatusOK,
	}))

	authHandler := handlers.NewAuthHandler(deps.Accounts)
	dataHandler := handlers.NewDataHandler(deps.Sync)
	requireToken := middleware.AuthMiddleware(deps.Tokens)

	mount := func(g gin.IRoutes) {
		g.GET("/health", handlers.HealthCheck(deps.Repo))

		g.POST("/auth", authHandler.Handle)
		g.OPTIONS("/auth", preflight)

		g.GET("/data", requireToken, dataHandler.FetchAll)
		g.POST("/data", requireToken, dataHandler.Sync)
		g.OPTIONS("/data", preflight)
	}

	mount(r)
	mount(r.Group("/api"))

	r.NoMethod(handlers.MethodNotAllowed)
	r.NoRoute(handlers.NotFound)

	return r
}

// preflight answers OPTIONS requests that did not carry CORS preflight
// headers and so passed through the cors middleware.
func preflight(ctx *gin.Context) {
	ctx.Status(http.StatusOK)
}
