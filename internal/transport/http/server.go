package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "vista/internal/app"
	"vista/internal/bootstrap"
	"vista/internal/cache"
	"vista/internal/repository"
	"vista/internal/transport/http/handler"
	"vista/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = 16 << 20

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	datasetRepo := repository.NewDatasetRepository(app.MySQL)
	tokenStore := cache.NewTokenStore(app.Redis, time.Duration(app.Config.Auth.TokenTTLMinute)*time.Minute)

	authService := appsvc.NewAuthService(userRepo, tokenStore, app.Log)
	datasetService := appsvc.NewDatasetService(datasetRepo, app.Log)

	authHandler := handler.NewAuthHandler(authService)
	datasetHandler := handler.NewDatasetHandler(datasetService)

	api := router.Group("/api")
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthToken(tokenStore, userRepo))
	authed.POST("/logout", authHandler.Logout)
	authed.POST("/upload", datasetHandler.Upload)
	authed.GET("/history", datasetHandler.History)
	authed.GET("/download-pdf", datasetHandler.DownloadPDF)

	return router
}
