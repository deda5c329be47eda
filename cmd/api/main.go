package main

import (
	_ "time/tzdata"

	"casetasks/pkg/translator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dbadapter "casetasks/internal/adapter/db"
	httpadapter "casetasks/internal/adapter/http"
	"casetasks/internal/adapter/http/handlers"
	httpmiddleware "casetasks/internal/adapter/http/middleware"
	appservice "casetasks/internal/app/service"
	"casetasks/internal/config"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	cfg := config.LoadConfig()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  cfg.TranslationFolder,
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})

	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to mysql", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close mysql connection", zap.Error(err))
		}
	}()

	taskService := appservice.NewTaskService(
		dbadapter.NewTaskRepository(db),
		dbadapter.NewLegacyTaskRepository(db),
		dbadapter.NewUserRepository(db, cfg.AdminUserIDs),
	).WithLocation(cfg.DefaultTimezone)

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger))
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid trusted proxies", zap.Strings("proxies", cfg.TrustedProxies), zap.Error(err))
	}

	httpadapter.RegisterRoutes(
		r,
		handlers.NewHealthHandler(db),
		handlers.NewTaskHandler(taskService),
		cfg.DefaultTimezone,
	)

	addr := ":" + cfg.AppPort
	logger.Info("starting server", zap.String("addr", addr), zap.String("timezone", cfg.DefaultTimezone.String()))
	if err := r.Run(addr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}
