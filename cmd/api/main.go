package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"codecrafted.org/internal/auth"
	"codecrafted.org/internal/catalog"
	"codecrafted.org/internal/httpapi"
	"codecrafted.org/internal/obs"
	"codecrafted.org/internal/recommend"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)
	logger := obs.Logger()

	secret := os.Getenv("CODECRAFTED_AUTH_SECRET")
	if secret == "" {
		logger.Fatal().Msg("CODECRAFTED_AUTH_SECRET is required")
	}
	codec, err := auth.NewCodec(secret)
	if err != nil {
		logger.Fatal().Err(err).Msg("init token codec")
	}

	dsn := os.Getenv("CODECRAFTED_PG_DSN")
	if dsn == "" {
		logger.Fatal().Msg("CODECRAFTED_PG_DSN is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db")
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	users := auth.NewPGUserStore(db)
	authsvc := auth.NewService(users, codec)

	var recommender *recommend.Client
	if base := os.Getenv("CODECRAFTED_RECOMMENDER_URL"); base != "" {
		recommender, err = recommend.New(base)
		if err != nil {
			logger.Fatal().Err(err).Msg("init recommender client")
		}
	} else {
		logger.Warn().Msg("CODECRAFTED_RECOMMENDER_URL not set, recommendation endpoints disabled")
	}

	api := httpapi.New(httpapi.Config{
		Auth:         authsvc,
		Users:        users,
		Courses:      catalog.NewPGCourseStore(db),
		Interactions: catalog.NewPGInteractionStore(db),
		Recommender:  recommender,
		ReadyProbe:   httpapi.ReadyProbe{DB: db},
		Version:      version,
		CORSOrigins:  splitList(os.Getenv("CODECRAFTED_CORS_ORIGINS")),
		WebDir:       os.Getenv("CODECRAFTED_WEB_DIR"),
	})

	addr := os.Getenv("CODECRAFTED_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info().Str("addr", addr).Str("version", version).Msg("starting codecrafted-api")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = db.Close()
	logger.Info().Msg("stopped")
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
