package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/Vovarama1992/auv-mission-bridge/internal/audit"
	"github.com/Vovarama1992/auv-mission-bridge/internal/defaults"
	"github.com/Vovarama1992/auv-mission-bridge/internal/dispatch"
	"github.com/Vovarama1992/auv-mission-bridge/internal/mission"
	"github.com/Vovarama1992/auv-mission-bridge/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP bridge",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	// --- DB (optional) ---
	var (
		db    *sql.DB
		repo  audit.Repo
		sink  *audit.Sink
		extra []telemetry.Observer
	)
	if cfg.Audit.DatabaseURL != "" {
		db, err = sql.Open("postgres", cfg.Audit.DatabaseURL)
		if err != nil {
			log.Fatalf("db open error: %v", err)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			log.Fatalf("db ping error: %v", err)
		}
		if err := audit.EnsureSchema(pingCtx, db); err != nil {
			log.Fatalf("db schema error: %v", err)
		}

		repo = audit.NewRepo(db)
		sink = audit.NewSink(repo, log, cfg.Audit.Buffer)
		defer sink.Close()
		extra = append(extra, sink)
	}

	p, err := buildPipeline(cfg, log, extra...)
	if err != nil {
		return err
	}

	if cfg.Defaults.Watch {
		w, err := defaults.NewWatcher(p.store, p.holder, log)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Close()
	}

	var outbound mission.Outbound
	if cfg.Gateway.URL != "" {
		outbound = dispatch.NewGatewayOutbound(cfg.Gateway.URL, cfg.Gateway.Token, cfg.Gateway.Timeout)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	mission.RegisterRoutes(r, mission.NewHandler(p.service, p.holder, outbound, log))
	if repo != nil {
		audit.RegisterRoutes(r, audit.NewHandler(repo, log))
	}

	// --- health ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on :%s", cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
