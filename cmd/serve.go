package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bharatverse/content-pipeline/internal/scraper"
	"github.com/bharatverse/content-pipeline/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for scrape requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initScraper(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(env *scraperEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/sources", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"sources": env.Scraper.ListSources()})
	})

	r.Post("/scrape", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Topic         string   `json:"topic"`
			Sources       []string `json:"sources"`
			MaxPages      int      `json:"max_pages"`
			RespectRobots bool     `json:"respect_robots"`
			Save          bool     `json:"save"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if req.Topic == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "topic is required"})
			return
		}

		maxPages := req.MaxPages
		if maxPages == 0 {
			maxPages = cfg.Scraper.MaxPagesPerSource
		}

		contents := env.Scraper.SearchAndScrape(r.Context(), req.Topic, scraper.ScrapeOptions{
			MaxPages:      maxPages,
			RespectRobots: req.RespectRobots || cfg.Scraper.RespectRobots,
			Sources:       req.Sources,
		})

		if req.Save {
			if _, err := env.Store.SaveContents(r.Context(), req.Topic, contents); err != nil {
				zap.L().Error("save contents failed",
					zap.String("topic", req.Topic),
					zap.Error(err),
				)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save contents"})
				return
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"topic":    req.Topic,
			"pages":    len(contents),
			"contents": contents,
		})
	})

	r.Get("/topics/{topic}", func(w http.ResponseWriter, r *http.Request) {
		topic := chi.URLParam(r, "topic")
		records, err := env.Store.ListByTopic(r.Context(), topic, store.Filter{
			Source: r.URL.Query().Get("source"),
		})
		if err != nil {
			zap.L().Error("list by topic failed",
				zap.String("topic", topic),
				zap.Error(err),
			)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list content"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"topic":   topic,
			"records": records,
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
