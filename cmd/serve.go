package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marketscope/radar-cli/internal/indicators"
	"github.com/marketscope/radar-cli/internal/ranking"
	"github.com/marketscope/radar-cli/internal/scoring"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for snapshots, cities, and rankings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := newEngine(cfg)
		if err != nil {
			return err
		}

		return startServer(ctx, buildMux(env), resolvePort(servePort, cfg.Server.Port))
	},
}

// buildMux assembles the JSON API routes.
func buildMux(env *engine) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /api/snapshot/{iso3}", func(w http.ResponseWriter, r *http.Request) {
		countryCode := strings.ToUpper(r.PathValue("iso3"))

		snap, err := env.agg.Snapshot(r.Context(), countryCode)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}

		values := make([]*float64, 0, len(indicators.Keys))
		for _, key := range indicators.Keys {
			values = append(values, snap.Value(key))
		}
		risk := snap.Value(indicators.KeyRiskScore)

		writeJSON(w, map[string]any{
			"country":      countryCode,
			"indicators":   snap.Observations,
			"risk_level":   scoring.ClassifyRisk(risk),
			"data_quality": scoring.DataQuality(values),
		})
	})

	mux.HandleFunc("GET /api/cities/{iso2}", func(w http.ResponseWriter, r *http.Request) {
		countryCode := strings.ToUpper(r.PathValue("iso2"))

		cities, err := env.gaz.SearchCities(r.Context(), countryCode)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		if limit := queryInt(r, "limit", 0); limit > 0 && len(cities) > limit {
			cities = cities[:limit]
		}
		writeJSON(w, map[string]any{"country": countryCode, "cities": cities})
	})

	mux.HandleFunc("GET /api/rank", func(w http.ResponseWriter, r *http.Request) {
		iso3 := strings.ToUpper(r.URL.Query().Get("country"))
		iso2 := strings.ToUpper(r.URL.Query().Get("cities"))
		if iso3 == "" || iso2 == "" {
			http.Error(w, `{"error":"country and cities query params are required"}`, http.StatusBadRequest)
			return
		}

		snap, err := env.agg.Snapshot(r.Context(), iso3)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		cities, err := env.gaz.SearchCities(r.Context(), iso2)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}

		ranked := ranking.RankCities(cities, snap, env.weights(), queryInt(r, "top", ranking.DefaultTopN))
		writeJSON(w, map[string]any{"country": iso3, "ranking": ranked})
	})

	return mux
}

// resolvePort picks the flag value when set, the config value otherwise.
func resolvePort(flag, fallback int) int {
	if flag != 0 {
		return flag
	}
	return fallback
}

// startServer serves the mux until the context is canceled, then shuts down
// gracefully. The shutdown uses its own timeout context because the signal
// context is already canceled by the time shutdown begins.
func startServer(ctx context.Context, mux *http.ServeMux, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server listen")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
