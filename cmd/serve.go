package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wheretodine/hotspot-cli/internal/model"
	"github.com/wheretodine/hotspot-cli/internal/pipeline"
	"github.com/wheretodine/hotspot-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the published analysis artifacts over HTTP",
	Long:  "Read-only JSON endpoints over the pipeline outputs: hotspots, zones, validation metrics, the analysis summary, and run history.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		p, err := newPipeline()
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(p, st),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

// newRouter builds the read-only API over the run store and the artifacts in
// the output directory.
func newRouter(p *pipeline.Pipeline, st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/hotspots", serveArtifact(p, pipeline.FileFinalHotspots))
	r.Get("/api/summary", serveArtifact(p, pipeline.FileIntersectionAnalysis))

	r.Get("/api/zones/{source}", func(w http.ResponseWriter, req *http.Request) {
		var file string
		switch model.ZoneSource(chi.URLParam(req, "source")) {
		case model.ZoneDining:
			file = pipeline.FileDiningZones
		case model.ZoneTaxi:
			file = pipeline.FileTaxiHotspots
		default:
			writeJSONResponse(w, http.StatusNotFound, map[string]string{"error": "unknown zone source"})
			return
		}
		serveArtifact(p, file)(w, req)
	})

	r.Get("/api/metrics/{source}", func(w http.ResponseWriter, req *http.Request) {
		var file string
		switch chi.URLParam(req, "source") {
		case "restaurants":
			file = pipeline.FileRestaurantMetrics
		case "taxi":
			file = pipeline.FileTaxiMetrics
		default:
			writeJSONResponse(w, http.StatusNotFound, map[string]string{"error": "unknown metrics source"})
			return
		}
		serveArtifact(p, file)(w, req)
	})

	r.Get("/api/runs", func(w http.ResponseWriter, req *http.Request) {
		runs, err := st.ListRuns(req.Context(), store.RunFilter{
			Status: model.RunStatus(req.URL.Query().Get("status")),
			City:   req.URL.Query().Get("city"),
		})
		if err != nil {
			zap.L().Error("list runs", zap.Error(err))
			writeJSONResponse(w, http.StatusInternalServerError, map[string]string{"error": "list runs failed"})
			return
		}
		if runs == nil {
			runs = []model.Run{}
		}
		writeJSONResponse(w, http.StatusOK, runs)
	})

	return r
}

// serveArtifact returns a handler streaming one published artifact. A
// missing artifact means the producing stage has not run yet.
func serveArtifact(p *pipeline.Pipeline, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data, err := os.ReadFile(p.OutPath(name))
		if err != nil {
			if os.IsNotExist(err) {
				writeJSONResponse(w, http.StatusNotFound, map[string]string{"error": "artifact not published yet"})
				return
			}
			zap.L().Error("read artifact", zap.String("artifact", name), zap.Error(err))
			writeJSONResponse(w, http.StatusInternalServerError, map[string]string{"error": "read artifact failed"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func writeJSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
