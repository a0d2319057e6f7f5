package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	gql "github.com/99designs/gqlgen/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tournevent/carrierlink/internal/graphql"
	"github.com/tournevent/carrierlink/internal/telemetry"
	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"
)

// maxBodyBytes bounds the size of a GraphQL request body.
const maxBodyBytes = 1 << 20

// Server is the HTTP server for the carrier integration service.
type Server struct {
	port     int
	registry *shipper.Registry
	logger   *otelzap.Logger
	resolver *graphql.Resolver
	gatherer prometheus.Gatherer
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance. metrics and gatherer are usually
// backed by the same prometheus registry.
func New(cfg Config, registry *shipper.Registry, logger *otelzap.Logger, metrics *telemetry.Metrics, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		port:     cfg.Port,
		registry: registry,
		logger:   logger,
		resolver: graphql.NewResolver(registry, logger, metrics),
		gatherer: gatherer,
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// GraphQL endpoint
	mux.HandleFunc("/graphql", s.handleGraphQL)

	return mux
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server",
			zap.Int("port", s.port),
			zap.Strings("carriers", s.registry.Names()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var params gql.RawParams
	switch r.Method {
	case http.MethodPost:
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&params); err != nil {
			s.writeResponse(w, http.StatusBadRequest, &gql.Response{
				Errors: gqlerror.List{gqlerror.Errorf("invalid JSON: %s", err.Error())},
			})
			return
		}
	case http.MethodGet:
		q := r.URL.Query()
		params.Query = q.Get("query")
		params.OperationName = q.Get("operationName")
		if raw := q.Get("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &params.Variables); err != nil {
				s.writeResponse(w, http.StatusBadRequest, &gql.Response{
					Errors: gqlerror.List{gqlerror.Errorf("invalid variables: %s", err.Error())},
				})
				return
			}
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		s.writeResponse(w, http.StatusMethodNotAllowed, &gql.Response{
			Errors: gqlerror.List{gqlerror.Errorf("method not allowed, use GET or POST")},
		})
		return
	}

	if params.Query == "" {
		s.writeResponse(w, http.StatusBadRequest, &gql.Response{
			Errors: gqlerror.List{gqlerror.Errorf("query is required")},
		})
		return
	}

	resp := s.resolver.Execute(r.Context(), &params)

	// Requests that never reached a resolver are client errors.
	status := http.StatusOK
	if resp.Data == nil && len(resp.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	s.writeResponse(w, status, resp)
}

func (s *Server) writeResponse(w http.ResponseWriter, status int, resp *gql.Response) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Failed to write GraphQL response", zap.Error(err))
	}
}
