package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fixly/repairdiag/internal/adapters/reporting"
	"github.com/fixly/repairdiag/internal/adapters/web/handlers"
	"github.com/fixly/repairdiag/internal/core/services/catalog"
)

// Server handles HTTP connections for the diagnostic engine.
type Server struct {
	Addr string

	DiagnoseHandler *handlers.DiagnoseHandler
	CatalogHandler  *handlers.CatalogHandler
	QuoteHandler    *handlers.QuoteHandler

	srv *http.Server
}

// NewServer creates a new web server.
func NewServer(addr string, service handlers.DiagnosticService, catalogManager *catalog.Manager) *Server {
	return &Server{
		Addr:            addr,
		DiagnoseHandler: handlers.NewDiagnoseHandler(service),
		CatalogHandler:  handlers.NewCatalogHandler(catalogManager),
		QuoteHandler:    handlers.NewQuoteHandler(service, reporting.NewQuoteExporter()),
	}
}

// Run starts the server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	handler := SetupRoutes(s)

	// Instrument with OpenTelemetry
	instrumentedHandler := otelhttp.NewHandler(handler, "repairdiag-server")

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           instrumentedHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown implementation
	go func() {
		<-ctx.Done()
		slog.Info("Web server shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Web server shutdown error", "error", err)
		}
	}()

	slog.Info("Web server listening", "addr", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
