// Package httpapi exposes the catalog and auth services over HTTP/JSON.
// Browse endpoints are public; mutations require a bearer access token.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/logging"
	"github.com/dmitrijs2005/geokeeper/internal/server/metrics"
	"github.com/dmitrijs2005/geokeeper/internal/server/models"
	"github.com/dmitrijs2005/geokeeper/internal/server/services"
)

// authSvc and catalogSvc describe the slices of the service layer the HTTP
// handlers call. The real services satisfy them; tests plug in fakes.
type authSvc interface {
	Login(ctx context.Context, userName string, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type catalogSvc interface {
	List(ctx context.Context) ([]models.Country, map[int64]string, error)
	ReplaceDataset(ctx context.Context, items []models.Country) (int, error)
	FlagUpload(ctx context.Context, countryName string) (*models.FlagUploadTask, error)
}

type HTTPServer struct {
	address        string
	auth           authSvc
	catalog        catalogSvc
	logger         logging.Logger
	jwtSecret      []byte
	recorder       metrics.Recorder
	metricsHandler http.Handler
}

// NewHTTPServer wires the services into an HTTP endpoint. A nil recorder
// disables metrics recording; a nil metricsHandler removes the /metrics route.
func NewHTTPServer(a string, l logging.Logger, as *services.AuthService, cs *services.CatalogService, secretKey string, rec metrics.Recorder, mh http.Handler) (*HTTPServer, error) {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &HTTPServer{
		address:        a,
		logger:         l.With("module", "http_server"),
		auth:           as,
		catalog:        cs,
		jwtSecret:      []byte(secretKey),
		recorder:       rec,
		metricsHandler: mh,
	}, nil
}

// Handler builds the route table. Method-qualified patterns make the mux
// return 405 for wrong verbs on known paths.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/ping", s.instrument("/api/v1/ping", s.handlePing))
	mux.HandleFunc("POST /api/v1/auth/login", s.instrument("/api/v1/auth/login", s.handleLogin))
	mux.HandleFunc("POST /api/v1/auth/refresh", s.instrument("/api/v1/auth/refresh", s.handleRefresh))

	mux.HandleFunc("GET /api/v1/countries", s.instrument("/api/v1/countries", s.handleListCountries))
	mux.HandleFunc("PUT /api/v1/countries", s.instrument("/api/v1/countries", s.withAuth(s.handleReplaceCountries)))
	mux.HandleFunc("POST /api/v1/countries/flag", s.instrument("/api/v1/countries/flag", s.withAuth(s.handleFlagUpload)))

	if s.metricsHandler != nil {
		mux.Handle("GET /metrics", s.metricsHandler)
	}

	return mux
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
