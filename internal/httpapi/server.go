package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"notifyd/pkg/types"
)

// Service defines the registry operations required by the HTTP API layer.
type Service interface {
	Subscribe(id, webhookURL string) (types.Observer, error)
	Unsubscribe(id string) error
	ListRecords() []types.Record
	GetRecord(id int64) (types.Record, error)
	AddRecord(name, value string) (types.Record, error)
	UpdateRecord(id int64, name, value string) (types.Record, error)
	DeleteRecord(id int64) error
	ListObservers() []types.Observer
	Stats() types.StatsResponse
}

// DeliveryLog exposes recent webhook outcomes for GET /deliveries.
type DeliveryLog interface {
	Recent() []types.DeliveryResult
}

// NewMux builds the registry router. deliveries may be nil.
func NewMux(svc Service, deliveries DeliveryLog) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(RequestLogger)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &handlers{svc: svc, deliveries: deliveries}
	r.Post("/subscribe", h.subscribe)
	r.Post("/unsubscribe", h.unsubscribe)
	r.Get("/observers", h.listObservers)

	r.Route("/data", func(r chi.Router) {
		r.Get("/", h.listRecords)
		r.Post("/", h.addRecord)
		r.Get("/{id}", h.getRecord)
		r.Put("/{id}", h.updateRecord)
		r.Delete("/{id}", h.deleteRecord)
	})

	r.Get("/status", h.status)
	r.Get("/deliveries", h.recentDeliveries)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}
