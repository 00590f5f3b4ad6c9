package listener

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/juju/errors"

	"notifyd/internal/httpapi"
	"notifyd/pkg/types"
)

// Handler returns the listener's HTTP router.
func (l *Listener) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpapi.MetricsMiddleware)
	r.Use(httpapi.RequestLogger)

	r.Post(l.path, l.webhook)
	r.Get("/health", l.health)
	r.Get("/events", l.events)
	r.Post("/subscribe", l.subscribe)
	r.Post("/unsubscribe", l.unsubscribe)
	return r
}

func (l *Listener) webhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, l.maxBody)
	var evt types.ChangeEvent
	if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
		httpapi.IncrementRejected("bad_event")
		l.log.Warn().Err(err).Str("delivery_id", r.Header.Get(types.HeaderDelivery)).Msg("rejected webhook")
		writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: "invalid event payload", Code: http.StatusBadRequest})
		return
	}
	l.Deliver(evt)
	writeJSON(w, http.StatusOK, types.AckResponse{Status: types.StatusReceived, Message: "Notification processed", Event: evt.Kind})
}

func (l *Listener) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{Status: types.StatusRunning, ID: l.id})
}

func (l *Listener) events(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, l.Recent())
}

func (l *Listener) subscribe(w http.ResponseWriter, r *http.Request) {
	resp, err := l.Subscribe(r.Context())
	if err != nil {
		l.writeProxyError(w, "subscribe", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (l *Listener) unsubscribe(w http.ResponseWriter, r *http.Request) {
	resp, err := l.Unsubscribe(r.Context())
	if err != nil {
		l.writeProxyError(w, "unsubscribe", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (l *Listener) writeProxyError(w http.ResponseWriter, op string, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, errors.NotSupported) {
		status = http.StatusServiceUnavailable
	}
	l.log.Error().Err(err).Msg("failed to " + op)
	writeJSON(w, status, types.ErrorResponse{Error: "failed to " + op, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
