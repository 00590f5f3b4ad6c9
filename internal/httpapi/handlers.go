package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"notifyd/pkg/types"
)

type handlers struct {
	svc        Service
	deliveries DeliveryLog
}

// subscribe godoc
// @Summary      Register an observer
// @Description  Re-subscribing an existing id is a no-op; the callback is not updated.
// @Tags         observers
// @Accept       json
// @Produce      json
// @Param        body  body      types.SubscribeRequest  true  "Observer"
// @Success      200   {object}  types.SubscribeResponse
// @Failure      400   {object}  types.ErrorResponse
// @Router       /subscribe [post]
func (h *handlers) subscribe(w http.ResponseWriter, r *http.Request) {
	var req types.SubscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, err := h.svc.Subscribe(req.ID, req.WebhookURL); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.SubscribeResponse{
		Message:    "Subscribed successfully",
		ID:         req.ID,
		WebhookURL: req.WebhookURL,
	})
}

// unsubscribe godoc
// @Summary      Remove an observer
// @Description  Unknown ids are ignored.
// @Tags         observers
// @Accept       json
// @Produce      json
// @Param        body  body      types.UnsubscribeRequest  true  "Observer id"
// @Success      200   {object}  types.UnsubscribeResponse
// @Failure      400   {object}  types.ErrorResponse
// @Router       /unsubscribe [post]
func (h *handlers) unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req types.UnsubscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.Unsubscribe(req.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.UnsubscribeResponse{Message: "Unsubscribed successfully", ID: req.ID})
}

// listObservers godoc
// @Summary  List observers in subscription order
// @Tags     observers
// @Produce  json
// @Success  200  {array}  types.Observer
// @Router   /observers [get]
func (h *handlers) listObservers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListObservers())
}

// listRecords godoc
// @Summary  List records in insertion order
// @Tags     data
// @Produce  json
// @Success  200  {array}  types.Record
// @Router   /data [get]
func (h *handlers) listRecords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListRecords())
}

// getRecord godoc
// @Summary  Get one record
// @Tags     data
// @Produce  json
// @Param    id   path      int  true  "Record id"
// @Success  200  {object}  types.Record
// @Failure  404  {object}  types.ErrorResponse
// @Router   /data/{id} [get]
func (h *handlers) getRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetRecord(recordID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// addRecord godoc
// @Summary      Add a record
// @Description  Notifies every observer with DATA_ADDED.
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        body  body      types.RecordRequest  true  "Record"
// @Success      201   {object}  types.Record
// @Failure      400   {object}  types.ErrorResponse
// @Router       /data [post]
func (h *handlers) addRecord(w http.ResponseWriter, r *http.Request) {
	var req types.RecordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.svc.AddRecord(req.Name, req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// updateRecord godoc
// @Summary      Update a record
// @Description  Notifies every observer with DATA_UPDATED.
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Record id"
// @Param        body  body      types.RecordRequest  true  "New name and value"
// @Success      200   {object}  types.Record
// @Failure      400   {object}  types.ErrorResponse
// @Failure      404   {object}  types.ErrorResponse
// @Router       /data/{id} [put]
func (h *handlers) updateRecord(w http.ResponseWriter, r *http.Request) {
	var req types.RecordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.svc.UpdateRecord(recordID(r), req.Name, req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// deleteRecord godoc
// @Summary      Delete a record
// @Description  Notifies every observer with DATA_DELETED carrying the id.
// @Tags         data
// @Produce      json
// @Param        id   path      int  true  "Record id"
// @Success      200  {object}  types.DeleteResponse
// @Failure      404  {object}  types.ErrorResponse
// @Router       /data/{id} [delete]
func (h *handlers) deleteRecord(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)
	if err := h.svc.DeleteRecord(id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.DeleteResponse{Message: "Deleted successfully", ID: id})
}

// status godoc
// @Summary  Registry summary
// @Tags     ops
// @Produce  json
// @Success  200  {object}  types.StatsResponse
// @Router   /status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats())
}

// recentDeliveries godoc
// @Summary  Most recent webhook delivery outcomes, oldest first
// @Tags     ops
// @Produce  json
// @Success  200  {array}  types.DeliveryResult
// @Router   /deliveries [get]
func (h *handlers) recentDeliveries(w http.ResponseWriter, r *http.Request) {
	out := []types.DeliveryResult{}
	if h.deliveries != nil {
		out = append(out, h.deliveries.Recent()...)
	}
	writeJSON(w, http.StatusOK, out)
}

// decodeJSON reads a size-limited JSON body into v. An empty body decodes as
// the zero value so presence checks report the missing fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		// MaxBytesReader errors land here too; still 400 to avoid leaking size details
		IncrementRejected("bad_json")
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// recordID parses the {id} path segment. Unparsable ids map to 0, which the
// registry never assigns, so they surface as not found.
func recordID(r *http.Request) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
