package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lightd/internal/fields"
	"lightd/internal/imaging"
	"lightd/internal/panel"
	"lightd/internal/resize"
	"lightd/internal/slots"
	"lightd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
// *panel.Session implements it.
type Service interface {
	Slots() types.SlotsResponse
	Add() int
	Remove(i int) error
	Switch(i int) error
	Fields() map[string]any
	SetField(k fields.Key, v any) bool
	Serialize() types.Document
	Restore(doc types.Document) bool
	Prompts() []string
	SendImage(data string) error
	ObserveGeometry(s resize.Size) bool
	SurfaceStatus() types.SurfaceStatus
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5))
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &handlers{svc: svc}
	r.Get("/slots", h.listSlots)
	r.Post("/slots", h.addSlot)
	r.Delete("/slots/{index}", h.removeSlot)
	r.Post("/slots/{index}/activate", h.activateSlot)
	r.Get("/fields", h.getFields)
	r.Patch("/fields", h.patchFields)
	r.Get("/document", h.getDocument)
	r.Put("/document", h.putDocument)
	r.Get("/prompts", h.getPrompts)
	r.Post("/image", h.postImage)
	r.Post("/geometry", h.postGeometry)
	r.Get("/surface", h.getSurface)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("waiting for surface"))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

type handlers struct {
	svc Service
}

// listSlots godoc
// @Summary      List slots
// @Description  Returns every slot with live edits folded into the active one.
// @Tags         slots
// @Produce      json
// @Success      200  {object}  types.SlotsResponse
// @Router       /slots [get]
func (h *handlers) listSlots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Slots())
}

// addSlot godoc
// @Summary      Add a slot
// @Description  Saves live edits, appends a default slot and makes it active.
// @Tags         slots
// @Produce      json
// @Success      201  {object}  types.SlotsResponse
// @Router       /slots [post]
func (h *handlers) addSlot(w http.ResponseWriter, r *http.Request) {
	idx := h.svc.Add()
	logRequest(r, LevelInfo, http.StatusCreated, nil, "slot added", "slot", idx)
	writeJSON(w, http.StatusCreated, h.svc.Slots())
}

// removeSlot godoc
// @Summary      Remove a slot
// @Description  The primary slot and a sole remaining slot cannot be removed.
// @Tags         slots
// @Produce      json
// @Param        index  path      int  true  "slot index"
// @Success      200    {object}  types.SlotsResponse
// @Failure      400    {object}  types.ErrorResponse
// @Failure      404    {object}  types.ErrorResponse
// @Failure      409    {object}  types.ErrorResponse
// @Router       /slots/{index} [delete]
func (h *handlers) removeSlot(w http.ResponseWriter, r *http.Request) {
	idx, ok := indexParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.Remove(idx); err != nil {
		writeServiceError(w, r, err)
		return
	}
	logRequest(r, LevelInfo, http.StatusOK, nil, "slot removed", "slot", idx)
	writeJSON(w, http.StatusOK, h.svc.Slots())
}

// activateSlot godoc
// @Summary      Switch the active slot
// @Tags         slots
// @Produce      json
// @Param        index  path      int  true  "slot index"
// @Success      200    {object}  types.SlotsResponse
// @Failure      400    {object}  types.ErrorResponse
// @Failure      404    {object}  types.ErrorResponse
// @Router       /slots/{index}/activate [post]
func (h *handlers) activateSlot(w http.ResponseWriter, r *http.Request) {
	idx, ok := indexParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.Switch(idx); err != nil {
		writeServiceError(w, r, err)
		return
	}
	logRequest(r, LevelDebug, http.StatusOK, nil, "slot activated", "slot", idx)
	writeJSON(w, http.StatusOK, h.svc.Slots())
}

// getFields godoc
// @Summary      Read the live fields
// @Tags         fields
// @Produce      json
// @Success      200  {object}  types.FieldsResponse
// @Router       /fields [get]
func (h *handlers) getFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.FieldsResponse{Fields: h.svc.Fields()})
}

// patchFields godoc
// @Summary      Edit live fields
// @Description  Each lighting field change is pushed to the rendering surface.
// @Tags         fields
// @Accept       json
// @Produce      json
// @Param        fields  body      map[string]interface{}  true  "field values by key"
// @Success      200     {object}  types.FieldsResponse
// @Failure      400     {object}  types.ErrorResponse
// @Failure      415     {object}  types.ErrorResponse
// @Router       /fields [patch]
func (h *handlers) patchFields(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if !decodeJSONBody(w, r, &patch) {
		return
	}
	values, err := validateFieldPatch(patch)
	if err != nil {
		IncrementRejected("invalid_field")
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, k := range fields.LightingKeys {
		v, ok := values[k]
		if !ok {
			continue
		}
		if !h.svc.SetField(k, v) {
			writeJSONError(w, http.StatusBadRequest, "field not available: "+string(k))
			return
		}
	}
	writeJSON(w, http.StatusOK, types.FieldsResponse{Fields: h.svc.Fields()})
}

// getDocument godoc
// @Summary      Serialize the slot store
// @Tags         document
// @Produce      json
// @Success      200  {object}  types.Document
// @Router       /document [get]
func (h *handlers) getDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Serialize())
}

// putDocument godoc
// @Summary      Restore the slot store
// @Description  A document without slots leaves the store unchanged. Every slot needs a positive intensity and a #RRGGBB color.
// @Tags         document
// @Accept       json
// @Produce      json
// @Param        document  body      types.Document  true  "saved document"
// @Success      200       {object}  types.SlotsResponse
// @Failure      400       {object}  types.ErrorResponse
// @Router       /document [put]
func (h *handlers) putDocument(w http.ResponseWriter, r *http.Request) {
	var doc types.Document
	if !decodeJSONBody(w, r, &doc) {
		return
	}
	if err := validateDocument(doc); err != nil {
		IncrementRejected("invalid_document")
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	restored := h.svc.Restore(doc)
	logRequest(r, LevelInfo, http.StatusOK, nil, "document restore", "restored", restored)
	writeJSON(w, http.StatusOK, h.svc.Slots())
}

// getPrompts godoc
// @Summary      Relighting prompts
// @Description  One prompt per slot, in slot order.
// @Tags         prompts
// @Produce      json
// @Success      200  {object}  types.PromptsResponse
// @Router       /prompts [get]
func (h *handlers) getPrompts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.PromptsResponse{Prompts: h.svc.Prompts()})
}

// postImage godoc
// @Summary      Deliver a rendered image
// @Description  The image is scaled, encoded as a PNG data URL and sent to the surface, or buffered until it is ready.
// @Tags         surface
// @Accept       image/png,image/jpeg,image/gif
// @Produce      json
// @Success      202  {object}  types.SurfaceStatus
// @Failure      400  {object}  types.ErrorResponse
// @Failure      415  {object}  types.ErrorResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /image [post]
func (h *handlers) postImage(w http.ResponseWriter, r *http.Request) {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(ct, "image/") {
		IncrementRejected("unsupported_media")
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be an image type")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	start := time.Now()
	img, format, err := imaging.Decode(r.Body)
	if err != nil {
		IncrementRejected("bad_image")
		writeJSONError(w, http.StatusBadRequest, "invalid image body")
		return
	}
	data, err := imaging.EncodeDataURL(img, previewMaxDim)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode image")
		return
	}
	if err := h.svc.SendImage(data); err != nil {
		writeServiceError(w, r, err)
		return
	}
	logRequest(r, LevelInfo, http.StatusAccepted, nil, "image delivered",
		"format", format, "dur", time.Since(start).String())
	writeJSON(w, http.StatusAccepted, h.svc.SurfaceStatus())
}

// postGeometry godoc
// @Summary      Report a container size change
// @Tags         surface
// @Accept       json
// @Produce      json
// @Param        size  body  types.GeometryRequest  true  "container size"
// @Success      202
// @Success      204
// @Failure      400  {object}  types.ErrorResponse
// @Router       /geometry [post]
func (h *handlers) postGeometry(w http.ResponseWriter, r *http.Request) {
	var req types.GeometryRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Width < 0 || req.Height < 0 {
		writeJSONError(w, http.StatusBadRequest, "width and height must be non-negative")
		return
	}
	if h.svc.ObserveGeometry(resize.Size{Width: req.Width, Height: req.Height}) {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	// suppressed as noise, or no surface attached
	w.WriteHeader(http.StatusNoContent)
}

// getSurface godoc
// @Summary      Surface handshake status
// @Tags         surface
// @Produce      json
// @Success      200  {object}  types.SurfaceStatus
// @Router       /surface [get]
func (h *handlers) getSurface(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.SurfaceStatus())
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "slot index must be an integer")
		return 0, false
	}
	return idx, true
}

// decodeJSONBody enforces the content type and body limit, writing the error
// response itself when it reports false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		IncrementRejected("unsupported_media")
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		// oversized bodies also land here; the size is not reported back
		IncrementRejected("bad_json")
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeServiceError maps session errors to status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var he HTTPError
	switch {
	case slots.IsInvariantViolation(err):
		status = http.StatusConflict
	case slots.IsOutOfRange(err):
		status = http.StatusNotFound
	case panel.IsNotAttached(err), panel.IsDetached(err):
		status = http.StatusServiceUnavailable
	case errors.As(err, &he):
		status = he.StatusCode()
	}
	logRequest(r, LevelInfo, status, err, "request refused")
	writeJSONError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logf("encode response: %v", err)
	}
}
