package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/brickyard/pkg/brick"
	"github.com/matzehuels/brickyard/pkg/builder"
	"github.com/matzehuels/brickyard/pkg/catalog"
	errs "github.com/matzehuels/brickyard/pkg/errors"
	brickio "github.com/matzehuels/brickyard/pkg/io"
	"github.com/matzehuels/brickyard/pkg/render/plan"
)

// maxBodySize bounds request bodies, including imported builds.
const maxBodySize = 4 << 20

// actionResponse answers every state-changing request.
type actionResponse struct {
	Applied bool          `json:"applied"`
	State   builder.State `json:"state"`
}

type paletteResponse struct {
	Definitions []brick.Definition `json:"definitions"`
	Default     string             `json:"default"`
	Swatches    []string           `json:"swatches"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, paletteResponse{
		Definitions: s.opts.Catalog.Definitions(),
		Default:     s.opts.Catalog.DefaultID(),
		Swatches:    catalog.Swatches,
	})
}

func (s *Server) handleCreateScene(w http.ResponseWriter, r *http.Request) {
	id := s.createScene()
	w.Header().Set("Location", "/scenes/"+id)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeleteScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sceneID")
	if !s.deleteScene(id) {
		writeError(w, errs.New(errs.ErrCodeSceneNotFound, "scene %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	writeJSON(w, http.StatusOK, e.State())
}

// =============================================================================
// Pointer events
// =============================================================================

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	var req struct {
		Point *brick.Vec3 `json:"point"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Point == nil {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "point is required"))
		return
	}
	writeAction(w, e.PlaceOrMove(*req.Point), e)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	var req struct {
		ID *string `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ID == nil {
		e.Deselect()
	} else {
		e.SelectBrick(*req.ID)
	}
	writeAction(w, true, e)
}

func (s *Server) handleMiss(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	e.Deselect()
	writeAction(w, true, e)
}

// =============================================================================
// Toolbar
// =============================================================================

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	writeAction(w, e.Undo(), e)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	writeAction(w, e.Redo(), e)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	if err := e.Save(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeAction(w, true, e)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	if err := e.Load(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeAction(w, true, e)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !req.Confirm {
		writeError(w, errs.New(errs.ErrCodeConfirmationRequired, "clearing the build requires {\"confirm\": true}"))
		return
	}
	writeAction(w, e.Clear(true), e)
}

func (s *Server) handleActiveType(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	var req struct {
		TypeID string `json:"typeId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.TypeID == "" {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "typeId is required"))
		return
	}
	e.SetActiveType(req.TypeID)
	writeAction(w, true, e)
}

func (s *Server) handleCamera(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	var req struct {
		View builder.CameraView `json:"view"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeAction(w, e.SetCameraView(req.View), e)
}

// =============================================================================
// Properties
// =============================================================================

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	props, ok := e.Properties()
	if !ok {
		writeError(w, errs.New(errs.ErrCodeNotFound, "no brick selected"))
		return
	}
	writeJSON(w, http.StatusOK, props)
}

func (s *Server) handleColor(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	var req struct {
		Color string `json:"color"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := errs.ValidateColor(req.Color); err != nil {
		writeError(w, err)
		return
	}
	writeAction(w, e.SetColor(req.Color), e)
}

func (s *Server) handleDeleteSelection(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	writeAction(w, e.DeleteSelected(), e)
}

// =============================================================================
// Import, export and plan
// =============================================================================

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	w.Header().Set("Content-Type", "application/json")
	if err := brickio.WriteJSON(e.Bricks(), w); err != nil {
		s.opts.Logger.Warn("export failed", "err", err)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	bricks, err := brickio.ReadJSON(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := e.Import(bricks); err != nil {
		writeError(w, err)
		return
	}
	writeAction(w, true, e)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request, e *builder.Engine) {
	labels, _ := strconv.ParseBool(r.URL.Query().Get("labels"))
	dot := plan.ToDOT(e.Bricks(), e.Catalog(), plan.Options{Labels: labels})
	svg, err := plan.RenderSVG(r.Context(), dot)
	if err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "render plan"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

// =============================================================================
// Encoding
// =============================================================================

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAction(w http.ResponseWriter, applied bool, e *builder.Engine) {
	writeJSON(w, http.StatusOK, actionResponse{Applied: applied, State: e.State()})
}

type errorResponse struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorResponse{Code: code, Message: errs.UserMessage(err)})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errs.Code) int {
	switch {
	case code == errs.ErrCodeInvalidConfig:
		return http.StatusInternalServerError
	case code.IsNotFound():
		return http.StatusNotFound
	case code.IsInvalid():
		return http.StatusBadRequest
	case code == errs.ErrCodeConfirmationRequired:
		return http.StatusPreconditionRequired
	case code == errs.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	case code == errs.ErrCodeStorage:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
