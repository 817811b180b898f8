package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formcraft/pkg/exporter"
	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/render"
	"github.com/goliatone/go-formcraft/pkg/rules"
	"github.com/goliatone/go-formcraft/pkg/templates"
	"github.com/goliatone/go-formcraft/pkg/visibility"
)

type addFieldResponse struct {
	ID    string      `json:"id"`
	State model.State `json:"state"`
}

type reorderRequest struct {
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
}

type moveRequest struct {
	StepID string `json:"stepId"`
}

type currentStepRequest struct {
	Step int `json:"step"`
}

type validateRequest struct {
	Values map[string]any `json:"values"`
	Locale string         `json:"locale,omitempty"`
}

type validateResponse struct {
	Valid    bool                `json:"valid"`
	Errors   map[string][]string `json:"errors"`
	Required []string            `json:"required"`
}

func (s *Server) getSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) updateSchema(w http.ResponseWriter, r *http.Request) {
	var patch model.SchemaPatch
	if !decodeOrReject(w, r, &patch) {
		return
	}
	state := s.session.Apply("update_schema", func(rd *model.Reducer, st model.State) model.State {
		return rd.UpdateSchema(st, patch)
	})
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) addField(w http.ResponseWriter, r *http.Request) {
	var field model.Field
	if !decodeOrReject(w, r, &field) {
		return
	}
	if !field.Type.Valid() {
		writeError(w, http.StatusBadRequest, codeInvalidFieldType, fmt.Sprintf("unsupported field type %q", field.Type))
		return
	}
	if field.Options == nil && field.Type.HasOptions() {
		field.Options = model.PaletteField(field.Type).Options
	}

	var id string
	state := s.session.Apply("add_field", func(rd *model.Reducer, st model.State) model.State {
		var next model.State
		next, id = rd.AddFieldID(st, field)
		return next
	})
	writeJSON(w, http.StatusCreated, addFieldResponse{ID: id, State: state})
}

func (s *Server) updateField(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch model.FieldPatch
	if !decodeOrReject(w, r, &patch) {
		return
	}
	if patch.Type != nil && !patch.Type.Valid() {
		writeError(w, http.StatusBadRequest, codeInvalidFieldType, fmt.Sprintf("unsupported field type %q", *patch.Type))
		return
	}
	if !s.flatFieldExists(w, id) {
		return
	}
	state := s.session.Apply("update_field", func(rd *model.Reducer, st model.State) model.State {
		return rd.UpdateField(st, id, patch)
	})
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) removeField(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.flatFieldExists(w, id) {
		return
	}
	state := s.session.Apply("remove_field", func(rd *model.Reducer, st model.State) model.State {
		return rd.RemoveField(st, id)
	})
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) reorderFields(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	if !s.flatFieldExists(w, req.ActiveID) || !s.flatFieldExists(w, req.OverID) {
		return
	}
	state := s.session.Apply("reorder_fields", func(rd *model.Reducer, st model.State) model.State {
		return rd.ReorderFields(st, req.ActiveID, req.OverID)
	})
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) moveField(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req moveRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	if !s.flatFieldExists(w, id) || !s.stepExists(w, req.StepID) {
		return
	}
	state := s.session.Apply("move_field", func(rd *model.Reducer, st model.State) model.State {
		return rd.MoveFieldToStep(st, id, req.StepID)
	})
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) selectField(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap := s.session.Snapshot()
	if _, ok := model.FindField(snap.Schema, id); !ok && !hasFlatField(snap.Schema, id) {
		writeError(w, http.StatusNotFound, codeFieldNotFound, fmt.Sprintf("field %q not found", id))
		return
	}
	state := s.session.Apply("select_field", func(rd *model.Reducer, st model.State) model.State {
		return rd.SelectField(st, id)
	})
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) toggleMultiStep(w http.ResponseWriter, r *http.Request) {
	state := s.session.Apply("toggle_multistep", func(rd *model.Reducer, st model.State) model.State {
		return rd.ToggleMultiStep(st)
	})
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) addStep(w http.ResponseWriter, r *http.Request) {
	state := s.session.Apply("add_step", func(rd *model.Reducer, st model.State) model.State {
		return rd.AddStep(st)
	})
	writeJSON(w, http.StatusCreated, state)
}

func (s *Server) updateStep(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch model.StepPatch
	if !decodeOrReject(w, r, &patch) {
		return
	}
	if !s.stepExists(w, id) {
		return
	}
	state := s.session.Apply("update_step", func(rd *model.Reducer, st model.State) model.State {
		return rd.UpdateStep(st, id, patch)
	})
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) removeStep(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.stepExists(w, id) {
		return
	}
	state := s.session.Apply("remove_step", func(rd *model.Reducer, st model.State) model.State {
		return rd.RemoveStep(st, id)
	})
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) setCurrentStep(w http.ResponseWriter, r *http.Request) {
	var req currentStepRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	snap := s.session.Snapshot()
	if !snap.Schema.IsMultiStep {
		writeError(w, http.StatusBadRequest, codeNotMultiStep, "schema is not in multi-step mode")
		return
	}
	if req.Step < 0 || req.Step >= len(snap.Schema.Steps) {
		writeError(w, http.StatusBadRequest, codeStepOutOfRange,
			fmt.Sprintf("step %d out of range [0,%d)", req.Step, len(snap.Schema.Steps)))
		return
	}
	state := s.session.Apply("set_current_step", func(rd *model.Reducer, st model.State) model.State {
		return rd.SetCurrentStep(st, req.Step)
	})
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	list := s.templates.List()
	if list == nil {
		list = []templates.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) loadTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	tpl, err := s.templates.Get(name)
	if err != nil {
		if errors.Is(err, templates.ErrTemplateNotFound) {
			writeError(w, http.StatusNotFound, codeTemplateNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, codeInternal, err.Error())
		return
	}
	state := s.session.Apply("load_template", func(rd *model.Reducer, st model.State) model.State {
		return rd.LoadTemplate(st, tpl.Schema)
	})
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "target")
	query := r.URL.Query()

	result, err := s.exporter.Export(r.Context(), s.session.Snapshot(), exporter.Request{
		Target:        target,
		RenderOptions: s.renderOptions(query.Get("locale")),
	})
	if err != nil {
		if errors.Is(err, render.ErrRendererNotFound) {
			writeError(w, http.StatusNotFound, codeTargetNotFound, err.Error())
			return
		}
		s.logger.Error("export", "target", target, "error", err)
		writeError(w, http.StatusInternalServerError, codeExportFailed, err.Error())
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	if download, _ := strconv.ParseBool(query.Get("download")); download && result.FileName != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Body); err != nil {
		s.logger.Warn("export: write body", "error", err)
	}
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	if req.Values == nil {
		req.Values = map[string]any{}
	}

	live := model.LiveFields(s.session.Snapshot().Schema)
	byID := make(map[string]model.Field, len(live))
	for _, field := range live {
		byID[field.ID] = field
	}
	compiled := rules.CompileAll(live)
	checker := rules.NewChecker(rules.WithMessages(render.Messages(s.renderOptions(req.Locale))))
	failures := checker.CheckAll(compiled, req.Values, func(id string) bool {
		field, ok := byID[id]
		return !ok || visibility.IsVisible(field, req.Values)
	})

	required := rules.RequiredFields(compiled)
	if required == nil {
		required = []string{}
	}
	writeJSON(w, http.StatusOK, validateResponse{
		Valid:    len(failures) == 0,
		Errors:   failures,
		Required: required,
	})
}

func (s *Server) renderOptions(locale string) render.RenderOptions {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = s.locale
	}
	return render.RenderOptions{Locale: locale, Translator: s.translator}
}

func (s *Server) flatFieldExists(w http.ResponseWriter, id string) bool {
	if hasFlatField(s.session.Snapshot().Schema, id) {
		return true
	}
	writeError(w, http.StatusNotFound, codeFieldNotFound, fmt.Sprintf("field %q not found", id))
	return false
}

func (s *Server) stepExists(w http.ResponseWriter, id string) bool {
	for _, step := range s.session.Snapshot().Schema.Steps {
		if step.ID == id {
			return true
		}
	}
	writeError(w, http.StatusNotFound, codeStepNotFound, fmt.Sprintf("step %q not found", id))
	return false
}

func hasFlatField(schema model.Schema, id string) bool {
	for _, field := range schema.Fields {
		if field.ID == id {
			return true
		}
	}
	return false
}
