package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/colonyops/assess/internal/assess"
	"github.com/colonyops/assess/internal/core/assessment"
)

type handlers struct {
	tasks *assess.TaskService
	log   zerolog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) listTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tasks.Templates(r.Context()))
}

func (h *handlers) getTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.tasks.Template(r.Context(), chi.URLParam(r, "templateID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.tasks.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *handlers) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.Tasks(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *handlers) createTask(w http.ResponseWriter, r *http.Request) {
	var draft assessment.TaskDraft
	if !decode(w, r, &draft) {
		return
	}

	task, err := h.tasks.Create(r.Context(), draft)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *handlers) getTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.Task(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *handlers) updateTask(w http.ResponseWriter, r *http.Request) {
	var patch assessment.TaskPatch
	if !decode(w, r, &patch) {
		return
	}

	task, err := h.tasks.Update(r.Context(), chi.URLParam(r, "taskID"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *handlers) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.Delete(r.Context(), chi.URLParam(r, "taskID")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Del("Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.tasks.Items(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handlers) updateItem(w http.ResponseWriter, r *http.Request) {
	var patch assessment.ItemPatch
	if !decode(w, r, &patch) {
		return
	}

	item, err := h.tasks.RateItem(r.Context(), chi.URLParam(r, "taskID"), chi.URLParam(r, "itemID"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handlers) getResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.tasks.Result(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// fail maps service errors onto status codes. Internal errors are logged and
// reported without detail.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, assessment.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, assessment.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error().Ctx(r.Context()).Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
