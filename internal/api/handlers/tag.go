package handlers

import (
	"net/http"

	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/service"
)

type TagHandler struct {
	tagService *service.TagService
}

func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

type CreateTagRequest struct {
	Name string `json:"name"`
}

func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tag, err := h.tagService.Create(r.Context(), req.Name)
	if err != nil {
		handleServiceError(w, "handlers.CreateTag", err)
		return
	}

	writeJSON(w, http.StatusCreated, tag)
}

func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.List(r.Context())
	if err != nil {
		handleServiceError(w, "handlers.ListTags", err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *TagHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", domain.ErrTagNotFound)
	if !ok {
		return
	}

	tag, err := h.tagService.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, "handlers.GetTag", err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", domain.ErrTagNotFound)
	if !ok {
		return
	}

	if err := h.tagService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, "handlers.DeleteTag", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
