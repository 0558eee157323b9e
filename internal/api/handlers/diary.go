package handlers

import (
	"net/http"

	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/service"
	"github.com/google/uuid"
)

type DiaryHandler struct {
	diaryService *service.DiaryService
}

func NewDiaryHandler(diaryService *service.DiaryService) *DiaryHandler {
	return &DiaryHandler{diaryService: diaryService}
}

type CreateDiaryRequest struct {
	Title   string      `json:"title"`
	Content string      `json:"content"`
	Mood    domain.Mood `json:"mood"`
}

type UpdateDiaryRequest struct {
	Title   *string      `json:"title"`
	Content *string      `json:"content"`
	Mood    *domain.Mood `json:"mood"`
}

type AddTagRequest struct {
	TagID uuid.UUID `json:"tag_id"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}

type AnalysisErrorResponse struct {
	Error   string `json:"error"`
	RawText string `json:"raw_text"`
}

// AnalyzeResponse is the diary after analysis. AnalysisError is set when the
// model output could not be parsed.
type AnalyzeResponse struct {
	*domain.Diary
	AnalysisError *AnalysisErrorResponse `json:"analysis_error,omitempty"`
}

func (h *DiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req CreateDiaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	diary, err := h.diaryService.Create(r.Context(), userID, service.CreateDiaryInput{
		Title:   req.Title,
		Content: req.Content,
		Mood:    req.Mood,
	})
	if err != nil {
		handleServiceError(w, "handlers.CreateDiary", err)
		return
	}

	writeJSON(w, http.StatusCreated, diary)
}

func (h *DiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	diaries, err := h.diaryService.List(r.Context(), userID, domain.DiarySort(q.Get("sort")), q.Get("tag"))
	if err != nil {
		handleServiceError(w, "handlers.ListDiaries", err)
		return
	}

	writeJSON(w, http.StatusOK, diaries)
}

func (h *DiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	diaryID, ok := uuidParam(w, r, "id", domain.ErrDiaryNotFound)
	if !ok {
		return
	}

	diary, err := h.diaryService.Get(r.Context(), userID, diaryID)
	if err != nil {
		handleServiceError(w, "handlers.GetDiary", err)
		return
	}

	writeJSON(w, http.StatusOK, diary)
}

func (h *DiaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	diaryID, ok := uuidParam(w, r, "id", domain.ErrDiaryNotFound)
	if !ok {
		return
	}

	var req UpdateDiaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	diary, err := h.diaryService.Update(r.Context(), userID, diaryID, domain.DiaryPatch{
		Title:   req.Title,
		Content: req.Content,
		Mood:    req.Mood,
	})
	if err != nil {
		handleServiceError(w, "handlers.UpdateDiary", err)
		return
	}

	writeJSON(w, http.StatusOK, diary)
}

func (h *DiaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	diaryID, ok := uuidParam(w, r, "id", domain.ErrDiaryNotFound)
	if !ok {
		return
	}

	if err := h.diaryService.Delete(r.Context(), userID, diaryID); err != nil {
		handleServiceError(w, "handlers.DeleteDiary", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DiaryHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	diaryID, ok := uuidParam(w, r, "id", domain.ErrDiaryNotFound)
	if !ok {
		return
	}

	summary, err := h.diaryService.Summarize(r.Context(), userID, diaryID)
	if err != nil {
		handleServiceError(w, "handlers.SummarizeDiary", err)
		return
	}

	writeJSON(w, http.StatusOK, SummaryResponse{Summary: summary})
}

func (h *DiaryHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	diaryID, ok := uuidParam(w, r, "id", domain.ErrDiaryNotFound)
	if !ok {
		return
	}

	result, err := h.diaryService.Analyze(r.Context(), userID, diaryID)
	if err != nil {
		handleServiceError(w, "handlers.AnalyzeDiary", err)
		return
	}

	resp := AnalyzeResponse{Diary: result.Diary}
	if result.Analysis.Failed() {
		resp.AnalysisError = &AnalysisErrorResponse{
			Error:   result.Analysis.Error,
			RawText: result.Analysis.RawText,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *DiaryHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	diaryID, ok := uuidParam(w, r, "id", domain.ErrDiaryNotFound)
	if !ok {
		return
	}

	tags, err := h.diaryService.ListTags(r.Context(), userID, diaryID)
	if err != nil {
		handleServiceError(w, "handlers.ListDiaryTags", err)
		return
	}

	writeJSON(w, http.StatusOK, tags)
}

func (h *DiaryHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	diaryID, ok := uuidParam(w, r, "id", domain.ErrDiaryNotFound)
	if !ok {
		return
	}

	var req AddTagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.TagID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "tag_id is required")
		return
	}

	tags, err := h.diaryService.AddTag(r.Context(), userID, diaryID, req.TagID)
	if err != nil {
		handleServiceError(w, "handlers.AddDiaryTag", err)
		return
	}

	writeJSON(w, http.StatusOK, tags)
}

func (h *DiaryHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	diaryID, ok := uuidParam(w, r, "id", domain.ErrDiaryNotFound)
	if !ok {
		return
	}
	tagID, ok := uuidParam(w, r, "tagID", domain.ErrTagNotFound)
	if !ok {
		return
	}

	if err := h.diaryService.RemoveTag(r.Context(), userID, diaryID, tagID); err != nil {
		handleServiceError(w, "handlers.RemoveDiaryTag", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
