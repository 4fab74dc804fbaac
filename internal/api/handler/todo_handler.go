package handler

import (
	"encoding/json"
	"net/http"
	"todo_service/internal/api/middleware"
	"todo_service/internal/app/service"
	"todo_service/internal/common"
	"todo_service/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type TodoHandler struct {
	todoService *service.TodoService
}

func NewTodoHandler(todoService *service.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

func (h *TodoHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator) // All todo routes require auth

	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{todoID}", h.retrieve)
	r.Put("/{todoID}", h.update)
	r.Patch("/{todoID}", h.update)
	r.Delete("/{todoID}", h.delete)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.AdminOnly)
		admin.Get("/by_user", h.byUser)
	})
}

func (h *TodoHandler) list(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}
	page, pageSize := common.PageParams(r)

	todos, total, err := h.todoService.List(r.Context(), caller, page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.NewPaginatedResponse(r, total, page, pageSize, todos))
}

func (h *TodoHandler) create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req service.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	todo, err := h.todoService.Create(r.Context(), caller, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, todo)
}

func (h *TodoHandler) retrieve(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}

	todo, err := h.todoService.Get(r.Context(), caller, chi.URLParam(r, "todoID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req service.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	todo, err := h.todoService.Update(r.Context(), caller, chi.URLParam(r, "todoID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}

	if err := h.todoService.Delete(r.Context(), caller, chi.URLParam(r, "todoID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TodoHandler) byUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		common.RespondWithError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	page, pageSize := common.PageParams(r)

	todos, total, err := h.todoService.ListByUser(r.Context(), userID, page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.NewPaginatedResponse(r, total, page, pageSize, todos))
}

func callerOrUnauthorized(w http.ResponseWriter, r *http.Request) (model.Principal, bool) {
	caller, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
	}
	return caller, ok
}
