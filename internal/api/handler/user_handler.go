package handler

import (
	"net/http"
	"todo_service/internal/api/middleware"
	"todo_service/internal/app/service"
	"todo_service/internal/common"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator)
		protected.Get("/me", h.me)

		protected.Group(func(admin chi.Router) {
			admin.Use(middleware.AdminOnly)
			admin.Get("/users", h.listUsers)
		})
	})
}

func (h *UserHandler) me(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	profile, err := h.userService.Me(r.Context(), caller.UserID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := common.PageParams(r)

	users, total, err := h.userService.ListNonAdmin(r.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.NewPaginatedResponse(r, total, page, pageSize, users))
}
