package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"quill/internal/delivery/http/response"
	"quill/internal/usecase"
)

// DirectoryHandler serves the internal identity resolution API consumed by
// sibling services.
type DirectoryHandler struct {
	uc usecase.DirectoryUsecase
}

// NewDirectoryHandler is the constructor for DirectoryHandler, injected by Fx.
func NewDirectoryHandler(uc usecase.DirectoryUsecase) *DirectoryHandler {
	return &DirectoryHandler{uc: uc}
}

// An absent or empty id list is a valid request resolving to an empty map,
// so the field carries no required constraint.
type resolveNicknamesRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type resolveNicknamesResponse struct {
	Nicknames map[uuid.UUID]string `json:"nicknames"`
}

// ResolveNicknames maps a batch of identity ids to nicknames. The response
// omits unknown ids; callers fall back to a placeholder name.
func (h *DirectoryHandler) ResolveNicknames(c echo.Context) error {
	var req resolveNicknamesRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid resolution input")
	}

	nicknames, err := h.uc.ResolveNicknames(c.Request().Context(), req.IDs)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, resolveNicknamesResponse{Nicknames: nicknames})
}
