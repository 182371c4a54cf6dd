package handler

import (
	"net/http"

	"github.com/duscraft/garry/internal/domain"
	"github.com/duscraft/garry/internal/http/response"
)

type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// List serves the static category reference data. No auth; the list is
// the same for every caller.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, domain.CategoryInfos())
}
