// internal/adapters/in/http/store/handler/category_handler.go
package storeHandler

import (
	"net/http"
	"strings"

	usecase "storefront/internal/application/usecase"
	catdom "storefront/internal/domain/category"
)

// CategoryHandler serves the public tree under /store/categories and the
// back-office commands under /admin/categories (admin gate is applied by the router).
type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

func NewCategoryHandler(uc *usecase.CategoryUsecase) http.Handler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusServiceUnavailable, "category handler is not configured")
		return
	}
	path := cleanPath(r.URL.Path)

	switch {
	// GET /store/categories?parentId=
	case path == "/store/categories":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.children(w, r)

	// GET /store/categories/{id} | /store/categories/{id}/path | /store/categories/{id}/children
	case strings.HasPrefix(path, "/store/categories/"):
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		id, rest := pathID(path, "/store/categories")
		switch rest {
		case "":
			h.get(w, r, id)
		case "/path":
			h.path(w, r, id)
		case "/children":
			h.childrenOf(w, r, id)
		default:
			notFound(w)
		}

	// POST /admin/categories
	case path == "/admin/categories":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.create(w, r)

	// PATCH|DELETE /admin/categories/{id}
	case strings.HasPrefix(path, "/admin/categories/"):
		id, rest := pathID(path, "/admin/categories")
		if rest != "" {
			notFound(w)
			return
		}
		switch r.Method {
		case http.MethodPatch:
			h.update(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			methodNotAllowed(w)
		}

	default:
		notFound(w)
	}
}

func (h *CategoryHandler) children(w http.ResponseWriter, r *http.Request) {
	h.childrenOf(w, r, r.URL.Query().Get("parentId"))
}

func (h *CategoryHandler) childrenOf(w http.ResponseWriter, r *http.Request, parentID string) {
	items, err := h.uc.GetChildren(r.Context(), parentID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if items == nil {
		items = []catdom.Category{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *CategoryHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	c, err := h.uc.GetByID(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) path(w http.ResponseWriter, r *http.Request, id string) {
	items, err := h.uc.GetCategoryPath(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *CategoryHandler) create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CategoryInput
	if err := readJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	c, err := h.uc.CreateCategory(r.Context(), in)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var patch catdom.Patch
	if err := readJSON(r, &patch); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	c, err := h.uc.UpdateCategory(r.Context(), id, patch)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	deleted, err := h.uc.DeleteCategory(r.Context(), id)
	if err != nil {
		// partial cascades report what was removed before the failure
		writeJSON(w, statusFor(err), map[string]any{
			"error":   err.Error(),
			"deleted": deleted,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}
