package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pulso-app/pulso/internal/domain"
)

// ─── User Administration ────────────────────────────────────────────────────
// GET    /api/users              — all users, newest first
// POST   /api/users              — create one user
// POST   /api/users/bulk         — create many users atomically
// GET    /api/users/find?celular= — resolve a phone number
// GET    /api/users/{id}
// PATCH  /api/users/{id}
// DELETE /api/users/{id}
// POST   /api/users/{id}/contacts/{contactID}
// DELETE /api/users/{id}/contacts/{contactID}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in domain.NewUserInput
	if !decodeBody(w, r, &in) {
		return
	}
	u, err := s.users.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleCreateUsersBulk(w http.ResponseWriter, r *http.Request) {
	var inputs []domain.NewUserInput
	if !decodeBody(w, r, &inputs) {
		return
	}
	if len(inputs) == 0 {
		writeError(w, http.StatusBadRequest, "empty user list")
		return
	}
	ids, err := s.users.CreateBulk(r.Context(), inputs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"ids": ids})
}

func (s *Server) handleFindUser(w http.ResponseWriter, r *http.Request) {
	celular := r.URL.Query().Get("celular")
	if celular == "" {
		writeError(w, http.StatusBadRequest, "celular query parameter is required")
		return
	}
	u, err := s.users.FindByPhone(r.Context(), celular)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, domain.ReasonUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch domain.UserPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	if err := s.users.Update(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAddContact(w http.ResponseWriter, r *http.Request) {
	err := s.users.AddContact(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "contactID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

func (s *Server) handleRemoveContact(w http.ResponseWriter, r *http.Request) {
	err := s.users.RemoveContact(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "contactID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
