package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ─── Catalog Administration ─────────────────────────────────────────────────
// Experiences, products, and gallery works are created and edited by admin
// terminals; the ledger engine only ever reads them (and decrements product
// inventory / the gallery display total as operation side effects).

type experienceRequest struct {
	Nombre string `json:"nombre"`
	Valor  int64  `json:"valor"`
}

func (s *Server) handleListExperiences(w http.ResponseWriter, r *http.Request) {
	list, err := s.catalog.ListExperiences(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateExperience(w http.ResponseWriter, r *http.Request) {
	var req experienceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	e, err := s.catalog.CreateExperience(r.Context(), req.Nombre, req.Valor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	var req experienceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.catalog.UpdateExperience(r.Context(), chi.URLParam(r, "id"), req.Nombre, req.Valor); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteExperience(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type productRequest struct {
	Nombre   string `json:"nombre"`
	Valor    int64  `json:"valor"`
	Cantidad int64  `json:"cantidad"`
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := s.catalog.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := s.catalog.CreateProduct(r.Context(), req.Nombre, req.Valor, req.Cantidad)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.catalog.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req.Nombre, req.Valor, req.Cantidad); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type galleryWorkRequest struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	VideoURL    string `json:"videoURL"`
}

func (s *Server) handleListGalleryWorks(w http.ResponseWriter, r *http.Request) {
	list, err := s.catalog.ListGalleryWorks(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateGalleryWork(w http.ResponseWriter, r *http.Request) {
	var req galleryWorkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	g, err := s.catalog.CreateGalleryWork(r.Context(), req.Nombre, req.Descripcion, req.VideoURL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleGetGalleryWork(w http.ResponseWriter, r *http.Request) {
	g, err := s.catalog.GetGalleryWork(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleUpdateGalleryWork(w http.ResponseWriter, r *http.Request) {
	var req galleryWorkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.catalog.UpdateGalleryWork(r.Context(), chi.URLParam(r, "id"), req.Nombre, req.Descripcion, req.VideoURL); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteGalleryWork(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteGalleryWork(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type donationTotalRequest struct {
	Monto int64 `json:"monto"`
}

// handleAddDonationTotal bumps a work's display-only running total. Used
// when a donation was recorded without the work id in the same call.
func (s *Server) handleAddDonationTotal(w http.ResponseWriter, r *http.Request) {
	var req donationTotalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	total, err := s.catalog.AddDonationTotal(r.Context(), chi.URLParam(r, "id"), req.Monto)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"donaciones": total})
}
