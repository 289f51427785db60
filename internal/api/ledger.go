package api

import (
	"net/http"
)

// ─── Ledger Endpoints ───────────────────────────────────────────────────────
// POST /api/ledger/recharge — credit a balance from an experience
// POST /api/ledger/debit    — charge a product, consume inventory
// POST /api/ledger/donate   — caller-chosen-amount debit toward a gallery work
// GET  /api/transactions    — history, optionally filtered by ?celular=
//
// All three operations answer 200 with the committed record; a Fallido
// record is still a 200 — the terminal decides how to surface it. Only
// infrastructure faults produce an HTTP error, and those commit no record.

type rechargeRequest struct {
	Celular       string `json:"celular"`
	IDExperiencia string `json:"idExperiencia"`
}

// handleRecharge credits the experience's price to the user's balance.
func (s *Server) handleRecharge(w http.ResponseWriter, r *http.Request) {
	var req rechargeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Celular == "" || req.IDExperiencia == "" {
		writeError(w, http.StatusBadRequest, "celular and idExperiencia are required")
		return
	}
	rec, err := s.engine.Recharge(r.Context(), req.Celular, req.IDExperiencia)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type debitRequest struct {
	Celular    string `json:"celular"`
	IDProducto string `json:"idProducto"`
}

// handleDebit charges the product's price and decrements inventory.
func (s *Server) handleDebit(w http.ResponseWriter, r *http.Request) {
	var req debitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Celular == "" || req.IDProducto == "" {
		writeError(w, http.StatusBadRequest, "celular and idProducto are required")
		return
	}
	rec, err := s.engine.Debit(r.Context(), req.Celular, req.IDProducto)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type donateRequest struct {
	Celular    string `json:"celular"`
	Monto      int64  `json:"monto"`
	IDObra     string `json:"idObra"`
	NombreObra string `json:"nombreObra"`
}

// handleDonate debits the donation amount. On a successful record the
// handler also bumps the work's display total; a failure there is logged
// into the response but does not undo the debit — the record is the source
// of truth for donation amounts.
func (s *Server) handleDonate(w http.ResponseWriter, r *http.Request) {
	var req donateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Celular == "" {
		writeError(w, http.StatusBadRequest, "celular is required")
		return
	}
	rec, err := s.engine.Donate(r.Context(), req.Celular, req.Monto, req.IDObra, req.NombreObra)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := map[string]interface{}{"record": rec}
	if rec.Exitoso() && req.IDObra != "" {
		total, err := s.catalog.AddDonationTotal(r.Context(), req.IDObra, req.Monto)
		if err != nil {
			resp["donacionesError"] = err.Error()
		} else {
			resp["donaciones"] = total
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleTransactions lists history, newest first. With ?celular= the list
// is filtered to one phone number; without it the full ledger is returned
// for administrative review.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	celular := r.URL.Query().Get("celular")

	var recs interface{}
	var err error
	if celular != "" {
		recs, err = s.history.ByPhone(r.Context(), celular)
	} else {
		recs, err = s.history.All(r.Context())
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
