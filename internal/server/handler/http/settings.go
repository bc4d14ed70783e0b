package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aaronvstory/dashbash/internal/calc"
)

// SettingsService defines the calculator-settings operations required by
// the SettingsHandler.
type SettingsService interface {
	SetTarget(target, preset string)
	AddPrice(price float64)
	RemovePrice(index int)
	ClearPrices()
}

// SettingsHandler handles HTTP requests for the calculator settings and
// the best-fit arithmetic.
type SettingsHandler struct {
	Service SettingsService
}

// SetTarget handles PUT /api/settings/target with "target" and "preset".
func (h *SettingsHandler) SetTarget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Target string `json:"target"`
		Preset string `json:"preset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	h.Service.SetTarget(req.Target, req.Preset)
	w.WriteHeader(http.StatusNoContent)
}

// AddPrice handles POST /api/settings/prices with a "price" field.
func (h *SettingsHandler) AddPrice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	h.Service.AddPrice(req.Price)
	w.WriteHeader(http.StatusNoContent)
}

// RemovePrice handles DELETE /api/settings/prices/{index}.
func (h *SettingsHandler) RemovePrice(w http.ResponseWriter, r *http.Request) {
	i, ok := parseIndex(r, "index")
	if !ok {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}
	h.Service.RemovePrice(i)
	w.WriteHeader(http.StatusNoContent)
}

// ClearPrices handles DELETE /api/settings/prices.
func (h *SettingsHandler) ClearPrices(w http.ResponseWriter, r *http.Request) {
	h.Service.ClearPrices()
	w.WriteHeader(http.StatusNoContent)
}

// Calculate handles GET /api/calc?price=&target=, returning every
// affordable quantity and the best fit.
func (h *SettingsHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	price, err := strconv.ParseFloat(r.URL.Query().Get("price"), 64)
	if err != nil {
		http.Error(w, "invalid price", http.StatusBadRequest)
		return
	}
	target, err := strconv.ParseFloat(r.URL.Query().Get("target"), 64)
	if err != nil {
		http.Error(w, "invalid target", http.StatusBadRequest)
		return
	}

	opts := calc.Options(price, target)
	resp := struct {
		Options []calc.Option `json:"options"`
		Best    *calc.Option  `json:"best"`
	}{Options: opts, Best: calc.Best(opts)}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
