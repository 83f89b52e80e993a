package handlers

import (
	"net/http"

	"tendersdz/models"
)

func parseItemForm(r *http.Request, tenderID int) (models.TenderItemInput, error) {
	in := models.NewTenderItemInput(tenderID)
	qty, err := formFloat(r, "qty")
	if err != nil {
		return in, err
	}
	in.Qty = qty
	in.Description = formValue(r, "description")
	in.AuthenticityRequired = formBool(r, "authenticity_required")
	if v := formValue(r, "category"); v != "" {
		in.Category = models.TenderCategory(v)
	}
	if v := formValue(r, "uom"); v != "" {
		in.UOM = v
	}
	return in, nil
}

// CreateTenderItemHandler обрабатывает POST /tenders/{tenderId}/items
func (h *Handler) CreateTenderItemHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, err := urlID(r, "tenderId")
	if err != nil {
		http.Error(w, "Invalid tenderId", http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	back := tenderPath(tenderID)

	in, err := parseItemForm(r, tenderID)
	if err != nil {
		h.writeFailed(w, r, err, "Invalid item", back)
		return
	}
	if _, err := h.Backend.CreateTenderItem(r.Context(), in); err != nil {
		h.writeFailed(w, r, err, "Failed to create item", back)
		return
	}
	h.done(w, r, back, "Item added")
}

// UpdateTenderItemHandler обрабатывает POST /tenders/{tenderId}/items/{itemId}
func (h *Handler) UpdateTenderItemHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, err := urlID(r, "tenderId")
	if err != nil {
		http.Error(w, "Invalid tenderId", http.StatusBadRequest)
		return
	}
	itemID, err := urlID(r, "itemId")
	if err != nil {
		http.Error(w, "Invalid itemId", http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	back := tenderPath(tenderID)

	in, err := parseItemForm(r, tenderID)
	if err != nil {
		h.writeFailed(w, r, err, "Invalid item", back)
		return
	}
	patch := models.TenderItemPatch{
		Category:             &in.Category,
		Description:          &in.Description,
		Qty:                  &in.Qty,
		UOM:                  &in.UOM,
		AuthenticityRequired: &in.AuthenticityRequired,
	}
	if _, err := h.Backend.UpdateTenderItem(r.Context(), itemID, patch); err != nil {
		h.writeFailed(w, r, err, "Failed to update item", back)
		return
	}
	h.done(w, r, back, "Item updated")
}

func (h *Handler) DeleteTenderItemHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, err := urlID(r, "tenderId")
	if err != nil {
		http.Error(w, "Invalid tenderId", http.StatusBadRequest)
		return
	}
	itemID, err := urlID(r, "itemId")
	if err != nil {
		http.Error(w, "Invalid itemId", http.StatusBadRequest)
		return
	}
	back := tenderPath(tenderID)
	if err := h.Backend.DeleteTenderItem(r.Context(), itemID); err != nil {
		h.writeFailed(w, r, err, "Failed to delete item", back)
		return
	}
	h.done(w, r, back, "Item deleted")
}
