package handlers

import (
	"net/http"

	"tendersdz/models"
)

type suppliersData struct {
	Suppliers []models.Supplier
}

func (h *Handler) SuppliersPageHandler(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.Backend.ListSuppliers(r.Context())
	if err != nil {
		h.loadFailed(w, r, err, "Failed to load suppliers", "suppliers", "Suppliers", suppliersData{})
		return
	}
	h.render(w, r, http.StatusOK, "suppliers", "Suppliers", "", suppliersData{Suppliers: suppliers})
}

func (h *Handler) CreateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	in := models.SupplierInput{
		Name:     formValue(r, "name"),
		Contact:  models.StringPtr(r.PostFormValue("contact")),
		Country:  models.StringPtr(r.PostFormValue("country")),
		IsOEM:    formBool(r, "is_oem"),
		Verified: formBool(r, "verified"),
	}
	if _, err := h.Backend.CreateSupplier(r.Context(), in); err != nil {
		h.writeFailed(w, r, err, "Failed to create supplier", "/suppliers")
		return
	}
	h.done(w, r, "/suppliers", "Supplier created")
}

// UpdateSupplierHandler - чекбоксы без отметки не приходят в форме, поэтому
// флаги передаются всегда
func (h *Handler) UpdateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "supplierId")
	if err != nil {
		http.Error(w, "Invalid supplierId", http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	isOEM := formBool(r, "is_oem")
	verified := formBool(r, "verified")
	patch := models.SupplierPatch{
		Name:     formPtr(r, "name"),
		Contact:  formPtr(r, "contact"),
		Country:  formPtr(r, "country"),
		IsOEM:    &isOEM,
		Verified: &verified,
	}
	if _, err := h.Backend.UpdateSupplier(r.Context(), id, patch); err != nil {
		h.writeFailed(w, r, err, "Failed to update supplier", "/suppliers")
		return
	}
	h.done(w, r, "/suppliers", "Supplier updated")
}

func (h *Handler) DeleteSupplierHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "supplierId")
	if err != nil {
		http.Error(w, "Invalid supplierId", http.StatusBadRequest)
		return
	}
	if err := h.Backend.DeleteSupplier(r.Context(), id); err != nil {
		h.writeFailed(w, r, err, "Failed to delete supplier", "/suppliers")
		return
	}
	h.done(w, r, "/suppliers", "Supplier deleted")
}
