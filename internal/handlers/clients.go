package handlers

import (
	"net/http"

	"tendersdz/models"
)

type clientsData struct {
	Clients []models.Client
}

// ClientsPageHandler показывает клиентов
func (h *Handler) ClientsPageHandler(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Backend.ListClients(r.Context())
	if err != nil {
		h.loadFailed(w, r, err, "Failed to load clients", "clients", "Clients", clientsData{})
		return
	}
	h.render(w, r, http.StatusOK, "clients", "Clients", "", clientsData{Clients: clients})
}

// CreateClientHandler обрабатывает POST /clients
func (h *Handler) CreateClientHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	in := models.ClientInput{
		Name:    formValue(r, "name"),
		Contact: models.StringPtr(r.PostFormValue("contact")),
		Country: models.StringPtr(r.PostFormValue("country")),
		Notes:   models.StringPtr(r.PostFormValue("notes")),
	}
	if _, err := h.Backend.CreateClient(r.Context(), in); err != nil {
		h.writeFailed(w, r, err, "Failed to create client", "/clients")
		return
	}
	h.done(w, r, "/clients", "Client created")
}

// UpdateClientHandler обрабатывает POST /clients/{clientId}
func (h *Handler) UpdateClientHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "clientId")
	if err != nil {
		http.Error(w, "Invalid clientId", http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	patch := models.ClientPatch{
		Name:    formPtr(r, "name"),
		Contact: formPtr(r, "contact"),
		Country: formPtr(r, "country"),
		Notes:   formPtr(r, "notes"),
	}
	if _, err := h.Backend.UpdateClient(r.Context(), id, patch); err != nil {
		h.writeFailed(w, r, err, "Failed to update client", "/clients")
		return
	}
	h.done(w, r, "/clients", "Client updated")
}

// DeleteClientHandler обрабатывает POST /clients/{clientId}/delete
func (h *Handler) DeleteClientHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "clientId")
	if err != nil {
		http.Error(w, "Invalid clientId", http.StatusBadRequest)
		return
	}
	if err := h.Backend.DeleteClient(r.Context(), id); err != nil {
		h.writeFailed(w, r, err, "Failed to delete client", "/clients")
		return
	}
	h.done(w, r, "/clients", "Client deleted")
}
