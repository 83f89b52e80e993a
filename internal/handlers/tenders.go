package handlers

import (
	"fmt"
	"net/http"

	"tendersdz/internal/export"
	"tendersdz/models"

	"golang.org/x/sync/errgroup"
)

type tendersData struct {
	Tenders     []models.Tender
	Clients     []models.Client
	ClientNames map[int]string
	Statuses    []models.TenderStatus
	Form        models.TenderInput
}

type tenderData struct {
	Tender     *models.Tender
	Items      []models.TenderItem
	Clients    []models.Client
	Statuses   []models.TenderStatus
	Categories []models.TenderCategory
	NewItem    *models.TenderItemInput
}

func tenderPath(id int) string {
	return fmt.Sprintf("/tenders/%d", id)
}

// TendersPageHandler показывает тендеры с именами клиентов
func (h *Handler) TendersPageHandler(w http.ResponseWriter, r *http.Request) {
	data := tendersData{Statuses: models.TenderStatuses, Form: models.NewTenderInput()}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		data.Tenders, err = h.Backend.ListTenders(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.Clients, err = h.Backend.ListClients(ctx)
		return err
	})
	err := g.Wait()
	data.ClientNames = export.ClientNames(data.Clients)
	if err != nil {
		h.loadFailed(w, r, err, "Failed to load tenders", "tenders", "Tenders", data)
		return
	}
	h.render(w, r, http.StatusOK, "tenders", "Tenders", "", data)
}

func parseTenderForm(r *http.Request) (models.TenderInput, error) {
	in := models.NewTenderInput()
	clientID, err := formInt(r, "client_id")
	if err != nil {
		return in, err
	}
	deadline, err := formDeadline(r, "submission_deadline")
	if err != nil {
		return in, err
	}
	in.ClientID = clientID
	in.Title = formValue(r, "title")
	in.ReferenceNo = models.StringPtr(r.PostFormValue("reference_no"))
	if v := formValue(r, "currency"); v != "" {
		in.Currency = v
	}
	if v := formValue(r, "status"); v != "" {
		in.Status = models.TenderStatus(v).Normalize()
	}
	in.SubmissionDeadline = deadline
	return in, nil
}

// CreateTenderHandler обрабатывает POST /tenders
func (h *Handler) CreateTenderHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	in, err := parseTenderForm(r)
	if err != nil {
		h.writeFailed(w, r, err, "Invalid tender", "/tenders")
		return
	}
	tender, err := h.Backend.CreateTender(r.Context(), in)
	if err != nil {
		h.writeFailed(w, r, err, "Failed to create tender", "/tenders")
		return
	}
	h.done(w, r, tenderPath(tender.ID), "Tender created")
}

// TenderPageHandler - карточка тендера: заголовок и позиции
func (h *Handler) TenderPageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "tenderId")
	if err != nil {
		http.Error(w, "Invalid tenderId", http.StatusBadRequest)
		return
	}
	data := tenderData{Statuses: models.TenderStatuses, Categories: models.TenderCategories}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		data.Tender, err = h.Backend.GetTender(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		data.Items, err = h.Backend.ListTenderItems(ctx, &id)
		return err
	})
	g.Go(func() (err error) {
		data.Clients, err = h.Backend.ListClients(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		data.Tender = nil
		h.loadFailed(w, r, err, "Failed to load tender", "tender", "Tender", data)
		return
	}
	newItem := models.NewTenderItemInput(id)
	data.NewItem = &newItem
	h.render(w, r, http.StatusOK, "tender", data.Tender.Title, "", data)
}

// UpdateTenderHandler сохраняет заголовок тендера. Срок подачи передается,
// только если он отличается от показанного в форме (submission_deadline_was);
// пустое поле очищает срок.
func (h *Handler) UpdateTenderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "tenderId")
	if err != nil {
		http.Error(w, "Invalid tenderId", http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	back := tenderPath(id)

	in, err := parseTenderForm(r)
	if err != nil {
		h.writeFailed(w, r, err, "Invalid tender", back)
		return
	}
	patch := models.TenderPatch{
		Title:       &in.Title,
		ReferenceNo: formPtr(r, "reference_no"),
		Currency:    &in.Currency,
		Status:      &in.Status,
	}
	if in.ClientID != 0 {
		patch.ClientID = &in.ClientID
	}
	if formValue(r, "submission_deadline") != formValue(r, "submission_deadline_was") {
		patch.SubmissionDeadline = models.SetTimestamp(in.SubmissionDeadline)
	}
	if _, err := h.Backend.UpdateTender(r.Context(), id, patch); err != nil {
		h.writeFailed(w, r, err, "Failed to update tender", back)
		return
	}
	h.done(w, r, back, "Tender updated")
}

func (h *Handler) DeleteTenderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "tenderId")
	if err != nil {
		http.Error(w, "Invalid tenderId", http.StatusBadRequest)
		return
	}
	if err := h.Backend.DeleteTender(r.Context(), id); err != nil {
		h.writeFailed(w, r, err, "Failed to delete tender", "/tenders")
		return
	}
	h.done(w, r, "/tenders", "Tender deleted")
}
