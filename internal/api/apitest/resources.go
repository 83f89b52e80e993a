package apitest

import (
	"net/http"
	"strconv"

	"tendersdz/models"
)

func (b *Backend) listClients(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.clients.list(nil))
}

func (b *Backend) createClient(w http.ResponseWriter, r *http.Request) {
	var in models.ClientInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	c := b.clients.insert(models.Client{
		Name:    in.Name,
		Contact: in.Contact,
		Country: in.Country,
		Notes:   in.Notes,
	}, func(v *models.Client, id int) { v.ID = id })
	writeJSON(w, http.StatusOK, c)
}

func (b *Backend) updateClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	var patch models.ClientPatch
	if !decode(w, r, &patch) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.clients.get(id)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Client not found")
		return
	}
	patch.Apply(&c)
	b.clients.put(id, c)
	writeJSON(w, http.StatusOK, c)
}

func (b *Backend) deleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	referenced := b.tenders.list(func(t models.Tender) bool { return t.ClientID == id })
	if len(referenced) > 0 {
		writeDetail(w, http.StatusConflict, "Client has tenders and cannot be deleted")
		return
	}
	if !b.clients.remove(id) {
		writeDetail(w, http.StatusNotFound, "Client not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) listSuppliers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.suppliers.list(nil))
}

func (b *Backend) createSupplier(w http.ResponseWriter, r *http.Request) {
	var in models.SupplierInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.suppliers.insert(models.Supplier{
		Name:     in.Name,
		Contact:  in.Contact,
		Country:  in.Country,
		IsOEM:    in.IsOEM,
		Verified: in.Verified,
	}, func(v *models.Supplier, id int) { v.ID = id })
	writeJSON(w, http.StatusOK, s)
}

func (b *Backend) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	var patch models.SupplierPatch
	if !decode(w, r, &patch) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.suppliers.get(id)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Supplier not found")
		return
	}
	patch.Apply(&s)
	b.suppliers.put(id, s)
	writeJSON(w, http.StatusOK, s)
}

func (b *Backend) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.suppliers.remove(id) {
		writeDetail(w, http.StatusNotFound, "Supplier not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) listTenders(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.tenders.list(nil))
}

func (b *Backend) getTender(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tenders.get(id)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Tender not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (b *Backend) createTender(w http.ResponseWriter, r *http.Request) {
	var in models.TenderInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients.get(in.ClientID); !ok {
		writeDetail(w, http.StatusBadRequest, "Client not found")
		return
	}
	t := b.tenders.insert(models.Tender{
		ClientID:           in.ClientID,
		Title:              in.Title,
		ReferenceNo:        in.ReferenceNo,
		Currency:           in.Currency,
		Status:             in.Status,
		SubmissionDeadline: in.SubmissionDeadline,
	}, func(v *models.Tender, id int) { v.ID = id })
	writeJSON(w, http.StatusOK, t)
}

func (b *Backend) updateTender(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	var patch models.TenderPatch
	if !decode(w, r, &patch) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tenders.get(id)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Tender not found")
		return
	}
	if patch.ClientID != nil {
		if _, ok := b.clients.get(*patch.ClientID); !ok {
			writeDetail(w, http.StatusBadRequest, "Client not found")
			return
		}
	}
	patch.Apply(&t)
	b.tenders.put(id, t)
	writeJSON(w, http.StatusOK, t)
}

// deleteTender удаляет тендер вместе с его позициями
func (b *Backend) deleteTender(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.tenders.remove(id) {
		writeDetail(w, http.StatusNotFound, "Tender not found")
		return
	}
	for _, item := range b.items.list(func(i models.TenderItem) bool { return i.TenderID == id }) {
		b.items.remove(item.ID)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) listTenderItems(w http.ResponseWriter, r *http.Request) {
	var keep func(models.TenderItem) bool
	if raw := r.URL.Query().Get("tender_id"); raw != "" {
		tenderID, err := strconv.Atoi(raw)
		if err != nil {
			writeDetailList(w, http.StatusUnprocessableEntity, "tender_id: value is not a valid integer")
			return
		}
		keep = func(i models.TenderItem) bool { return i.TenderID == tenderID }
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.items.list(keep))
}

func (b *Backend) createTenderItem(w http.ResponseWriter, r *http.Request) {
	var in models.TenderItemInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.tenders.get(in.TenderID); !ok {
		writeDetail(w, http.StatusBadRequest, "Tender not found")
		return
	}
	item := b.items.insert(models.TenderItem{
		TenderID:             in.TenderID,
		Category:             in.Category,
		Description:          in.Description,
		Qty:                  in.Qty,
		UOM:                  in.UOM,
		AuthenticityRequired: in.AuthenticityRequired,
	}, func(v *models.TenderItem, id int) { v.ID = id })
	writeJSON(w, http.StatusOK, item)
}

func (b *Backend) updateTenderItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	var patch models.TenderItemPatch
	if !decode(w, r, &patch) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	item, ok := b.items.get(id)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Tender item not found")
		return
	}
	patch.Apply(&item)
	b.items.put(id, item)
	writeJSON(w, http.StatusOK, item)
}

func (b *Backend) deleteTenderItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.items.remove(id) {
		writeDetail(w, http.StatusNotFound, "Tender item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
