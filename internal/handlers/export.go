package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"tendersdz/internal/export"
	"tendersdz/models"

	"golang.org/x/sync/errgroup"
)

// ExportTendersHandler отдает реестр тендеров в XLSX
func (h *Handler) ExportTendersHandler(w http.ResponseWriter, r *http.Request) {
	var (
		tenders []models.Tender
		clients []models.Client
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		tenders, err = h.Backend.ListTenders(ctx)
		return err
	})
	g.Go(func() (err error) {
		clients, err = h.Backend.ListClients(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.writeFailed(w, r, err, "Failed to export tenders", "/tenders")
		return
	}

	var buf bytes.Buffer
	if err := export.TenderRegister(&buf, tenders, clients); err != nil {
		h.Logger.Error("failed to build tender register", "error", err)
		http.Error(w, "Failed to build spreadsheet", http.StatusInternalServerError)
		return
	}
	filename := fmt.Sprintf("tenders-%s.xlsx", h.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// TenderSheetHandler отдает карточку тендера в PDF
func (h *Handler) TenderSheetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "tenderId")
	if err != nil {
		http.Error(w, "Invalid tenderId", http.StatusBadRequest)
		return
	}
	var (
		tender  *models.Tender
		items   []models.TenderItem
		clients []models.Client
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		tender, err = h.Backend.GetTender(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		items, err = h.Backend.ListTenderItems(ctx, &id)
		return err
	})
	g.Go(func() (err error) {
		clients, err = h.Backend.ListClients(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.writeFailed(w, r, err, "Failed to build tender sheet", tenderPath(id))
		return
	}

	var buf bytes.Buffer
	clientName := export.ClientName(export.ClientNames(clients), tender.ClientID)
	if err := export.TenderSheet(&buf, *tender, clientName, items, h.Now()); err != nil {
		h.Logger.Error("failed to build tender sheet", "tender_id", id, "error", err)
		http.Error(w, "Failed to build PDF", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="tender-%d.pdf"`, id))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}
