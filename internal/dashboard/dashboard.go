// Package dashboard собирает сводку для главного экрана
package dashboard

import (
	"context"
	"sort"

	"tendersdz/models"

	"golang.org/x/sync/errgroup"
)

// UpcomingLimit - сколько ближайших сроков показывать
const UpcomingLimit = 5

// Source - данные для сводки. Реализуется *api.Client.
type Source interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	ListTenders(ctx context.Context) ([]models.Tender, error)
}

type Summary struct {
	Clients   int
	Suppliers int
	Tenders   int
	Open      int
	ByStatus  map[models.TenderStatus]int
	Upcoming  []models.Tender
}

// Load запрашивает клиентов, поставщиков и тендеры параллельно.
// Первая ошибка отменяет остальные запросы и возвращается как есть.
func Load(ctx context.Context, src Source) (*Summary, error) {
	var (
		clients   []models.Client
		suppliers []models.Supplier
		tenders   []models.Tender
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		clients, err = src.ListClients(gctx)
		return err
	})
	g.Go(func() (err error) {
		suppliers, err = src.ListSuppliers(gctx)
		return err
	})
	g.Go(func() (err error) {
		tenders, err = src.ListTenders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Summary{
		Clients:   len(clients),
		Suppliers: len(suppliers),
		Tenders:   len(tenders),
		ByStatus:  map[models.TenderStatus]int{},
		Upcoming:  Upcoming(tenders, UpcomingLimit),
	}
	for _, t := range tenders {
		s.ByStatus[t.Status.Normalize()]++
		if !t.Status.Closed() {
			s.Open++
		}
	}
	return s, nil
}

// Upcoming возвращает до limit открытых тендеров со сроком подачи,
// от ближайшего срока к дальнему
func Upcoming(tenders []models.Tender, limit int) []models.Tender {
	out := make([]models.Tender, 0, len(tenders))
	for _, t := range tenders {
		if t.Status.Closed() || t.SubmissionDeadline == nil {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmissionDeadline.Before(out[j].SubmissionDeadline.Time)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
