package handlers

import (
	"context"

	"tendersdz/models"
)

// BackendInterface - функции доступа к бэкенду, которые нужны экранам.
// Реализуется *api.Client.
type BackendInterface interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	CreateClient(ctx context.Context, in models.ClientInput) (*models.Client, error)
	UpdateClient(ctx context.Context, id int, patch models.ClientPatch) (*models.Client, error)
	DeleteClient(ctx context.Context, id int) error

	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	CreateSupplier(ctx context.Context, in models.SupplierInput) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, id int, patch models.SupplierPatch) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, id int) error

	ListTenders(ctx context.Context) ([]models.Tender, error)
	GetTender(ctx context.Context, id int) (*models.Tender, error)
	CreateTender(ctx context.Context, in models.TenderInput) (*models.Tender, error)
	UpdateTender(ctx context.Context, id int, patch models.TenderPatch) (*models.Tender, error)
	DeleteTender(ctx context.Context, id int) error

	ListTenderItems(ctx context.Context, tenderID *int) ([]models.TenderItem, error)
	CreateTenderItem(ctx context.Context, in models.TenderItemInput) (*models.TenderItem, error)
	UpdateTenderItem(ctx context.Context, id int, patch models.TenderItemPatch) (*models.TenderItem, error)
	DeleteTenderItem(ctx context.Context, id int) error
}
