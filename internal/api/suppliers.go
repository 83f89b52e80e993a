package api

import (
	"context"
	"fmt"

	"tendersdz/models"
)

const suppliersPath = "/suppliers/"

// ListSuppliers возвращает всех поставщиков
func (c *Client) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	suppliers := []models.Supplier{}
	if err := c.Get(ctx, suppliersPath, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (c *Client) CreateSupplier(ctx context.Context, in models.SupplierInput) (*models.Supplier, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	var out models.Supplier
	if err := c.Post(ctx, suppliersPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSupplier(ctx context.Context, id int, patch models.SupplierPatch) (*models.Supplier, error) {
	if err := models.Validate(patch); err != nil {
		return nil, err
	}
	var out models.Supplier
	if err := c.Put(ctx, fmt.Sprintf("/suppliers/%d", id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSupplier(ctx context.Context, id int) error {
	return c.Delete(ctx, fmt.Sprintf("/suppliers/%d", id))
}
