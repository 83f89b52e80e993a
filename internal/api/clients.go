package api

import (
	"context"
	"fmt"

	"tendersdz/models"
)

const clientsPath = "/clients/"

// ListClients возвращает всех клиентов
func (c *Client) ListClients(ctx context.Context) ([]models.Client, error) {
	clients := []models.Client{}
	if err := c.Get(ctx, clientsPath, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// CreateClient создает клиента
func (c *Client) CreateClient(ctx context.Context, in models.ClientInput) (*models.Client, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	var out models.Client
	if err := c.Post(ctx, clientsPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateClient частично обновляет клиента
func (c *Client) UpdateClient(ctx context.Context, id int, patch models.ClientPatch) (*models.Client, error) {
	if err := models.Validate(patch); err != nil {
		return nil, err
	}
	var out models.Client
	if err := c.Put(ctx, fmt.Sprintf("/clients/%d", id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteClient удаляет клиента
func (c *Client) DeleteClient(ctx context.Context, id int) error {
	return c.Delete(ctx, fmt.Sprintf("/clients/%d", id))
}
