package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"tendersdz/models"
)

const (
	tendersPath     = "/tenders/"
	tenderItemsPath = "/tender_items/"
)

// ListTenders возвращает все тендеры
func (c *Client) ListTenders(ctx context.Context) ([]models.Tender, error) {
	tenders := []models.Tender{}
	if err := c.Get(ctx, tendersPath, &tenders); err != nil {
		return nil, err
	}
	return tenders, nil
}

// GetTender возвращает тендер по id
func (c *Client) GetTender(ctx context.Context, id int) (*models.Tender, error) {
	var out models.Tender
	if err := c.Get(ctx, fmt.Sprintf("/tenders/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTender(ctx context.Context, in models.TenderInput) (*models.Tender, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	var out models.Tender
	if err := c.Post(ctx, tendersPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTender(ctx context.Context, id int, patch models.TenderPatch) (*models.Tender, error) {
	if err := models.Validate(patch); err != nil {
		return nil, err
	}
	var out models.Tender
	if err := c.Put(ctx, fmt.Sprintf("/tenders/%d", id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTender(ctx context.Context, id int) error {
	return c.Delete(ctx, fmt.Sprintf("/tenders/%d", id))
}

// ListTenderItems возвращает позиции; если tenderID задан, фильтрует
// на стороне бэкенда параметром tender_id
func (c *Client) ListTenderItems(ctx context.Context, tenderID *int) ([]models.TenderItem, error) {
	path := tenderItemsPath
	if tenderID != nil {
		q := url.Values{}
		q.Set("tender_id", strconv.Itoa(*tenderID))
		path += "?" + q.Encode()
	}
	items := []models.TenderItem{}
	if err := c.Get(ctx, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateTenderItem(ctx context.Context, in models.TenderItemInput) (*models.TenderItem, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	var out models.TenderItem
	if err := c.Post(ctx, tenderItemsPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTenderItem(ctx context.Context, id int, patch models.TenderItemPatch) (*models.TenderItem, error) {
	if err := models.Validate(patch); err != nil {
		return nil, err
	}
	var out models.TenderItem
	if err := c.Put(ctx, fmt.Sprintf("/tender_items/%d", id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTenderItem(ctx context.Context, id int) error {
	return c.Delete(ctx, fmt.Sprintf("/tender_items/%d", id))
}
