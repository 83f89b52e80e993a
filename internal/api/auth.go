package api

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"tendersdz/models"
)

const loginPath = "/auth/login"

var ErrEmptyToken = errors.New("login response carries no access token")

// Login отправляет учетные данные формой (username, password) и возвращает токен.
// Сессию не трогает: это делает контроллер сессии.
func (c *Client) Login(ctx context.Context, username, password string) (*models.AuthToken, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var out models.AuthToken
	err := c.PostForm(ctx, loginPath, form, &out)
	c.metrics.ObserveLogin(err == nil && out.AccessToken != "")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return nil, ErrEmptyToken
	}
	return &out, nil
}
