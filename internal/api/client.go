// Package api - клиент REST-бэкенда тендеров: подставляет токен сессии
// в каждый запрос и сбрасывает сессию, когда бэкенд отвечает 401.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tendersdz/internal/metrics"
	"tendersdz/internal/session"

	"github.com/google/uuid"
)

// Options - зависимости клиента. BaseURL и Session обязательны.
type Options struct {
	BaseURL    string
	Session    *session.Session
	HTTPClient *http.Client
	Navigator  Navigator
	Policy     AuthPolicy
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// Client - диспетчер запросов к бэкенду
type Client struct {
	baseURL    string
	session    *session.Session
	httpClient *http.Client
	navigator  Navigator
	policy     AuthPolicy
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewClient создает клиент бэкенда
func NewClient(opts Options) (*Client, error) {
	if opts.Session == nil {
		return nil, fmt.Errorf("api client: session is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api client: invalid base url %q", opts.BaseURL)
	}

	c := &Client{
		baseURL:    base.String(),
		session:    opts.Session,
		httpClient: opts.HTTPClient,
		navigator:  opts.Navigator,
		policy:     opts.Policy,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
	}
	if c.httpClient == nil {
		// таймаут не задаем: действует поведение транспорта по умолчанию
		c.httpClient = &http.Client{}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c, nil
}

// BaseURL возвращает адрес бэкенда
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LoginPath - экран, на который уводит 401
func (c *Client) LoginPath() string {
	return c.policy.loginPath()
}

// Get выполняет GET и декодирует JSON-ответ в out
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post отправляет body как JSON
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// Put отправляет body как JSON
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

// Delete удаляет ресурс; тело ответа игнорируется
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// PostForm отправляет поля как application/x-www-form-urlencoded.
// Используется только для входа: бэкенд принимает учетные данные формой.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	return c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, reader, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	target := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.logger.With("method", method, "path", path, "request_id", requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveTransportError(method)
		log.Warn("backend request failed", "error", err)
		return &TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	c.metrics.ObserveRequest(method, resp.StatusCode, elapsed)
	log.Debug("backend response", "status", resp.StatusCode, "elapsed", elapsed)

	c.applyPolicy(ctx, resp.StatusCode, log)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		detail := extractDetail(data)
		if resp.StatusCode == http.StatusUnauthorized {
			return &AuthError{Detail: detail}
		}
		return &ServerError{StatusCode: resp.StatusCode, Detail: detail}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// applyPolicy сбрасывает сессию и уводит на вход, если этого требует политика.
// Вызывающий все равно получает ошибку запроса.
func (c *Client) applyPolicy(ctx context.Context, status int, log *slog.Logger) {
	if c.policy.Evaluate(status, LocationFrom(ctx)) != IntentRedirectToLogin {
		return
	}
	c.metrics.ObserveInvalidation()
	log.Info("backend rejected token, clearing session", "location", LocationFrom(ctx))

	// запрос мог быть отменен вместе с ctx, а сессию сбросить нужно в любом случае
	if err := c.session.Clear(context.WithoutCancel(ctx)); err != nil {
		log.Error("failed to clear session", "error", err)
	}
	if c.navigator != nil {
		c.navigator.Navigate(ctx, c.policy.loginPath())
	}
}
