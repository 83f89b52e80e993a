// Package auth - контроллер сессии: вход, выход и защита маршрутов
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"tendersdz/internal/api"
	"tendersdz/internal/session"
	"tendersdz/models"
)

var ErrCredentialsRequired = errors.New("username and password are required")

// Authenticator выполняет вход на бэкенде. Реализуется *api.Client.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*models.AuthToken, error)
}

// Controller - единственный владелец изменений сессии
type Controller struct {
	session *session.Session
	auth    Authenticator
	logger  *slog.Logger
}

func NewController(sess *session.Session, auth Authenticator, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{session: sess, auth: auth, logger: logger}
}

// Login проверяет учетные данные на бэкенде и сохраняет токен вместе с
// идентификатором. При ошибке сессия не меняется.
func (c *Controller) Login(ctx context.Context, identifier, secret string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return ErrCredentialsRequired
	}

	token, err := c.auth.Login(api.WithLocation(ctx, api.DefaultLoginPath), identifier, secret)
	if err != nil {
		c.logger.Info("login rejected", "identifier", identifier, "error", err)
		return err
	}
	if err := c.session.Set(ctx, token.AccessToken, identifier); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	c.logger.Info("logged in", "identifier", identifier)
	return nil
}

// Logout сбрасывает сессию локально, бэкенд не вызывается
func (c *Controller) Logout(ctx context.Context) error {
	identifier := c.session.Identifier()
	if err := c.session.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	c.logger.Info("logged out", "identifier", identifier)
	return nil
}

func (c *Controller) IsAuthenticated() bool {
	return c.session.Authenticated()
}

func (c *Controller) Identifier() string {
	return c.session.Identifier()
}

// RequireAuth пропускает запрос только при наличии токена; иначе
// перенаправляет на loginPath, запоминая запрошенный адрес в next
func (c *Controller) RequireAuth(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c.IsAuthenticated() {
				next.ServeHTTP(w, r)
				return
			}
			http.Redirect(w, r, LoginURL(loginPath, r.URL.RequestURI()), http.StatusSeeOther)
		})
	}
}

// LoginURL строит адрес экрана входа с возвратом на next
func LoginURL(loginPath, next string) string {
	next = SafeNext(next)
	if next == "/" {
		return loginPath
	}
	return loginPath + "?" + url.Values{"next": {next}}.Encode()
}

// SafeNext принимает только локальный абсолютный путь, иначе "/"
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
