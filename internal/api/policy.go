package api

import (
	"context"
	"net/http"
	"strings"
)

// Intent - реакция, которую политика требует от диспетчера после ответа
type Intent int

const (
	IntentNone Intent = iota
	IntentRedirectToLogin
)

func (i Intent) String() string {
	switch i {
	case IntentRedirectToLogin:
		return "redirect-to-login"
	default:
		return "none"
	}
}

// DefaultLoginPath - экран входа
const DefaultLoginPath = "/login"

// AuthPolicy решает, что делать с ответом 401
type AuthPolicy struct {
	LoginPath string
}

func (p AuthPolicy) loginPath() string {
	if p.LoginPath == "" {
		return DefaultLoginPath
	}
	return p.LoginPath
}

// Evaluate возвращает IntentRedirectToLogin для 401, если пользователь
// не находится на экране входа
func (p AuthPolicy) Evaluate(status int, location string) Intent {
	if status != http.StatusUnauthorized {
		return IntentNone
	}
	if onPath(location, p.loginPath()) {
		return IntentNone
	}
	return IntentRedirectToLogin
}

func onPath(location, path string) bool {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}
	return strings.TrimSuffix(location, "/") == strings.TrimSuffix(path, "/")
}

// Navigator выполняет переход, запрошенный диспетчером
type Navigator interface {
	Navigate(ctx context.Context, target string)
}

// NavigatorFunc адаптирует функцию к Navigator
type NavigatorFunc func(ctx context.Context, target string)

func (f NavigatorFunc) Navigate(ctx context.Context, target string) {
	f(ctx, target)
}

type locationKey struct{}

// WithLocation запоминает текущую точку навигации (путь экрана или команда CLI)
func WithLocation(ctx context.Context, location string) context.Context {
	return context.WithValue(ctx, locationKey{}, location)
}

// LocationFrom возвращает текущую точку навигации
func LocationFrom(ctx context.Context) string {
	loc, _ := ctx.Value(locationKey{}).(string)
	return loc
}
