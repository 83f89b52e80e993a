package handlers

import (
	"context"
	"net/http"
	"sync"

	"tendersdz/internal/api"
)

// navigation - переход, запрошенный диспетчером во время обработки запроса
type navigation struct {
	mu     sync.Mutex
	target string
}

type navigationKey struct{}

// RequestNavigator передается в api.Options.Navigator: запоминает переход
// в контексте текущего HTTP-запроса, а обработчик выполняет его сам
var RequestNavigator api.Navigator = api.NavigatorFunc(func(ctx context.Context, target string) {
	nav, ok := ctx.Value(navigationKey{}).(*navigation)
	if !ok {
		return
	}
	nav.mu.Lock()
	defer nav.mu.Unlock()
	nav.target = target
})

// TrackNavigation кладет в контекст текущий адрес и место для перехода
func TrackNavigation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), navigationKey{}, &navigation{})
		ctx = api.WithLocation(ctx, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// navigationTarget возвращает переход, если диспетчер его запросил
func navigationTarget(ctx context.Context) (string, bool) {
	nav, ok := ctx.Value(navigationKey{}).(*navigation)
	if !ok {
		return "", false
	}
	nav.mu.Lock()
	defer nav.mu.Unlock()
	return nav.target, nav.target != ""
}
