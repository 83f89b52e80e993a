// Package handlers - экраны веб-консоли: вход, сводка, клиенты, поставщики,
// тендеры и их позиции. Все данные берутся у бэкенда на каждый запрос.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tendersdz/internal/api"
	"tendersdz/internal/auth"
	"tendersdz/models"

	"github.com/go-chi/chi/v5"
)

// Handler связывает экраны с бэкендом и контроллером сессии
type Handler struct {
	Backend   BackendInterface
	Auth      *auth.Controller
	Logger    *slog.Logger
	LoginPath string
	Now       func() time.Time
}

// NewHandler создает новый Handler
func NewHandler(backend BackendInterface, ctrl *auth.Controller, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Backend:   backend,
		Auth:      ctrl,
		Logger:    logger,
		LoginPath: api.DefaultLoginPath,
		Now:       time.Now,
	}
}

// Routes возвращает маршруты консоли. Все экраны, кроме входа, закрыты
// проверкой сессии. POST с чужого сайта отклоняется с 403.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(http.NewCrossOriginProtection().Handler)
	r.Use(TrackNavigation)

	r.Get("/healthz", h.PingHandler)
	r.Get("/login", h.LoginPageHandler)
	r.Post("/login", h.LoginHandler)
	r.Post("/logout", h.LogoutHandler)

	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuth(h.LoginPath))

		r.Get("/", h.DashboardHandler)

		r.Get("/clients", h.ClientsPageHandler)
		r.Post("/clients", h.CreateClientHandler)
		r.Post("/clients/{clientId}", h.UpdateClientHandler)
		r.Post("/clients/{clientId}/delete", h.DeleteClientHandler)

		r.Get("/suppliers", h.SuppliersPageHandler)
		r.Post("/suppliers", h.CreateSupplierHandler)
		r.Post("/suppliers/{supplierId}", h.UpdateSupplierHandler)
		r.Post("/suppliers/{supplierId}/delete", h.DeleteSupplierHandler)

		r.Get("/tenders", h.TendersPageHandler)
		r.Post("/tenders", h.CreateTenderHandler)
		r.Get("/tenders/export.xlsx", h.ExportTendersHandler)
		r.Get("/tenders/{tenderId}", h.TenderPageHandler)
		r.Post("/tenders/{tenderId}", h.UpdateTenderHandler)
		r.Post("/tenders/{tenderId}/delete", h.DeleteTenderHandler)
		r.Get("/tenders/{tenderId}/sheet.pdf", h.TenderSheetHandler)

		r.Post("/tenders/{tenderId}/items", h.CreateTenderItemHandler)
		r.Post("/tenders/{tenderId}/items/{itemId}", h.UpdateTenderItemHandler)
		r.Post("/tenders/{tenderId}/items/{itemId}/delete", h.DeleteTenderItemHandler)
	})
	return r
}

// PingHandler отвечает "ok" для проверки сервера
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// redirectToLogin выполняет переход на вход, если диспетчер сбросил сессию
// во время запроса. back - адрес, куда вернуться после входа.
func (h *Handler) redirectToLogin(w http.ResponseWriter, r *http.Request, back string) bool {
	target, ok := navigationTarget(r.Context())
	if !ok {
		return false
	}
	http.Redirect(w, r, auth.LoginURL(target, back), http.StatusSeeOther)
	return true
}

func (h *Handler) logUnexpected(r *http.Request, err error, msg string) {
	if api.Expected(err) {
		return
	}
	h.Logger.Error(msg, "path", r.URL.Path, "error", err)
}

// loadFailed показывает экран с уведомлением об ошибке загрузки
func (h *Handler) loadFailed(w http.ResponseWriter, r *http.Request, err error, fallback string, name, title string, data any) {
	if h.redirectToLogin(w, r, r.URL.RequestURI()) {
		return
	}
	h.logUnexpected(r, err, fallback)
	h.render(w, r, loadStatus(err), name, title, api.UserMessage(err, fallback), data)
}

// loadStatus повторяет 4xx бэкенда (например, 404); остальное - 502
func loadStatus(err error) int {
	var serverErr *api.ServerError
	if errors.As(err, &serverErr) && serverErr.StatusCode >= 400 && serverErr.StatusCode < 500 {
		return serverErr.StatusCode
	}
	return http.StatusBadGateway
}

// writeFailed возвращает на back с уведомлением об ошибке
func (h *Handler) writeFailed(w http.ResponseWriter, r *http.Request, err error, fallback, back string) {
	if h.redirectToLogin(w, r, back) {
		return
	}
	h.logUnexpected(r, err, fallback)
	http.Redirect(w, r, withMessage(back, "error", api.UserMessage(err, fallback)), http.StatusSeeOther)
}

// done возвращает на back после успешной записи; экран перечитает данные
func (h *Handler) done(w http.ResponseWriter, r *http.Request, back, notice string) {
	http.Redirect(w, r, withMessage(back, "notice", notice), http.StatusSeeOther)
}

func withMessage(path, key, msg string) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	q.Set(key, msg)
	u.RawQuery = q.Encode()
	return u.String()
}

// invalidField - ошибка разбора поля формы
func invalidField(field, rule string) error {
	return &models.ValidationError{Fields: []models.FieldError{{Field: field, Rule: rule}}}
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

// formPtr возвращает указатель и на пустую строку: так поле очищается
func formPtr(r *http.Request, key string) *string {
	v := formValue(r, key)
	return &v
}

func formBool(r *http.Request, key string) bool {
	switch strings.ToLower(formValue(r, key)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func formInt(r *http.Request, key string) (int, error) {
	v := formValue(r, key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, invalidField(key, "number")
	}
	return n, nil
}

func formFloat(r *http.Request, key string) (float64, error) {
	v := strings.ReplaceAll(formValue(r, key), ",", ".")
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, invalidField(key, "number")
	}
	return f, nil
}

// formDeadline разбирает дату; пустое поле - срока нет
func formDeadline(r *http.Request, key string) (*models.Timestamp, error) {
	v := formValue(r, key)
	if v == "" {
		return nil, nil
	}
	ts, err := models.ParseTimestamp(v)
	if err != nil {
		return nil, invalidField(key, "date")
	}
	return &ts, nil
}

var errInvalidID = errors.New("invalid id")

func urlID(r *http.Request, param string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
