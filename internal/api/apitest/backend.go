// Package apitest - бэкенд тендеров в памяти процесса. Реализует тот же
// REST-контракт, что и настоящий сервис: вход формой, JWT в заголовке
// Authorization, ресурсы clients, suppliers, tenders и tender_items.
package apitest

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"tendersdz/models"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = time.Hour

// Backend хранит данные и выданные токены
type Backend struct {
	mu sync.Mutex

	secret   []byte
	tokenTTL time.Duration
	users    map[string][]byte
	issued   []string
	revoked  map[string]bool

	clients   table[models.Client]
	suppliers table[models.Supplier]
	tenders   table[models.Tender]
	items     table[models.TenderItem]

	lastAuthorization    string
	lastLoginContentType string
	failNext             *failure
}

type failure struct {
	status int
	detail string
}

// New создает пустой бэкенд
func New() *Backend {
	return &Backend{
		secret:   []byte(uuid.NewString()),
		tokenTTL: defaultTokenTTL,
		users:    map[string][]byte{},
		revoked:  map[string]bool{},
	}
}

// AddUser регистрирует пользователя; пароль хранится как bcrypt-хеш
func (b *Backend) AddUser(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[username] = hash
	return nil
}

// SetTokenTTL задает срок жизни новых токенов
func (b *Backend) SetTokenTTL(ttl time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokenTTL = ttl
}

// RevokeAll отзывает все выданные токены: следующий запрос с ними получит 401
func (b *Backend) RevokeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range b.issued {
		b.revoked[id] = true
	}
}

// FailNext заставляет следующий запрос к ресурсам вернуть status с detail
func (b *Backend) FailNext(status int, detail string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext = &failure{status: status, detail: detail}
}

// LastAuthorization - заголовок Authorization последнего запроса к ресурсам
func (b *Backend) LastAuthorization() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastAuthorization
}

// LastLoginContentType - Content-Type последнего запроса входа
func (b *Backend) LastLoginContentType() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastLoginContentType
}

func (b *Backend) SeedClient(c models.Client) models.Client {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clients.insert(c, func(v *models.Client, id int) { v.ID = id })
}

func (b *Backend) SeedSupplier(s models.Supplier) models.Supplier {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.suppliers.insert(s, func(v *models.Supplier, id int) { v.ID = id })
}

func (b *Backend) SeedTender(t models.Tender) models.Tender {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tenders.insert(t, func(v *models.Tender, id int) { v.ID = id })
}

func (b *Backend) SeedTenderItem(i models.TenderItem) models.TenderItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.items.insert(i, func(v *models.TenderItem, id int) { v.ID = id })
}

// Handler возвращает роутер бэкенда
func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/auth/login", b.login)

	r.Group(func(r chi.Router) {
		r.Use(b.requireToken)

		r.Get("/clients/", b.listClients)
		r.Post("/clients/", b.createClient)
		r.Put("/clients/{id}", b.updateClient)
		r.Delete("/clients/{id}", b.deleteClient)

		r.Get("/suppliers/", b.listSuppliers)
		r.Post("/suppliers/", b.createSupplier)
		r.Put("/suppliers/{id}", b.updateSupplier)
		r.Delete("/suppliers/{id}", b.deleteSupplier)

		r.Get("/tenders/", b.listTenders)
		r.Post("/tenders/", b.createTender)
		r.Get("/tenders/{id}", b.getTender)
		r.Put("/tenders/{id}", b.updateTender)
		r.Delete("/tenders/{id}", b.deleteTender)

		r.Get("/tender_items/", b.listTenderItems)
		r.Post("/tender_items/", b.createTenderItem)
		r.Put("/tender_items/{id}", b.updateTenderItem)
		r.Delete("/tender_items/{id}", b.deleteTenderItem)
	})
	return r
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.lastLoginContentType = r.Header.Get("Content-Type")
	b.mu.Unlock()

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		writeDetailList(w, http.StatusUnprocessableEntity, "username: field required", "password: field required")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	b.mu.Lock()
	hash, ok := b.users[username]
	b.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	token, err := b.issueToken(username)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, models.AuthToken{AccessToken: token, TokenType: "bearer"})
}

func (b *Backend) issueToken(username string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	tokenID := uuid.NewString()
	claims := jwt.RegisteredClaims{
		ID:        tokenID,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(b.tokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		return "", err
	}
	b.issued = append(b.issued, tokenID)
	return signed, nil
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		b.mu.Lock()
		b.lastAuthorization = header
		fail := b.failNext
		b.failNext = nil
		b.mu.Unlock()

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return b.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		b.mu.Lock()
		revoked := b.revoked[claims.ID]
		b.mu.Unlock()
		if revoked {
			writeDetail(w, http.StatusUnauthorized, "Token has been revoked")
			return
		}

		if fail != nil {
			writeDetail(w, fail.status, fail.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// table - записи одного ресурса, id выдаются по возрастанию
type table[T any] struct {
	rows map[int]T
	next int
}

func (t *table[T]) insert(v T, setID func(*T, int)) T {
	if t.rows == nil {
		t.rows = map[int]T{}
	}
	t.next++
	setID(&v, t.next)
	t.rows[t.next] = v
	return v
}

func (t *table[T]) get(id int) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id int, v T) {
	t.rows[id] = v
}

func (t *table[T]) remove(id int) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

func (t *table[T]) list(keep func(T) bool) []T {
	ids := make([]int, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if keep == nil || keep(t.rows[id]) {
			out = append(out, t.rows[id])
		}
	}
	return out
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// decode читает JSON и проверяет его теми же правилами, что и клиент
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return false
	}
	if err := models.Validate(dst); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			msgs := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				msgs = append(msgs, f.String())
			}
			writeDetailList(w, http.StatusUnprocessableEntity, msgs...)
			return false
		}
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeDetailList(w http.ResponseWriter, status int, msgs ...string) {
	type item struct {
		Msg string `json:"msg"`
	}
	list := make([]item, 0, len(msgs))
	for _, m := range msgs {
		list = append(list, item{Msg: m})
	}
	writeJSON(w, status, map[string]any{"detail": list})
}
