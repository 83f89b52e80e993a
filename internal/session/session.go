// Package session хранит текущую сессию оператора: bearer-токен и идентификатор
// пользователя. Сессия переживает перезапуск процесса за счет Store.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Имена ключей в долговременном хранилище
const (
	TokenKey      = "tendersdz_token"
	IdentifierKey = "tendersdz_userEmail"
)

// State - сохраняемые поля сессии. Пустая строка означает отсутствие значения.
type State struct {
	Token      string `json:"tendersdz_token,omitempty"`
	Identifier string `json:"tendersdz_userEmail,omitempty"`
}

// normalize не дает сохранить идентификатор без токена
func (s State) normalize() State {
	s.Token = strings.TrimSpace(s.Token)
	if s.Token == "" {
		return State{}
	}
	return s
}

// Empty - токена нет
func (s State) Empty() bool {
	return s.Token == ""
}

// Store - долговременное key-value хранилище сессии.
//
// Read не возвращает ошибку для отсутствующих ключей.
// Write с пустым токеном удаляет оба ключа, иначе записывает оба;
// запись атомарна для последующих Read.
type Store interface {
	Read(ctx context.Context) (State, error)
	Write(ctx context.Context, state State) error
}

// Session - единственный владелец состояния сессии в процессе.
// Читается из Store один раз при старте, каждое изменение сначала сохраняется.
type Session struct {
	mu    sync.RWMutex
	state State
	store Store
}

// Load читает сессию из хранилища
func Load(ctx context.Context, store Store) (*Session, error) {
	st, err := store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &Session{state: st.normalize(), store: store}, nil
}

// Token возвращает текущий токен или пустую строку
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// Identifier возвращает идентификатор вошедшего пользователя
func (s *Session) Identifier() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Identifier
}

// Authenticated - в сессии есть токен
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Snapshot возвращает копию состояния
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Set сохраняет новый токен и идентификатор. Пустой токен равносилен Clear.
func (s *Session) Set(ctx context.Context, token, identifier string) error {
	return s.write(ctx, State{Token: token, Identifier: strings.TrimSpace(identifier)})
}

// Clear удаляет токен и идентификатор
func (s *Session) Clear(ctx context.Context) error {
	return s.write(ctx, State{})
}

func (s *Session) write(ctx context.Context, st State) error {
	st = st.normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Write(ctx, st); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.state = st
	return nil
}
