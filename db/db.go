package db

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"tendersdz/internal/session"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Storage - key-value таблица session_kv в Postgres.
// namespace позволяет нескольким установкам делить одну базу.
type Storage struct {
	db        *sqlx.DB
	namespace string
}

func NewStorage(db *sqlx.DB, namespace string) *Storage {
	if namespace == "" {
		namespace = "default"
	}
	return &Storage{db: db, namespace: namespace}
}

// Запись таблицы session_kv
type KV struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// GetValues возвращает найденные значения по ключам; отсутствующих ключей нет в карте
func (s *Storage) GetValues(ctx context.Context, keys ...string) (map[string]string, error) {
	query := `SELECT key, value FROM session_kv WHERE namespace = $1 AND key = ANY($2)`
	rows := []KV{}
	if err := s.db.SelectContext(ctx, &rows, query, s.namespace, pq.Array(keys)); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

// ReplaceValues в одной транзакции записывает set и удаляет remove
func (s *Storage) ReplaceValues(ctx context.Context, set map[string]string, remove []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if len(remove) > 0 {
		query := `DELETE FROM session_kv WHERE namespace = $1 AND key = ANY($2)`
		if _, err := tx.ExecContext(ctx, query, s.namespace, pq.Array(remove)); err != nil {
			return err
		}
	}
	for _, k := range slices.Sorted(maps.Keys(set)) {
		query := `
        INSERT INTO session_kv (namespace, key, value, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
		if _, err := tx.ExecContext(ctx, query, s.namespace, k, set[k]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Read реализует session.Store
func (s *Storage) Read(ctx context.Context) (session.State, error) {
	vals, err := s.GetValues(ctx, session.TokenKey, session.IdentifierKey)
	if err != nil {
		return session.State{}, fmt.Errorf("postgres read session: %w", err)
	}
	st := session.State{Token: vals[session.TokenKey]}
	if st.Token != "" {
		st.Identifier = vals[session.IdentifierKey]
	}
	return st, nil
}

// Write реализует session.Store
func (s *Storage) Write(ctx context.Context, state session.State) error {
	var err error
	switch {
	case state.Empty():
		err = s.ReplaceValues(ctx, nil, []string{session.TokenKey, session.IdentifierKey})
	case state.Identifier == "":
		err = s.ReplaceValues(ctx, map[string]string{session.TokenKey: state.Token}, []string{session.IdentifierKey})
	default:
		err = s.ReplaceValues(ctx, map[string]string{
			session.TokenKey:      state.Token,
			session.IdentifierKey: state.Identifier,
		}, nil)
	}
	if err != nil {
		return fmt.Errorf("postgres write session: %w", err)
	}
	return nil
}
