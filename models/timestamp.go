package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Бэкенд отдает ISO-даты как с зоной, так и без нее
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp - момент времени в формате ISO 8601
type Timestamp struct {
	time.Time
}

// ParseTimestamp разбирает строку в одном из поддерживаемых форматов.
// Время без зоны считается UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Date форматирует дату для таблиц
func (t Timestamp) Date() string {
	return t.Format("2006-01-02")
}

// DateTime форматирует момент для поля datetime-local (UTC, до минут)
func (t Timestamp) DateTime() string {
	return t.UTC().Format("2006-01-02T15:04")
}

// NullTimestamp - поле патча, которое можно не передавать, задать или
// очистить. Set=false - поле пропускается; Set=true и Value=nil - null.
type NullTimestamp struct {
	Value *Timestamp
	Set   bool
}

// SetTimestamp возвращает заданное значение патча; nil очищает поле
func SetTimestamp(ts *Timestamp) NullTimestamp {
	return NullTimestamp{Value: ts, Set: true}
}

// IsZero нужен для omitzero: незаданное поле не попадает в тело запроса
func (n NullTimestamp) IsZero() bool {
	return !n.Set
}

func (n NullTimestamp) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *NullTimestamp) UnmarshalJSON(data []byte) error {
	n.Set = true
	n.Value = nil
	if string(data) == "null" {
		return nil
	}
	var ts Timestamp
	if err := json.Unmarshal(data, &ts); err != nil {
		return err
	}
	n.Value = &ts
	return nil
}
