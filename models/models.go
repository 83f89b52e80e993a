package models

import (
	"strings"
)

// Статусы тендера
type TenderStatus string

const (
	StatusIdentified TenderStatus = "IDENTIFIED"
	StatusBought     TenderStatus = "BOUGHT"
	StatusStudying   TenderStatus = "STUDYING"
	StatusSubmitted  TenderStatus = "SUBMITTED"
	StatusWon        TenderStatus = "WON"
	StatusLost       TenderStatus = "LOST"
)

// TenderStatuses в порядке жизненного цикла
var TenderStatuses = []TenderStatus{
	StatusIdentified, StatusBought, StatusStudying, StatusSubmitted, StatusWon, StatusLost,
}

// Normalize приводит статус с бэкенда к каноническому виду (пробелы, регистр)
func (s TenderStatus) Normalize() TenderStatus {
	return TenderStatus(strings.ToUpper(strings.TrimSpace(string(s))))
}

// Known сообщает, входит ли статус в закрытый набор
func (s TenderStatus) Known() bool {
	n := s.Normalize()
	for _, v := range TenderStatuses {
		if v == n {
			return true
		}
	}
	return false
}

// Label возвращает подпись для отображения; неизвестные статусы показываются как есть
func (s TenderStatus) Label() string {
	n := s.Normalize()
	if !n.Known() {
		if s == "" {
			return "UNKNOWN"
		}
		return string(s)
	}
	return string(n[:1]) + strings.ToLower(string(n[1:]))
}

// Closed - тендер выигран или проигран
func (s TenderStatus) Closed() bool {
	n := s.Normalize()
	return n == StatusWon || n == StatusLost
}

// Категории позиций тендера
type TenderCategory string

const (
	CategoryHW      TenderCategory = "HW"
	CategorySW      TenderCategory = "SW"
	CategorySpare   TenderCategory = "SPARE"
	CategoryService TenderCategory = "SERVICE"
)

var TenderCategories = []TenderCategory{CategoryHW, CategorySW, CategorySpare, CategoryService}

// Значения по умолчанию для новых записей
const (
	DefaultCurrency = "DZD"
	DefaultUOM      = "Unit"
)

// Сущность Клиента
type Client struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Contact *string `json:"contact"`
	Country *string `json:"country"`
	Notes   *string `json:"notes"`
}

// Сущность Поставщика
type Supplier struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Contact  *string `json:"contact"`
	Country  *string `json:"country"`
	IsOEM    bool    `json:"is_oem"`
	Verified bool    `json:"verified"`
}

// Сущность Тендера
type Tender struct {
	ID                 int          `json:"id"`
	ClientID           int          `json:"client_id"`
	Title              string       `json:"title"`
	ReferenceNo        *string      `json:"reference_no"`
	Currency           string       `json:"currency"`
	Status             TenderStatus `json:"status"`
	SubmissionDeadline *Timestamp   `json:"submission_deadline"`
}

// Сущность позиции тендера
type TenderItem struct {
	ID                   int            `json:"id"`
	TenderID             int            `json:"tender_id"`
	Category             TenderCategory `json:"category"`
	Description          string         `json:"description"`
	Qty                  float64        `json:"qty"`
	UOM                  string         `json:"uom"`
	AuthenticityRequired bool           `json:"authenticity_required"`
}

// Ответ эндпоинта /auth/login
type AuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Deref возвращает значение строки или пустую строку
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr возвращает nil для пустой строки
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
