package models

// Тела запросов к бэкенду. *Input - полный набор полей для POST,
// *Patch - частичное обновление для PUT (передаются только заданные поля).

type ClientInput struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Contact *string `json:"contact,omitempty" validate:"omitempty,max=255"`
	Country *string `json:"country,omitempty" validate:"omitempty,max=100"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ClientPatch struct {
	Name    *string `json:"name,omitempty" validate:"omitnil,min=1,max=255"`
	Contact *string `json:"contact,omitempty" validate:"omitempty,max=255"`
	Country *string `json:"country,omitempty" validate:"omitempty,max=100"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type SupplierInput struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Contact  *string `json:"contact,omitempty" validate:"omitempty,max=255"`
	Country  *string `json:"country,omitempty" validate:"omitempty,max=100"`
	IsOEM    bool    `json:"is_oem"`
	Verified bool    `json:"verified"`
}

type SupplierPatch struct {
	Name     *string `json:"name,omitempty" validate:"omitnil,min=1,max=255"`
	Contact  *string `json:"contact,omitempty" validate:"omitempty,max=255"`
	Country  *string `json:"country,omitempty" validate:"omitempty,max=100"`
	IsOEM    *bool   `json:"is_oem,omitempty"`
	Verified *bool   `json:"verified,omitempty"`
}

type TenderInput struct {
	ClientID           int          `json:"client_id" validate:"required,gt=0"`
	Title              string       `json:"title" validate:"required,max=500"`
	ReferenceNo        *string      `json:"reference_no,omitempty" validate:"omitempty,max=100"`
	Currency           string       `json:"currency" validate:"required,alpha,max=8"`
	Status             TenderStatus `json:"status" validate:"required,oneof=IDENTIFIED BOUGHT STUDYING SUBMITTED WON LOST"`
	SubmissionDeadline *Timestamp   `json:"submission_deadline,omitempty"`
}

type TenderPatch struct {
	ClientID           *int          `json:"client_id,omitempty" validate:"omitnil,gt=0"`
	Title              *string       `json:"title,omitempty" validate:"omitnil,min=1,max=500"`
	ReferenceNo        *string       `json:"reference_no,omitempty" validate:"omitempty,max=100"`
	Currency           *string       `json:"currency,omitempty" validate:"omitnil,alpha,max=8"`
	Status             *TenderStatus `json:"status,omitempty" validate:"omitnil,oneof=IDENTIFIED BOUGHT STUDYING SUBMITTED WON LOST"`
	SubmissionDeadline NullTimestamp `json:"submission_deadline,omitzero"`
}

type TenderItemInput struct {
	TenderID             int            `json:"tender_id" validate:"required,gt=0"`
	Category             TenderCategory `json:"category" validate:"required,oneof=HW SW SPARE SERVICE"`
	Description          string         `json:"description" validate:"required,max=2000"`
	Qty                  float64        `json:"qty" validate:"gt=0"`
	UOM                  string         `json:"uom" validate:"required,max=32"`
	AuthenticityRequired bool           `json:"authenticity_required"`
}

type TenderItemPatch struct {
	TenderID             *int            `json:"tender_id,omitempty" validate:"omitnil,gt=0"`
	Category             *TenderCategory `json:"category,omitempty" validate:"omitnil,oneof=HW SW SPARE SERVICE"`
	Description          *string         `json:"description,omitempty" validate:"omitnil,min=1,max=2000"`
	Qty                  *float64        `json:"qty,omitempty" validate:"omitnil,gt=0"`
	UOM                  *string         `json:"uom,omitempty" validate:"omitnil,min=1,max=32"`
	AuthenticityRequired *bool           `json:"authenticity_required,omitempty"`
}

// NewTenderInput заполняет значения по умолчанию для формы нового тендера
func NewTenderInput() TenderInput {
	return TenderInput{Currency: DefaultCurrency, Status: StatusIdentified}
}

// NewTenderItemInput заполняет значения по умолчанию для новой позиции
func NewTenderItemInput(tenderID int) TenderItemInput {
	return TenderItemInput{
		TenderID:             tenderID,
		Category:             CategoryHW,
		UOM:                  DefaultUOM,
		AuthenticityRequired: true,
	}
}

// Apply переносит заданные поля патча в запись
func (p ClientPatch) Apply(c *Client) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Contact != nil {
		c.Contact = p.Contact
	}
	if p.Country != nil {
		c.Country = p.Country
	}
	if p.Notes != nil {
		c.Notes = p.Notes
	}
}

func (p SupplierPatch) Apply(s *Supplier) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Contact != nil {
		s.Contact = p.Contact
	}
	if p.Country != nil {
		s.Country = p.Country
	}
	if p.IsOEM != nil {
		s.IsOEM = *p.IsOEM
	}
	if p.Verified != nil {
		s.Verified = *p.Verified
	}
}

func (p TenderPatch) Apply(t *Tender) {
	if p.ClientID != nil {
		t.ClientID = *p.ClientID
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.ReferenceNo != nil {
		t.ReferenceNo = p.ReferenceNo
	}
	if p.Currency != nil {
		t.Currency = *p.Currency
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.SubmissionDeadline.Set {
		t.SubmissionDeadline = p.SubmissionDeadline.Value
	}
}

func (p TenderItemPatch) Apply(i *TenderItem) {
	if p.TenderID != nil {
		i.TenderID = *p.TenderID
	}
	if p.Category != nil {
		i.Category = *p.Category
	}
	if p.Description != nil {
		i.Description = *p.Description
	}
	if p.Qty != nil {
		i.Qty = *p.Qty
	}
	if p.UOM != nil {
		i.UOM = *p.UOM
	}
	if p.AuthenticityRequired != nil {
		i.AuthenticityRequired = *p.AuthenticityRequired
	}
}
