/*
Copyright 2024 Venn Labs Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/vennhq/venn/model"
)

// TransactionPayload is the wire form of a transaction presented for
// matching. Dates arrive as strings and are parsed, not bound, so a
// malformed date is a validation error rather than a bind failure.
type TransactionPayload struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"client_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

// InvoicePayload is the wire form of an inline invoice candidate.
type InvoicePayload struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Vendor string          `json:"vendor"`
	Date   string          `json:"date"`
}

// MatchRequest is the body of POST /match. Invoices and Rules are both
// optional; a null field means "use the stored set", an empty array means
// "evaluate against nothing".
type MatchRequest struct {
	Transaction TransactionPayload    `json:"transaction"`
	Invoices    []InvoicePayload      `json:"invoices"`
	Rules       []*model.MatchingRule `json:"rules"`
}

// ApproveTransactionRequest is the body of POST /transactions/:id/approve.
type ApproveTransactionRequest struct {
	Approver string `json:"approver"`
}

func (r *MatchRequest) ValidateMatchRequest() error {
	return validation.ValidateStruct(&r.Transaction,
		validation.Field(&r.Transaction.ID, validation.Required),
		validation.Field(&r.Transaction.ClientID, validation.Required),
		validation.Field(&r.Transaction.Date, validation.By(optionalDateValidation)),
	)
}

func (p *InvoicePayload) ValidateInvoicePayload() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.Date, validation.By(optionalDateValidation)),
	)
}

func optionalDateValidation(value interface{}) error {
	raw, ok := value.(string)
	if !ok {
		return errors.New("date must be a string")
	}
	if raw == "" {
		return nil
	}
	if _, err := parseDate(raw); err != nil {
		return err
	}
	return nil
}

// parseDate accepts the two formats clients actually send: full RFC3339
// timestamps and bare YYYY-MM-DD dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, errors.New("please format the date as 'YYYY-MM-DD' or RFC3339 (e.g., 2024-04-22T15:28:03+00:00)")
	}
	return t, nil
}

// ToTransaction converts the payload into the engine's transaction type.
func (r *MatchRequest) ToTransaction() (*model.Transaction, error) {
	txn := &model.Transaction{
		TransactionID: r.Transaction.ID,
		ClientID:      r.Transaction.ClientID,
		Amount:        r.Transaction.Amount,
		Description:   r.Transaction.Description,
	}
	if r.Transaction.Date != "" {
		date, err := parseDate(r.Transaction.Date)
		if err != nil {
			return nil, err
		}
		txn.Date = date
	}
	return txn, nil
}

// ToInvoices converts the inline invoice payloads, preserving order. A nil
// payload list stays nil so the engine falls back to the stored set.
func (r *MatchRequest) ToInvoices() ([]*model.Invoice, error) {
	if r.Invoices == nil {
		return nil, nil
	}
	invoices := make([]*model.Invoice, 0, len(r.Invoices))
	for _, payload := range r.Invoices {
		invoice, err := payload.ToInvoice()
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}

// ToInvoice converts a single invoice payload.
func (p *InvoicePayload) ToInvoice() (*model.Invoice, error) {
	invoice := &model.Invoice{
		InvoiceID: p.ID,
		Amount:    p.Amount,
		Vendor:    p.Vendor,
	}
	if p.Date != "" {
		date, err := parseDate(p.Date)
		if err != nil {
			return nil, err
		}
		invoice.Date = date
	}
	return invoice, nil
}
