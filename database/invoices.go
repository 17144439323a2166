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

package database

import (
	"context"
	"database/sql"

	"go.opentelemetry.io/otel"

	"github.com/vennhq/venn/internal/apierror"
	"github.com/vennhq/venn/model"
)

// RecordInvoice inserts an outstanding invoice into the candidate store
func (d Datasource) RecordInvoice(ctx context.Context, inv *model.Invoice) error {
	ctx, span := otel.Tracer("Invoices").Start(ctx, "Saving invoice to db")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO invoices(invoice_id, amount, vendor, date)
		VALUES ($1, $2, $3, $4)`,
		inv.InvoiceID, inv.Amount, inv.Vendor, inv.Date,
	)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to record invoice", err)
	}

	return nil
}

// GetInvoices retrieves all outstanding invoices in insertion order
func (d Datasource) GetInvoices(ctx context.Context) ([]*model.Invoice, error) {
	ctx, span := otel.Tracer("Invoices").Start(ctx, "Fetching invoices")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT invoice_id, amount, vendor, date
		FROM invoices
		ORDER BY id
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "failed to fetch invoices", err)
	}
	defer rows.Close()

	var invoices []*model.Invoice
	for rows.Next() {
		inv := &model.Invoice{}
		err := rows.Scan(&inv.InvoiceID, &inv.Amount, &inv.Vendor, &inv.Date)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "failed to scan invoice", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "failed to iterate invoices", err)
	}

	return invoices, nil
}

// DeleteInvoice removes an invoice once it has been settled
func (d Datasource) DeleteInvoice(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("Invoices").Start(ctx, "Deleting invoice")
	defer span.End()

	result, err := d.Conn.ExecContext(ctx, `
		DELETE FROM invoices WHERE invoice_id = $1
	`, id)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to delete invoice", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to delete invoice", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "invoice not found", sql.ErrNoRows)
	}

	return nil
}
