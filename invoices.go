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

package venn

import (
	"context"

	"github.com/vennhq/venn/internal/apierror"
	"github.com/vennhq/venn/model"
)

// RecordInvoice stores an outstanding invoice for later candidate scans.
func (s *Venn) RecordInvoice(ctx context.Context, invoice *model.Invoice) error {
	if invoice.InvoiceID == "" {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "invoice id is required", nil)
	}
	return s.datasource.RecordInvoice(ctx, invoice)
}

// GetInvoices lists all outstanding invoices in insertion order.
func (s *Venn) GetInvoices(ctx context.Context) ([]*model.Invoice, error) {
	return s.datasource.GetInvoices(ctx)
}

// DeleteInvoice removes a settled invoice from the candidate store.
func (s *Venn) DeleteInvoice(ctx context.Context, id string) error {
	return s.datasource.DeleteInvoice(ctx, id)
}
