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

// RecordTransaction inserts an incoming bank transaction. Inserts are
// idempotent on transaction_id so replayed feeds do not duplicate rows.
func (d Datasource) RecordTransaction(ctx context.Context, txn *model.Transaction) error {
	ctx, span := otel.Tracer("Transactions").Start(ctx, "Saving transaction to db")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO transactions_raw(
			transaction_id, client_id, amount, description, date, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (transaction_id) DO NOTHING`,
		txn.TransactionID, txn.ClientID, txn.Amount, txn.Description,
		txn.Date, txn.Status, txn.CreatedAt,
	)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to record transaction", err)
	}

	return nil
}

// GetTransaction retrieves a transaction by its ID
func (d Datasource) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	ctx, span := otel.Tracer("Transactions").Start(ctx, "Fetching transaction from db")
	defer span.End()

	txn := &model.Transaction{}
	err := d.Conn.QueryRowContext(ctx, `
		SELECT id, transaction_id, client_id, amount, description, date, status, created_at
		FROM transactions_raw
		WHERE transaction_id = $1
	`, id).Scan(
		&txn.ID, &txn.TransactionID, &txn.ClientID, &txn.Amount,
		&txn.Description, &txn.Date, &txn.Status, &txn.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "transaction not found", err)
	}
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "failed to fetch transaction", err)
	}

	return txn, nil
}

// ApplyMatchResult writes a match decision back onto the transaction row:
// status, the rule or invoice that won, and the ledger codes to book under.
func (d Datasource) ApplyMatchResult(ctx context.Context, txnID string, result *model.MatchResult) error {
	ctx, span := otel.Tracer("Transactions").Start(ctx, "Applying match result to transaction")
	defer span.End()

	status := model.StatusManualReview
	if result.Matched {
		status = model.StatusMatched
	}

	_, err := d.Conn.ExecContext(ctx, `
		UPDATE transactions_raw
		SET status = $2, matched_rule = $3, matched_invoice_id = $4,
			account_code = $5, vat_code = $6
		WHERE transaction_id = $1
	`, txnID, status, result.RuleUsed, result.MatchedInvoiceID,
		result.AccountCode, result.VatCode,
	)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to apply match result", err)
	}

	return nil
}

// UpdateTransactionStatus updates the status of a transaction
func (d Datasource) UpdateTransactionStatus(ctx context.Context, id string, status string) error {
	ctx, span := otel.Tracer("Transactions").Start(ctx, "Updating transaction status")
	defer span.End()

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE transactions_raw SET status = $2 WHERE transaction_id = $1
	`, id, status)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to update transaction status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to update transaction status", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "transaction not found", nil)
	}

	return nil
}

// LogMatchAudit appends an entry to the match audit trail
func (d Datasource) LogMatchAudit(ctx context.Context, entry *model.AuditEntry) error {
	ctx, span := otel.Tracer("Transactions").Start(ctx, "Logging match audit entry")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO match_audit_log(
			client_id, transaction_id, action_type, rule_used,
			confidence_score, reconciled, reconciled_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ClientID, entry.TransactionID, entry.ActionType, entry.RuleUsed,
		entry.ConfidenceScore, entry.Reconciled, entry.ReconciledAt, entry.CreatedAt,
	)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to log match audit entry", err)
	}

	return nil
}

// GetLatestAuditEntry retrieves the most recent audit entry for a transaction
func (d Datasource) GetLatestAuditEntry(ctx context.Context, txnID string) (*model.AuditEntry, error) {
	ctx, span := otel.Tracer("Transactions").Start(ctx, "Fetching latest audit entry")
	defer span.End()

	entry := &model.AuditEntry{}
	err := d.Conn.QueryRowContext(ctx, `
		SELECT client_id, transaction_id, action_type, rule_used,
			confidence_score, reconciled, reconciled_at, created_at
		FROM match_audit_log
		WHERE transaction_id = $1
		ORDER BY id DESC
		LIMIT 1
	`, txnID).Scan(
		&entry.ClientID, &entry.TransactionID, &entry.ActionType, &entry.RuleUsed,
		&entry.ConfidenceScore, &entry.Reconciled, &entry.ReconciledAt, &entry.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "no audit entry for transaction", err)
	}
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "failed to fetch audit entry", err)
	}

	return entry, nil
}
