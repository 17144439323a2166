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
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vennhq/venn/internal/apierror"
	"github.com/vennhq/venn/model"
)

func TestRecordTransaction_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	txn := &model.Transaction{
		TransactionID: "txn_123",
		ClientID:      "client1",
		Amount:        decimal.NewFromFloat(99.99),
		Description:   "acme invoice",
		Date:          time.Now(),
		Status:        model.StatusManualReview,
		CreatedAt:     time.Now(),
	}

	mock.ExpectExec("INSERT INTO transactions_raw").
		WithArgs(txn.TransactionID, txn.ClientID, txn.Amount, txn.Description,
			txn.Date, txn.Status, txn.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = ds.RecordTransaction(context.TODO(), txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordTransaction_Fail(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("INSERT INTO transactions_raw").
		WillReturnError(fmt.Errorf("failed to insert"))

	err = ds.RecordTransaction(context.TODO(), &model.Transaction{TransactionID: "txn_123"})
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrInternalServer, err.(apierror.APIError).Code)
}

func TestGetTransaction_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT .* FROM transactions_raw").
		WithArgs("txn_missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "transaction_id", "client_id", "amount", "description", "date", "status", "created_at"}))

	_, err = ds.GetTransaction(context.TODO(), "txn_missing")
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrNotFound, err.(apierror.APIError).Code)
}

func TestApplyMatchResult_MatchedWritesStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	result := &model.MatchResult{
		MatchType:   model.MatchTypeRule,
		RuleUsed:    "Acme supplies",
		AccountCode: "6000",
		VatCode:     "VAT20",
		Matched:     true,
	}

	mock.ExpectExec("UPDATE transactions_raw").
		WithArgs("txn_123", model.StatusMatched, result.RuleUsed, result.MatchedInvoiceID,
			result.AccountCode, result.VatCode).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = ds.ApplyMatchResult(context.TODO(), "txn_123", result)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMatchResult_UnmatchedWritesManualReview(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	result := &model.MatchResult{MatchType: model.MatchTypeNone, Matched: false}

	mock.ExpectExec("UPDATE transactions_raw").
		WithArgs("txn_123", model.StatusManualReview, "", "", "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = ds.ApplyMatchResult(context.TODO(), "txn_123", result)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTransactionStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE transactions_raw SET status").
		WithArgs("txn_missing", model.StatusApproved).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = ds.UpdateTransactionStatus(context.TODO(), "txn_missing", model.StatusApproved)
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrNotFound, err.(apierror.APIError).Code)
}

func TestLogMatchAudit_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	now := time.Now()
	entry := &model.AuditEntry{
		ClientID:        "client1",
		TransactionID:   "txn_123",
		ActionType:      model.ActionAutoMatch,
		RuleUsed:        "Acme supplies",
		ConfidenceScore: 100,
		Reconciled:      true,
		ReconciledAt:    &now,
		CreatedAt:       now,
	}

	mock.ExpectExec("INSERT INTO match_audit_log").
		WithArgs(entry.ClientID, entry.TransactionID, entry.ActionType, entry.RuleUsed,
			entry.ConfidenceScore, entry.Reconciled, entry.ReconciledAt, entry.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = ds.LogMatchAudit(context.TODO(), entry)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLatestAuditEntry_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	now := time.Now()

	rows := sqlmock.NewRows([]string{"client_id", "transaction_id", "action_type", "rule_used",
		"confidence_score", "reconciled", "reconciled_at", "created_at"}).
		AddRow("client1", "txn_123", model.ActionManualReview, "", 70, false, nil, now)

	mock.ExpectQuery("SELECT .* FROM match_audit_log").
		WithArgs("txn_123").
		WillReturnRows(rows)

	entry, err := ds.GetLatestAuditEntry(context.TODO(), "txn_123")
	assert.NoError(t, err)
	assert.Equal(t, 70, entry.ConfidenceScore)
	assert.Nil(t, entry.ReconciledAt)
}
