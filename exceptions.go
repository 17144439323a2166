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
	"time"

	"github.com/wacul/ptr"

	"github.com/vennhq/venn/internal/notification"
	"github.com/vennhq/venn/model"
)

// GetExceptions lists exceptions for a client. Unresolved only by default.
func (s *Venn) GetExceptions(ctx context.Context, clientID string, includeResolved bool) ([]*model.Exception, error) {
	return s.datasource.GetExceptions(ctx, clientID, includeResolved)
}

// ResolveException marks an exception as handled by a human.
func (s *Venn) ResolveException(ctx context.Context, id string) error {
	return s.datasource.ResolveException(ctx, id)
}

// ApproveTransaction records a human approval of a flagged transaction:
// the transaction moves to approved, the approval is audited, and a
// transaction.approved event goes out to listeners.
func (s *Venn) ApproveTransaction(ctx context.Context, txnID, approver string) (*model.ApprovalEvent, error) {
	txn, err := s.datasource.GetTransaction(ctx, txnID)
	if err != nil {
		return nil, err
	}

	if err := s.datasource.UpdateTransactionStatus(ctx, txnID, model.StatusApproved); err != nil {
		return nil, err
	}

	now := time.Now()
	confidence := 0
	if entry, err := s.datasource.GetLatestAuditEntry(ctx, txnID); err == nil {
		confidence = entry.ConfidenceScore
	}

	audit := &model.AuditEntry{
		ClientID:        txn.ClientID,
		TransactionID:   txnID,
		ActionType:      model.ActionManualReview,
		ConfidenceScore: confidence,
		Reconciled:      true,
		ReconciledAt:    ptr.Time(now),
		CreatedAt:       now,
	}
	if err := s.datasource.LogMatchAudit(ctx, audit); err != nil {
		notification.NotifyError(err)
	}

	event := &model.ApprovalEvent{
		TransactionID: txnID,
		ClientID:      txn.ClientID,
		Confidence:    confidence,
		Approver:      approver,
		ApprovedAt:    now,
	}
	err = s.SendWebhook(ctx, NewWebhook{
		Event:   "transaction.approved",
		Payload: event,
	}, txnID, txn.ClientID)
	if err != nil {
		notification.NotifyError(err)
	}

	return event, nil
}
