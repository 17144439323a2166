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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vennhq/venn/database/mocks"
	"github.com/vennhq/venn/internal/apierror"
	"github.com/vennhq/venn/model"
)

func TestGetExceptions(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	v := newTestVenn(mockDS)
	mockDS.On("GetExceptions", mock.Anything, "client1", false).Return([]*model.Exception{
		{ExceptionID: "exc_1", TransactionID: "txn1", Reason: ReasonLowConfidence},
	}, nil)

	exceptions, err := v.GetExceptions(context.Background(), "client1", false)
	assert.NoError(t, err)
	assert.Len(t, exceptions, 1)
	assert.Equal(t, ReasonLowConfidence, exceptions[0].Reason)

	mockDS.AssertExpectations(t)
}

func TestResolveException(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	v := newTestVenn(mockDS)
	mockDS.On("ResolveException", mock.Anything, "exc_1").Return(nil)

	assert.NoError(t, v.ResolveException(context.Background(), "exc_1"))
	mockDS.AssertExpectations(t)
}

func TestApproveTransaction(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	v := newTestVenn(mockDS)

	mockDS.On("GetTransaction", mock.Anything, "txn1").Return(&model.Transaction{
		TransactionID: "txn1",
		ClientID:      "client1",
		Status:        model.StatusManualReview,
	}, nil)
	mockDS.On("UpdateTransactionStatus", mock.Anything, "txn1", model.StatusApproved).Return(nil)
	mockDS.On("GetLatestAuditEntry", mock.Anything, "txn1").Return(&model.AuditEntry{
		TransactionID:   "txn1",
		ConfidenceScore: 70,
	}, nil)
	mockDS.On("LogMatchAudit", mock.Anything, mock.MatchedBy(func(entry *model.AuditEntry) bool {
		return entry.Reconciled && entry.ConfidenceScore == 70 && entry.ReconciledAt != nil
	})).Return(nil)

	event, err := v.ApproveTransaction(context.Background(), "txn1", "ops@acme.test")
	assert.NoError(t, err)
	assert.Equal(t, "txn1", event.TransactionID)
	assert.Equal(t, "client1", event.ClientID)
	assert.Equal(t, 70, event.Confidence)
	assert.Equal(t, "ops@acme.test", event.Approver)

	mockDS.AssertExpectations(t)
}

func TestApproveTransactionWithoutAuditTrail(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	v := newTestVenn(mockDS)

	mockDS.On("GetTransaction", mock.Anything, "txn2").Return(&model.Transaction{
		TransactionID: "txn2",
		ClientID:      "client1",
	}, nil)
	mockDS.On("UpdateTransactionStatus", mock.Anything, "txn2", model.StatusApproved).Return(nil)
	mockDS.On("GetLatestAuditEntry", mock.Anything, "txn2").
		Return(nil, apierror.NewAPIError(apierror.ErrNotFound, "no audit entry for transaction", nil))
	mockDS.On("LogMatchAudit", mock.Anything, mock.Anything).Return(nil)

	event, err := v.ApproveTransaction(context.Background(), "txn2", "ops@acme.test")
	assert.NoError(t, err)
	assert.Equal(t, 0, event.Confidence, "missing audit trail reports zero confidence")

	mockDS.AssertExpectations(t)
}

func TestApproveTransactionNotFound(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	v := newTestVenn(mockDS)
	mockDS.On("GetTransaction", mock.Anything, "txn_missing").
		Return(nil, apierror.NewAPIError(apierror.ErrNotFound, "transaction not found", nil))

	_, err := v.ApproveTransaction(context.Background(), "txn_missing", "ops@acme.test")
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrNotFound, err.(apierror.APIError).Code)

	mockDS.AssertNotCalled(t, "UpdateTransactionStatus", mock.Anything, mock.Anything, mock.Anything)
}
