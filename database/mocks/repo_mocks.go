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
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vennhq/venn/model"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Rule methods

func (m *MockDataSource) RecordMatchingRule(ctx context.Context, rule *model.MatchingRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockDataSource) GetMatchingRule(ctx context.Context, id string) (*model.MatchingRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MatchingRule), args.Error(1)
}

func (m *MockDataSource) GetMatchingRules(ctx context.Context) ([]*model.MatchingRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MatchingRule), args.Error(1)
}

func (m *MockDataSource) GetActiveRulesForClient(ctx context.Context, clientID string) ([]*model.MatchingRule, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MatchingRule), args.Error(1)
}

func (m *MockDataSource) UpdateMatchingRule(ctx context.Context, rule *model.MatchingRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockDataSource) DeleteMatchingRule(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Transaction methods

func (m *MockDataSource) RecordTransaction(ctx context.Context, txn *model.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockDataSource) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockDataSource) ApplyMatchResult(ctx context.Context, txnID string, result *model.MatchResult) error {
	args := m.Called(ctx, txnID, result)
	return args.Error(0)
}

func (m *MockDataSource) UpdateTransactionStatus(ctx context.Context, id string, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockDataSource) LogMatchAudit(ctx context.Context, entry *model.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockDataSource) GetLatestAuditEntry(ctx context.Context, txnID string) (*model.AuditEntry, error) {
	args := m.Called(ctx, txnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditEntry), args.Error(1)
}

// Exception methods

func (m *MockDataSource) RecordException(ctx context.Context, exc *model.Exception) error {
	args := m.Called(ctx, exc)
	return args.Error(0)
}

func (m *MockDataSource) GetExceptions(ctx context.Context, clientID string, includeResolved bool) ([]*model.Exception, error) {
	args := m.Called(ctx, clientID, includeResolved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Exception), args.Error(1)
}

func (m *MockDataSource) ResolveException(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Invoice methods

func (m *MockDataSource) RecordInvoice(ctx context.Context, inv *model.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockDataSource) GetInvoices(ctx context.Context) ([]*model.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Invoice), args.Error(1)
}

func (m *MockDataSource) DeleteInvoice(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Webhook failure methods

func (m *MockDataSource) RecordWebhookFailure(ctx context.Context, failure *model.WebhookFailure) error {
	args := m.Called(ctx, failure)
	return args.Error(0)
}

func (m *MockDataSource) GetWebhookFailures(ctx context.Context) ([]*model.WebhookFailure, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.WebhookFailure), args.Error(1)
}
