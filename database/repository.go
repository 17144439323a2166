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

	"github.com/vennhq/venn/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	rule           // Interface for matching-rule operations
	transaction    // Interface for transaction and audit-log operations
	exception      // Interface for exception operations
	invoice        // Interface for invoice operations
	webhookFailure // Interface for webhook failure records
}

// rule defines methods for handling matching rules.
type rule interface {
	RecordMatchingRule(ctx context.Context, rule *model.MatchingRule) error                       // Records a new matching rule
	GetMatchingRule(ctx context.Context, id string) (*model.MatchingRule, error)                  // Retrieves a matching rule by ID
	GetMatchingRules(ctx context.Context) ([]*model.MatchingRule, error)                          // Retrieves all matching rules
	GetActiveRulesForClient(ctx context.Context, clientID string) ([]*model.MatchingRule, error)  // Retrieves the active, ordered rule set for a client
	UpdateMatchingRule(ctx context.Context, rule *model.MatchingRule) error                       // Updates a matching rule
	DeleteMatchingRule(ctx context.Context, id string) error                                      // Deletes a matching rule
}

// transaction defines methods for handling transactions and their audit trail.
type transaction interface {
	RecordTransaction(ctx context.Context, txn *model.Transaction) error                     // Records an incoming transaction (idempotent on transaction_id)
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)               // Retrieves a transaction by ID
	ApplyMatchResult(ctx context.Context, txnID string, result *model.MatchResult) error     // Writes a match decision back onto a transaction row
	UpdateTransactionStatus(ctx context.Context, id string, status string) error             // Updates the status of a transaction
	LogMatchAudit(ctx context.Context, entry *model.AuditEntry) error                        // Appends an audit log entry
	GetLatestAuditEntry(ctx context.Context, txnID string) (*model.AuditEntry, error)        // Retrieves the most recent audit entry for a transaction
}

// exception defines methods for handling low-confidence exceptions.
type exception interface {
	RecordException(ctx context.Context, exc *model.Exception) error                                        // Records a new exception
	GetExceptions(ctx context.Context, clientID string, includeResolved bool) ([]*model.Exception, error)   // Retrieves exceptions for a client
	ResolveException(ctx context.Context, id string) error                                                  // Marks an exception as resolved
}

// invoice defines methods for the outstanding-invoice candidate store.
type invoice interface {
	RecordInvoice(ctx context.Context, inv *model.Invoice) error      // Records an outstanding invoice
	GetInvoices(ctx context.Context) ([]*model.Invoice, error)        // Retrieves all outstanding invoices
	DeleteInvoice(ctx context.Context, id string) error               // Removes an invoice (e.g. once settled)
}

// webhookFailure defines methods for durable delivery-failure records.
type webhookFailure interface {
	RecordWebhookFailure(ctx context.Context, failure *model.WebhookFailure) error // Records a failed outbound notification
	GetWebhookFailures(ctx context.Context) ([]*model.WebhookFailure, error)       // Retrieves all failed deliveries
}
