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
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction statuses written back by the result sink.
const (
	StatusMatched      = "matched"       // Transaction reconciled automatically.
	StatusManualReview = "manual_review" // Transaction waiting for a human.
	StatusApproved     = "approved"      // Transaction approved by a human.
)

// Match types reported on a MatchResult.
const (
	MatchTypeRule    = "rule"
	MatchTypeInvoice = "invoice"
	MatchTypeNone    = "none"
)

// Terminal outcomes of a single evaluation.
const (
	OutcomeAutoReconcile = "auto_reconcile"
	OutcomeManualReview  = "manual_review"
)

// Audit action types, mirrored into the audit log.
const (
	ActionAutoMatch    = "auto_match"
	ActionManualReview = "manual_review"
)

// DefaultAmountMax is the sentinel upper bound used when a rule's amount
// range is supplied without a max. It means "unbounded" to the evaluator.
var DefaultAmountMax = decimal.NewFromInt(999999)

// GenerateUUIDWithSuffix generates a unique identifier with a module-specific prefix.
func GenerateUUIDWithSuffix(module string) string {
	return fmt.Sprintf("%s_%s", module, uuid.New().String())
}

// Transaction is an incoming bank transaction presented to the engine.
// The engine only reads it; identity is TransactionID.
type Transaction struct {
	ID            int64           `json:"-"`
	TransactionID string          `json:"id"`
	ClientID      string          `json:"client_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	Status        string          `json:"status,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitempty"`
}

// AmountRange bounds the amounts a rule applies to, inclusive on both ends.
// Max carries a presence flag so an explicit zero bound is distinguishable
// from an absent one.
type AmountRange struct {
	Min decimal.Decimal     `json:"min"`
	Max decimal.NullDecimal `json:"max"`
}

// Normalize fills in the documented defaults for an unbounded range: zero
// min and the DefaultAmountMax sentinel when max is absent. An explicit
// zero max is kept as a real bound.
func (r AmountRange) Normalize() AmountRange {
	if !r.Max.Valid {
		r.Max = decimal.NewNullDecimal(DefaultAmountMax)
	}
	return r
}

// Contains reports whether amount falls inside the range, bounds inclusive.
// The range must be normalized first.
func (r AmountRange) Contains(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(r.Min) && amount.LessThanOrEqual(r.Max.Decimal)
}

// MatchingRule is a client-scoped predicate that assigns account and VAT
// codes when a transaction satisfies it. Only active rules scoped to the
// transaction's client are eligible for evaluation.
//
// KeywordDrift opts a rule into fuzzy keyword containment, expressed as an
// allowable levenshtein distance percentage of the longer string. Zero
// keeps the default exact (case-insensitive) containment.
type MatchingRule struct {
	ID            int64       `json:"-"`
	RuleID        string      `json:"rule_id"`
	ClientID      string      `json:"client_id"`
	Name          string      `json:"rule_name"`
	VendorKeyword string      `json:"vendor_keyword"`
	AmountRange   AmountRange `json:"amount_range"`
	AccountCode   string      `json:"account_code"`
	VatCode       string      `json:"vat_code"`
	IsActive      bool        `json:"is_active"`
	KeywordDrift  float64     `json:"keyword_drift,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Invoice is an outstanding invoice candidate used by the invoice fallback
// and the standalone matching variant. Client scoping, if required, is the
// caller's concern at this layer.
type Invoice struct {
	ID        int64           `json:"-"`
	InvoiceID string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Vendor    string          `json:"vendor"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
}

// MatchResult is the structured decision produced by one evaluation call.
// It is built fresh per call and never persisted by the engine itself.
type MatchResult struct {
	MatchType        string `json:"matchType"`
	RuleID           string `json:"ruleId,omitempty"`
	RuleUsed         string `json:"ruleUsed,omitempty"`
	MatchedInvoiceID string `json:"matchedInvoiceId,omitempty"`
	Confidence       int    `json:"confidence"`
	Outcome          string `json:"outcome"`
	AccountCode      string `json:"account_code,omitempty"`
	VatCode          string `json:"vat_code,omitempty"`
	Matched          bool   `json:"matched"`
	SourceDegraded   bool   `json:"source_degraded,omitempty"`
}

// Exception is raised when no candidate clears the acceptance threshold.
// It stays unresolved until a human adjudicates the transaction.
type Exception struct {
	ID              int64      `json:"-"`
	ExceptionID     string     `json:"exception_id"`
	TransactionID   string     `json:"transaction_id"`
	ClientID        string     `json:"client_id"`
	Reason          string     `json:"reason"`
	ConfidenceScore int        `json:"confidence_score"`
	IsResolved      bool       `json:"is_resolved"`
	CreatedAt       time.Time  `json:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
}

// AuditEntry is one row of the reconciliation audit log, keyed by
// transaction and client.
type AuditEntry struct {
	ID              int64      `json:"-"`
	ClientID        string     `json:"client_id"`
	TransactionID   string     `json:"transaction_id"`
	ActionType      string     `json:"action_type"`
	RuleUsed        string     `json:"rule_used,omitempty"`
	ConfidenceScore int        `json:"confidence_score"`
	Reconciled      bool       `json:"reconciled"`
	ReconciledAt    *time.Time `json:"reconciled_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// WebhookFailure is the durable record of an outbound notification that
// could not be delivered. Deliveries are not retried; failures must not be
// dropped silently.
type WebhookFailure struct {
	ID            int64     `json:"-"`
	DeliveryID    string    `json:"delivery_id"`
	Event         string    `json:"event"`
	TransactionID string    `json:"transaction_id"`
	ClientID      string    `json:"client_id"`
	Error         string    `json:"error"`
	Payload       []byte    `json:"payload,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ApprovalEvent is the payload fired when a human approves a previously
// flagged transaction.
type ApprovalEvent struct {
	TransactionID string    `json:"transaction_id"`
	ClientID      string    `json:"client_id"`
	Confidence    int       `json:"confidence_score"`
	Approver      string    `json:"approver"`
	ApprovedAt    time.Time `json:"approved_at"`
}
