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
	"fmt"
	"time"

	"github.com/wacul/ptr"

	"github.com/vennhq/venn/internal/apierror"
	"github.com/vennhq/venn/internal/notification"
	"github.com/vennhq/venn/model"
)

// Exception reasons recorded when a transaction falls to manual review.
const (
	ReasonLowConfidence = "Low confidence match"
	ReasonNoCandidate   = "no candidate matched"
)

// MatchTransaction runs one transaction through the full decision pipeline:
// client rules first, invoice candidates as fallback, then classification
// against the acceptance threshold.
//
// Rules and invoices may be supplied inline by the caller; a nil slice means
// "use the stored set". A failure to load either set degrades the evaluation
// instead of failing it: the engine proceeds with what it has and flags the
// result as SourceDegraded.
//
// Side effects (status write-back, audit log, exceptions, webhooks) are best
// effort and never invalidate the returned result.
func (s *Venn) MatchTransaction(ctx context.Context, txn *model.Transaction, invoices []*model.Invoice, rules []*model.MatchingRule) (*model.MatchResult, error) {
	if err := validateTransaction(txn); err != nil {
		return nil, err
	}

	degraded := false
	if rules == nil {
		rules, degraded = s.rulesForClient(ctx, txn.ClientID)
	}

	result := s.evaluate(ctx, txn, rules, invoices, &degraded)
	result.SourceDegraded = degraded

	s.applyMatchSideEffects(ctx, txn, result)

	return result, nil
}

// evaluate computes the decision without side effects. The rule path wins
// outright on the first rule that clears the threshold; only when no rule
// clears does the invoice scan run.
func (s *Venn) evaluate(ctx context.Context, txn *model.Transaction, rules []*model.MatchingRule, invoices []*model.Invoice, degraded *bool) *model.MatchResult {
	rule, ruleConfidence, ok := s.firstRuleMatch(txn, rules)
	if ok {
		outcome, matched := s.classify(ruleConfidence)
		return &model.MatchResult{
			MatchType:   model.MatchTypeRule,
			RuleID:      rule.RuleID,
			RuleUsed:    rule.Name,
			Confidence:  ruleConfidence,
			Outcome:     outcome,
			AccountCode: rule.AccountCode,
			VatCode:     rule.VatCode,
			Matched:     matched,
		}
	}

	if invoices == nil {
		stored, err := s.datasource.GetInvoices(ctx)
		if err != nil {
			notification.NotifyError(err)
			*degraded = true
		} else {
			invoices = stored
		}
	}

	invoice, confidence := s.bestInvoiceMatch(txn, invoices)
	if invoice != nil {
		outcome, matched := s.classify(confidence)
		return &model.MatchResult{
			MatchType:        model.MatchTypeInvoice,
			MatchedInvoiceID: invoice.InvoiceID,
			Confidence:       confidence,
			Outcome:          outcome,
			Matched:          matched,
		}
	}

	// No candidate at all: the exception still carries the best score the
	// rule path produced, so reviewers see how close it came.
	return &model.MatchResult{
		MatchType:  model.MatchTypeNone,
		Confidence: ruleConfidence,
		Outcome:    model.OutcomeManualReview,
		Matched:    false,
	}
}

// ruleCacheEntry wraps the cached rule set so a client with zero rules is
// still a cache hit, not a miss that falls through to the database.
type ruleCacheEntry struct {
	Rules  []*model.MatchingRule
	Loaded bool
}

// rulesForClient loads the active rule set for a client through the cache.
// A datasource failure fails open: the engine reports an empty rule set and
// marks the evaluation degraded rather than erroring the whole match.
func (s *Venn) rulesForClient(ctx context.Context, clientID string) ([]*model.MatchingRule, bool) {
	key := ruleCacheKey(clientID)

	if s.cache != nil {
		var entry ruleCacheEntry
		if err := s.cache.Get(ctx, key, &entry); err == nil && entry.Loaded {
			return entry.Rules, false
		}
	}

	rules, err := s.datasource.GetActiveRulesForClient(ctx, clientID)
	if err != nil {
		notification.NotifyError(err)
		return nil, true
	}

	if s.cache != nil {
		entry := ruleCacheEntry{Rules: rules, Loaded: true}
		if err := s.cache.Set(ctx, key, entry, time.Duration(s.matcher.RuleCacheTTLSeconds)*time.Second); err != nil {
			notification.NotifyError(err)
		}
	}

	return rules, false
}

func ruleCacheKey(clientID string) string {
	return fmt.Sprintf("rules:%s", clientID)
}

// applyMatchSideEffects persists the decision and notifies downstream
// listeners. Every step is independent and best effort; an error here is
// reported, never returned.
func (s *Venn) applyMatchSideEffects(ctx context.Context, txn *model.Transaction, result *model.MatchResult) {
	now := time.Now()

	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = now
	}
	if err := s.datasource.RecordTransaction(ctx, txn); err != nil {
		notification.NotifyError(err)
	}
	if err := s.datasource.ApplyMatchResult(ctx, txn.TransactionID, result); err != nil {
		notification.NotifyError(err)
	}

	entry := &model.AuditEntry{
		ClientID:        txn.ClientID,
		TransactionID:   txn.TransactionID,
		ActionType:      model.ActionManualReview,
		RuleUsed:        result.RuleUsed,
		ConfidenceScore: result.Confidence,
		Reconciled:      result.Matched,
		CreatedAt:       now,
	}
	if result.Matched {
		entry.ActionType = model.ActionAutoMatch
		entry.ReconciledAt = ptr.Time(now)
	}
	if err := s.datasource.LogMatchAudit(ctx, entry); err != nil {
		notification.NotifyError(err)
	}

	if !result.Matched {
		reason := ReasonLowConfidence
		if result.Confidence == 0 {
			reason = ReasonNoCandidate
		}
		exception := &model.Exception{
			ExceptionID:     model.GenerateUUIDWithSuffix("exc"),
			TransactionID:   txn.TransactionID,
			ClientID:        txn.ClientID,
			Reason:          reason,
			ConfidenceScore: result.Confidence,
			CreatedAt:       now,
		}
		if err := s.datasource.RecordException(ctx, exception); err != nil {
			notification.NotifyError(err)
		}
	}

	event := "transaction.flagged"
	if result.Matched {
		event = "transaction.matched"
	}
	err := s.SendWebhook(ctx, NewWebhook{
		Event: event,
		Payload: map[string]interface{}{
			"transaction_id": txn.TransactionID,
			"client_id":      txn.ClientID,
			"result":         result,
		},
	}, txn.TransactionID, txn.ClientID)
	if err != nil {
		notification.NotifyError(err)
	}
}

func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "transaction is required", nil)
	}
	if txn.TransactionID == "" {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "transaction id is required", nil)
	}
	if txn.ClientID == "" {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "client id is required", nil)
	}
	return nil
}
