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
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/vennhq/venn/model"
)

// ruleScore computes the confidence a single rule grants a transaction.
// Each predicate contributes its configured weight independently, so a rule
// can partially match.
func (s *Venn) ruleScore(txn *model.Transaction, rule *model.MatchingRule) int {
	score := 0
	if rule.AmountRange.Normalize().Contains(txn.Amount) {
		score += s.matcher.RuleAmountWeight
	}
	if s.keywordMatches(txn.Description, rule.VendorKeyword, rule.KeywordDrift) {
		score += s.matcher.RuleKeywordWeight
	}
	return score
}

// invoiceScore computes the confidence an invoice candidate earns against a
// transaction: amount proximity, vendor presence in the description, and
// date proximity, each weighted independently.
func (s *Venn) invoiceScore(txn *model.Transaction, invoice *model.Invoice) int {
	score := 0
	if amountsClose(txn.Amount, invoice.Amount, s.amountEpsilon()) {
		score += s.matcher.InvoiceAmountWeight
	}
	if s.keywordMatches(txn.Description, invoice.Vendor, 0) {
		score += s.matcher.InvoiceVendorWeight
	}
	if withinDateWindow(txn.Date, invoice.Date, s.matcher.DateWindowDays) {
		score += s.matcher.InvoiceDateWeight
	}
	return score
}

// firstRuleMatch evaluates the rule set in its stored order and returns the
// first rule whose score clears the acceptance threshold. Later rules are
// never consulted once one wins. Inactive rules and rules scoped to another
// client are never eligible, wherever the set came from.
//
// On a miss the returned score is the best sub-threshold score any eligible
// rule earned, so the caller can report how close the rule path came.
func (s *Venn) firstRuleMatch(txn *model.Transaction, rules []*model.MatchingRule) (*model.MatchingRule, int, bool) {
	best := 0
	for _, rule := range rules {
		if !rule.IsActive || rule.ClientID != txn.ClientID {
			continue
		}
		score := s.ruleScore(txn, rule)
		if score >= s.matcher.AcceptanceThreshold {
			return rule, score, true
		}
		if score > best {
			best = score
		}
	}
	return nil, best, false
}

// bestInvoiceMatch scores every invoice candidate and keeps the highest.
// Ties keep the first candidate encountered, so the scan is deterministic
// for a given input order.
func (s *Venn) bestInvoiceMatch(txn *model.Transaction, invoices []*model.Invoice) (*model.Invoice, int) {
	var best *model.Invoice
	bestScore := 0
	for _, invoice := range invoices {
		if score := s.invoiceScore(txn, invoice); score > bestScore {
			best = invoice
			bestScore = score
		}
	}
	return best, bestScore
}

// classify turns a confidence score into a terminal outcome. The threshold
// comparison is inclusive: a score exactly at the threshold reconciles.
func (s *Venn) classify(confidence int) (string, bool) {
	if confidence >= s.matcher.AcceptanceThreshold {
		return model.OutcomeAutoReconcile, true
	}
	return model.OutcomeManualReview, false
}

// keywordMatches reports whether keyword appears in description. The empty
// keyword never matches; a rule without a vendor keyword cannot earn the
// keyword weight. Comparison is case-insensitive containment; a positive
// drift widens it to a levenshtein-bounded partial match.
func (s *Venn) keywordMatches(description, keyword string, drift float64) bool {
	if keyword == "" {
		return false
	}
	description = strings.ToLower(description)
	keyword = strings.ToLower(keyword)
	if strings.Contains(description, keyword) {
		return true
	}
	if drift <= 0 {
		return false
	}
	return partialMatch(description, keyword, drift)
}

// partialMatch checks if two strings match within an allowable drift,
// expressed as a percentage of the longer string, using Levenshtein distance.
func partialMatch(str1, str2 string, allowableDrift float64) bool {
	distance := levenshtein.DistanceForStrings([]rune(str1), []rune(str2), levenshtein.DefaultOptions)
	maxLength := float64(max(len(str1), len(str2)))
	maxAllowedDistance := int(maxLength * (allowableDrift / 100))
	return distance <= maxAllowedDistance
}

// amountsClose reports whether two amounts differ by strictly less than
// epsilon. A difference of exactly epsilon does not match.
func amountsClose(a, b, epsilon decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(epsilon)
}

// withinDateWindow reports whether two dates fall within windowDays calendar
// days of each other, bounds inclusive. Time-of-day is ignored.
func withinDateWindow(a, b time.Time, windowDays int) bool {
	return calendarDaysApart(a, b) <= windowDays
}

// calendarDaysApart counts whole calendar days between two instants after
// normalizing both to midnight UTC.
func calendarDaysApart(a, b time.Time) int {
	a = midnightUTC(a)
	b = midnightUTC(b)
	days := int(a.Sub(b).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// amountEpsilon parses the configured epsilon, falling back to the 0.01
// default on a malformed value rather than failing the evaluation.
func (s *Venn) amountEpsilon() decimal.Decimal {
	epsilon, err := decimal.NewFromString(s.matcher.AmountEpsilon)
	if err != nil {
		return decimal.NewFromFloat(0.01)
	}
	return epsilon
}
