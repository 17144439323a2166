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

	"github.com/vennhq/venn/internal/apierror"
	"github.com/vennhq/venn/internal/notification"
	"github.com/vennhq/venn/model"
)

// CreateMatchingRule creates a new matching rule after validating it.
// The client's cached rule set is invalidated so the next evaluation sees
// the new rule.
func (s *Venn) CreateMatchingRule(ctx context.Context, rule model.MatchingRule) (*model.MatchingRule, error) {
	rule.RuleID = model.GenerateUUIDWithSuffix("rule")
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt
	rule.IsActive = true
	rule.AmountRange = rule.AmountRange.Normalize()

	if err := s.validateRule(&rule); err != nil {
		return nil, err
	}

	if err := s.datasource.RecordMatchingRule(ctx, &rule); err != nil {
		return nil, err
	}

	s.invalidateRuleCache(ctx, rule.ClientID)
	return &rule, nil
}

// GetMatchingRule retrieves a matching rule by its ID.
func (s *Venn) GetMatchingRule(ctx context.Context, id string) (*model.MatchingRule, error) {
	return s.datasource.GetMatchingRule(ctx, id)
}

// ListMatchingRules retrieves all matching rules.
func (s *Venn) ListMatchingRules(ctx context.Context) ([]*model.MatchingRule, error) {
	return s.datasource.GetMatchingRules(ctx)
}

// UpdateMatchingRule updates an existing matching rule after validating it.
func (s *Venn) UpdateMatchingRule(ctx context.Context, rule model.MatchingRule) (*model.MatchingRule, error) {
	existing, err := s.datasource.GetMatchingRule(ctx, rule.RuleID)
	if err != nil {
		return nil, err
	}

	rule.ClientID = existing.ClientID
	rule.CreatedAt = existing.CreatedAt
	rule.UpdatedAt = time.Now()
	rule.AmountRange = rule.AmountRange.Normalize()

	if err := s.validateRule(&rule); err != nil {
		return nil, err
	}

	if err := s.datasource.UpdateMatchingRule(ctx, &rule); err != nil {
		return nil, err
	}

	s.invalidateRuleCache(ctx, rule.ClientID)
	return &rule, nil
}

// DeleteMatchingRule deletes a matching rule by its ID.
func (s *Venn) DeleteMatchingRule(ctx context.Context, id string) error {
	rule, err := s.datasource.GetMatchingRule(ctx, id)
	if err != nil {
		return err
	}

	if err := s.datasource.DeleteMatchingRule(ctx, id); err != nil {
		return err
	}

	s.invalidateRuleCache(ctx, rule.ClientID)
	return nil
}

// validateRule enforces the structural invariants a rule must satisfy
// before it is stored.
func (s *Venn) validateRule(rule *model.MatchingRule) error {
	if rule.ClientID == "" {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "rule client id is required", nil)
	}
	if rule.Name == "" {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "rule name is required", nil)
	}
	if rule.AmountRange.Min.IsNegative() {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "rule amount min cannot be negative", nil)
	}
	if rule.AmountRange.Max.Valid && rule.AmountRange.Max.Decimal.LessThan(rule.AmountRange.Min) {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "rule amount max cannot be below min", nil)
	}
	if rule.KeywordDrift < 0 || rule.KeywordDrift > 100 {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "keyword drift must be between 0 and 100", nil)
	}
	return nil
}

func (s *Venn) invalidateRuleCache(ctx context.Context, clientID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, ruleCacheKey(clientID)); err != nil {
		notification.NotifyError(err)
	}
}
