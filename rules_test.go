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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vennhq/venn/database/mocks"
	"github.com/vennhq/venn/internal/apierror"
	"github.com/vennhq/venn/model"
)

func TestCreateMatchingRule(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	v := newTestVenn(mockDS)
	mockDS.On("RecordMatchingRule", mock.Anything, mock.Anything).Return(nil)

	created, err := v.CreateMatchingRule(context.Background(), model.MatchingRule{
		ClientID:      "client1",
		Name:          "Acme supplies",
		VendorKeyword: "acme",
		AmountRange:   amountRange(100, 200),
		AccountCode:   "6000",
	})
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.RuleID, "rule_"))
	assert.True(t, created.IsActive)
	assert.False(t, created.CreatedAt.IsZero())

	mockDS.AssertExpectations(t)
}

func TestCreateMatchingRuleNormalizesUnboundedRange(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	v := newTestVenn(mockDS)
	mockDS.On("RecordMatchingRule", mock.Anything, mock.Anything).Return(nil)

	created, err := v.CreateMatchingRule(context.Background(), model.MatchingRule{
		ClientID: "client1",
		Name:     "Anything goes",
	})
	assert.NoError(t, err)
	assert.True(t, created.AmountRange.Max.Valid)
	assert.True(t, created.AmountRange.Max.Decimal.Equal(model.DefaultAmountMax))
}

func TestCreateMatchingRuleKeepsExplicitZeroMax(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	v := newTestVenn(mockDS)
	mockDS.On("RecordMatchingRule", mock.Anything, mock.Anything).Return(nil)

	created, err := v.CreateMatchingRule(context.Background(), model.MatchingRule{
		ClientID:    "client1",
		Name:        "Zero only",
		AmountRange: amountRange(0, 0),
	})
	assert.NoError(t, err)
	assert.True(t, created.AmountRange.Max.Decimal.IsZero(), "an explicit zero max must not become unbounded")
}

func TestCreateMatchingRuleValidation(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	v := newTestVenn(mockDS)

	cases := []struct {
		name string
		rule model.MatchingRule
	}{
		{"missing client", model.MatchingRule{Name: "r"}},
		{"missing name", model.MatchingRule{ClientID: "client1"}},
		{"negative min", model.MatchingRule{ClientID: "client1", Name: "r", AmountRange: amountRange(-1, 10)}},
		{"max below min", model.MatchingRule{ClientID: "client1", Name: "r", AmountRange: amountRange(50, 10)}},
		{"drift out of range", model.MatchingRule{ClientID: "client1", Name: "r", KeywordDrift: 150}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.CreateMatchingRule(context.Background(), tc.rule)
			assert.Error(t, err)
			assert.Equal(t, apierror.ErrInvalidInput, err.(apierror.APIError).Code)
		})
	}

	mockDS.AssertNotCalled(t, "RecordMatchingRule", mock.Anything, mock.Anything)
}

func TestUpdateMatchingRule(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	v := newTestVenn(mockDS)

	existing := acmeRule()
	mockDS.On("GetMatchingRule", mock.Anything, "rule_acme").Return(existing, nil)
	mockDS.On("UpdateMatchingRule", mock.Anything, mock.MatchedBy(func(rule *model.MatchingRule) bool {
		return rule.Name == "Acme renamed" && rule.ClientID == "client1"
	})).Return(nil)

	updated, err := v.UpdateMatchingRule(context.Background(), model.MatchingRule{
		RuleID:      "rule_acme",
		Name:        "Acme renamed",
		AmountRange: existing.AmountRange,
	})
	assert.NoError(t, err)
	assert.Equal(t, "client1", updated.ClientID, "client ownership must not change on update")
	assert.False(t, updated.UpdatedAt.IsZero())

	mockDS.AssertExpectations(t)
}

func TestUpdateMatchingRuleNotFound(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	v := newTestVenn(mockDS)
	mockDS.On("GetMatchingRule", mock.Anything, "rule_missing").
		Return(nil, apierror.NewAPIError(apierror.ErrNotFound, "matching rule not found", nil))

	_, err := v.UpdateMatchingRule(context.Background(), model.MatchingRule{RuleID: "rule_missing", Name: "r"})
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrNotFound, err.(apierror.APIError).Code)

	mockDS.AssertNotCalled(t, "UpdateMatchingRule", mock.Anything, mock.Anything)
}

func TestDeleteMatchingRule(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	v := newTestVenn(mockDS)
	mockDS.On("GetMatchingRule", mock.Anything, "rule_acme").Return(acmeRule(), nil)
	mockDS.On("DeleteMatchingRule", mock.Anything, "rule_acme").Return(nil)

	err := v.DeleteMatchingRule(context.Background(), "rule_acme")
	assert.NoError(t, err)

	mockDS.AssertExpectations(t)
}

func TestListMatchingRules(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	v := newTestVenn(mockDS)
	mockDS.On("GetMatchingRules", mock.Anything).Return([]*model.MatchingRule{acmeRule()}, nil)

	rules, err := v.ListMatchingRules(context.Background())
	assert.NoError(t, err)
	assert.Len(t, rules, 1)

	mockDS.AssertExpectations(t)
}
