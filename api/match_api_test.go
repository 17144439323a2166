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
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	model2 "github.com/vennhq/venn/api/model"
	"github.com/vennhq/venn/model"
)

func matchRequestBody(t *testing.T, req model2.MatchRequest) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(req)
	assert.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestMatchEndpoint_RuleMatch(t *testing.T) {
	router, mockDS := setupRouter(t)
	mockDS.On("RecordTransaction", mock.Anything, mock.Anything).Return(nil)
	mockDS.On("ApplyMatchResult", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockDS.On("LogMatchAudit", mock.Anything, mock.Anything).Return(nil)

	payload := model2.MatchRequest{
		Transaction: model2.TransactionPayload{
			ID:          "txn_1",
			ClientID:    "client1",
			Amount:      decimal.NewFromInt(150),
			Description: "Acme Corp invoice",
			Date:        "2024-01-01",
		},
		Invoices: []model2.InvoicePayload{},
		Rules: []*model.MatchingRule{
			{
				RuleID:        "rule_1",
				ClientID:      "client1",
				Name:          "Acme supplies",
				VendorKeyword: "acme",
				AmountRange: model.AmountRange{
					Min: decimal.NewFromInt(100),
					Max: decimal.NewNullDecimal(decimal.NewFromInt(200)),
				},
				AccountCode: "6000",
				VatCode:     "VAT20",
				IsActive:    true,
			},
		},
	}

	var result model.MatchResult
	resp, err := SetUpTestRequest(TestRequest{
		Method:   "POST",
		Route:    "/match",
		Payload:  matchRequestBody(t, payload),
		Router:   router,
		Response: &result,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, model.MatchTypeRule, result.MatchType)
	assert.Equal(t, 100, result.Confidence)
	assert.Equal(t, model.OutcomeAutoReconcile, result.Outcome)
	assert.Equal(t, "6000", result.AccountCode)
}

func TestMatchEndpoint_ExceptionPath(t *testing.T) {
	router, mockDS := setupRouter(t)
	mockDS.On("RecordTransaction", mock.Anything, mock.Anything).Return(nil)
	mockDS.On("ApplyMatchResult", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockDS.On("LogMatchAudit", mock.Anything, mock.Anything).Return(nil)
	mockDS.On("RecordException", mock.Anything, mock.Anything).Return(nil)

	payload := model2.MatchRequest{
		Transaction: model2.TransactionPayload{
			ID:       "txn_2",
			ClientID: "client1",
			Amount:   decimal.NewFromInt(42),
		},
		Invoices: []model2.InvoicePayload{},
		Rules:    []*model.MatchingRule{},
	}

	var result model.MatchResult
	resp, err := SetUpTestRequest(TestRequest{
		Method:   "POST",
		Route:    "/match",
		Payload:  matchRequestBody(t, payload),
		Router:   router,
		Response: &result,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, model.MatchTypeNone, result.MatchType)
	assert.Equal(t, model.OutcomeManualReview, result.Outcome)

	mockDS.AssertExpectations(t)
}

func TestMatchEndpoint_MissingTransactionID(t *testing.T) {
	router, _ := setupRouter(t)

	payload := model2.MatchRequest{
		Transaction: model2.TransactionPayload{ClientID: "client1"},
	}

	resp, err := SetUpTestRequest(TestRequest{
		Method:  "POST",
		Route:   "/match",
		Payload: matchRequestBody(t, payload),
		Router:  router,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestMatchEndpoint_MalformedDate(t *testing.T) {
	router, _ := setupRouter(t)

	payload := model2.MatchRequest{
		Transaction: model2.TransactionPayload{
			ID:       "txn_3",
			ClientID: "client1",
			Date:     "01/02/2024",
		},
	}

	resp, err := SetUpTestRequest(TestRequest{
		Method:  "POST",
		Route:   "/match",
		Payload: matchRequestBody(t, payload),
		Router:  router,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
