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
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateMatchRequest(t *testing.T) {
	valid := MatchRequest{
		Transaction: TransactionPayload{ID: "txn_1", ClientID: "client1", Date: "2024-01-01"},
	}
	assert.NoError(t, valid.ValidateMatchRequest())

	missingID := MatchRequest{Transaction: TransactionPayload{ClientID: "client1"}}
	assert.Error(t, missingID.ValidateMatchRequest())

	missingClient := MatchRequest{Transaction: TransactionPayload{ID: "txn_1"}}
	assert.Error(t, missingClient.ValidateMatchRequest())

	badDate := MatchRequest{Transaction: TransactionPayload{ID: "txn_1", ClientID: "client1", Date: "01/02/2024"}}
	assert.Error(t, badDate.ValidateMatchRequest())
}

func TestToTransactionParsesDates(t *testing.T) {
	req := MatchRequest{
		Transaction: TransactionPayload{
			ID:       "txn_1",
			ClientID: "client1",
			Amount:   decimal.NewFromFloat(99.99),
			Date:     "2024-01-03",
		},
	}

	txn, err := req.ToTransaction()
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), txn.Date)

	req.Transaction.Date = "2024-04-22T15:28:03+00:00"
	txn, err = req.ToTransaction()
	assert.NoError(t, err)
	assert.Equal(t, 2024, txn.Date.Year())
	assert.Equal(t, 15, txn.Date.Hour())
}

func TestToInvoicesNilStaysNil(t *testing.T) {
	req := MatchRequest{Transaction: TransactionPayload{ID: "txn_1", ClientID: "client1"}}

	invoices, err := req.ToInvoices()
	assert.NoError(t, err)
	assert.Nil(t, invoices, "absent invoices must stay nil so the stored set is used")

	req.Invoices = []InvoicePayload{}
	invoices, err = req.ToInvoices()
	assert.NoError(t, err)
	assert.NotNil(t, invoices)
	assert.Empty(t, invoices)
}

func TestToInvoicePropagatesDateErrors(t *testing.T) {
	req := MatchRequest{
		Transaction: TransactionPayload{ID: "txn_1", ClientID: "client1"},
		Invoices:    []InvoicePayload{{ID: "inv_1", Date: "not-a-date"}},
	}

	_, err := req.ToInvoices()
	assert.Error(t, err)
}
