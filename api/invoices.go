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
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/vennhq/venn/api/model"
)

// CreateInvoice records an outstanding invoice in the candidate store
func (a Api) CreateInvoice(c *gin.Context) {
	var payload model2.InvoicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := payload.ValidateInvoicePayload(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := payload.ToInvoice()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.venn.RecordInvoice(c.Request.Context(), invoice); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// GetInvoices lists all outstanding invoices
func (a Api) GetInvoices(c *gin.Context) {
	invoices, err := a.venn.GetInvoices(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// DeleteInvoice removes a settled invoice from the candidate store
func (a Api) DeleteInvoice(c *gin.Context) {
	invoiceID := c.Param("id")
	if invoiceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invoice ID is required"})
		return
	}

	if err := a.venn.DeleteInvoice(c.Request.Context(), invoiceID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "invoice deleted"})
}

// GetWebhookFailures lists failed webhook deliveries
func (a Api) GetWebhookFailures(c *gin.Context) {
	failures, err := a.venn.GetWebhookFailures(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, failures)
}
