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

// GetExceptions lists exceptions for a client. Pass include_resolved=true
// to include exceptions a human already handled.
func (a Api) GetExceptions(c *gin.Context) {
	clientID := c.Query("client_id")
	if clientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id is required"})
		return
	}
	includeResolved := c.Query("include_resolved") == "true"

	exceptions, err := a.venn.GetExceptions(c.Request.Context(), clientID, includeResolved)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, exceptions)
}

// ResolveException marks an exception as resolved
func (a Api) ResolveException(c *gin.Context) {
	exceptionID := c.Param("id")
	if exceptionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Exception ID is required"})
		return
	}

	if err := a.venn.ResolveException(c.Request.Context(), exceptionID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "exception resolved"})
}

// ApproveTransaction records a human approval of a flagged transaction
func (a Api) ApproveTransaction(c *gin.Context) {
	txnID := c.Param("id")
	if txnID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transaction ID is required"})
		return
	}

	var req model2.ApproveTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := a.venn.ApproveTransaction(c.Request.Context(), txnID, req.Approver)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}
