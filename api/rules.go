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

	"github.com/vennhq/venn/model"
)

// CreateMatchingRule creates a new matching rule
func (a Api) CreateMatchingRule(c *gin.Context) {
	var rule model.MatchingRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createdRule, err := a.venn.CreateMatchingRule(c.Request.Context(), rule)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createdRule)
}

// GetMatchingRule retrieves a matching rule by ID
func (a Api) GetMatchingRule(c *gin.Context) {
	ruleID := c.Param("id")
	if ruleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Matching Rule ID is required"})
		return
	}

	rule, err := a.venn.GetMatchingRule(c.Request.Context(), ruleID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

// ListMatchingRules lists all matching rules
func (a Api) ListMatchingRules(c *gin.Context) {
	rules, err := a.venn.ListMatchingRules(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rules)
}

// UpdateMatchingRule updates an existing matching rule
func (a Api) UpdateMatchingRule(c *gin.Context) {
	ruleID := c.Param("id")
	if ruleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Matching Rule ID is required"})
		return
	}

	var rule model.MatchingRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule.RuleID = ruleID
	updatedRule, err := a.venn.UpdateMatchingRule(c.Request.Context(), rule)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, updatedRule)
}

// DeleteMatchingRule deletes a matching rule
func (a Api) DeleteMatchingRule(c *gin.Context) {
	ruleID := c.Param("id")
	if ruleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Matching Rule ID is required"})
		return
	}

	if err := a.venn.DeleteMatchingRule(c.Request.Context(), ruleID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "matching rule deleted"})
}
