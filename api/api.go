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
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vennhq/venn"
	"github.com/vennhq/venn/api/middleware"
	"github.com/vennhq/venn/config"
	"github.com/vennhq/venn/internal/apierror"
)

type Api struct {
	venn   *venn.Venn
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	router.POST("/match", a.MatchTransaction)

	router.POST("/rules", a.CreateMatchingRule)
	router.GET("/rules", a.ListMatchingRules)
	router.GET("/rules/:id", a.GetMatchingRule)
	router.PUT("/rules/:id", a.UpdateMatchingRule)
	router.DELETE("/rules/:id", a.DeleteMatchingRule)

	router.GET("/exceptions", a.GetExceptions)
	router.POST("/exceptions/:id/resolve", a.ResolveException)

	router.POST("/transactions/:id/approve", a.ApproveTransaction)

	router.POST("/invoices", a.CreateInvoice)
	router.GET("/invoices", a.GetInvoices)
	router.DELETE("/invoices/:id", a.DeleteInvoice)

	router.GET("/webhook-failures", a.GetWebhookFailures)

	return a.router
}

func NewAPI(v *venn.Venn) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{venn: v, router: r}
}

// handleError logs err and writes it with the status its code maps to.
// Unknown errors stay opaque to callers.
func handleError(c *gin.Context, err error) {
	logrus.Error(err)

	var apiErr apierror.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apierror.MapErrorToHTTPStatus(apiErr), gin.H{"error": apiErr.Message})
		return
	}
	c.JSON(500, gin.H{"error": "internal server error"})
}
