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
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vennhq/venn/config"
	"github.com/vennhq/venn/internal/notification"
	"github.com/vennhq/venn/internal/request"
	"github.com/vennhq/venn/model"
)

// NewWebhook represents the structure of a webhook notification.
// It includes an event type and associated payload data.
type NewWebhook struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"data"`
}

// SendWebhook posts a notification to the configured webhook endpoint.
// Delivery is single-shot: a failed delivery is written to the failure
// store for operator inspection instead of being retried.
//
// No configured endpoint means no delivery and no error.
func (s *Venn) SendWebhook(ctx context.Context, newWebhook NewWebhook, txnID, clientID string) error {
	conf, err := config.Fetch()
	if err != nil {
		return err
	}

	if conf.Notification.Webhook.Url == "" {
		return nil
	}

	payload, err := json.Marshal(newWebhook)
	if err != nil {
		return err
	}

	deliveryErr := deliver(ctx, conf, newWebhook)
	if deliveryErr == nil {
		return nil
	}
	notification.NotifyError(deliveryErr)

	failure := &model.WebhookFailure{
		DeliveryID:    model.GenerateUUIDWithSuffix("whd"),
		Event:         newWebhook.Event,
		TransactionID: txnID,
		ClientID:      clientID,
		Error:         deliveryErr.Error(),
		Payload:       payload,
		CreatedAt:     time.Now(),
	}
	return s.datasource.RecordWebhookFailure(ctx, failure)
}

// GetWebhookFailures lists failed deliveries, newest first.
func (s *Venn) GetWebhookFailures(ctx context.Context) ([]*model.WebhookFailure, error) {
	return s.datasource.GetWebhookFailures(ctx)
}

func deliver(ctx context.Context, conf *config.Configuration, newWebhook NewWebhook) error {
	payload, err := request.ToJsonReq(&newWebhook)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", conf.Notification.Webhook.Url, payload)
	if err != nil {
		return err
	}
	for key, value := range conf.Notification.Webhook.Headers {
		req.Header.Set(key, value)
	}

	var response map[string]interface{}
	resp, err := request.Call(req, &response)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook delivery failed with status code: %d", resp.StatusCode)
	}
	return nil
}
