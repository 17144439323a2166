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

package database

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/vennhq/venn/internal/apierror"
	"github.com/vennhq/venn/model"
)

// RecordWebhookFailure stores a failed outbound delivery so operators can
// inspect and replay it. There is no automatic retry.
func (d Datasource) RecordWebhookFailure(ctx context.Context, failure *model.WebhookFailure) error {
	ctx, span := otel.Tracer("Webhooks").Start(ctx, "Saving webhook failure to db")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO webhook_failures(
			delivery_id, event, transaction_id, client_id, error, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		failure.DeliveryID, failure.Event, failure.TransactionID,
		failure.ClientID, failure.Error, failure.Payload, failure.CreatedAt,
	)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to record webhook failure", err)
	}

	return nil
}

// GetWebhookFailures retrieves all failed deliveries, newest first
func (d Datasource) GetWebhookFailures(ctx context.Context) ([]*model.WebhookFailure, error) {
	ctx, span := otel.Tracer("Webhooks").Start(ctx, "Fetching webhook failures")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT delivery_id, event, transaction_id, client_id, error, payload, created_at
		FROM webhook_failures
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "failed to fetch webhook failures", err)
	}
	defer rows.Close()

	var failures []*model.WebhookFailure
	for rows.Next() {
		failure := &model.WebhookFailure{}
		err := rows.Scan(
			&failure.DeliveryID, &failure.Event, &failure.TransactionID,
			&failure.ClientID, &failure.Error, &failure.Payload, &failure.CreatedAt,
		)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "failed to scan webhook failure", err)
		}
		failures = append(failures, failure)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "failed to iterate webhook failures", err)
	}

	return failures, nil
}
