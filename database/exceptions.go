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
	"database/sql"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/vennhq/venn/internal/apierror"
	"github.com/vennhq/venn/model"
)

// RecordException inserts a new exception row for manual review
func (d Datasource) RecordException(ctx context.Context, exc *model.Exception) error {
	ctx, span := otel.Tracer("Exceptions").Start(ctx, "Saving exception to db")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO exceptions(
			exception_id, transaction_id, client_id, reason,
			confidence_score, is_resolved, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		exc.ExceptionID, exc.TransactionID, exc.ClientID, exc.Reason,
		exc.ConfidenceScore, exc.IsResolved, exc.CreatedAt,
	)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to record exception", err)
	}

	return nil
}

// GetExceptions retrieves exceptions for a client, newest first.
// Resolved rows are filtered out unless includeResolved is set.
func (d Datasource) GetExceptions(ctx context.Context, clientID string, includeResolved bool) ([]*model.Exception, error) {
	ctx, span := otel.Tracer("Exceptions").Start(ctx, "Fetching exceptions")
	defer span.End()

	query := `
		SELECT exception_id, transaction_id, client_id, reason,
			confidence_score, is_resolved, created_at, resolved_at
		FROM exceptions
		WHERE client_id = $1`
	if !includeResolved {
		query += ` AND is_resolved = FALSE`
	}
	query += ` ORDER BY id DESC`

	rows, err := d.Conn.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "failed to fetch exceptions", err)
	}
	defer rows.Close()

	var exceptions []*model.Exception
	for rows.Next() {
		exc := &model.Exception{}
		err := rows.Scan(
			&exc.ExceptionID, &exc.TransactionID, &exc.ClientID, &exc.Reason,
			&exc.ConfidenceScore, &exc.IsResolved, &exc.CreatedAt, &exc.ResolvedAt,
		)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "failed to scan exception", err)
		}
		exceptions = append(exceptions, exc)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "failed to iterate exceptions", err)
	}

	return exceptions, nil
}

// ResolveException marks an exception as resolved
func (d Datasource) ResolveException(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("Exceptions").Start(ctx, "Resolving exception")
	defer span.End()

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE exceptions
		SET is_resolved = TRUE, resolved_at = $2
		WHERE exception_id = $1 AND is_resolved = FALSE
	`, id, time.Now())
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to resolve exception", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to resolve exception", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "exception not found or already resolved", sql.ErrNoRows)
	}

	return nil
}
