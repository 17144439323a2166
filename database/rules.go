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

	"go.opentelemetry.io/otel"

	"github.com/vennhq/venn/internal/apierror"
	"github.com/vennhq/venn/model"
)

// RecordMatchingRule inserts a new matching rule into the database
func (d Datasource) RecordMatchingRule(ctx context.Context, rule *model.MatchingRule) error {
	ctx, span := otel.Tracer("Rules").Start(ctx, "Saving matching rule to db")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO reconciliation_rules(
			rule_id, client_id, rule_name, vendor_keyword, amount_min, amount_max,
			account_code, vat_code, is_active, keyword_drift, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rule.RuleID, rule.ClientID, rule.Name, rule.VendorKeyword,
		rule.AmountRange.Min, rule.AmountRange.Max,
		rule.AccountCode, rule.VatCode, rule.IsActive, rule.KeywordDrift,
		rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to record matching rule", err)
	}

	return nil
}

// GetMatchingRule retrieves a matching rule by its ID
func (d Datasource) GetMatchingRule(ctx context.Context, id string) (*model.MatchingRule, error) {
	ctx, span := otel.Tracer("Rules").Start(ctx, "Fetching matching rule from db")
	defer span.End()

	rule := &model.MatchingRule{}
	err := d.Conn.QueryRowContext(ctx, `
		SELECT id, rule_id, client_id, rule_name, vendor_keyword, amount_min, amount_max,
			account_code, vat_code, is_active, keyword_drift, created_at, updated_at
		FROM reconciliation_rules
		WHERE rule_id = $1
	`, id).Scan(
		&rule.ID, &rule.RuleID, &rule.ClientID, &rule.Name, &rule.VendorKeyword,
		&rule.AmountRange.Min, &rule.AmountRange.Max,
		&rule.AccountCode, &rule.VatCode, &rule.IsActive, &rule.KeywordDrift,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "matching rule not found", err)
	}
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "failed to fetch matching rule", err)
	}

	return rule, nil
}

// GetMatchingRules retrieves all matching rules
func (d Datasource) GetMatchingRules(ctx context.Context) ([]*model.MatchingRule, error) {
	ctx, span := otel.Tracer("Rules").Start(ctx, "Fetching matching rules")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, rule_id, client_id, rule_name, vendor_keyword, amount_min, amount_max,
			account_code, vat_code, is_active, keyword_drift, created_at, updated_at
		FROM reconciliation_rules
		ORDER BY id
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "failed to fetch matching rules", err)
	}
	defer rows.Close()

	return scanRules(rows)
}

// GetActiveRulesForClient retrieves the active rule set for a client.
// Order is significant to the evaluator: rules come back oldest first, the
// order the client configured them in.
func (d Datasource) GetActiveRulesForClient(ctx context.Context, clientID string) ([]*model.MatchingRule, error) {
	ctx, span := otel.Tracer("Rules").Start(ctx, "Fetching active rules for client")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, rule_id, client_id, rule_name, vendor_keyword, amount_min, amount_max,
			account_code, vat_code, is_active, keyword_drift, created_at, updated_at
		FROM reconciliation_rules
		WHERE client_id = $1 AND is_active = TRUE
		ORDER BY id
	`, clientID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "failed to fetch active rules", err)
	}
	defer rows.Close()

	return scanRules(rows)
}

func scanRules(rows *sql.Rows) ([]*model.MatchingRule, error) {
	var rules []*model.MatchingRule

	for rows.Next() {
		rule := &model.MatchingRule{}
		err := rows.Scan(
			&rule.ID, &rule.RuleID, &rule.ClientID, &rule.Name, &rule.VendorKeyword,
			&rule.AmountRange.Min, &rule.AmountRange.Max,
			&rule.AccountCode, &rule.VatCode, &rule.IsActive, &rule.KeywordDrift,
			&rule.CreatedAt, &rule.UpdatedAt,
		)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "failed to scan matching rule", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "failed to iterate matching rules", err)
	}

	return rules, nil
}

// UpdateMatchingRule updates an existing matching rule
func (d Datasource) UpdateMatchingRule(ctx context.Context, rule *model.MatchingRule) error {
	ctx, span := otel.Tracer("Rules").Start(ctx, "Updating matching rule")
	defer span.End()

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE reconciliation_rules
		SET client_id = $2, rule_name = $3, vendor_keyword = $4, amount_min = $5,
			amount_max = $6, account_code = $7, vat_code = $8, is_active = $9,
			keyword_drift = $10, updated_at = $11
		WHERE rule_id = $1
	`, rule.RuleID, rule.ClientID, rule.Name, rule.VendorKeyword,
		rule.AmountRange.Min, rule.AmountRange.Max,
		rule.AccountCode, rule.VatCode, rule.IsActive, rule.KeywordDrift,
		rule.UpdatedAt,
	)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to update matching rule", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to update matching rule", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "matching rule not found", nil)
	}

	return nil
}

// DeleteMatchingRule deletes a matching rule by its ID
func (d Datasource) DeleteMatchingRule(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("Rules").Start(ctx, "Deleting matching rule")
	defer span.End()

	result, err := d.Conn.ExecContext(ctx, `
		DELETE FROM reconciliation_rules WHERE rule_id = $1
	`, id)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to delete matching rule", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to delete matching rule", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "matching rule not found", nil)
	}

	return nil
}
