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
	"database/sql"
	"log"
	"sync"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/vennhq/venn/config"
)

var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn *sql.DB
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, errors.Wrap(err, "opening database connection")
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database Connection error ❌: %v", err)
		return nil, errors.Wrap(err, "pinging database")
	}
	err = BootstrapSchema(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// BootstrapSchema creates the tables the matching engine persists into.
// Safe to run repeatedly.
func BootstrapSchema(db *sql.DB) error {
	for _, create := range []func(*sql.DB) error{
		createRulesTable,
		createTransactionsTable,
		createAuditLogTable,
		createExceptionsTable,
		createInvoicesTable,
		createWebhookFailuresTable,
	} {
		if err := create(db); err != nil {
			return err
		}
	}
	return nil
}

// createRulesTable creates a PostgreSQL table for the MatchingRule struct
func createRulesTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reconciliation_rules (
			id SERIAL PRIMARY KEY,
			rule_id TEXT NOT NULL UNIQUE,
			client_id TEXT NOT NULL,
			rule_name TEXT NOT NULL,
			vendor_keyword TEXT,
			amount_min NUMERIC NOT NULL DEFAULT 0,
			amount_max NUMERIC NOT NULL DEFAULT 999999,
			account_code TEXT,
			vat_code TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			keyword_drift DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating reconciliation_rules table: %v", err)
	}
	return err
}

// createTransactionsTable creates a PostgreSQL table for the Transaction struct
func createTransactionsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS transactions_raw (
			id SERIAL PRIMARY KEY,
			transaction_id TEXT NOT NULL UNIQUE,
			client_id TEXT NOT NULL,
			amount NUMERIC NOT NULL,
			description TEXT,
			date TIMESTAMP,
			status TEXT,
			matched_rule TEXT,
			matched_invoice_id TEXT,
			account_code TEXT,
			vat_code TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating transactions_raw table: %v", err)
	}
	return err
}

// createAuditLogTable creates a PostgreSQL table for the AuditEntry struct
func createAuditLogTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS match_audit_log (
			id SERIAL PRIMARY KEY,
			client_id TEXT NOT NULL,
			transaction_id TEXT NOT NULL,
			action_type TEXT NOT NULL,
			rule_used TEXT,
			confidence_score INT NOT NULL DEFAULT 0,
			reconciled BOOLEAN NOT NULL DEFAULT FALSE,
			reconciled_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating match_audit_log table: %v", err)
	}
	return err
}

// createExceptionsTable creates a PostgreSQL table for the Exception struct
func createExceptionsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS exceptions (
			id SERIAL PRIMARY KEY,
			exception_id TEXT NOT NULL UNIQUE,
			transaction_id TEXT NOT NULL,
			client_id TEXT NOT NULL,
			reason TEXT NOT NULL,
			confidence_score INT NOT NULL DEFAULT 0,
			is_resolved BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			resolved_at TIMESTAMP
		)
	`)
	if err != nil {
		log.Printf("Error creating exceptions table: %v", err)
	}
	return err
}

// createInvoicesTable creates a PostgreSQL table for the Invoice struct
func createInvoicesTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS invoices (
			id SERIAL PRIMARY KEY,
			invoice_id TEXT NOT NULL UNIQUE,
			amount NUMERIC NOT NULL,
			vendor TEXT,
			date TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating invoices table: %v", err)
	}
	return err
}

// createWebhookFailuresTable creates a PostgreSQL table for the WebhookFailure struct
func createWebhookFailuresTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS webhook_failures (
			id SERIAL PRIMARY KEY,
			delivery_id TEXT NOT NULL UNIQUE,
			event TEXT NOT NULL,
			transaction_id TEXT,
			client_id TEXT,
			error TEXT NOT NULL,
			payload JSONB,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating webhook_failures table: %v", err)
	}
	return err
}
