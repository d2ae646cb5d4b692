package db

import (
	"fmt"

	"gorm.io/gorm"
)

// incidents is owned by the incident service and therefore not created here.
var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS rate_versions (
		id VARCHAR(64) PRIMARY KEY,
		name TEXT NOT NULL,
		valid_from TIMESTAMPTZ NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_rate_versions_active ON rate_versions (is_active) WHERE is_active;`,
	`CREATE TABLE IF NOT EXISTS rates (
		id VARCHAR(16) NOT NULL,
		version VARCHAR(64) NOT NULL REFERENCES rate_versions(id) ON DELETE CASCADE,
		category VARCHAR(1) NOT NULL CHECK (category IN ('A', 'B', 'C', 'D')),
		category_number INTEGER NOT NULL CHECK (category_number BETWEEN 1 AND 12),
		category_name TEXT NOT NULL,
		description TEXT NOT NULL,
		unit TEXT NOT NULL,
		price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		price_pauschal NUMERIC(12,2) CHECK (price_pauschal >= 0),
		pauschal_hours NUMERIC(6,2) CHECK (pauschal_hours > 0),
		is_extendable BOOLEAN NOT NULL DEFAULT FALSE,
		sort_order INTEGER NOT NULL DEFAULT 0,
		valid_from TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (version, id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_rates_version_sort ON rates (version, sort_order);`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		rate_id VARCHAR(16) NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS calculation_templates (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_shared BOOLEAN NOT NULL DEFAULT FALSE,
		items JSONB NOT NULL DEFAULT '[]'::jsonb,
		default_stunden NUMERIC(6,2),
		created_by UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_calculation_templates_owner ON calculation_templates (created_by) WHERE NOT is_shared;`,
	`CREATE TABLE IF NOT EXISTS calculations (
		id UUID PRIMARY KEY,
		incident_id UUID NOT NULL,
		rate_version VARCHAR(64) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'completed', 'sent')),
		items JSONB NOT NULL DEFAULT '[]'::jsonb,
		custom_items JSONB NOT NULL DEFAULT '[]'::jsonb,
		vehicles JSONB NOT NULL DEFAULT '[]'::jsonb,
		recipient_name TEXT NOT NULL DEFAULT '',
		recipient_address TEXT NOT NULL DEFAULT '',
		recipient_phone TEXT NOT NULL DEFAULT '',
		recipient_email TEXT NOT NULL DEFAULT '',
		recipient_payment_method VARCHAR(16) NOT NULL DEFAULT '',
		default_stunden NUMERIC(6,2) NOT NULL,
		subtotals JSONB NOT NULL DEFAULT '{}'::jsonb,
		total_sum NUMERIC(12,2) NOT NULL DEFAULT 0,
		call_date_override TIMESTAMPTZ,
		start_date_override TIMESTAMPTZ,
		end_date_override TIMESTAMPTZ,
		name_override TEXT,
		description_override TEXT,
		comment TEXT NOT NULL DEFAULT '',
		created_by UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		email_sent_at TIMESTAMPTZ
	);`,
	`CREATE INDEX IF NOT EXISTS idx_calculations_incident ON calculations (incident_id, created_at);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
