package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the database schema for the coordination portal
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	if err := db.createExtensions(ctx); err != nil {
		return fmt.Errorf("failed to create extensions: %w", err)
	}

	tables := []string{
		createStaffTable,
		createPatientsTable,
		createSessionsTable,
		createAssignmentsTable,
		createNotificationsTable,
		createReportsTable,
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		createStaffIndexes,
		createPatientsIndexes,
		createSessionsIndexes,
		createAssignmentsIndexes,
		createNotificationsIndexes,
		createReportsIndexes,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	db.logger.Info("Database schema created successfully")
	return nil
}

// createExtensions creates required PostgreSQL extensions
func (db *DB) createExtensions(ctx context.Context) error {
	extensions := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, ext := range extensions {
		if _, err := db.ExecContext(ctx, ext); err != nil {
			return fmt.Errorf("failed to create extension: %w", err)
		}
	}

	return nil
}

// SQL DDL statements for table creation
const (
	createStaffTable = `
		CREATE TABLE IF NOT EXISTS staff (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(200) NOT NULL,
			role VARCHAR(20) NOT NULL,
			category VARCHAR(100),
			username VARCHAR(100) UNIQUE NOT NULL,
			email VARCHAR(200) UNIQUE,
			password_hash VARCHAR(100) NOT NULL,
			is_available BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createPatientsTable = `
		CREATE TABLE IF NOT EXISTS patients (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(200) NOT NULL,
			age INTEGER,
			gender VARCHAR(20),
			phone VARCHAR(30),
			address TEXT,
			username VARCHAR(100) UNIQUE NOT NULL,
			email VARCHAR(200) UNIQUE,
			password_hash VARCHAR(100) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createSessionsTable = `
		CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			token_digest VARCHAR(64) UNIQUE NOT NULL,
			user_type VARCHAR(10) NOT NULL,
			staff_id UUID REFERENCES staff(id),
			patient_id UUID REFERENCES patients(id),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL
		);`

	createAssignmentsTable = `
		CREATE TABLE IF NOT EXISTS assignments (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			patient_id UUID NOT NULL REFERENCES patients(id),
			doctor_id UUID NOT NULL REFERENCES staff(id),
			nurse_id UUID REFERENCES staff(id),
			radiologist_id UUID REFERENCES staff(id),
			lab_staff_id UUID REFERENCES staff(id),
			pharmacist_id UUID REFERENCES staff(id),
			service_type VARCHAR(200) NOT NULL,
			notes TEXT,
			status VARCHAR(20) NOT NULL DEFAULT 'assigned',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createNotificationsTable = `
		CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			recipient_staff_id UUID NOT NULL REFERENCES staff(id),
			title VARCHAR(200) NOT NULL,
			message TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			related_assignment_id UUID REFERENCES assignments(id),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createReportsTable = `
		CREATE TABLE IF NOT EXISTS reports (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			patient_id UUID NOT NULL REFERENCES patients(id),
			created_by_staff_id UUID NOT NULL REFERENCES staff(id),
			report_type VARCHAR(100) NOT NULL,
			summary TEXT NOT NULL,
			file_url TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`
)

// SQL DDL statements for index creation
const (
	createStaffIndexes = `
		CREATE INDEX IF NOT EXISTS idx_staff_username ON staff(username);
		CREATE INDEX IF NOT EXISTS idx_staff_email ON staff(email);
		CREATE INDEX IF NOT EXISTS idx_staff_role ON staff(role);`

	createPatientsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_patients_username ON patients(username);
		CREATE INDEX IF NOT EXISTS idx_patients_email ON patients(email);`

	createSessionsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_sessions_token_digest ON sessions(token_digest);
		CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);`

	createAssignmentsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_assignments_patient_id ON assignments(patient_id);
		CREATE INDEX IF NOT EXISTS idx_assignments_doctor_id ON assignments(doctor_id);
		CREATE INDEX IF NOT EXISTS idx_assignments_status ON assignments(status);`

	createNotificationsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_staff_id);
		CREATE INDEX IF NOT EXISTS idx_notifications_created_at ON notifications(created_at);`

	createReportsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_reports_patient_id ON reports(patient_id);
		CREATE INDEX IF NOT EXISTS idx_reports_created_by ON reports(created_by_staff_id);`
)
