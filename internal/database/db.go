package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"kitaku/models"
)

// DB is a Postgres-backed timetable source, used instead of the CSV file
// when TIMETABLE_DSN is set.
type DB struct {
	*sql.DB
}

// New opens a connection and ensures the timetable table exists
func New(dsn string) (*DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS timetable (
			id SERIAL PRIMARY KEY,
			departure_time TEXT NOT NULL,
			train_type TEXT NOT NULL,
			destination TEXT NOT NULL,
			travel_minutes INT NOT NULL DEFAULT 0
		)
	`)
	return err
}

// LoadEntries reads the timetable ordered by departure time.
func (db *DB) LoadEntries() ([]models.TimetableEntry, error) {
	rows, err := db.Query(`
		SELECT departure_time, train_type, destination, travel_minutes
		FROM timetable
		ORDER BY departure_time
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying timetable: %v", models.ErrTimetableUnavailable, err)
	}
	defer rows.Close()

	var entries []models.TimetableEntry
	for rows.Next() {
		var e models.TimetableEntry
		if err := rows.Scan(&e.DepartureTime, &e.TrainType, &e.Destination, &e.TravelMinutes); err != nil {
			return nil, fmt.Errorf("scanning timetable row: %w", err)
		}
		if _, err := models.ParseClock(e.DepartureTime); err != nil {
			// Tolerate bad rows the same way the CSV loader does.
			continue
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading timetable rows: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: timetable table is empty", models.ErrTimetableUnavailable)
	}

	return entries, nil
}

// ImportEntries replaces the stored timetable with the given entries,
// in a single transaction.
func (db *DB) ImportEntries(entries []models.TimetableEntry) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM timetable`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clearing timetable: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO timetable (departure_time, train_type, destination, travel_minutes)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.DepartureTime, e.TrainType, e.Destination, e.TravelMinutes); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting %s: %w", e.DepartureTime, err)
		}
	}

	return tx.Commit()
}
