package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
)

// SnapshotRepository persists one trip's itinerary state.
type SnapshotRepository struct {
	db     *sqlx.DB
	tripID string
}

// NewSnapshotRepository constructs the repository for tripID.
func NewSnapshotRepository(db *sqlx.DB, tripID string) *SnapshotRepository {
	return &SnapshotRepository{db: db, tripID: tripID}
}

type tripRow struct {
	ID           string    `db:"id"`
	Version      int64     `db:"version"`
	SelectedDate string    `db:"selected_date"`
	SavedAt      time.Time `db:"saved_at"`
}

type dayRow struct {
	TripID   string `db:"trip_id"`
	Position int    `db:"position"`
	Date     string `db:"date"`
}

type eventRow struct {
	TripID            string         `db:"trip_id"`
	ID                string         `db:"id"`
	Position          int            `db:"position"`
	Date              string         `db:"date"`
	Time              string         `db:"time"`
	Title             string         `db:"title"`
	LocationName      string         `db:"location_name"`
	Category          string         `db:"category"`
	Notes             string         `db:"notes"`
	ReservationNumber string         `db:"reservation_number"`
	Photos            types.JSONText `db:"photos"`
}

// Load returns the stored snapshot, or nil when nothing has been saved yet.
func (r *SnapshotRepository) Load(ctx context.Context) (*models.TripSnapshot, error) {
	var trip tripRow
	query := r.db.Rebind(`SELECT id, version, selected_date, saved_at FROM trips WHERE id = ?`)
	if err := r.db.GetContext(ctx, &trip, query, r.tripID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load trip %s: %w", r.tripID, err)
	}

	var days []dayRow
	query = r.db.Rebind(`SELECT trip_id, position, date FROM trip_days WHERE trip_id = ? ORDER BY position`)
	if err := r.db.SelectContext(ctx, &days, query, r.tripID); err != nil {
		return nil, fmt.Errorf("load trip days: %w", err)
	}

	var events []eventRow
	query = r.db.Rebind(`SELECT trip_id, id, position, date, time, title, location_name, category, notes, reservation_number, photos
	FROM trip_events WHERE trip_id = ? ORDER BY position`)
	if err := r.db.SelectContext(ctx, &events, query, r.tripID); err != nil {
		return nil, fmt.Errorf("load trip events: %w", err)
	}

	snapshot := &models.TripSnapshot{
		TripID:       trip.ID,
		Version:      trip.Version,
		SelectedDate: trip.SelectedDate,
		SavedAt:      trip.SavedAt,
		Days:         make([]string, 0, len(days)),
		Events:       make([]models.ScheduleEvent, 0, len(events)),
	}
	for _, d := range days {
		snapshot.Days = append(snapshot.Days, d.Date)
	}
	for _, row := range events {
		event, err := row.toModel()
		if err != nil {
			return nil, err
		}
		snapshot.Events = append(snapshot.Events, event)
	}
	return snapshot, nil
}

// Save replaces the stored state with snapshot. A snapshot whose version is
// not newer than the stored one is ignored, so retried or reordered writes
// never roll the state back.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot models.TripSnapshot) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var stored int64
	err = tx.GetContext(ctx, &stored, tx.Rebind(`SELECT version FROM trips WHERE id = ?`), r.tripID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.NamedExecContext(ctx, `INSERT INTO trips (id, version, selected_date, saved_at)
		VALUES (:id, :version, :selected_date, :saved_at)`, r.tripRow(snapshot))
		if err != nil {
			return fmt.Errorf("insert trip: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read trip version: %w", err)
	case stored >= snapshot.Version:
		return tx.Rollback()
	default:
		_, err = tx.NamedExecContext(ctx, `UPDATE trips SET version = :version, selected_date = :selected_date, saved_at = :saved_at
		WHERE id = :id`, r.tripRow(snapshot))
		if err != nil {
			return fmt.Errorf("update trip: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM trip_days WHERE trip_id = ?`), r.tripID); err != nil {
		return fmt.Errorf("clear trip days: %w", err)
	}
	if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM trip_events WHERE trip_id = ?`), r.tripID); err != nil {
		return fmt.Errorf("clear trip events: %w", err)
	}

	for i, date := range snapshot.Days {
		row := dayRow{TripID: r.tripID, Position: i, Date: date}
		if _, err = tx.NamedExecContext(ctx, `INSERT INTO trip_days (trip_id, position, date) VALUES (:trip_id, :position, :date)`, row); err != nil {
			return fmt.Errorf("insert trip day %s: %w", date, err)
		}
	}
	for i, event := range snapshot.Events {
		var row eventRow
		row, err = newEventRow(r.tripID, i, event)
		if err != nil {
			return err
		}
		if _, err = tx.NamedExecContext(ctx, `INSERT INTO trip_events
		(trip_id, id, position, date, time, title, location_name, category, notes, reservation_number, photos)
		VALUES (:trip_id, :id, :position, :date, :time, :title, :location_name, :category, :notes, :reservation_number, :photos)`, row); err != nil {
			return fmt.Errorf("insert trip event %s: %w", event.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) tripRow(snapshot models.TripSnapshot) tripRow {
	savedAt := snapshot.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}
	return tripRow{ID: r.tripID, Version: snapshot.Version, SelectedDate: snapshot.SelectedDate, SavedAt: savedAt}
}

func newEventRow(tripID string, position int, event models.ScheduleEvent) (eventRow, error) {
	photos := event.Photos
	if photos == nil {
		photos = []string{}
	}
	raw, err := json.Marshal(photos)
	if err != nil {
		return eventRow{}, fmt.Errorf("encode photos for %s: %w", event.ID, err)
	}
	return eventRow{
		TripID:            tripID,
		ID:                event.ID,
		Position:          position,
		Date:              event.Date,
		Time:              event.Time,
		Title:             event.Title,
		LocationName:      event.Location.Name,
		Category:          string(event.Category),
		Notes:             event.Notes,
		ReservationNumber: event.ReservationNumber,
		Photos:            types.JSONText(raw),
	}, nil
}

func (row eventRow) toModel() (models.ScheduleEvent, error) {
	event := models.ScheduleEvent{
		ID:                row.ID,
		Date:              row.Date,
		Time:              row.Time,
		Title:             row.Title,
		Location:          models.Location{Name: row.LocationName},
		Category:          models.Category(row.Category),
		Notes:             row.Notes,
		ReservationNumber: row.ReservationNumber,
	}
	if len(row.Photos) > 0 {
		var photos []string
		if err := row.Photos.Unmarshal(&photos); err != nil {
			return models.ScheduleEvent{}, fmt.Errorf("decode photos for %s: %w", row.ID, err)
		}
		if len(photos) > 0 {
			event.Photos = photos
		}
	}
	return event, nil
}
