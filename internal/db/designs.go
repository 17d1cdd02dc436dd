package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marcus/paramsync/internal/models"
)

// ErrDesignNotFound is returned when a design name or ID does not resolve.
var ErrDesignNotFound = errors.New("design not found")

// ErrDesignExists is returned when creating a design whose name is taken.
var ErrDesignExists = errors.New("design already exists")

// CreateDesign creates a design and logs the action.
func (db *DB) CreateDesign(name string) (*models.Design, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("design name is required")
	}

	d := &models.Design{Name: name}
	err := db.inTx(func(tx *sql.Tx) error {
		if existing, err := getDesignBy(tx, "name", name); err != nil {
			return err
		} else if existing != nil {
			return fmt.Errorf("%s: %w", name, ErrDesignExists)
		}

		id, err := generateDesignID()
		if err != nil {
			return err
		}
		now := time.Now()
		d.ID = id
		d.CreatedAt = now
		d.UpdatedAt = now

		if _, err := tx.Exec(`INSERT INTO designs (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			d.ID, d.Name, d.CreatedAt, d.UpdatedAt); err != nil {
			return fmt.Errorf("insert design: %w", err)
		}

		newData, _ := json.Marshal(d)
		return logAction(tx, &models.ActionLog{
			BatchID:    newBatchID(),
			Label:      "Create design",
			ActionType: models.ActionCreate,
			EntityType: models.EntityDesign,
			EntityID:   d.ID,
			DesignID:   d.ID,
			NewData:    string(newData),
		})
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetDesign returns a design by ID
func (db *DB) GetDesign(id string) (*models.Design, error) {
	d, err := getDesignBy(db.conn, "id", id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrDesignNotFound)
	}
	return d, nil
}

// GetDesignByName returns a design by its unique name
func (db *DB) GetDesignByName(name string) (*models.Design, error) {
	d, err := getDesignBy(db.conn, "name", name)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrDesignNotFound)
	}
	return d, nil
}

// ResolveDesign accepts either a design name or a design ID.
func (db *DB) ResolveDesign(ref string) (*models.Design, error) {
	if strings.HasPrefix(ref, designIDPrefix) {
		if d, err := getDesignBy(db.conn, "id", ref); err != nil {
			return nil, err
		} else if d != nil {
			return d, nil
		}
	}
	return db.GetDesignByName(ref)
}

// DesignSummary is a design with its parameter count
type DesignSummary struct {
	models.Design
	ParameterCount int `json:"parameter_count"`
}

// ListDesigns returns all designs ordered by name
func (db *DB) ListDesigns() ([]DesignSummary, error) {
	rows, err := db.conn.Query(`
		SELECT d.id, d.name, d.created_at, d.updated_at, COUNT(p.id)
		FROM designs d LEFT JOIN parameters p ON p.design_id = d.id
		GROUP BY d.id
		ORDER BY d.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var designs []DesignSummary
	for rows.Next() {
		var s DesignSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt, &s.ParameterCount); err != nil {
			return nil, err
		}
		designs = append(designs, s)
	}
	return designs, rows.Err()
}

// deleteDesign removes an empty design. Used to undo its creation.
func deleteDesign(q querier, id string) error {
	var count int
	if err := q.QueryRow(`SELECT COUNT(*) FROM parameters WHERE design_id = ?`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("design %s still has %d parameters", id, count)
	}
	_, err := q.Exec(`DELETE FROM designs WHERE id = ?`, id)
	return err
}

func touchDesign(q querier, id string, now time.Time) error {
	_, err := q.Exec(`UPDATE designs SET updated_at = ? WHERE id = ?`, now, id)
	return err
}

// getDesignBy looks up a design by the given column. Returns nil, nil when
// no row matches.
func getDesignBy(q querier, column, value string) (*models.Design, error) {
	var d models.Design
	err := q.QueryRow(`SELECT id, name, created_at, updated_at FROM designs WHERE `+column+` = ?`, value).
		Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
