package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marcus/paramsync/internal/models"
	"github.com/marcus/paramsync/internal/paramsync"
)

const paramColumns = `id, design_id, name, expression, unit, comment, position, created_at, updated_at`

func scanParam(scan func(dest ...any) error) (*models.Parameter, error) {
	var p models.Parameter
	if err := scan(&p.ID, &p.DesignID, &p.Name, &p.Expression, &p.Unit, &p.Comment, &p.Position, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListParameters returns a design's parameters in enumeration order.
func (db *DB) ListParameters(designID string) ([]models.Parameter, error) {
	return listParams(db.conn, designID)
}

// GetParameter returns the named parameter of a design, or nil when absent.
func (db *DB) GetParameter(designID, name string) (*models.Parameter, error) {
	return lookupParam(db.conn, designID, name)
}

// CountParameters returns the number of parameters in a design
func (db *DB) CountParameters(designID string) (int, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM parameters WHERE design_id = ?`, designID).Scan(&n)
	return n, err
}

func listParams(q querier, designID string) ([]models.Parameter, error) {
	rows, err := q.Query(`SELECT `+paramColumns+` FROM parameters WHERE design_id = ? ORDER BY position, created_at`, designID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var params []models.Parameter
	for rows.Next() {
		p, err := scanParam(rows.Scan)
		if err != nil {
			return nil, err
		}
		params = append(params, *p)
	}
	return params, rows.Err()
}

func lookupParam(q querier, designID, name string) (*models.Parameter, error) {
	p, err := scanParam(q.QueryRow(`SELECT `+paramColumns+` FROM parameters WHERE design_id = ? AND name = ?`, designID, name).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func getParamByID(q querier, id string) (*models.Parameter, error) {
	p, err := scanParam(q.QueryRow(`SELECT `+paramColumns+` FROM parameters WHERE id = ?`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// insertParam appends p to the end of its design unless p.Position is set.
func insertParam(q querier, p *models.Parameter) error {
	if p.ID == "" {
		id, err := generateParamID()
		if err != nil {
			return err
		}
		p.ID = id
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if p.Position == 0 {
		if err := q.QueryRow(`SELECT COALESCE(MAX(position), 0) + 1 FROM parameters WHERE design_id = ?`, p.DesignID).Scan(&p.Position); err != nil {
			return fmt.Errorf("next position: %w", err)
		}
	}

	_, err := q.Exec(`INSERT INTO parameters (`+paramColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.DesignID, p.Name, p.Expression, p.Unit, p.Comment, p.Position, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert parameter %s: %w", p.Name, err)
	}
	return touchDesign(q, p.DesignID, now)
}

func updateParam(q querier, p *models.Parameter) error {
	p.UpdatedAt = time.Now()
	_, err := q.Exec(`UPDATE parameters SET expression = ?, comment = ?, updated_at = ? WHERE id = ?`,
		p.Expression, p.Comment, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update parameter %s: %w", p.Name, err)
	}
	return touchDesign(q, p.DesignID, p.UpdatedAt)
}

func deleteParam(q querier, p *models.Parameter) error {
	if _, err := q.Exec(`DELETE FROM parameters WHERE id = ?`, p.ID); err != nil {
		return fmt.Errorf("delete parameter %s: %w", p.Name, err)
	}
	return touchDesign(q, p.DesignID, time.Now())
}

func marshalParam(p *models.Parameter) string {
	data, _ := json.Marshal(p)
	return string(data)
}

// DeleteParameter removes a parameter from a design and logs the action.
func (db *DB) DeleteParameter(designID, name string) error {
	return db.inTx(func(tx *sql.Tx) error {
		p, err := lookupParam(tx, designID, name)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("delete %s: %w", name, paramsync.ErrParameterNotFound)
		}
		if err := deleteParam(tx, p); err != nil {
			return err
		}
		return logAction(tx, &models.ActionLog{
			BatchID:      newBatchID(),
			Label:        "Delete parameter",
			ActionType:   models.ActionDelete,
			EntityType:   models.EntityParameter,
			EntityID:     p.ID,
			DesignID:     designID,
			PreviousData: marshalParam(p),
		})
	})
}
