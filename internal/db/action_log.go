package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marcus/paramsync/internal/models"
)

const actionColumns = `id, batch_id, COALESCE(label, ''), action_type, entity_type, entity_id, COALESCE(design_id, ''), COALESCE(previous_data, ''), COALESCE(new_data, ''), timestamp, undone`

// logAction records an action inside an open transaction or under the lock.
func logAction(q querier, action *models.ActionLog) error {
	// UTC keeps the stored text ordering consistent with time ordering.
	if action.Timestamp.IsZero() {
		action.Timestamp = time.Now()
	}
	action.Timestamp = action.Timestamp.UTC()
	id, err := generateActionID()
	if err != nil {
		return fmt.Errorf("generate action ID: %w", err)
	}
	action.ID = id

	_, err = q.Exec(`
		INSERT INTO action_log (id, batch_id, label, action_type, entity_type, entity_id, design_id, previous_data, new_data, timestamp, undone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
	`, action.ID, action.BatchID, action.Label, action.ActionType, action.EntityType, action.EntityID, action.DesignID,
		action.PreviousData, action.NewData, action.Timestamp)
	if err != nil {
		return fmt.Errorf("log action: %w", err)
	}
	return nil
}

func scanActions(rows *sql.Rows) ([]models.ActionLog, error) {
	defer rows.Close()
	var actions []models.ActionLog
	for rows.Next() {
		var a models.ActionLog
		var undone int
		if err := rows.Scan(&a.ID, &a.BatchID, &a.Label, &a.ActionType, &a.EntityType, &a.EntityID, &a.DesignID,
			&a.PreviousData, &a.NewData, &a.Timestamp, &undone); err != nil {
			return nil, err
		}
		a.Undone = undone == 1
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// GetBatch returns a batch with its actions in the order they were applied.
func (db *DB) GetBatch(batchID string) (*models.Batch, error) {
	rows, err := db.conn.Query(`SELECT `+actionColumns+` FROM action_log WHERE batch_id = ? ORDER BY timestamp, rowid`, batchID)
	if err != nil {
		return nil, err
	}
	actions, err := scanActions(rows)
	if err != nil {
		return nil, err
	}
	if len(actions) == 0 {
		return nil, nil
	}
	return batchFromActions(actions), nil
}

func batchFromActions(actions []models.ActionLog) *models.Batch {
	first := actions[0]
	b := &models.Batch{
		ID:        first.BatchID,
		Label:     first.Label,
		DesignID:  first.DesignID,
		Actions:   actions,
		Timestamp: first.Timestamp,
		Undone:    true,
	}
	for _, a := range actions {
		if !a.Undone {
			b.Undone = false
		}
	}
	return b
}

// GetLastBatch returns the most recent batch that has not been undone.
// designID restricts the search to one design; empty means any.
func (db *DB) GetLastBatch(designID string) (*models.Batch, error) {
	query := `SELECT batch_id FROM action_log WHERE undone = 0`
	args := []any{}
	if designID != "" {
		query += ` AND design_id = ?`
		args = append(args, designID)
	}
	query += ` ORDER BY timestamp DESC, rowid DESC LIMIT 1`

	var batchID string
	err := db.conn.QueryRow(query, args...).Scan(&batchID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return db.GetBatch(batchID)
}

// GetRecentBatches returns up to limit batches, newest first.
func (db *DB) GetRecentBatches(designID string, limit int) ([]models.Batch, error) {
	query := `SELECT batch_id, MAX(timestamp) AS ts FROM action_log`
	args := []any{}
	if designID != "" {
		query += ` WHERE design_id = ?`
		args = append(args, designID)
	}
	query += ` GROUP BY batch_id ORDER BY ts DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		var ts any
		if err := rows.Scan(&id, &ts); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	batches := make([]models.Batch, 0, len(ids))
	for _, id := range ids {
		b, err := db.GetBatch(id)
		if err != nil {
			return nil, err
		}
		if b != nil {
			batches = append(batches, *b)
		}
	}
	return batches, nil
}

// UndoBatch reverts every action of a batch, newest first, and marks the
// batch undone. It runs in one transaction.
func (db *DB) UndoBatch(batchID string) error {
	return db.inTx(func(tx *sql.Tx) error {
		rows, err := tx.Query(`SELECT `+actionColumns+` FROM action_log WHERE batch_id = ? AND undone = 0 ORDER BY timestamp DESC, rowid DESC`, batchID)
		if err != nil {
			return err
		}
		actions, err := scanActions(rows)
		if err != nil {
			return err
		}
		if len(actions) == 0 {
			return fmt.Errorf("nothing to undo in batch %s", batchID)
		}

		for i := range actions {
			if err := revertAction(tx, &actions[i]); err != nil {
				return fmt.Errorf("undo %s %s %s: %w", actions[i].ActionType, actions[i].EntityType, actions[i].EntityID, err)
			}
		}

		_, err = tx.Exec(`UPDATE action_log SET undone = 1 WHERE batch_id = ?`, batchID)
		return err
	})
}

func revertAction(q querier, a *models.ActionLog) error {
	switch a.EntityType {
	case models.EntityParameter:
		return revertParameterAction(q, a)
	case models.EntityDesign:
		if a.ActionType != models.ActionCreate {
			return fmt.Errorf("cannot undo design action: %s", a.ActionType)
		}
		return deleteDesign(q, a.EntityID)
	default:
		return fmt.Errorf("unknown entity type: %s", a.EntityType)
	}
}

func revertParameterAction(q querier, a *models.ActionLog) error {
	switch a.ActionType {
	case models.ActionCreate:
		p, err := getParamByID(q, a.EntityID)
		if err != nil {
			return err
		}
		if p == nil {
			// Already gone
			return nil
		}
		return deleteParam(q, p)

	case models.ActionUpdate:
		var prev models.Parameter
		if err := json.Unmarshal([]byte(a.PreviousData), &prev); err != nil {
			return fmt.Errorf("parse previous data: %w", err)
		}
		return updateParam(q, &prev)

	case models.ActionDelete:
		var prev models.Parameter
		if err := json.Unmarshal([]byte(a.PreviousData), &prev); err != nil {
			return fmt.Errorf("parse previous data: %w", err)
		}
		return insertParam(q, &prev)

	default:
		return fmt.Errorf("cannot undo parameter action: %s", a.ActionType)
	}
}
