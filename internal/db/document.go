package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/marcus/paramsync/internal/models"
	"github.com/marcus/paramsync/internal/paramsync"
)

// Document exposes one design of the store as a paramsync.Document.
// Outside a batch every mutation is its own transaction and undo group;
// inside Batch all mutations share one transaction and one undo group.
type Document struct {
	db     *DB
	design models.Design

	tx      *sql.Tx
	batchID string
	label   string
}

var (
	_ paramsync.Document = (*Document)(nil)
	_ paramsync.Batcher  = (*Document)(nil)
)

// Document returns the design as a paramsync.Document.
func (db *DB) Document(design *models.Design) *Document {
	return &Document{db: db, design: *design}
}

// Design returns the underlying design record.
func (d *Document) Design() models.Design { return d.design }

func (d *Document) Name() string { return d.design.Name }

func (d *Document) q() querier {
	if d.tx != nil {
		return d.tx
	}
	return d.db.conn
}

func (d *Document) Parameters() ([]paramsync.Parameter, error) {
	rows, err := listParams(d.q(), d.design.ID)
	if err != nil {
		return nil, err
	}
	out := make([]paramsync.Parameter, len(rows))
	for i, p := range rows {
		out[i] = toSyncParam(&p)
	}
	return out, nil
}

func (d *Document) Lookup(name string) (paramsync.Parameter, bool, error) {
	p, err := lookupParam(d.q(), d.design.ID, name)
	if err != nil || p == nil {
		return paramsync.Parameter{}, false, err
	}
	return toSyncParam(p), true, nil
}

func (d *Document) Add(sp paramsync.Parameter) error {
	if !paramsync.ValidName(sp.Name) {
		return fmt.Errorf("add %q: %w", sp.Name, paramsync.ErrInvalidName)
	}
	return d.write("Add parameter", func(q querier, batchID, label string) error {
		existing, err := lookupParam(q, d.design.ID, sp.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("add %s: %w", sp.Name, paramsync.ErrParameterExists)
		}

		p := &models.Parameter{
			DesignID:   d.design.ID,
			Name:       sp.Name,
			Expression: sp.Expression,
			Unit:       sp.Unit,
			Comment:    sp.Comment,
		}
		if err := insertParam(q, p); err != nil {
			return err
		}
		slog.Debug("db: parameter added", "design", d.design.Name, "name", p.Name, "expression", p.Expression)
		return logAction(q, &models.ActionLog{
			BatchID:    batchID,
			Label:      label,
			ActionType: models.ActionCreate,
			EntityType: models.EntityParameter,
			EntityID:   p.ID,
			DesignID:   d.design.ID,
			NewData:    marshalParam(p),
		})
	})
}

func (d *Document) Update(name, expression string, comment *string) error {
	return d.write("Update parameter", func(q querier, batchID, label string) error {
		p, err := lookupParam(q, d.design.ID, name)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("update %s: %w", name, paramsync.ErrParameterNotFound)
		}
		previous := marshalParam(p)

		p.Expression = expression
		if comment != nil {
			p.Comment = *comment
		}
		if err := updateParam(q, p); err != nil {
			return err
		}
		slog.Debug("db: parameter updated", "design", d.design.Name, "name", p.Name, "expression", p.Expression)
		return logAction(q, &models.ActionLog{
			BatchID:      batchID,
			Label:        label,
			ActionType:   models.ActionUpdate,
			EntityType:   models.EntityParameter,
			EntityID:     p.ID,
			DesignID:     d.design.ID,
			PreviousData: previous,
			NewData:      marshalParam(p),
		})
	})
}

// Batch runs fn against a view of the document bound to one transaction.
// Every change fn makes is committed together and undone together.
func (d *Document) Batch(label string, fn func(paramsync.Document) error) error {
	if d.tx != nil {
		return fn(d)
	}
	return d.db.inTx(func(tx *sql.Tx) error {
		child := &Document{
			db:      d.db,
			design:  d.design,
			tx:      tx,
			batchID: newBatchID(),
			label:   label,
		}
		slog.Debug("db: batch start", "design", d.design.Name, "label", label, "batch", child.batchID)
		return fn(child)
	})
}

// write runs a single mutation, inside the current batch when there is one.
func (d *Document) write(label string, fn func(q querier, batchID, label string) error) error {
	if d.tx != nil {
		return fn(d.tx, d.batchID, d.label)
	}
	return d.db.inTx(func(tx *sql.Tx) error {
		return fn(tx, newBatchID(), label)
	})
}

func toSyncParam(p *models.Parameter) paramsync.Parameter {
	return paramsync.Parameter{
		Name:       p.Name,
		Expression: p.Expression,
		Unit:       p.Unit,
		Comment:    p.Comment,
	}
}

// Provider returns a paramsync.Provider resolving the active design through
// active, which yields a design name or ID ("" when none is open).
func (db *DB) Provider(active func() (string, error)) paramsync.Provider {
	return paramsync.ProviderFunc(func() (paramsync.Document, error) {
		ref, err := active()
		if err != nil {
			return nil, err
		}
		if ref == "" {
			return nil, paramsync.ErrNoActiveDocument
		}
		design, err := db.ResolveDesign(ref)
		if err != nil {
			if errors.Is(err, ErrDesignNotFound) {
				return nil, fmt.Errorf("%w: %v", paramsync.ErrNoActiveDocument, err)
			}
			return nil, err
		}
		return db.Document(design), nil
	})
}
