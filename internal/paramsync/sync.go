package paramsync

import (
	"fmt"
	"log/slog"
)

// ImportBatchLabel names the undo group an import is recorded under.
const ImportBatchLabel = "Apply Params from JSON"

// Synchronizer imports and exports the parameters of the active document.
type Synchronizer struct {
	docs Provider
}

// New returns a Synchronizer working on the documents handed out by docs.
func New(docs Provider) *Synchronizer {
	return &Synchronizer{docs: docs}
}

func (s *Synchronizer) activeDocument() (Document, error) {
	if s.docs == nil {
		return nil, ErrNoActiveDocument
	}
	doc, err := s.docs.ActiveDocument()
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNoActiveDocument
	}
	return doc, nil
}

// Import reads the parameter file at path and upserts each record into the
// active document. It returns the number of records processed.
func (s *Synchronizer) Import(path string) (int, error) {
	doc, err := s.activeDocument()
	if err != nil {
		return 0, err
	}

	f, err := ReadFile(path)
	if err != nil {
		return 0, err
	}

	if err := Apply(doc, f); err != nil {
		return 0, err
	}

	slog.Debug("paramsync: imported", "path", path, "design", doc.Name(), "records", len(f.Parameters))
	return len(f.Parameters), nil
}

// Apply upserts every record of f into doc. Documents implementing Batcher
// receive all changes in a single batch.
func Apply(doc Document, f *ParameterFile) error {
	apply := func(d Document) error {
		for i, rec := range f.Parameters {
			if err := Upsert(d, rec, f.DefaultUnit); err != nil {
				return fmt.Errorf("parameter %d (%s): %w", i, rec.Name, err)
			}
		}
		return nil
	}

	if b, ok := doc.(Batcher); ok {
		return b.Batch(ImportBatchLabel, apply)
	}
	return apply(doc)
}

// Upsert applies a single record: an existing parameter with the same name
// gets its expression replaced (and its comment, when the record has one);
// otherwise a new parameter is added.
func Upsert(doc Document, rec ParameterRecord, defaultUnit string) error {
	expr, unit := Resolve(rec, defaultUnit)

	_, found, err := doc.Lookup(rec.Name)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	if found {
		return doc.Update(rec.Name, expr, rec.Comment)
	}

	p := Parameter{Name: rec.Name, Expression: expr, Unit: unit}
	if rec.Comment != nil {
		p.Comment = *rec.Comment
	}
	return doc.Add(p)
}

// Export writes the active document's parameters to path, replacing any
// existing file. It returns the number of parameters written.
func (s *Synchronizer) Export(path string) (int, error) {
	doc, err := s.activeDocument()
	if err != nil {
		return 0, err
	}

	f, err := Snapshot(doc)
	if err != nil {
		return 0, err
	}

	if err := WriteFile(path, f); err != nil {
		return 0, err
	}

	slog.Debug("paramsync: exported", "path", path, "design", f.Design, "records", len(f.Parameters))
	return len(f.Parameters), nil
}
