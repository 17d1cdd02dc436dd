package paramsync

import "fmt"

// ChangeKind classifies what importing a record would do.
type ChangeKind string

const (
	ChangeCreate    ChangeKind = "create"
	ChangeUpdate    ChangeKind = "update"
	ChangeUnchanged ChangeKind = "unchanged"
)

// Change describes the effect of one record on the document.
type Change struct {
	Name          string     `json:"name"`
	Kind          ChangeKind `json:"kind"`
	OldExpression string     `json:"old_expression,omitempty"`
	NewExpression string     `json:"new_expression"`
	OldComment    string     `json:"old_comment,omitempty"`
	NewComment    string     `json:"new_comment,omitempty"`
	Unit          string     `json:"unit,omitempty"` // set for creates only
}

// Plan reports what importing path into the active document would change,
// without touching the document.
func (s *Synchronizer) Plan(path string) ([]Change, error) {
	doc, err := s.activeDocument()
	if err != nil {
		return nil, err
	}

	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return PlanFile(doc, f)
}

// PlanFile is Plan for an already decoded file. Records repeating an
// earlier name are planned against the state the earlier record leaves.
func PlanFile(doc Document, f *ParameterFile) ([]Change, error) {
	pending := make(map[string]Parameter)
	changes := make([]Change, 0, len(f.Parameters))

	for _, rec := range f.Parameters {
		expr, unit := Resolve(rec, f.DefaultUnit)

		cur, found := pending[rec.Name]
		if !found {
			var err error
			cur, found, err = doc.Lookup(rec.Name)
			if err != nil {
				return nil, fmt.Errorf("lookup %s: %w", rec.Name, err)
			}
		}

		if !found {
			next := Parameter{Name: rec.Name, Expression: expr, Unit: unit}
			if rec.Comment != nil {
				next.Comment = *rec.Comment
			}
			pending[rec.Name] = next
			changes = append(changes, Change{
				Name:          rec.Name,
				Kind:          ChangeCreate,
				NewExpression: next.Expression,
				NewComment:    next.Comment,
				Unit:          next.Unit,
			})
			continue
		}

		next := cur
		next.Expression = expr
		if rec.Comment != nil {
			next.Comment = *rec.Comment
		}
		pending[rec.Name] = next

		kind := ChangeUpdate
		if next.Expression == cur.Expression && next.Comment == cur.Comment {
			kind = ChangeUnchanged
		}
		changes = append(changes, Change{
			Name:          rec.Name,
			Kind:          kind,
			OldExpression: cur.Expression,
			NewExpression: next.Expression,
			OldComment:    cur.Comment,
			NewComment:    next.Comment,
		})
	}
	return changes, nil
}

// Summarize counts changes by kind.
func Summarize(changes []Change) map[ChangeKind]int {
	counts := map[ChangeKind]int{}
	for _, c := range changes {
		counts[c.Kind]++
	}
	return counts
}
