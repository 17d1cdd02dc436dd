package paramsync

import "fmt"

// MemDocument is an in-memory Document that keeps insertion order.
// It is not safe for concurrent use.
type MemDocument struct {
	name   string
	params []Parameter
	index  map[string]int
}

// NewMemDocument returns a document named name holding params in order.
// Later duplicates of a name overwrite earlier ones in place.
func NewMemDocument(name string, params ...Parameter) *MemDocument {
	d := &MemDocument{name: name, index: make(map[string]int)}
	for _, p := range params {
		if i, ok := d.index[p.Name]; ok {
			d.params[i] = p
			continue
		}
		d.index[p.Name] = len(d.params)
		d.params = append(d.params, p)
	}
	return d
}

func (d *MemDocument) Name() string { return d.name }

// Len returns the number of parameters.
func (d *MemDocument) Len() int { return len(d.params) }

func (d *MemDocument) Parameters() ([]Parameter, error) {
	out := make([]Parameter, len(d.params))
	copy(out, d.params)
	return out, nil
}

func (d *MemDocument) Lookup(name string) (Parameter, bool, error) {
	i, ok := d.index[name]
	if !ok {
		return Parameter{}, false, nil
	}
	return d.params[i], true, nil
}

func (d *MemDocument) Add(p Parameter) error {
	if !ValidName(p.Name) {
		return fmt.Errorf("add %q: %w", p.Name, ErrInvalidName)
	}
	if _, ok := d.index[p.Name]; ok {
		return fmt.Errorf("add %s: %w", p.Name, ErrParameterExists)
	}
	d.index[p.Name] = len(d.params)
	d.params = append(d.params, p)
	return nil
}

func (d *MemDocument) Update(name, expression string, comment *string) error {
	i, ok := d.index[name]
	if !ok {
		return fmt.Errorf("update %s: %w", name, ErrParameterNotFound)
	}
	d.params[i].Expression = expression
	if comment != nil {
		d.params[i].Comment = *comment
	}
	return nil
}

// Batch runs fn and restores the previous parameters if fn fails.
func (d *MemDocument) Batch(label string, fn func(Document) error) error {
	saved := make([]Parameter, len(d.params))
	copy(saved, d.params)

	if err := fn(d); err != nil {
		d.params = saved
		d.index = make(map[string]int, len(saved))
		for i, p := range saved {
			d.index[p.Name] = i
		}
		return err
	}
	return nil
}
