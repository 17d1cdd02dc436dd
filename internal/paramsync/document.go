package paramsync

// Parameter is a document parameter as seen by the synchronizer.
type Parameter struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
	Unit       string `json:"unit,omitempty"`
	Comment    string `json:"comment,omitempty"`
}

// Document is the host-owned parameter collection of a single design.
// Parameters must return parameters in the host's native enumeration order.
type Document interface {
	Name() string
	Parameters() ([]Parameter, error)
	Lookup(name string) (Parameter, bool, error)
	Add(p Parameter) error
	// Update replaces the expression of an existing parameter. The comment is
	// only replaced when comment is non-nil.
	Update(name, expression string, comment *string) error
}

// Batcher is implemented by documents that can group a series of changes
// into one undoable unit. fn receives the document to mutate; changes made
// through it belong to the batch.
type Batcher interface {
	Batch(label string, fn func(Document) error) error
}

// Provider hands out the currently active document.
// It returns ErrNoActiveDocument when no document is open.
type Provider interface {
	ActiveDocument() (Document, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func() (Document, error)

// ActiveDocument calls f.
func (f ProviderFunc) ActiveDocument() (Document, error) {
	return f()
}

// Static returns a Provider that always yields doc. A nil doc yields
// ErrNoActiveDocument.
func Static(doc Document) Provider {
	return ProviderFunc(func() (Document, error) {
		if doc == nil {
			return nil, ErrNoActiveDocument
		}
		return doc, nil
	})
}

// ValidName reports whether name can be used as a parameter name. Names are
// opaque join keys, so only empty and whitespace-padded names are rejected.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range []byte{name[0], name[len(name)-1]} {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return false
		}
	}
	return true
}
