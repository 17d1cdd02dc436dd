package paramsync

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultDesignName is written to the design field when the document has no name.
const DefaultDesignName = "ActiveDesign"

// ParameterRecord is one entry of a parameter file. Exactly one of
// Expression or Value is the source of truth; Expression wins when both are
// present.
type ParameterRecord struct {
	Name       string       `json:"name"`
	Expression *string      `json:"expression,omitempty"`
	Value      *json.Number `json:"value,omitempty"`
	Unit       *string      `json:"unit,omitempty"`
	Comment    *string      `json:"comment,omitempty"`
}

// UnmarshalJSON decodes a record. A null comment counts as absent, while a
// null unit counts as an explicit empty unit so defaultUnit does not apply.
func (r *ParameterRecord) UnmarshalJSON(data []byte) error {
	type plain ParameterRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Unit == nil {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		if _, ok := fields["unit"]; ok {
			none := ""
			p.Unit = &none
		}
	}
	*r = ParameterRecord(p)
	return nil
}

// ParameterFile is the top-level JSON document. A null design or
// defaultUnit decodes as "".
type ParameterFile struct {
	Design      string            `json:"design"`
	DefaultUnit string            `json:"defaultUnit"`
	Parameters  []ParameterRecord `json:"parameters"`
}

// ExpressionRecord builds an expression-form record, the only form Export emits.
func ExpressionRecord(name, expression, comment string) ParameterRecord {
	return ParameterRecord{
		Name:       name,
		Expression: &expression,
		Comment:    &comment,
	}
}

// ValueRecord builds a value-form record. An empty unit leaves Unit unset so
// the file's defaultUnit applies.
func ValueRecord(name string, value json.Number, unit string) ParameterRecord {
	rec := ParameterRecord{Name: name, Value: &value}
	if unit != "" {
		rec.Unit = &unit
	}
	return rec
}

// Decode validates data against the parameter file schema and decodes it.
// Numbers keep their literal text so values resolve exactly as written.
func Decode(r io.Reader) (*ParameterFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	issues, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		return nil, &FileReadError{Issues: issues, Err: ErrInvalidFile}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var f ParameterFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &f, nil
}

// ReadFile reads and decodes the parameter file at path. Every failure is
// returned as a *FileReadError.
func ReadFile(path string) (*ParameterFile, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	defer fh.Close()

	f, err := Decode(fh)
	if err != nil {
		var readErr *FileReadError
		if errors.As(err, &readErr) {
			readErr.Path = path
			return nil, readErr
		}
		return nil, &FileReadError{Path: path, Err: err}
	}
	return f, nil
}

// Encode writes f as UTF-8 JSON with 2-space indentation.
func Encode(w io.Writer, f *ParameterFile) error {
	if f.Parameters == nil {
		f.Parameters = []ParameterRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(f)
}

// WriteFile encodes f and atomically replaces path with the result. Every
// failure is returned as a *FileWriteError.
func WriteFile(path string, f *ParameterFile) error {
	var buf bytes.Buffer
	if err := Encode(&buf, f); err != nil {
		return &FileWriteError{Path: path, Err: err}
	}
	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return &FileWriteError{Path: path, Err: err}
	}
	return nil
}

// Snapshot builds the export form of doc: expression records in the
// document's enumeration order and an empty defaultUnit.
func Snapshot(doc Document) (*ParameterFile, error) {
	params, err := doc.Parameters()
	if err != nil {
		return nil, fmt.Errorf("list parameters: %w", err)
	}

	name := doc.Name()
	if name == "" {
		name = DefaultDesignName
	}

	f := &ParameterFile{
		Design:      name,
		DefaultUnit: "",
		Parameters:  make([]ParameterRecord, 0, len(params)),
	}
	for _, p := range params {
		f.Parameters = append(f.Parameters, ExpressionRecord(p.Name, p.Expression, p.Comment))
	}
	return f, nil
}
