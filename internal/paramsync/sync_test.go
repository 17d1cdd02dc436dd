package paramsync

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const scenarioFile = `{"defaultUnit":"mm","parameters":[{"name":"Height","value":100},{"name":"Angle","expression":"45 deg","comment":"tilt"}]}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func params(t *testing.T, doc Document) []Parameter {
	t.Helper()
	ps, err := doc.Parameters()
	if err != nil {
		t.Fatalf("Parameters failed: %v", err)
	}
	return ps
}

func TestImportScenario(t *testing.T) {
	doc := NewMemDocument("bracket")
	sync := New(Static(doc))

	n, err := sync.Import(writeTemp(t, "params.json", scenarioFile))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if n != 2 {
		t.Errorf("applied = %d, want 2", n)
	}

	want := []Parameter{
		{Name: "Height", Expression: "100 mm", Unit: "mm"},
		{Name: "Angle", Expression: "45 deg", Comment: "tilt"},
	}
	if diff := cmp.Diff(want, params(t, doc)); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}
}

func TestExportScenario(t *testing.T) {
	doc := NewMemDocument("bracket",
		Parameter{Name: "Height", Expression: "100 mm"},
		Parameter{Name: "Angle", Expression: "45 deg", Comment: "tilt"},
	)
	path := filepath.Join(t.TempDir(), "out.json")

	n, err := New(Static(doc)).Export(path)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if n != 2 {
		t.Errorf("exported = %d, want 2", n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	want := `{
  "design": "bracket",
  "defaultUnit": "",
  "parameters": [
    {
      "name": "Height",
      "expression": "100 mm",
      "comment": ""
    },
    {
      "name": "Angle",
      "expression": "45 deg",
      "comment": "tilt"
    }
  ]
}
`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("export mismatch (-want +got):\n%s", diff)
	}
}

func TestExportOverwritesExistingFile(t *testing.T) {
	path := writeTemp(t, "out.json", "stale content that is longer than the new export will be, surely, maybe")
	doc := NewMemDocument("", Parameter{Name: "A", Expression: "1"})

	if _, err := New(Static(doc)).Export(path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	f, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if f.Design != DefaultDesignName {
		t.Errorf("design = %q, want %q", f.Design, DefaultDesignName)
	}
	if len(f.Parameters) != 1 || f.Parameters[0].Name != "A" {
		t.Errorf("unexpected parameters: %+v", f.Parameters)
	}
}

func TestRoundTrip(t *testing.T) {
	src := NewMemDocument("src",
		Parameter{Name: "Width", Expression: "25 mm", Comment: "plate width"},
		Parameter{Name: "Depth", Expression: "Width / 2"},
		Parameter{Name: "Label", Expression: "'a <b> & \"c\"'", Comment: "ünïcode ✓"},
		Parameter{Name: "Count", Expression: "4"},
	)
	path := filepath.Join(t.TempDir(), "rt.json")
	if _, err := New(Static(src)).Export(path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := NewMemDocument("dst")
	if _, err := New(Static(dst)).Import(path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	type ec struct{ Name, Expression, Comment string }
	project := func(ps []Parameter) []ec {
		out := make([]ec, len(ps))
		for i, p := range ps {
			out[i] = ec{p.Name, p.Expression, p.Comment}
		}
		return out
	}
	if diff := cmp.Diff(project(params(t, src)), project(params(t, dst))); diff != "" {
		t.Errorf("round trip mismatch (-src +dst):\n%s", diff)
	}
}

func TestImportIdempotent(t *testing.T) {
	path := writeTemp(t, "params.json", scenarioFile)

	once := NewMemDocument("a")
	if _, err := New(Static(once)).Import(path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	twice := NewMemDocument("b")
	sync := New(Static(twice))
	for i := 0; i < 2; i++ {
		if _, err := sync.Import(path); err != nil {
			t.Fatalf("Import %d failed: %v", i, err)
		}
	}

	if diff := cmp.Diff(params(t, once), params(t, twice)); diff != "" {
		t.Errorf("second import changed state (-once +twice):\n%s", diff)
	}
}

func TestImportUpdatesInPlace(t *testing.T) {
	doc := NewMemDocument("d",
		Parameter{Name: "Height", Expression: "50 mm", Unit: "mm", Comment: "keep me"},
		Parameter{Name: "Other", Expression: "1"},
	)
	path := writeTemp(t, "p.json", `{"parameters":[{"name":"Height","expression":"75 mm"}]}`)

	if _, err := New(Static(doc)).Import(path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if doc.Len() != 2 {
		t.Errorf("parameter count = %d, want 2", doc.Len())
	}
	got, _, _ := doc.Lookup("Height")
	want := Parameter{Name: "Height", Expression: "75 mm", Unit: "mm", Comment: "keep me"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Height mismatch (-want +got):\n%s", diff)
	}
	if ps := params(t, doc); ps[0].Name != "Height" {
		t.Errorf("update moved Height to a different position: %+v", ps)
	}
}

func TestImportReplacesCommentWhenSupplied(t *testing.T) {
	doc := NewMemDocument("d", Parameter{Name: "A", Expression: "1", Comment: "old"})
	path := writeTemp(t, "p.json", `{"parameters":[{"name":"A","value":2,"comment":""}]}`)

	if _, err := New(Static(doc)).Import(path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	got, _, _ := doc.Lookup("A")
	if got.Expression != "2" || got.Comment != "" {
		t.Errorf("got %+v, want expression 2 and empty comment", got)
	}
}

func TestImportCreatesExactlyOne(t *testing.T) {
	doc := NewMemDocument("d", Parameter{Name: "A", Expression: "1"})
	path := writeTemp(t, "p.json", `{"defaultUnit":"in","parameters":[{"name":"W","value":25}]}`)

	if _, err := New(Static(doc)).Import(path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if doc.Len() != 2 {
		t.Fatalf("parameter count = %d, want 2", doc.Len())
	}
	got, found, _ := doc.Lookup("W")
	if !found {
		t.Fatal("W was not created")
	}
	if got.Expression != "25 in" || got.Unit != "in" {
		t.Errorf("W = %+v, want expression \"25 in\" unit in", got)
	}
}

func TestImportDuplicateNamesLastWins(t *testing.T) {
	doc := NewMemDocument("d")
	path := writeTemp(t, "p.json", `{"parameters":[{"name":"A","expression":"1","comment":"first"},{"name":"A","expression":"2"}]}`)

	n, err := New(Static(doc)).Import(path)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if n != 2 {
		t.Errorf("applied = %d, want 2 records processed", n)
	}
	if doc.Len() != 1 {
		t.Errorf("parameter count = %d, want 1", doc.Len())
	}
	got, _, _ := doc.Lookup("A")
	if got.Expression != "2" || got.Comment != "first" {
		t.Errorf("A = %+v", got)
	}
}

func TestImportEmptyFile(t *testing.T) {
	doc := NewMemDocument("d")
	n, err := New(Static(doc)).Import(writeTemp(t, "p.json", `{}`))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if n != 0 || doc.Len() != 0 {
		t.Errorf("applied = %d, len = %d; want 0, 0", n, doc.Len())
	}
}

func TestNoActiveDocument(t *testing.T) {
	sync := New(Static(nil))
	path := writeTemp(t, "p.json", scenarioFile)

	if _, err := sync.Import(path); !errors.Is(err, ErrNoActiveDocument) {
		t.Errorf("Import error = %v, want ErrNoActiveDocument", err)
	}
	if _, err := sync.Export(filepath.Join(t.TempDir(), "out.json")); !errors.Is(err, ErrNoActiveDocument) {
		t.Errorf("Export error = %v, want ErrNoActiveDocument", err)
	}
	if _, err := New(nil).Plan(path); !errors.Is(err, ErrNoActiveDocument) {
		t.Errorf("Plan error = %v, want ErrNoActiveDocument", err)
	}
}

func TestImportFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		invalid bool
	}{
		{"missing", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") }, false},
		{"malformed", func(t *testing.T) string { return writeTemp(t, "p.json", `{"parameters": [`) }, false},
		{"not an object", func(t *testing.T) string { return writeTemp(t, "p.json", `[1, 2]`) }, true},
		{"record without name", func(t *testing.T) string { return writeTemp(t, "p.json", `{"parameters":[{"value":1}]}`) }, true},
		{"record without expression or value", func(t *testing.T) string { return writeTemp(t, "p.json", `{"parameters":[{"name":"A"}]}`) }, true},
		{"value is a string", func(t *testing.T) string { return writeTemp(t, "p.json", `{"parameters":[{"name":"A","value":"3"}]}`) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewMemDocument("d", Parameter{Name: "Keep", Expression: "1"})
			path := tt.path(t)

			_, err := New(Static(doc)).Import(path)
			var readErr *FileReadError
			if !errors.As(err, &readErr) {
				t.Fatalf("error = %v, want *FileReadError", err)
			}
			if readErr.Path != path {
				t.Errorf("Path = %q, want %q", readErr.Path, path)
			}
			if tt.invalid {
				if !errors.Is(err, ErrInvalidFile) {
					t.Errorf("error = %v, want ErrInvalidFile", err)
				}
				if len(readErr.Issues) == 0 {
					t.Error("expected validation issues")
				}
			}
			if doc.Len() != 1 {
				t.Errorf("document changed on failed import: len = %d", doc.Len())
			}
		})
	}
}

func TestExportUnwritable(t *testing.T) {
	doc := NewMemDocument("d", Parameter{Name: "A", Expression: "1"})
	path := filepath.Join(t.TempDir(), "missing-dir", "out.json")

	_, err := New(Static(doc)).Export(path)
	var writeErr *FileWriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("error = %v, want *FileWriteError", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("expected no file at %s", path)
	}
}

// failingDoc rejects Add for one name so batch rollback can be observed.
type failingDoc struct {
	*MemDocument
	reject string
}

func (d *failingDoc) Add(p Parameter) error {
	if p.Name == d.reject {
		return errors.New("host refused")
	}
	return d.MemDocument.Add(p)
}

func (d *failingDoc) Batch(label string, fn func(Document) error) error {
	return d.MemDocument.Batch(label, func(Document) error { return fn(d) })
}

func TestImportBatchRollsBackOnFailure(t *testing.T) {
	doc := &failingDoc{MemDocument: NewMemDocument("d", Parameter{Name: "A", Expression: "1"}), reject: "C"}
	path := writeTemp(t, "p.json", `{"parameters":[{"name":"A","expression":"2"},{"name":"B","expression":"3"},{"name":"C","expression":"4"}]}`)

	if _, err := New(Static(doc)).Import(path); err == nil {
		t.Fatal("expected error")
	}

	want := []Parameter{{Name: "A", Expression: "1"}}
	if diff := cmp.Diff(want, params(t, doc)); diff != "" {
		t.Errorf("batch not rolled back (-want +got):\n%s", diff)
	}
}

func TestImportNullCommentLeavesExisting(t *testing.T) {
	doc := NewMemDocument("d", Parameter{Name: "W", Expression: "1", Comment: "keep"})
	path := writeTemp(t, "p.json", `{"parameters":[{"name":"W","value":2,"comment":null},{"name":"N","value":3,"comment":null}]}`)

	n, err := New(Static(doc)).Import(path)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if n != 2 {
		t.Errorf("applied = %d, want 2", n)
	}
	want := []Parameter{
		{Name: "W", Expression: "2", Comment: "keep"},
		{Name: "N", Expression: "3"},
	}
	if diff := cmp.Diff(want, params(t, doc)); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}
}

func TestImportNullUnitMeansNoUnit(t *testing.T) {
	doc := NewMemDocument("d")
	path := writeTemp(t, "p.json", `{"defaultUnit":"mm","parameters":[{"name":"W","value":25,"unit":null}]}`)

	if _, err := New(Static(doc)).Import(path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	got, _, _ := doc.Lookup("W")
	if got.Expression != "25" || got.Unit != "" {
		t.Errorf("W = %+v, want expression 25 with no unit", got)
	}
}

func TestImportNullDefaultUnit(t *testing.T) {
	doc := NewMemDocument("d")
	path := writeTemp(t, "p.json", `{"design":null,"defaultUnit":null,"parameters":[{"name":"W","value":25}]}`)

	if _, err := New(Static(doc)).Import(path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	got, _, _ := doc.Lookup("W")
	if got.Expression != "25" || got.Unit != "" {
		t.Errorf("W = %+v, want expression 25 with no unit", got)
	}
}

func TestImportRejectsPaddedNames(t *testing.T) {
	doc := NewMemDocument("d")
	path := writeTemp(t, "p.json", `{"parameters":[{"name":"A","value":1},{"name":" W","value":2}]}`)

	_, err := New(Static(doc)).Import(path)
	var readErr *FileReadError
	if !errors.As(err, &readErr) || len(readErr.Issues) == 0 {
		t.Fatalf("Import error = %v, want schema issues", err)
	}
	found := false
	for _, issue := range readErr.Issues {
		if issue.Path == "/parameters/1/name" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an issue at /parameters/1/name, got %+v", readErr.Issues)
	}
	if doc.Len() != 0 {
		t.Errorf("len = %d, want 0", doc.Len())
	}
}
