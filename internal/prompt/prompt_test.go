package prompt

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateOpenPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "params.json")
	if err := os.WriteFile(file, []byte("{}"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"existing file", file, false},
		{"padded", "  " + file + " ", false},
		{"empty", "  ", true},
		{"missing", filepath.Join(dir, "nope.json"), true},
		{"directory", dir, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateOpenPath(tc.path)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateOpenPath(%q) error = %v, wantErr %v", tc.path, err, tc.wantErr)
			}
		})
	}
}

func TestValidateSavePath(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"new file", filepath.Join(dir, "out.json"), false},
		{"empty", "", true},
		{"missing parent", filepath.Join(dir, "missing", "out.json"), true},
		{"directory", dir, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSavePath(tc.path)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateSavePath(%q) error = %v, wantErr %v", tc.path, err, tc.wantErr)
			}
		})
	}
}

func TestWithJSONExt(t *testing.T) {
	tests := map[string]string{
		"params":      "params.json",
		"params.json": "params.json",
		"params.txt":  "params.txt",
		"":            "",
	}
	for in, want := range tests {
		if got := WithJSONExt(in); got != want {
			t.Errorf("WithJSONExt(%q) = %q, want %q", in, got, want)
		}
	}
}
