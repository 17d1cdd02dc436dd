package paramsync

import (
	"encoding/json"
	"testing"
)

func strPtr(s string) *string { return &s }

func numPtr(s string) *json.Number {
	n := json.Number(s)
	return &n
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		rec         ParameterRecord
		defaultUnit string
		wantExpr    string
		wantUnit    string
	}{
		{"value with own unit", ParameterRecord{Name: "W", Value: numPtr("25"), Unit: strPtr("mm")}, "", "25 mm", "mm"},
		{"value falls back to default unit", ParameterRecord{Name: "W", Value: numPtr("25")}, "in", "25 in", "in"},
		{"value without any unit", ParameterRecord{Name: "W", Value: numPtr("25")}, "", "25", ""},
		{"own unit wins over default", ParameterRecord{Name: "W", Value: numPtr("25"), Unit: strPtr("cm")}, "in", "25 cm", "cm"},
		{"explicit empty unit suppresses default", ParameterRecord{Name: "W", Value: numPtr("25"), Unit: strPtr("")}, "in", "25", ""},
		{"decimal literal kept as written", ParameterRecord{Name: "W", Value: numPtr("2.50")}, "mm", "2.50 mm", "mm"},
		{"expression verbatim", ParameterRecord{Name: "W", Expression: strPtr("Height * 2")}, "mm", "Height * 2", ""},
		{"expression wins over value", ParameterRecord{Name: "W", Expression: strPtr("10 mm"), Value: numPtr("3"), Unit: strPtr("in")}, "", "10 mm", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, unit := Resolve(tt.rec, tt.defaultUnit)
			if expr != tt.wantExpr {
				t.Errorf("expression = %q, want %q", expr, tt.wantExpr)
			}
			if unit != tt.wantUnit {
				t.Errorf("unit = %q, want %q", unit, tt.wantUnit)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	if got := FormatValue("25", "mm"); got != "25 mm" {
		t.Errorf("FormatValue(25, mm) = %q", got)
	}
	if got := FormatValue("25", ""); got != "25" {
		t.Errorf("FormatValue(25, \"\") = %q", got)
	}
}
