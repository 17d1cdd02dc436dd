package paramsync

// FormatValue renders a value with an optional unit as an expression string:
// "<value> <unit>" when unit is non-empty, else "<value>".
func FormatValue(value, unit string) string {
	if unit == "" {
		return value
	}
	return value + " " + unit
}

// Resolve turns a record into the expression and unit a new parameter would
// be created with. Expression-form records are used verbatim and carry no
// unit; value-form records use the record's unit, falling back to
// defaultUnit only when the record has no unit field at all.
func Resolve(rec ParameterRecord, defaultUnit string) (expression, unit string) {
	if rec.Expression != nil {
		return *rec.Expression, ""
	}

	unit = defaultUnit
	if rec.Unit != nil {
		unit = *rec.Unit
	}

	var value string
	if rec.Value != nil {
		value = rec.Value.String()
	}
	return FormatValue(value, unit), unit
}
