package orchestrators

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"courtside/internal/application/textmatch"
	"courtside/internal/domain/importing"
)

// DateLayout is the single accepted date format for imported cells.
const DateLayout = "2006-01-02"

// Message severities produced by coerceValue.
const (
	severityOK = iota
	severityWarning
	severityError
)

// TransformRowsInput carries one validation pass over a parsed sheet.
type TransformRowsInput struct {
	Rows     []map[string]string
	Mappings []importing.ColumnMapping
	Schema   importing.TableSchema
	Snapshot importing.ReferenceSnapshot
}

// ExecuteTransformRows applies the confirmed mapping to every source row,
// coerces values per field kind, resolves foreign keys against the reference
// snapshot, and classifies each row as valid, warning, or error.
// PRE: Mappings have been confirmed by the user; Snapshot was loaded at wizard start
// POST: output length equals input row count and preserves input order; inputs
// are not mutated; identical inputs always produce identical output
// INVARIANT: a row is error if any required field is missing or any field
// produced an error-severity message; warning if any warning exists; else valid
func ExecuteTransformRows(input TransformRowsInput) []importing.PreviewRow {
	// Last-wins on duplicate destination fields; collisions are surfaced
	// separately at mapping confirmation (MappingCollisions).
	columnFor := make(map[string]string, len(input.Mappings))
	for _, m := range input.Mappings {
		if m.DBField != "" {
			columnFor[m.DBField] = m.ExcelColumn
		}
	}

	previews := make([]importing.PreviewRow, 0, len(input.Rows))
	for i, row := range input.Rows {
		preview := importing.PreviewRow{
			Index:      i,
			Values:     make(map[string]any),
			Status:     importing.StatusValid,
			ExistingID: existingRowID(row),
		}

		for _, field := range input.Schema.Fields {
			col, mapped := columnFor[field.Key]
			raw := ""
			if mapped {
				raw = strings.TrimSpace(row[col])
			}

			if raw == "" {
				if field.Required {
					addMessage(&preview, severityError, fmt.Sprintf("%s is required", field.Key))
				}
				continue
			}

			value, display, severity, msg := coerceValue(field, raw, input.Snapshot)
			if msg != "" {
				addMessage(&preview, severity, msg)
			}
			if severity == severityError {
				continue
			}
			preview.Values[field.Key] = value
			if field.Kind == importing.KindForeignKey {
				preview.Values[importing.DisplayPrefix+field.Key] = display
			}
		}

		previews = append(previews, preview)
	}
	return previews
}

// coerceValue normalizes one raw cell per the field's kind. For foreign keys
// the returned display is the matched entity label on a hit, or the raw name
// on a miss (paired with the pending sentinel value).
func coerceValue(field importing.FieldSchema, raw string, snapshot importing.ReferenceSnapshot) (value any, display string, severity int, msg string) {
	switch field.Kind {
	case importing.KindText:
		return raw, "", severityOK, ""

	case importing.KindNumber:
		cleaned := strings.ReplaceAll(strings.ReplaceAll(raw, ",", ""), " ", "")
		n, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil, "", severityError, fmt.Sprintf("%q is not a valid number for %s", raw, field.Key)
		}
		return n, "", severityOK, ""

	case importing.KindDate:
		t, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, "", severityError, fmt.Sprintf("%q is not a valid date for %s (expected %s)", raw, field.Key, DateLayout)
		}
		return t.Format(DateLayout), "", severityOK, ""

	case importing.KindPhone:
		canonical, ok := importing.NormalizePhone(raw)
		if !ok {
			return canonical, "", severityWarning, fmt.Sprintf("%s %q looks too short — flagged for manual check", field.Key, raw)
		}
		return canonical, "", severityOK, ""

	case importing.KindEnum:
		for _, opt := range field.Options {
			if strings.EqualFold(raw, opt) {
				return opt, "", severityOK, ""
			}
		}
		return raw, "", severityWarning, fmt.Sprintf("%s %q is not one of %s", field.Key, raw, strings.Join(field.Options, "|"))

	case importing.KindForeignKey:
		normalized := textmatch.Normalize(raw)
		for _, ref := range snapshot[field.ReferenceTable] {
			if textmatch.Normalize(ref.Display) == normalized {
				return ref.ID, ref.Display, severityOK, ""
			}
		}
		return importing.PendingReferenceID, raw, severityWarning, fmt.Sprintf("%s %q will be created", field.Key, raw)

	default:
		return raw, "", severityOK, ""
	}
}

// addMessage records a validation message and escalates the row status.
func addMessage(p *importing.PreviewRow, severity int, msg string) {
	p.Messages = append(p.Messages, msg)
	switch severity {
	case severityError:
		p.Status = importing.StatusError
	case severityWarning:
		if p.Status != importing.StatusError {
			p.Status = importing.StatusWarning
		}
	}
}

// existingRowID returns the value of an "id" column if the sheet carries one,
// marking the row for the committer's update path on re-import.
func existingRowID(row map[string]string) string {
	for header, value := range row {
		if strings.EqualFold(strings.TrimSpace(header), "id") {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
