package orchestrators

import (
	"fmt"
	"strings"

	"courtside/internal/application/textmatch"
	"courtside/internal/domain/importing"
)

// CollectUnresolved gathers the foreign-key values that matched no existing
// reference entity during validation, deduplicated by normalized name per
// referenced table.
// PRE: previews came from ExecuteTransformRows with the same schema
// POST: one UnresolvedReference per distinct unknown name, in first-seen
// order; UsedByRowCount counts the source rows referencing that name
func CollectUnresolved(previews []importing.PreviewRow, schema importing.TableSchema) []importing.UnresolvedReference {
	type refKey struct {
		table string
		name  string
	}
	index := map[refKey]int{}
	var refs []importing.UnresolvedReference

	for _, p := range previews {
		for _, field := range schema.Fields {
			if field.Kind != importing.KindForeignKey {
				continue
			}
			if p.Values[field.Key] != importing.PendingReferenceID {
				continue
			}
			rawName, _ := p.Values[importing.DisplayPrefix+field.Key].(string)
			key := refKey{table: field.ReferenceTable, name: textmatch.Normalize(rawName)}
			if at, ok := index[key]; ok {
				refs[at].UsedByRowCount++
				continue
			}
			index[key] = len(refs)
			refs = append(refs, importing.UnresolvedReference{
				Name:           rawName,
				ReferenceTable: field.ReferenceTable,
				DisplayField:   field.ReferenceDisplayField,
				Attributes:     map[string]string{},
				UsedByRowCount: 1,
			})
		}
	}
	return refs
}

// ResolutionIncompleteError blocks the transition out of the resolve step:
// entity creation cannot be rolled back mid-batch, so every reference must be
// complete before any is created.
type ResolutionIncompleteError struct {
	Incomplete []string // reference names with missing or invalid attributes
}

// Error implements the error interface.
func (e *ResolutionIncompleteError) Error() string {
	return fmt.Sprintf("references incomplete: %s", strings.Join(e.Incomplete, ", "))
}

// CheckResolutions verifies every unresolved reference carries all attributes
// its target entity's schema requires, each passing that field's own
// validation. This is the blocking gate before commit.
// PRE: refs came from CollectUnresolved; Attributes were filled interactively
// POST: returns nil when all references are creatable, or a
// ResolutionIncompleteError naming the incomplete ones
func CheckResolutions(refs []importing.UnresolvedReference) error {
	var incomplete []string
	for _, ref := range refs {
		schema, ok := importing.GetSchema(ref.ReferenceTable)
		if !ok {
			incomplete = append(incomplete, ref.Name)
			continue
		}
		if !referenceComplete(ref, schema) {
			incomplete = append(incomplete, ref.Name)
		}
	}
	if len(incomplete) > 0 {
		return &ResolutionIncompleteError{Incomplete: incomplete}
	}
	return nil
}

// referenceComplete checks the display field plus every required field of the
// referenced table against the supplied attributes.
func referenceComplete(ref importing.UnresolvedReference, schema importing.TableSchema) bool {
	if strings.TrimSpace(ref.Name) == "" {
		return false
	}
	for _, field := range schema.Fields {
		if field.Key == ref.DisplayField {
			continue // filled by the name itself
		}
		raw := strings.TrimSpace(ref.Attributes[field.Key])
		if raw == "" {
			if field.Required {
				return false
			}
			continue
		}
		// Foreign keys of the referenced entity itself are out of reach for
		// the resolver; any other kind reuses the row validator's coercion.
		if field.Kind == importing.KindForeignKey {
			continue
		}
		if _, _, severity, _ := coerceValue(field, raw, nil); severity != severityOK {
			return false
		}
	}
	return true
}

// BuildReferenceRecord assembles the record the committer inserts for a
// resolved reference: the display name plus the validated attributes.
// PRE: CheckResolutions passed for ref
// POST: record contains the display field and every coercible attribute
func BuildReferenceRecord(ref importing.UnresolvedReference) map[string]any {
	record := map[string]any{ref.DisplayField: strings.TrimSpace(ref.Name)}
	schema, ok := importing.GetSchema(ref.ReferenceTable)
	if !ok {
		return record
	}
	for _, field := range schema.Fields {
		if field.Key == ref.DisplayField || field.Kind == importing.KindForeignKey {
			continue
		}
		raw := strings.TrimSpace(ref.Attributes[field.Key])
		if raw == "" {
			continue
		}
		if value, _, severity, _ := coerceValue(field, raw, nil); severity != severityError {
			record[field.Key] = value
		}
	}
	return record
}
