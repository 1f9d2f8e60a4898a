package orchestrators

import (
	"courtside/internal/application/textmatch"
	"courtside/internal/domain/importing"
)

// AutoMapThreshold is the minimum similarity score for an automatic
// column-to-field assignment. Below it the column is left unmapped.
const AutoMapThreshold = 60

// ExecuteAutoMapColumns proposes a column-to-field mapping for the given
// sheet headers against the target table's schema. Greedy single-pass
// assignment: headers are processed in sheet order, each claims its
// best-scoring unclaimed field. Not a global optimum — the user can
// override the proposal before confirming.
// PRE: none
// POST: one ColumnMapping per header, in header order; no destination field
// is assigned to two headers; unmapped columns have DBField == "" and
// Confidence == 0; never returns an error
func ExecuteAutoMapColumns(headers []string, tableKey string) []importing.ColumnMapping {
	mappings := make([]importing.ColumnMapping, 0, len(headers))
	schema, ok := importing.GetSchema(tableKey)
	if !ok {
		for _, h := range headers {
			mappings = append(mappings, importing.ColumnMapping{ExcelColumn: h})
		}
		return mappings
	}

	claimed := make(map[string]bool, len(schema.Fields))
	for _, h := range headers {
		normalized := textmatch.Normalize(h)
		best := importing.ColumnMapping{ExcelColumn: h}
		if normalized == "" {
			mappings = append(mappings, best)
			continue
		}

		bestScore := 0
		bestRequired := false
		for _, f := range schema.Fields {
			if claimed[f.Key] {
				continue
			}
			score := scoreField(normalized, f)
			// Tie-break: prefer required fields, else first-declared wins.
			if score > bestScore || (score == bestScore && score > 0 && f.Required && !bestRequired) {
				bestScore = score
				bestRequired = f.Required
				best.DBField = f.Key
				best.Confidence = score
			}
		}

		if bestScore < AutoMapThreshold {
			best.DBField = ""
			best.Confidence = 0
		} else {
			claimed[best.DBField] = true
		}
		mappings = append(mappings, best)
	}
	return mappings
}

// scoreField scores a normalized header against a field's key, label, and
// declared synonyms, keeping the best score.
func scoreField(normalizedHeader string, f importing.FieldSchema) int {
	best := textmatch.Similarity(normalizedHeader, textmatch.Normalize(f.Key))
	if s := textmatch.Similarity(normalizedHeader, textmatch.Normalize(f.Label)); s > best {
		best = s
	}
	for _, syn := range f.Synonyms {
		if s := textmatch.Similarity(normalizedHeader, textmatch.Normalize(syn)); s > best {
			best = s
		}
	}
	return best
}

// MappingCollisions reports destination fields targeted by more than one
// confirmed mapping. The transform applies last-wins, but the wizard surfaces
// the collision as a warning at confirmation time.
// PRE: none
// POST: one field key per collided destination, in first-collision order
func MappingCollisions(mappings []importing.ColumnMapping) []string {
	seen := map[string]bool{}
	flagged := map[string]bool{}
	var collisions []string
	for _, m := range mappings {
		if m.DBField == "" {
			continue
		}
		if seen[m.DBField] && !flagged[m.DBField] {
			collisions = append(collisions, m.DBField)
			flagged[m.DBField] = true
		}
		seen[m.DBField] = true
	}
	return collisions
}
