package importing

// FieldKind identifies how a destination field's raw cell value is coerced
// and validated during an import.
type FieldKind int

// Field kinds supported by the import pipeline.
const (
	KindText FieldKind = iota
	KindNumber
	KindDate
	KindPhone
	KindEnum
	KindForeignKey
)

// String returns the wire name of the kind.
func (k FieldKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindPhone:
		return "phone"
	case KindEnum:
		return "enum"
	case KindForeignKey:
		return "foreign-key"
	default:
		return "text"
	}
}

// Row status constants
const (
	StatusValid   = "valid"
	StatusWarning = "warning"
	StatusError   = "error"
)

// PendingReferenceID is the sentinel stored in a foreign-key field whose
// referenced entity does not exist yet and will be created during commit.
const PendingReferenceID = "__pending__"

// DisplayPrefix prefixes the synthetic preview entry holding the human-readable
// label for a resolved foreign-key field.
const DisplayPrefix = "_display_"

// FieldSchema describes one destination field of an importable table.
type FieldSchema struct {
	Key      string
	Label    string
	Required bool
	Kind     FieldKind

	// Options lists the accepted values when Kind == KindEnum.
	Options []string

	// ReferenceTable and ReferenceDisplayField are set when Kind == KindForeignKey:
	// the value is matched against ReferenceDisplayField of the referenced table.
	ReferenceTable        string
	ReferenceDisplayField string

	// Synonyms are alternative header spellings the column mapper scores against.
	Synonyms []string
}

// TableSchema describes an importable destination table.
// INVARIANT: Key is unique across the registry; Fields is non-empty.
type TableSchema struct {
	Key    string
	Label  string
	Fields []FieldSchema
}

// Field returns the field with the given key, if declared.
// PRE: none
// POST: returns the field and true, or a zero FieldSchema and false
func (t TableSchema) Field(key string) (FieldSchema, bool) {
	for _, f := range t.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSchema{}, false
}

// ParsedSheet is the output of the sheet parsing adapter: ordered unique
// headers plus one map per data row keyed by header. Treated as immutable
// once produced.
type ParsedSheet struct {
	Name    string
	Headers []string
	Rows    []map[string]string
}

// ColumnMapping links one source column to a destination field. An empty
// DBField means the column is skipped.
type ColumnMapping struct {
	ExcelColumn string
	DBField     string
	Confidence  int // 0-100
}

// PreviewRow is the validated, transformed form of one source row. Created
// fresh on every validation pass and never mutated afterwards.
type PreviewRow struct {
	Index      int
	Values     map[string]any
	Status     string
	Messages   []string
	ExistingID string // set when the sheet carries an id for this row (re-import)
}

// ReferenceEntity is one existing row of a referenced table, reduced to what
// foreign-key matching needs.
type ReferenceEntity struct {
	ID      string
	Display string
}

// ReferenceSnapshot holds the existing reference entities per table key,
// loaded once at wizard start.
type ReferenceSnapshot map[string][]ReferenceEntity

// UnresolvedReference is a foreign-key value that matched no existing
// reference entity. It lives from the validation pass until the entity is
// created or the user abandons the import.
type UnresolvedReference struct {
	Name           string // raw label as first seen in the sheet
	ReferenceTable string
	DisplayField   string            // field of the referenced table the name fills
	Attributes     map[string]string // collected interactively (e.g. phone)
	UsedByRowCount int
}

// ImportOutcome reports what happened to a single row during commit.
type ImportOutcome struct {
	Index     int
	Success   bool
	Error     string
	CreatedID string
}

// ImportSummary aggregates per-row outcomes of one commit.
// INVARIANT: CreatedCount + UpdatedCount + FailedCount == len(Outcomes).
type ImportSummary struct {
	CreatedCount int
	UpdatedCount int
	FailedCount  int
	Outcomes     []ImportOutcome
	Failures     []ImportOutcome
	CreatedRefs  map[string]string // reference name -> newly assigned id
}
