// Package wizard drives one import session through its steps as an explicit
// finite-state machine, independent of any rendering or transport layer.
package wizard

import (
	"context"
	"errors"
	"fmt"

	"courtside/internal/application/orchestrators"
	"courtside/internal/domain/importing"
)

// Step identifies the wizard's current state.
type Step string

// Wizard steps, in forward order.
const (
	StepSelectSheet       Step = "select_sheet"
	StepSelectTable       Step = "select_table"
	StepMapColumns        Step = "map_columns"
	StepPreview           Step = "preview"
	StepResolveReferences Step = "resolve_references"
	StepCommitting        Step = "committing"
	StepResult            Step = "result"
)

// Transition errors.
var (
	ErrInvalidTransition = errors.New("operation not allowed in current wizard step")
	ErrUnknownTable      = errors.New("unknown destination table")
	ErrUnknownReference  = errors.New("unknown reference name")
)

// Session owns all in-progress wizard state for one import. It is exclusive
// to a single caller; concurrent use requires external serialization. Nothing
// persists this state — abandoning the session restarts from step one.
type Session struct {
	step       Step
	snapshot   importing.ReferenceSnapshot
	sheet      importing.ParsedSheet
	tableKey   string
	schema     importing.TableSchema
	mappings   []importing.ColumnMapping
	collisions []string
	previews   []importing.PreviewRow
	unresolved []importing.UnresolvedReference
	summary    importing.ImportSummary
	committed  bool
}

// NewSession starts a wizard at SelectSheet with the reference snapshot
// loaded once for the session's lifetime.
func NewSession(snapshot importing.ReferenceSnapshot) *Session {
	return &Session{step: StepSelectSheet, snapshot: snapshot}
}

// Step returns the current wizard step.
func (s *Session) Step() Step { return s.step }

// Sheet returns the parsed sheet provided to the session.
func (s *Session) Sheet() importing.ParsedSheet { return s.sheet }

// TableKey returns the selected destination table key.
func (s *Session) TableKey() string { return s.tableKey }

// Mappings returns the current (auto-proposed or user-edited) column mappings.
func (s *Session) Mappings() []importing.ColumnMapping { return s.mappings }

// Collisions returns the duplicate-target warnings from the last confirmation.
func (s *Session) Collisions() []string { return s.collisions }

// Previews returns the rows of the last validation pass.
func (s *Session) Previews() []importing.PreviewRow { return s.previews }

// Unresolved returns the outstanding reference names.
func (s *Session) Unresolved() []importing.UnresolvedReference { return s.unresolved }

// ProvideSheet moves SelectSheet -> SelectTable once a parsed sheet exists.
// PRE: session is at SelectSheet
// POST: sheet is stored; step is SelectTable
func (s *Session) ProvideSheet(sheet importing.ParsedSheet) error {
	if s.step != StepSelectSheet {
		return ErrInvalidTransition
	}
	s.sheet = sheet
	s.step = StepSelectTable
	return nil
}

// SelectTable moves SelectTable -> MapColumns and auto-proposes a mapping.
// PRE: session is at SelectTable; key is a registry table key
// POST: mappings hold the automap proposal as the editable starting point
func (s *Session) SelectTable(key string) ([]importing.ColumnMapping, error) {
	if s.step != StepSelectTable {
		return nil, ErrInvalidTransition
	}
	schema, ok := importing.GetSchema(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, key)
	}
	s.tableKey = key
	s.schema = schema
	s.mappings = orchestrators.ExecuteAutoMapColumns(s.sheet.Headers, key)
	s.step = StepMapColumns
	return s.mappings, nil
}

// ConfirmMappings moves MapColumns -> Preview, running the validation pass.
// A nil mappings argument confirms the current proposal unchanged.
// PRE: session is at MapColumns
// POST: previews hold a fresh validation pass; collisions list duplicate
// destination fields; unresolved references are collected
func (s *Session) ConfirmMappings(mappings []importing.ColumnMapping) ([]importing.PreviewRow, error) {
	if s.step != StepMapColumns {
		return nil, ErrInvalidTransition
	}
	if mappings != nil {
		s.mappings = mappings
	}
	s.collisions = orchestrators.MappingCollisions(s.mappings)
	s.previews = orchestrators.ExecuteTransformRows(orchestrators.TransformRowsInput{
		Rows:     s.sheet.Rows,
		Mappings: s.mappings,
		Schema:   s.schema,
		Snapshot: s.snapshot,
	})
	s.unresolved = orchestrators.CollectUnresolved(s.previews, s.schema)
	s.step = StepPreview
	return s.previews, nil
}

// ProceedFromPreview moves Preview -> ResolveReferences when unknown
// references exist, otherwise straight to Committing.
// PRE: session is at Preview
// POST: step is ResolveReferences or Committing
func (s *Session) ProceedFromPreview() (Step, error) {
	if s.step != StepPreview {
		return s.step, ErrInvalidTransition
	}
	if len(s.unresolved) > 0 {
		s.step = StepResolveReferences
	} else {
		s.step = StepCommitting
	}
	return s.step, nil
}

// SetReferenceAttributes records interactively supplied attributes for one
// unresolved reference.
// PRE: session is at ResolveReferences; name matches an unresolved reference
// POST: the reference's attribute bag is replaced
func (s *Session) SetReferenceAttributes(name string, attrs map[string]string) error {
	if s.step != StepResolveReferences {
		return ErrInvalidTransition
	}
	for i := range s.unresolved {
		if s.unresolved[i].Name == name {
			s.unresolved[i].Attributes = attrs
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownReference, name)
}

// ConfirmResolutions moves ResolveReferences -> Committing, enforcing the
// blocking gate: every reference must be fully creatable first.
// PRE: session is at ResolveReferences
// POST: step is Committing, or a ResolutionIncompleteError names the gaps
func (s *Session) ConfirmResolutions() error {
	if s.step != StepResolveReferences {
		return ErrInvalidTransition
	}
	if err := orchestrators.CheckResolutions(s.unresolved); err != nil {
		return err
	}
	s.step = StepCommitting
	return nil
}

// Commit runs the committer over the full row set. Committing is
// terminal-bound: the session always lands on Result, carrying either the
// summary or the commit error.
// PRE: session is at Committing
// POST: step is Result; summary holds the per-row outcomes
func (s *Session) Commit(ctx context.Context, deps orchestrators.CommitImportDeps, fileName, importedBy string) (importing.ImportSummary, error) {
	if s.step != StepCommitting {
		return importing.ImportSummary{}, ErrInvalidTransition
	}
	summary, err := orchestrators.ExecuteCommitImport(ctx, orchestrators.CommitImportInput{
		TableKey:   s.tableKey,
		FileName:   fileName,
		Previews:   s.previews,
		Resolved:   s.unresolved,
		ImportedBy: importedBy,
	}, deps)
	s.summary = summary
	s.committed = true
	s.step = StepResult
	return summary, err
}

// Result returns the commit summary once the session reached Result.
func (s *Session) Result() (importing.ImportSummary, bool) {
	return s.summary, s.committed
}

// BackToSelectTable moves MapColumns -> SelectTable, discarding the proposal.
// PRE: session is at MapColumns
// POST: mappings, previews, and unresolved references are discarded
func (s *Session) BackToSelectTable() error {
	if s.step != StepMapColumns {
		return ErrInvalidTransition
	}
	s.discardFromMapColumns()
	s.tableKey = ""
	s.schema = importing.TableSchema{}
	s.step = StepSelectTable
	return nil
}

// BackToMapColumns moves Preview -> MapColumns for re-editing. Downstream
// state becomes stale and is discarded, never reused.
// PRE: session is at Preview
// POST: previews and unresolved references are discarded; mappings remain
// as the editable starting point
func (s *Session) BackToMapColumns() error {
	if s.step != StepPreview {
		return ErrInvalidTransition
	}
	s.previews = nil
	s.unresolved = nil
	s.collisions = nil
	s.step = StepMapColumns
	return nil
}

func (s *Session) discardFromMapColumns() {
	s.mappings = nil
	s.collisions = nil
	s.previews = nil
	s.unresolved = nil
}
