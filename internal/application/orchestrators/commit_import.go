package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"courtside/internal/application/textmatch"
	"courtside/internal/domain/importing"
	importlogDomain "courtside/internal/domain/importlog"
)

// RecordStore is the generic persistence collaborator the committer writes
// through. Implementations map a registry table key onto its backing table.
type RecordStore interface {
	Insert(ctx context.Context, table string, record map[string]any) (string, error)
	Update(ctx context.Context, table string, id string, record map[string]any) error
	FindBy(ctx context.Context, table string, field string, value any) (map[string]any, bool, error)
}

// ImportLogStoreForCommit defines the store interface needed by CommitImport.
type ImportLogStoreForCommit interface {
	Save(ctx context.Context, entry importlogDomain.Entry) error
}

// CommitImportInput carries the final validated and resolved row set.
type CommitImportInput struct {
	TableKey   string
	FileName   string
	Previews   []importing.PreviewRow
	Resolved   []importing.UnresolvedReference
	ImportedBy string
}

// CommitImportDeps holds external dependencies for the committer.
type CommitImportDeps struct {
	Records    RecordStore
	ImportLog  ImportLogStoreForCommit
	GenerateID func() string
}

// ExecuteCommitImport creates the newly resolved reference entities first,
// then writes each valid or warning row as an insert (or update on re-import).
// Best-effort batch: a failure on one row is recorded and processing
// continues — there is no multi-row transaction boundary at this layer, so
// created references stay created even if later rows fail.
// PRE: CheckResolutions passed for input.Resolved
// POST: CreatedCount + UpdatedCount + FailedCount == len(input.Previews);
// rows with status error never reach the store and are counted as failed
func ExecuteCommitImport(ctx context.Context, input CommitImportInput, deps CommitImportDeps) (importing.ImportSummary, error) {
	schema, ok := importing.GetSchema(input.TableKey)
	if !ok {
		return importing.ImportSummary{}, fmt.Errorf("unknown import table %q", input.TableKey)
	}

	summary := importing.ImportSummary{CreatedRefs: map[string]string{}}

	// Step (a): create all resolved reference entities, name -> id. A re-run
	// after a partial commit finds the entity created last time and reuses it
	// instead of inserting a duplicate.
	refIDs := map[string]string{}
	for _, ref := range input.Resolved {
		if existing, found, err := deps.Records.FindBy(ctx, ref.ReferenceTable, ref.DisplayField, strings.TrimSpace(ref.Name)); err == nil && found {
			if id, _ := existing["id"].(string); id != "" {
				refIDs[refKeyFor(ref.ReferenceTable, ref.Name)] = id
				continue
			}
		}
		record := BuildReferenceRecord(ref)
		record["id"] = deps.GenerateID()
		id, err := deps.Records.Insert(ctx, ref.ReferenceTable, record)
		if err != nil {
			slog.Error("import_reference_create_failed", "table", ref.ReferenceTable, "name", ref.Name, "err", err)
			continue
		}
		refIDs[refKeyFor(ref.ReferenceTable, ref.Name)] = id
		summary.CreatedRefs[ref.Name] = id
	}

	// Step (b): write target rows in source order, isolating per-row failures.
	for _, p := range input.Previews {
		outcome := importing.ImportOutcome{Index: p.Index}

		if p.Status == importing.StatusError {
			outcome.Error = strings.Join(p.Messages, "; ")
			summary.FailedCount++
			summary.Outcomes = append(summary.Outcomes, outcome)
			summary.Failures = append(summary.Failures, outcome)
			continue
		}

		record, err := buildRowRecord(p, schema, refIDs)
		if err != nil {
			outcome.Error = err.Error()
			summary.FailedCount++
			summary.Outcomes = append(summary.Outcomes, outcome)
			summary.Failures = append(summary.Failures, outcome)
			continue
		}

		if p.ExistingID != "" {
			err = deps.Records.Update(ctx, input.TableKey, p.ExistingID, record)
			if err != nil {
				outcome.Error = err.Error()
				summary.FailedCount++
				summary.Failures = append(summary.Failures, outcome)
			} else {
				outcome.Success = true
				summary.UpdatedCount++
			}
		} else {
			record["id"] = deps.GenerateID()
			var id string
			id, err = deps.Records.Insert(ctx, input.TableKey, record)
			if err != nil {
				outcome.Error = err.Error()
				summary.FailedCount++
				summary.Failures = append(summary.Failures, outcome)
			} else {
				outcome.Success = true
				outcome.CreatedID = id
				summary.CreatedCount++
			}
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	logImport(ctx, input, summary, deps)

	slog.Info("import_commit",
		"table", input.TableKey,
		"file", input.FileName,
		"rows", len(input.Previews),
		"created", summary.CreatedCount,
		"updated", summary.UpdatedCount,
		"failed", summary.FailedCount,
		"refs_created", len(summary.CreatedRefs),
	)
	return summary, nil
}

// buildRowRecord strips preview-only entries and substitutes pending
// foreign-key sentinels with the ids created in step (a).
func buildRowRecord(p importing.PreviewRow, schema importing.TableSchema, refIDs map[string]string) (map[string]any, error) {
	record := make(map[string]any, len(p.Values))
	for key, value := range p.Values {
		if strings.HasPrefix(key, importing.DisplayPrefix) {
			continue
		}
		record[key] = value
	}
	for _, field := range schema.Fields {
		if field.Kind != importing.KindForeignKey {
			continue
		}
		if record[field.Key] != importing.PendingReferenceID {
			continue
		}
		name, _ := p.Values[importing.DisplayPrefix+field.Key].(string)
		id, ok := refIDs[refKeyFor(field.ReferenceTable, name)]
		if !ok {
			return nil, fmt.Errorf("%s %q was not created", field.Key, name)
		}
		record[field.Key] = id
	}
	return record, nil
}

// refKeyFor builds the lookup key matching CollectUnresolved's dedup rule.
func refKeyFor(table, name string) string {
	return table + "\x00" + textmatch.Normalize(name)
}

// logImport writes the audit entry for a commit. Log failure never fails the
// import itself.
func logImport(ctx context.Context, input CommitImportInput, summary importing.ImportSummary, deps CommitImportDeps) {
	if deps.ImportLog == nil {
		return
	}
	entry := importlogDomain.Entry{
		ID:           deps.GenerateID(),
		TableKey:     input.TableKey,
		FileName:     input.FileName,
		TotalRows:    len(input.Previews),
		CreatedCount: summary.CreatedCount,
		UpdatedCount: summary.UpdatedCount,
		FailedCount:  summary.FailedCount,
		ImportedBy:   input.ImportedBy,
		CreatedAt:    time.Now(),
	}
	if err := deps.ImportLog.Save(ctx, entry); err != nil {
		slog.Error("import_log_save_failed", "table", input.TableKey, "err", err)
	}
}
