package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"courtside/internal/domain/importing"
	importlogDomain "courtside/internal/domain/importlog"
)

// fakeRecordStore implements RecordStore in memory for testing.
type fakeRecordStore struct {
	inserted  map[string][]map[string]any  // table -> records
	updated   map[string]map[string]any    // id -> record
	failOnIDs map[string]bool              // record ids whose insert fails
	existing  map[string]map[string]any    // "table/field/value" -> record for FindBy
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{
		inserted:  map[string][]map[string]any{},
		updated:   map[string]map[string]any{},
		failOnIDs: map[string]bool{},
		existing:  map[string]map[string]any{},
	}
}

// Insert implements RecordStore.
// PRE: record carries an id
// POST: record is stored under its table
func (f *fakeRecordStore) Insert(_ context.Context, table string, record map[string]any) (string, error) {
	id, _ := record["id"].(string)
	if f.failOnIDs[id] {
		return "", errors.New("disk full")
	}
	f.inserted[table] = append(f.inserted[table], record)
	return id, nil
}

// Update implements RecordStore.
// PRE: id is non-empty
// POST: record is stored under the id
func (f *fakeRecordStore) Update(_ context.Context, _ string, id string, record map[string]any) error {
	if f.failOnIDs[id] {
		return errors.New("row locked")
	}
	f.updated[id] = record
	return nil
}

// FindBy implements RecordStore.
// POST: matches only records registered in f.existing
func (f *fakeRecordStore) FindBy(_ context.Context, table string, field string, value any) (map[string]any, bool, error) {
	record, ok := f.existing[fmt.Sprintf("%s/%s/%v", table, field, value)]
	return record, ok, nil
}

// fakeImportLog implements ImportLogStoreForCommit in memory for testing.
type fakeImportLog struct {
	entries []importlogDomain.Entry
	saveErr error
}

// Save implements ImportLogStoreForCommit.
// POST: entry is appended
func (f *fakeImportLog) Save(_ context.Context, entry importlogDomain.Entry) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func validPreview(index int, name string) importing.PreviewRow {
	return importing.PreviewRow{
		Index:  index,
		Status: importing.StatusValid,
		Values: map[string]any{"name_ar": name},
	}
}

// TestExecuteCommitImport_CountsInvariant verifies
// created + updated + failed always equals the attempted row count.
func TestExecuteCommitImport_CountsInvariant(t *testing.T) {
	store := newFakeRecordStore()
	log := &fakeImportLog{}

	previews := []importing.PreviewRow{
		validPreview(0, "أحمد"),
		{Index: 1, Status: importing.StatusError, Messages: []string{"name_ar is required"}},
		validPreview(2, "سارة"),
		{Index: 3, Status: importing.StatusWarning, Values: map[string]any{"name_ar": "خالد", "phone": "+9725012"}},
	}

	summary, err := ExecuteCommitImport(context.Background(), CommitImportInput{
		TableKey:   importing.TableTrainees,
		FileName:   "players.xlsx",
		Previews:   previews,
		ImportedBy: "acc-1",
	}, CommitImportDeps{Records: store, ImportLog: log, GenerateID: sequentialIDs("id")})
	if err != nil {
		t.Fatalf("ExecuteCommitImport: %v", err)
	}

	if summary.CreatedCount+summary.UpdatedCount+summary.FailedCount != len(previews) {
		t.Errorf("counts %d+%d+%d != %d rows",
			summary.CreatedCount, summary.UpdatedCount, summary.FailedCount, len(previews))
	}
	if summary.CreatedCount != 3 || summary.FailedCount != 1 {
		t.Errorf("created = %d, failed = %d, want 3 and 1", summary.CreatedCount, summary.FailedCount)
	}
	if len(summary.Outcomes) != len(previews) {
		t.Errorf("outcomes = %d, want %d", len(summary.Outcomes), len(previews))
	}
	if len(log.entries) != 1 {
		t.Fatalf("import log entries = %d, want 1", len(log.entries))
	}
	entry := log.entries[0]
	if entry.TotalRows != 4 || entry.CreatedCount != 3 || entry.FailedCount != 1 {
		t.Errorf("log entry = %+v", entry)
	}
	if entry.FileName != "players.xlsx" || entry.ImportedBy != "acc-1" {
		t.Errorf("log entry = %+v", entry)
	}
}

// TestExecuteCommitImport_ErrorRowsNeverReachStore verifies rows classified
// as error are counted as failed without a store call.
func TestExecuteCommitImport_ErrorRowsNeverReachStore(t *testing.T) {
	store := newFakeRecordStore()

	summary, err := ExecuteCommitImport(context.Background(), CommitImportInput{
		TableKey: importing.TableTrainees,
		Previews: []importing.PreviewRow{
			{Index: 0, Status: importing.StatusError, Messages: []string{"bad date", "bad fee"}},
		},
	}, CommitImportDeps{Records: store, GenerateID: sequentialIDs("id")})
	if err != nil {
		t.Fatalf("ExecuteCommitImport: %v", err)
	}

	if len(store.inserted[importing.TableTrainees]) != 0 {
		t.Error("error row reached the store")
	}
	if summary.FailedCount != 1 {
		t.Errorf("failed = %d, want 1", summary.FailedCount)
	}
	if summary.Failures[0].Error != "bad date; bad fee" {
		t.Errorf("failure message = %q", summary.Failures[0].Error)
	}
}

// TestExecuteCommitImport_PerRowIsolation verifies one failing insert does
// not stop the rows after it.
func TestExecuteCommitImport_PerRowIsolation(t *testing.T) {
	store := newFakeRecordStore()
	store.failOnIDs["id-2"] = true // second generated id: the middle row

	summary, err := ExecuteCommitImport(context.Background(), CommitImportInput{
		TableKey: importing.TableTrainees,
		Previews: []importing.PreviewRow{
			validPreview(0, "أ"),
			validPreview(1, "ب"),
			validPreview(2, "ج"),
		},
	}, CommitImportDeps{Records: store, GenerateID: sequentialIDs("id")})
	if err != nil {
		t.Fatalf("ExecuteCommitImport: %v", err)
	}

	if summary.CreatedCount != 2 || summary.FailedCount != 1 {
		t.Errorf("created = %d, failed = %d, want 2 and 1", summary.CreatedCount, summary.FailedCount)
	}
	if len(store.inserted[importing.TableTrainees]) != 2 {
		t.Errorf("stored rows = %d, want 2", len(store.inserted[importing.TableTrainees]))
	}
	if summary.Outcomes[1].Success || summary.Outcomes[1].Error == "" {
		t.Errorf("middle outcome = %+v, want recorded failure", summary.Outcomes[1])
	}
}

// TestExecuteCommitImport_UpdatePath verifies rows carrying an existing id
// are updated, not inserted.
func TestExecuteCommitImport_UpdatePath(t *testing.T) {
	store := newFakeRecordStore()

	preview := validPreview(0, "أحمد")
	preview.ExistingID = "t-42"

	summary, err := ExecuteCommitImport(context.Background(), CommitImportInput{
		TableKey: importing.TableTrainees,
		Previews: []importing.PreviewRow{preview},
	}, CommitImportDeps{Records: store, GenerateID: sequentialIDs("id")})
	if err != nil {
		t.Fatalf("ExecuteCommitImport: %v", err)
	}

	if summary.UpdatedCount != 1 || summary.CreatedCount != 0 {
		t.Errorf("updated = %d, created = %d, want 1 and 0", summary.UpdatedCount, summary.CreatedCount)
	}
	if _, ok := store.updated["t-42"]; !ok {
		t.Error("update for t-42 not stored")
	}
}

// TestExecuteCommitImport_ReferenceSubstitution verifies resolved references
// are created first and pending sentinels replaced with the new ids.
func TestExecuteCommitImport_ReferenceSubstitution(t *testing.T) {
	store := newFakeRecordStore()

	preview := importing.PreviewRow{
		Index:  0,
		Status: importing.StatusWarning,
		Values: map[string]any{
			"name_ar":  "سارة",
			"class_id": importing.PendingReferenceID,
			importing.DisplayPrefix + "class_id": "فريق الأشبال",
		},
	}

	summary, err := ExecuteCommitImport(context.Background(), CommitImportInput{
		TableKey: importing.TableTrainees,
		Previews: []importing.PreviewRow{preview},
		Resolved: []importing.UnresolvedReference{{
			Name:           "فريق الأشبال",
			ReferenceTable: importing.TableClasses,
			DisplayField:   "name",
			Attributes:     map[string]string{},
		}},
	}, CommitImportDeps{Records: store, GenerateID: sequentialIDs("id")})
	if err != nil {
		t.Fatalf("ExecuteCommitImport: %v", err)
	}

	classes := store.inserted[importing.TableClasses]
	if len(classes) != 1 || classes[0]["name"] != "فريق الأشبال" {
		t.Fatalf("created classes = %v", classes)
	}
	classID, _ := classes[0]["id"].(string)

	rows := store.inserted[importing.TableTrainees]
	if len(rows) != 1 {
		t.Fatalf("stored rows = %d, want 1", len(rows))
	}
	if rows[0]["class_id"] != classID {
		t.Errorf("class_id = %v, want created id %s", rows[0]["class_id"], classID)
	}
	if _, present := rows[0][importing.DisplayPrefix+"class_id"]; present {
		t.Error("display entry leaked into the stored record")
	}
	if summary.CreatedRefs["فريق الأشبال"] != classID {
		t.Errorf("CreatedRefs = %v", summary.CreatedRefs)
	}
}

// TestExecuteCommitImport_FailedReferenceFailsDependentRows verifies rows
// pointing at a reference that could not be created fail cleanly.
func TestExecuteCommitImport_FailedReferenceFailsDependentRows(t *testing.T) {
	store := newFakeRecordStore()
	store.failOnIDs["id-1"] = true // first generated id: the reference insert

	preview := importing.PreviewRow{
		Index:  0,
		Status: importing.StatusWarning,
		Values: map[string]any{
			"name_ar":  "سارة",
			"class_id": importing.PendingReferenceID,
			importing.DisplayPrefix + "class_id": "فريق الأشبال",
		},
	}

	summary, err := ExecuteCommitImport(context.Background(), CommitImportInput{
		TableKey: importing.TableTrainees,
		Previews: []importing.PreviewRow{preview},
		Resolved: []importing.UnresolvedReference{{
			Name:           "فريق الأشبال",
			ReferenceTable: importing.TableClasses,
			DisplayField:   "name",
		}},
	}, CommitImportDeps{Records: store, GenerateID: sequentialIDs("id")})
	if err != nil {
		t.Fatalf("ExecuteCommitImport: %v", err)
	}

	if summary.FailedCount != 1 || summary.CreatedCount != 0 {
		t.Errorf("failed = %d, created = %d, want 1 and 0", summary.FailedCount, summary.CreatedCount)
	}
	if len(store.inserted[importing.TableTrainees]) != 0 {
		t.Error("row with dangling reference reached the store")
	}
}

// TestExecuteCommitImport_UnknownTable verifies the registry guard.
func TestExecuteCommitImport_UnknownTable(t *testing.T) {
	_, err := ExecuteCommitImport(context.Background(), CommitImportInput{
		TableKey: "no_such_table",
	}, CommitImportDeps{Records: newFakeRecordStore(), GenerateID: sequentialIDs("id")})
	if err == nil {
		t.Error("want error for unknown table")
	}
}

// TestExecuteCommitImport_ReusesExistingReference verifies a re-run after a
// partial commit reuses the reference entity created last time instead of
// inserting a duplicate.
func TestExecuteCommitImport_ReusesExistingReference(t *testing.T) {
	store := newFakeRecordStore()
	store.existing["classes/name/فريق الأشبال"] = map[string]any{"id": "cls-77", "name": "فريق الأشبال"}

	preview := importing.PreviewRow{
		Index:  0,
		Status: importing.StatusWarning,
		Values: map[string]any{
			"name_ar":  "سارة",
			"class_id": importing.PendingReferenceID,
			importing.DisplayPrefix + "class_id": "فريق الأشبال",
		},
	}

	summary, err := ExecuteCommitImport(context.Background(), CommitImportInput{
		TableKey: importing.TableTrainees,
		Previews: []importing.PreviewRow{preview},
		Resolved: []importing.UnresolvedReference{{
			Name:           "فريق الأشبال",
			ReferenceTable: importing.TableClasses,
			DisplayField:   "name",
			Attributes:     map[string]string{},
		}},
	}, CommitImportDeps{Records: store, GenerateID: sequentialIDs("id")})
	if err != nil {
		t.Fatalf("ExecuteCommitImport: %v", err)
	}

	if len(store.inserted[importing.TableClasses]) != 0 {
		t.Fatalf("classes inserted = %v, want none", store.inserted[importing.TableClasses])
	}
	rows := store.inserted[importing.TableTrainees]
	if len(rows) != 1 || rows[0]["class_id"] != "cls-77" {
		t.Fatalf("stored rows = %v, want class_id cls-77", rows)
	}
	if len(summary.CreatedRefs) != 0 {
		t.Errorf("CreatedRefs = %v, want empty", summary.CreatedRefs)
	}
}
