package orchestrators

import (
	"reflect"
	"testing"

	"courtside/internal/domain/importing"
)

func traineesSchema(t *testing.T) importing.TableSchema {
	t.Helper()
	schema, ok := importing.GetSchema(importing.TableTrainees)
	if !ok {
		t.Fatal("trainees schema missing")
	}
	return schema
}

func traineeMappings() []importing.ColumnMapping {
	return []importing.ColumnMapping{
		{ExcelColumn: "الاسم", DBField: "name_ar"},
		{ExcelColumn: "الهاتف", DBField: "phone"},
		{ExcelColumn: "الفريق", DBField: "class_id"},
		{ExcelColumn: "الرسوم", DBField: "monthly_fee"},
		{ExcelColumn: "الميلاد", DBField: "birth_date"},
		{ExcelColumn: "الحالة", DBField: "status"},
	}
}

// TestExecuteTransformRows_ValidRow covers coercion of every field kind on a
// clean row.
func TestExecuteTransformRows_ValidRow(t *testing.T) {
	snapshot := importing.ReferenceSnapshot{
		importing.TableClasses: {{ID: "cls-1", Display: "الناشئين"}},
	}
	input := TransformRowsInput{
		Rows: []map[string]string{{
			"الاسم":  "أحمد خالد",
			"الهاتف": "050-123-4567",
			"الفريق": "الناشئين",
			"الرسوم": "1,200",
			"الميلاد": "2010-03-15",
			"الحالة": "Active",
		}},
		Mappings: traineeMappings(),
		Schema:   traineesSchema(t),
		Snapshot: snapshot,
	}

	previews := ExecuteTransformRows(input)

	if len(previews) != 1 {
		t.Fatalf("got %d previews, want 1", len(previews))
	}
	p := previews[0]
	if p.Status != importing.StatusValid {
		t.Fatalf("status = %q, messages = %v, want valid", p.Status, p.Messages)
	}
	if p.Values["name_ar"] != "أحمد خالد" {
		t.Errorf("name_ar = %v", p.Values["name_ar"])
	}
	if p.Values["phone"] != "+972501234567" {
		t.Errorf("phone = %v, want +972501234567", p.Values["phone"])
	}
	if p.Values["class_id"] != "cls-1" {
		t.Errorf("class_id = %v, want cls-1", p.Values["class_id"])
	}
	if p.Values[importing.DisplayPrefix+"class_id"] != "الناشئين" {
		t.Errorf("class display = %v", p.Values[importing.DisplayPrefix+"class_id"])
	}
	if p.Values["monthly_fee"] != 1200.0 {
		t.Errorf("monthly_fee = %v, want 1200", p.Values["monthly_fee"])
	}
	if p.Values["birth_date"] != "2010-03-15" {
		t.Errorf("birth_date = %v", p.Values["birth_date"])
	}
	if p.Values["status"] != "active" {
		t.Errorf("status value = %v, want canonical active", p.Values["status"])
	}
}

// TestExecuteTransformRows_RowClassification walks the error and warning
// escalation rules.
func TestExecuteTransformRows_RowClassification(t *testing.T) {
	tests := []struct {
		name       string
		row        map[string]string
		wantStatus string
	}{
		{
			name:       "missing required name is an error",
			row:        map[string]string{"الهاتف": "0501234567"},
			wantStatus: importing.StatusError,
		},
		{
			name:       "bad number is an error",
			row:        map[string]string{"الاسم": "سارة", "الرسوم": "abc"},
			wantStatus: importing.StatusError,
		},
		{
			name:       "bad date is an error",
			row:        map[string]string{"الاسم": "سارة", "الميلاد": "15/03/2010"},
			wantStatus: importing.StatusError,
		},
		{
			name:       "short phone is a warning",
			row:        map[string]string{"الاسم": "سارة", "الهاتف": "05012"},
			wantStatus: importing.StatusWarning,
		},
		{
			name:       "unknown enum value is a warning",
			row:        map[string]string{"الاسم": "سارة", "الحالة": "suspended"},
			wantStatus: importing.StatusWarning,
		},
		{
			name:       "unknown team is a warning",
			row:        map[string]string{"الاسم": "سارة", "الفريق": "فريق جديد"},
			wantStatus: importing.StatusWarning,
		},
		{
			name:       "error outranks warning",
			row:        map[string]string{"الهاتف": "05012"},
			wantStatus: importing.StatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			previews := ExecuteTransformRows(TransformRowsInput{
				Rows:     []map[string]string{tt.row},
				Mappings: traineeMappings(),
				Schema:   traineesSchema(t),
				Snapshot: importing.ReferenceSnapshot{},
			})
			if previews[0].Status != tt.wantStatus {
				t.Errorf("status = %q (messages %v), want %q",
					previews[0].Status, previews[0].Messages, tt.wantStatus)
			}
			if len(previews[0].Messages) == 0 {
				t.Error("expected at least one message")
			}
		})
	}
}

// TestExecuteTransformRows_PendingReference verifies the sentinel pairing for
// unmatched foreign keys.
func TestExecuteTransformRows_PendingReference(t *testing.T) {
	previews := ExecuteTransformRows(TransformRowsInput{
		Rows:     []map[string]string{{"الاسم": "سارة", "الفريق": "الكبار"}},
		Mappings: traineeMappings(),
		Schema:   traineesSchema(t),
		Snapshot: importing.ReferenceSnapshot{},
	})

	p := previews[0]
	if p.Values["class_id"] != importing.PendingReferenceID {
		t.Errorf("class_id = %v, want pending sentinel", p.Values["class_id"])
	}
	if p.Values[importing.DisplayPrefix+"class_id"] != "الكبار" {
		t.Errorf("display = %v, want raw name", p.Values[importing.DisplayPrefix+"class_id"])
	}
}

// TestExecuteTransformRows_SnapshotMatchIsLenient verifies case and diacritic
// differences still hit the snapshot.
func TestExecuteTransformRows_SnapshotMatchIsLenient(t *testing.T) {
	snapshot := importing.ReferenceSnapshot{
		importing.TableClasses: {{ID: "cls-2", Display: "Juniors"}},
	}
	previews := ExecuteTransformRows(TransformRowsInput{
		Rows:     []map[string]string{{"الاسم": "سارة", "الفريق": "JUNIORS"}},
		Mappings: traineeMappings(),
		Schema:   traineesSchema(t),
		Snapshot: snapshot,
	})

	if previews[0].Values["class_id"] != "cls-2" {
		t.Errorf("class_id = %v, want cls-2", previews[0].Values["class_id"])
	}
}

// TestExecuteTransformRows_OrderAndIdempotence verifies output length, order,
// and determinism.
func TestExecuteTransformRows_OrderAndIdempotence(t *testing.T) {
	input := TransformRowsInput{
		Rows: []map[string]string{
			{"الاسم": "أ"},
			{"الهاتف": "0501234567"},
			{"الاسم": "ب", "الرسوم": "300"},
		},
		Mappings: traineeMappings(),
		Schema:   traineesSchema(t),
		Snapshot: importing.ReferenceSnapshot{},
	}

	first := ExecuteTransformRows(input)
	second := ExecuteTransformRows(input)

	if len(first) != 3 {
		t.Fatalf("got %d previews, want 3", len(first))
	}
	for i, p := range first {
		if p.Index != i {
			t.Errorf("preview %d has index %d", i, p.Index)
		}
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("same input produced different output")
	}
}

// TestExecuteTransformRows_ExistingID verifies a sheet id column marks the
// update path.
func TestExecuteTransformRows_ExistingID(t *testing.T) {
	previews := ExecuteTransformRows(TransformRowsInput{
		Rows:     []map[string]string{{"الاسم": "سارة", "ID": " t-7 "}},
		Mappings: traineeMappings(),
		Schema:   traineesSchema(t),
		Snapshot: importing.ReferenceSnapshot{},
	})

	if previews[0].ExistingID != "t-7" {
		t.Errorf("ExistingID = %q, want t-7", previews[0].ExistingID)
	}
}

// TestExecuteTransformRows_DuplicateMappingLastWins verifies the documented
// last-wins rule when two columns target one field.
func TestExecuteTransformRows_DuplicateMappingLastWins(t *testing.T) {
	mappings := []importing.ColumnMapping{
		{ExcelColumn: "A", DBField: "name_ar"},
		{ExcelColumn: "B", DBField: "name_ar"},
	}
	previews := ExecuteTransformRows(TransformRowsInput{
		Rows:     []map[string]string{{"A": "first", "B": "second"}},
		Mappings: mappings,
		Schema:   traineesSchema(t),
		Snapshot: importing.ReferenceSnapshot{},
	})

	if previews[0].Values["name_ar"] != "second" {
		t.Errorf("name_ar = %v, want second", previews[0].Values["name_ar"])
	}
}
