package web

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"courtside/internal/adapters/http/perf"
	"courtside/internal/adapters/storage"
	accountStore "courtside/internal/adapters/storage/account"
	attendanceStore "courtside/internal/adapters/storage/attendance"
	classStore "courtside/internal/adapters/storage/class"
	importlogStore "courtside/internal/adapters/storage/importlog"
	noticeStore "courtside/internal/adapters/storage/notice"
	paymentStore "courtside/internal/adapters/storage/payment"
	recordsStore "courtside/internal/adapters/storage/records"
	scheduleStore "courtside/internal/adapters/storage/schedule"
	traineeStore "courtside/internal/adapters/storage/trainee"
	trainerStore "courtside/internal/adapters/storage/trainer"
	"courtside/internal/application/orchestrators"
)

// setupTestServer builds a full mux over an in-memory database with one
// seeded admin account, and returns the mux plus a logged-in session cookie.
func setupTestServer(t *testing.T) (http.Handler, string) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to init database: %v", err)
	}

	s := &Stores{
		AccountStore:    accountStore.NewSQLiteStore(db),
		TraineeStore:    traineeStore.NewSQLiteStore(db),
		TrainerStore:    trainerStore.NewSQLiteStore(db),
		ClassStore:      classStore.NewSQLiteStore(db),
		ScheduleStore:   scheduleStore.NewSQLiteStore(db),
		AttendanceStore: attendanceStore.NewSQLiteStore(db),
		PaymentStore:    paymentStore.NewSQLiteStore(db),
		NoticeStore:     noticeStore.NewSQLiteStore(db),
		ImportLogStore:  importlogStore.NewSQLiteStore(db),
		RecordStore:     recordsStore.NewSQLiteStore(db),
	}

	deps := orchestrators.CreateAccountDeps{AccountStore: s.AccountStore}
	if _, err := orchestrators.ExecuteCreateAccount(context.Background(), orchestrators.CreateAccountInput{
		Email:    "admin@courtside.example",
		Password: "correct horse battery",
		Role:     "admin",
	}, deps); err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	RateLimitPerSecond = 1000
	mux := NewMux(t.TempDir(), s, perf.NewCollector(100))

	// Log in to obtain a session cookie
	body, _ := json.Marshal(map[string]string{
		"email":    "admin@courtside.example",
		"password": "correct horse battery",
	})
	req := httptest.NewRequest("POST", "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var cookie string
	for _, c := range rec.Result().Cookies() {
		if c.Name == "courtside_session" {
			cookie = c.Name + "=" + c.Value
		}
	}
	if cookie == "" {
		t.Fatal("login did not set a session cookie")
	}
	return mux, cookie
}

// doJSON issues a JSON request with the session cookie and decodes the response.
func doJSON(t *testing.T, mux http.Handler, cookie, method, path, body string, out any) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", cookie)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: bad response JSON: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec.Code
}

// TestImportWizardFlow drives a CSV upload through the whole wizard via the
// HTTP surface: upload, table selection, automap confirmation, preview,
// commit, and history.
func TestImportWizardFlow(t *testing.T) {
	mux, cookie := setupTestServer(t)

	// Upload a small trainers CSV (trainers have no foreign keys, so the
	// wizard should skip reference resolution entirely).
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "trainers.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write([]byte("الاسم,الهاتف\nأحمد خالد,0501234567\nسمير يوسف,0527654321\n"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/import/sheet", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Cookie", cookie)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("sheet upload status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var uploaded struct {
		Step     string `json:"step"`
		RowCount int    `json:"row_count"`
	}
	json.Unmarshal(rec.Body.Bytes(), &uploaded)
	if uploaded.Step != "select_table" || uploaded.RowCount != 2 {
		t.Fatalf("upload response = %+v", uploaded)
	}

	// Select the trainers table; the Arabic headers should automap.
	var selected struct {
		Step     string `json:"step"`
		Mappings []struct {
			ExcelColumn string `json:"excel_column"`
			DBField     string `json:"db_field"`
		} `json:"mappings"`
	}
	if code := doJSON(t, mux, cookie, "POST", "/api/import/table", `{"table_key":"trainers"}`, &selected); code != http.StatusOK {
		t.Fatalf("select table status = %d", code)
	}
	fields := map[string]string{}
	for _, m := range selected.Mappings {
		fields[m.ExcelColumn] = m.DBField
	}
	if fields["الاسم"] != "name" || fields["الهاتف"] != "phone" {
		t.Fatalf("automap fields = %v", fields)
	}

	// Confirm the proposed mappings unchanged.
	var previewed struct {
		Step     string `json:"step"`
		Previews []struct {
			Status string `json:"status"`
		} `json:"previews"`
	}
	if code := doJSON(t, mux, cookie, "POST", "/api/import/mappings", `{}`, &previewed); code != http.StatusOK {
		t.Fatalf("confirm mappings status = %d", code)
	}
	if len(previewed.Previews) != 2 {
		t.Fatalf("preview rows = %d, want 2", len(previewed.Previews))
	}
	for _, p := range previewed.Previews {
		if p.Status != "valid" {
			t.Errorf("preview status = %q, want valid", p.Status)
		}
	}

	// No foreign keys in the sheet: proceed must land on committing.
	var proceeded struct {
		Step string `json:"step"`
	}
	if code := doJSON(t, mux, cookie, "POST", "/api/import/proceed", ``, &proceeded); code != http.StatusOK {
		t.Fatalf("proceed status = %d", code)
	}
	if proceeded.Step != "committing" {
		t.Fatalf("step after proceed = %q, want committing", proceeded.Step)
	}

	var committed struct {
		Step    string `json:"step"`
		Summary struct {
			CreatedCount int `json:"created_count"`
			FailedCount  int `json:"failed_count"`
		} `json:"summary"`
	}
	if code := doJSON(t, mux, cookie, "POST", "/api/import/commit", ``, &committed); code != http.StatusOK {
		t.Fatalf("commit status = %d", code)
	}
	if committed.Summary.CreatedCount != 2 || committed.Summary.FailedCount != 0 {
		t.Fatalf("commit summary = %+v", committed.Summary)
	}

	// The commit must be in the audit history.
	var history []struct {
		TableKey     string `json:"table_key"`
		FileName     string `json:"file_name"`
		CreatedCount int    `json:"created_count"`
	}
	if code := doJSON(t, mux, cookie, "GET", "/api/import/history", ``, &history); code != http.StatusOK {
		t.Fatalf("history status = %d", code)
	}
	if len(history) != 1 || history[0].TableKey != "trainers" || history[0].CreatedCount != 2 {
		t.Fatalf("history = %+v", history)
	}
}

// TestImportRequiresStaffRole verifies the wizard endpoints are not reachable
// without a session.
func TestImportRequiresStaffRole(t *testing.T) {
	mux, _ := setupTestServer(t)

	req := httptest.NewRequest("GET", "/api/import/schemas", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("unauthenticated schemas status = %d, want redirect", rec.Code)
	}
}

// TestNoticeLifecycle creates a draft notice and publishes it over HTTP,
// checking the markdown is rendered to HTML in responses.
func TestNoticeLifecycle(t *testing.T) {
	mux, cookie := setupTestServer(t)

	var created struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		ContentHTML string `json:"content_html"`
	}
	code := doJSON(t, mux, cookie, "POST", "/api/notices",
		`{"type":"club_wide","title":"Season opener","content":"First practice **Sunday**.","target_id":""}`, &created)
	if code != http.StatusCreated {
		t.Fatalf("create notice status = %d", code)
	}
	if created.Status != "draft" {
		t.Errorf("created status = %q, want draft", created.Status)
	}
	if !strings.Contains(created.ContentHTML, "<strong>Sunday</strong>") {
		t.Errorf("markdown not rendered: %q", created.ContentHTML)
	}

	var published struct {
		Status string `json:"status"`
	}
	if code := doJSON(t, mux, cookie, "POST", "/api/notices/"+created.ID+"/publish", ``, &published); code != http.StatusOK {
		t.Fatalf("publish status = %d", code)
	}
	if published.Status != "published" {
		t.Errorf("published status = %q", published.Status)
	}
}

// TestAttendanceAndPayments exercises the attendance and payment endpoints.
func TestAttendanceAndPayments(t *testing.T) {
	mux, cookie := setupTestServer(t)

	// Attendance needs an existing trainee row for the foreign key.
	var marked struct {
		ID string `json:"id"`
	}
	if _, err := stores.RecordStore.Insert(context.Background(), "trainees", map[string]any{
		"id": "t-1", "name_ar": "أحمد", "status": "active",
	}); err != nil {
		t.Fatalf("insert trainee: %v", err)
	}

	code := doJSON(t, mux, cookie, "POST", "/api/attendance",
		`{"trainee_id":"t-1","class_date":"2026-03-01","present":true}`, &marked)
	if code != http.StatusOK || marked.ID == "" {
		t.Fatalf("mark attendance status = %d, id = %q", code, marked.ID)
	}

	var attendance []struct {
		TraineeID string `json:"trainee_id"`
		Present   bool   `json:"present"`
	}
	if code := doJSON(t, mux, cookie, "GET", "/api/attendance?date=2026-03-01", ``, &attendance); code != http.StatusOK {
		t.Fatalf("list attendance status = %d", code)
	}
	if len(attendance) != 1 || !attendance[0].Present {
		t.Fatalf("attendance = %+v", attendance)
	}

	var paid struct {
		ID string `json:"id"`
	}
	code = doJSON(t, mux, cookie, "POST", "/api/payments",
		`{"trainee_id":"t-1","amount":350,"month":"2026-03","method":"cash"}`, &paid)
	if code != http.StatusCreated {
		t.Fatalf("record payment status = %d", code)
	}

	var payments []struct {
		Amount float64 `json:"amount"`
		Method string  `json:"method"`
	}
	if code := doJSON(t, mux, cookie, "GET", "/api/payments?month=2026-03", ``, &payments); code != http.StatusOK {
		t.Fatalf("list payments status = %d", code)
	}
	if len(payments) != 1 || payments[0].Amount != 350 || payments[0].Method != "cash" {
		t.Fatalf("payments = %+v", payments)
	}
}
