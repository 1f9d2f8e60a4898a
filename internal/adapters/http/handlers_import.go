package web

import (
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"courtside/internal/adapters/http/middleware"
	"courtside/internal/adapters/sheet"
	"courtside/internal/application/orchestrators"
	"courtside/internal/application/projections"
	"courtside/internal/application/wizard"
	"courtside/internal/domain/importing"
)

// importSessions holds one in-progress wizard per account. A new upload
// replaces any previous session for the same account; abandoned sessions
// simply get overwritten.
var importSessions = struct {
	mu       sync.Mutex
	byActive map[string]*wizard.Session
}{byActive: make(map[string]*wizard.Session)}

func putImportSession(accountID string, s *wizard.Session) {
	importSessions.mu.Lock()
	defer importSessions.mu.Unlock()
	importSessions.byActive[accountID] = s
}

func getImportSession(accountID string) (*wizard.Session, bool) {
	importSessions.mu.Lock()
	defer importSessions.mu.Unlock()
	s, ok := importSessions.byActive[accountID]
	return s, ok
}

// requireImportSession fetches the caller's wizard session or writes a 404.
func requireImportSession(w http.ResponseWriter, r *http.Request) (*wizard.Session, bool) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	ws, ok := getImportSession(sess.AccountID)
	if !ok {
		http.Error(w, "no import in progress; upload a sheet first", http.StatusNotFound)
		return nil, false
	}
	return ws, true
}

// wizardError maps wizard-layer errors onto HTTP statuses.
func wizardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wizard.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, wizard.ErrUnknownTable), errors.Is(err, wizard.ErrUnknownReference):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		var incomplete *orchestrators.ResolutionIncompleteError
		if errors.As(err, &incomplete) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":            "references incomplete",
				"incomplete_names": incomplete.Incomplete,
			})
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

// --- Wire shapes ---

type mappingPayload struct {
	ExcelColumn string `json:"excel_column"`
	DBField     string `json:"db_field"`
	Confidence  int    `json:"confidence"`
}

func mappingsToPayload(ms []importing.ColumnMapping) []mappingPayload {
	out := []mappingPayload{}
	for _, m := range ms {
		out = append(out, mappingPayload{ExcelColumn: m.ExcelColumn, DBField: m.DBField, Confidence: m.Confidence})
	}
	return out
}

func mappingsFromPayload(ps []mappingPayload) []importing.ColumnMapping {
	out := make([]importing.ColumnMapping, 0, len(ps))
	for _, p := range ps {
		out = append(out, importing.ColumnMapping{ExcelColumn: p.ExcelColumn, DBField: p.DBField, Confidence: p.Confidence})
	}
	return out
}

type previewPayload struct {
	Index      int            `json:"index"`
	Values     map[string]any `json:"values"`
	Status     string         `json:"status"`
	Messages   []string       `json:"messages,omitempty"`
	ExistingID string         `json:"existing_id,omitempty"`
}

func previewsToPayload(rows []importing.PreviewRow) []previewPayload {
	out := []previewPayload{}
	for _, row := range rows {
		out = append(out, previewPayload{
			Index:      row.Index,
			Values:     row.Values,
			Status:     row.Status,
			Messages:   row.Messages,
			ExistingID: row.ExistingID,
		})
	}
	return out
}

type unresolvedPayload struct {
	Name           string            `json:"name"`
	ReferenceTable string            `json:"reference_table"`
	DisplayField   string            `json:"display_field"`
	Attributes     map[string]string `json:"attributes,omitempty"`
	UsedByRowCount int               `json:"used_by_row_count"`
}

func unresolvedToPayload(refs []importing.UnresolvedReference) []unresolvedPayload {
	out := []unresolvedPayload{}
	for _, ref := range refs {
		out = append(out, unresolvedPayload{
			Name:           ref.Name,
			ReferenceTable: ref.ReferenceTable,
			DisplayField:   ref.DisplayField,
			Attributes:     ref.Attributes,
			UsedByRowCount: ref.UsedByRowCount,
		})
	}
	return out
}

type summaryPayload struct {
	CreatedCount int               `json:"created_count"`
	UpdatedCount int               `json:"updated_count"`
	FailedCount  int               `json:"failed_count"`
	Failures     []outcomePayload  `json:"failures,omitempty"`
	CreatedRefs  map[string]string `json:"created_refs,omitempty"`
}

type outcomePayload struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

func summaryToPayload(s importing.ImportSummary) summaryPayload {
	p := summaryPayload{
		CreatedCount: s.CreatedCount,
		UpdatedCount: s.UpdatedCount,
		FailedCount:  s.FailedCount,
		CreatedRefs:  s.CreatedRefs,
	}
	for _, f := range s.Failures {
		p.Failures = append(p.Failures, outcomePayload{Index: f.Index, Error: f.Error})
	}
	return p
}

// --- Handlers ---

// handleImportSchemas lists the importable tables and their fields.
func handleImportSchemas(w http.ResponseWriter, r *http.Request) {
	type fieldPayload struct {
		Key      string   `json:"key"`
		Label    string   `json:"label"`
		Required bool     `json:"required"`
		Kind     string   `json:"kind"`
		Options  []string `json:"options,omitempty"`
	}
	type schemaPayload struct {
		Key    string         `json:"key"`
		Label  string         `json:"label"`
		Fields []fieldPayload `json:"fields"`
	}
	out := []schemaPayload{}
	for _, schema := range importing.ListSchemas() {
		sp := schemaPayload{Key: schema.Key, Label: schema.Label}
		for _, f := range schema.Fields {
			sp.Fields = append(sp.Fields, fieldPayload{
				Key:      f.Key,
				Label:    f.Label,
				Required: f.Required,
				Kind:     f.Kind.String(),
				Options:  f.Options,
			})
		}
		out = append(out, sp)
	}
	writeJSON(w, http.StatusOK, out)
}

// maxSheetUploadBytes bounds sheet uploads (10 MiB covers any club roster).
const maxSheetUploadBytes = 10 << 20

// handleImportSheet receives an uploaded .xlsx or .csv file and starts a new
// wizard session for the calling account, replacing any previous one.
func handleImportSheet(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxSheetUploadBytes)
	if err := r.ParseMultipartForm(maxSheetUploadBytes); err != nil {
		http.Error(w, "invalid or oversized upload", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	parsed, err := sheet.Parse(header.Filename, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	snapshot, err := projections.QueryReferenceSnapshot(r.Context(), projections.ReferenceSnapshotDeps{
		TrainerStore: stores.TrainerStore,
		ClassStore:   stores.ClassStore,
		TraineeStore: stores.TraineeStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	ws := wizard.NewSession(snapshot)
	if err := ws.ProvideSheet(parsed); err != nil {
		wizardError(w, err)
		return
	}
	putImportSession(sess.AccountID, ws)

	writeJSON(w, http.StatusOK, map[string]any{
		"step":      string(ws.Step()),
		"file_name": parsed.Name,
		"headers":   parsed.Headers,
		"row_count": len(parsed.Rows),
	})
}

// handleImportSelectTable picks the destination table and returns the
// automatic column mappings.
func handleImportSelectTable(w http.ResponseWriter, r *http.Request) {
	ws, ok := requireImportSession(w, r)
	if !ok {
		return
	}
	var req struct {
		TableKey string `json:"table_key"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	mappings, err := ws.SelectTable(req.TableKey)
	if err != nil {
		wizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"step":     string(ws.Step()),
		"mappings": mappingsToPayload(mappings),
	})
}

// handleImportConfirmMappings accepts adjusted mappings (or confirms the
// current ones when the body carries none) and returns the validated preview.
func handleImportConfirmMappings(w http.ResponseWriter, r *http.Request) {
	ws, ok := requireImportSession(w, r)
	if !ok {
		return
	}
	var req struct {
		Mappings []mappingPayload `json:"mappings"`
	}
	// An empty body confirms the current mappings unchanged.
	if err := strictDecode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	var mappings []importing.ColumnMapping
	if req.Mappings != nil {
		mappings = mappingsFromPayload(req.Mappings)
	}
	previews, err := ws.ConfirmMappings(mappings)
	if err != nil {
		wizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"step":       string(ws.Step()),
		"collisions": ws.Collisions(),
		"previews":   previewsToPayload(previews),
	})
}

// handleImportPreview re-reads the current preview without changing state.
func handleImportPreview(w http.ResponseWriter, r *http.Request) {
	ws, ok := requireImportSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"step":       string(ws.Step()),
		"table_key":  ws.TableKey(),
		"collisions": ws.Collisions(),
		"previews":   previewsToPayload(ws.Previews()),
	})
}

// handleImportProceed leaves the preview step, landing on reference
// resolution when unknown names remain or directly on committing.
func handleImportProceed(w http.ResponseWriter, r *http.Request) {
	ws, ok := requireImportSession(w, r)
	if !ok {
		return
	}
	next, err := ws.ProceedFromPreview()
	if err != nil {
		wizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"step":       string(next),
		"unresolved": unresolvedToPayload(ws.Unresolved()),
	})
}

// handleImportReferences lists the unresolved references awaiting attributes.
func handleImportReferences(w http.ResponseWriter, r *http.Request) {
	ws, ok := requireImportSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"step":       string(ws.Step()),
		"unresolved": unresolvedToPayload(ws.Unresolved()),
	})
}

// handleImportSetReference stores attributes for one pending reference.
func handleImportSetReference(w http.ResponseWriter, r *http.Request) {
	ws, ok := requireImportSession(w, r)
	if !ok {
		return
	}
	var req struct {
		Name       string            `json:"name"`
		Attributes map[string]string `json:"attributes"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := ws.SetReferenceAttributes(req.Name, req.Attributes); err != nil {
		wizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"step":       string(ws.Step()),
		"unresolved": unresolvedToPayload(ws.Unresolved()),
	})
}

// handleImportResolve confirms all references are complete and moves on to
// committing. Incomplete references come back as 422 with the failing names.
func handleImportResolve(w http.ResponseWriter, r *http.Request) {
	ws, ok := requireImportSession(w, r)
	if !ok {
		return
	}
	if err := ws.ConfirmResolutions(); err != nil {
		wizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"step": string(ws.Step())})
}

// handleImportCommit writes the import and returns the summary. Afterwards a
// digest email goes to the configured recipient, best effort.
func handleImportCommit(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	ws, ok := requireImportSession(w, r)
	if !ok {
		return
	}

	fileName := ws.Sheet().Name
	tableKey := ws.TableKey()
	summary, err := ws.Commit(r.Context(), orchestrators.CommitImportDeps{
		Records:    stores.RecordStore,
		ImportLog:  stores.ImportLogStore,
		GenerateID: generateID,
	}, fileName, sess.Email)
	if err != nil {
		wizardError(w, err)
		return
	}

	orchestrators.ExecuteSendImportSummary(r.Context(), orchestrators.SendImportSummaryInput{
		TableKey:  tableKey,
		FileName:  fileName,
		Summary:   summary,
		Recipient: summaryRecipient,
	}, orchestrators.SendImportSummaryDeps{Sender: emailSender})

	writeJSON(w, http.StatusOK, map[string]any{
		"step":    string(ws.Step()),
		"summary": summaryToPayload(summary),
	})
}

// handleImportBack steps the wizard backwards. The target step decides which
// transition applies; downstream state is discarded either way.
func handleImportBack(w http.ResponseWriter, r *http.Request) {
	ws, ok := requireImportSession(w, r)
	if !ok {
		return
	}
	var req struct {
		To string `json:"to"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var err error
	switch wizard.Step(req.To) {
	case wizard.StepSelectTable:
		err = ws.BackToSelectTable()
	case wizard.StepMapColumns:
		err = ws.BackToMapColumns()
	default:
		http.Error(w, "unknown target step", http.StatusBadRequest)
		return
	}
	if err != nil {
		wizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"step":     string(ws.Step()),
		"mappings": mappingsToPayload(ws.Mappings()),
	})
}

// handleImportHistory lists past imports, newest first.
func handleImportHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := projections.QueryImportHistory(r.Context(), queryInt(r, "limit", 20), projections.ImportHistoryDeps{
		ImportLogStore: stores.ImportLogStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	type historyRow struct {
		ID           string `json:"id"`
		TableKey     string `json:"table_key"`
		TableLabel   string `json:"table_label"`
		FileName     string `json:"file_name"`
		TotalRows    int    `json:"total_rows"`
		CreatedCount int    `json:"created_count"`
		UpdatedCount int    `json:"updated_count"`
		FailedCount  int    `json:"failed_count"`
		ImportedBy   string `json:"imported_by"`
		CreatedAt    string `json:"created_at"`
	}
	out := []historyRow{}
	for _, row := range rows {
		out = append(out, historyRow{
			ID:           row.Entry.ID,
			TableKey:     row.Entry.TableKey,
			TableLabel:   row.TableLabel,
			FileName:     row.Entry.FileName,
			TotalRows:    row.Entry.TotalRows,
			CreatedCount: row.Entry.CreatedCount,
			UpdatedCount: row.Entry.UpdatedCount,
			FailedCount:  row.Entry.FailedCount,
			ImportedBy:   row.Entry.ImportedBy,
			CreatedAt:    row.Entry.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
