package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"courtside/internal/adapters/http/middleware"
	noticeStorage "courtside/internal/adapters/storage/notice"
	"courtside/internal/application/orchestrators"
	"courtside/internal/application/projections"
	noticeDomain "courtside/internal/domain/notice"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err.Error())
	}
}

// renderMarkdown converts markdown to sanitized HTML.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return ""
	}
	return buf.String()
}

// queryInt reads an integer query parameter with a fallback.
func queryInt(r *http.Request, name string, fallback int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

// --- Auth handlers ---

// handleLogin authenticates and sets the session cookie.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, orchestrators.ErrAccountLocked) {
			status = http.StatusForbidden
		}
		http.Error(w, err.Error(), status)
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	writeJSON(w, http.StatusOK, map[string]string{
		"account_id": result.AccountID,
		"email":      result.Email,
		"role":       result.Role,
	})
}

// handleLogout clears the session.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("courtside_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// --- Club data handlers ---

// handleTraineeRoster lists trainees with class names resolved.
func handleTraineeRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := projections.QueryTraineeRoster(r.Context(), projections.TraineeRosterInput{
		ClassID: r.URL.Query().Get("class_id"),
		Status:  r.URL.Query().Get("status"),
		Search:  r.URL.Query().Get("q"),
		Limit:   queryInt(r, "limit", 50),
		Offset:  queryInt(r, "offset", 0),
	}, projections.TraineeRosterDeps{
		TraineeStore: stores.TraineeStore,
		ClassStore:   stores.ClassStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	type rosterRow struct {
		ID         string  `json:"id"`
		NameAr     string  `json:"name_ar"`
		NameEn     string  `json:"name_en,omitempty"`
		Phone      string  `json:"phone,omitempty"`
		BirthDate  string  `json:"birth_date,omitempty"`
		ClassName  string  `json:"class_name,omitempty"`
		MonthlyFee float64 `json:"monthly_fee,omitempty"`
		Status     string  `json:"status"`
	}
	resp := struct {
		Rows  []rosterRow `json:"rows"`
		Total int         `json:"total"`
	}{Total: roster.Total, Rows: []rosterRow{}}
	for _, row := range roster.Rows {
		resp.Rows = append(resp.Rows, rosterRow{
			ID:         row.Trainee.ID,
			NameAr:     row.Trainee.NameAr,
			NameEn:     row.Trainee.NameEn,
			Phone:      row.Trainee.Phone,
			BirthDate:  row.Trainee.BirthDate,
			ClassName:  row.ClassName,
			MonthlyFee: row.Trainee.MonthlyFee,
			Status:     row.Trainee.Status,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleClassList lists classes.
func handleClassList(w http.ResponseWriter, r *http.Request) {
	classes, err := stores.ClassStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	type classRow struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		TrainerID string `json:"trainer_id,omitempty"`
		Season    string `json:"season,omitempty"`
	}
	rows := []classRow{}
	for _, c := range classes {
		rows = append(rows, classRow{ID: c.ID, Name: c.Name, TrainerID: c.TrainerID, Season: c.Season})
	}
	writeJSON(w, http.StatusOK, rows)
}

// --- Notice handlers ---

type noticeResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Title       string `json:"title"`
	ContentHTML string `json:"content_html"`
	TargetID    string `json:"target_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func toNoticeResponse(n noticeDomain.Notice) noticeResponse {
	return noticeResponse{
		ID:          n.ID,
		Type:        n.Type,
		Status:      n.Status,
		Title:       n.Title,
		ContentHTML: renderMarkdown(n.Content),
		TargetID:    n.TargetID,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
	}
}

// handleNoticeList returns the board, markdown rendered to HTML.
func handleNoticeList(w http.ResponseWriter, r *http.Request) {
	notices, err := stores.NoticeStore.List(r.Context(), noticeStorage.ListFilter{
		Status:   r.URL.Query().Get("status"),
		Type:     r.URL.Query().Get("type"),
		TargetID: r.URL.Query().Get("target_id"),
		Limit:    queryInt(r, "limit", 100),
		Offset:   queryInt(r, "offset", 0),
	})
	if err != nil {
		internalError(w, err)
		return
	}
	resp := []noticeResponse{}
	for _, n := range notices {
		resp = append(resp, toNoticeResponse(n))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleNoticeCreate creates a draft notice.
func handleNoticeCreate(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	var req struct {
		Type     string `json:"type"`
		Title    string `json:"title"`
		Content  string `json:"content"`
		TargetID string `json:"target_id"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	n, err := orchestrators.ExecuteCreateNotice(r.Context(), orchestrators.CreateNoticeInput{
		Type:      req.Type,
		Title:     req.Title,
		Content:   req.Content,
		TargetID:  req.TargetID,
		CreatedBy: sess.AccountID,
	}, orchestrators.CreateNoticeDeps{
		NoticeStore: stores.NoticeStore,
		GenerateID:  generateID,
		Now:         timeNow,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, toNoticeResponse(n))
}

// handleNoticePublish publishes a draft notice.
func handleNoticePublish(w http.ResponseWriter, r *http.Request) {
	n, err := orchestrators.ExecutePublishNotice(r.Context(), orchestrators.PublishNoticeInput{
		NoticeID: r.PathValue("id"),
	}, orchestrators.PublishNoticeDeps{
		NoticeStore: stores.NoticeStore,
		Now:         timeNow,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, toNoticeResponse(n))
}

// --- Admin handlers ---

// handleAccountCreate creates a staff account.
func handleAccountCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id, err := orchestrators.ExecuteCreateAccount(r.Context(), orchestrators.CreateAccountInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}, orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, orchestrators.ErrEmailAlreadyExists) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// handlePerfSnapshot returns request and query timing stats.
func handlePerfSnapshot(w http.ResponseWriter, r *http.Request) {
	since := timeNow().Add(-time.Hour)
	if v := queryInt(r, "minutes", 0); v > 0 {
		since = timeNow().Add(-time.Duration(v) * time.Minute)
	}
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(since, 10))
}
