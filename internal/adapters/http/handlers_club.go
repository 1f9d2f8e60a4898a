package web

import (
	"net/http"
	"time"

	attendanceDomain "courtside/internal/domain/attendance"
	paymentDomain "courtside/internal/domain/payment"
	scheduleDomain "courtside/internal/domain/schedule"
)

// handleScheduleList returns the weekly training schedule, optionally for a
// single class or day.
func handleScheduleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		items []scheduleDomain.Schedule
		err   error
	)
	switch {
	case r.URL.Query().Get("class_id") != "":
		items, err = stores.ScheduleStore.ListByClassID(ctx, r.URL.Query().Get("class_id"))
	case r.URL.Query().Get("day") != "":
		items, err = stores.ScheduleStore.ListByDay(ctx, r.URL.Query().Get("day"))
	default:
		items, err = stores.ScheduleStore.List(ctx)
	}
	if err != nil {
		internalError(w, err)
		return
	}
	rows := []scheduleRow{}
	for _, it := range items {
		rows = append(rows, scheduleRow{ID: it.ID, ClassID: it.ClassID, Day: it.Day, StartTime: it.StartTime, EndTime: it.EndTime})
	}
	writeJSON(w, http.StatusOK, rows)
}

type scheduleRow struct {
	ID        string `json:"id"`
	ClassID   string `json:"class_id"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// handleAttendanceMark records presence for one trainee on one date. Saving
// twice for the same id overwrites, so corrections are plain re-submits.
func handleAttendanceMark(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        string `json:"id"`
		TraineeID string `json:"trainee_id"`
		ClassDate string `json:"class_date"`
		Present   bool   `json:"present"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	att := attendanceDomain.Attendance{
		ID:        req.ID,
		TraineeID: req.TraineeID,
		ClassDate: req.ClassDate,
		Present:   req.Present,
	}
	if att.ID == "" {
		att.ID = generateID()
	}
	if err := att.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.AttendanceStore.Save(r.Context(), att); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": att.ID})
}

// handleAttendanceList returns attendance for a date or a trainee.
func handleAttendanceList(w http.ResponseWriter, r *http.Request) {
	type attendanceRow struct {
		ID        string `json:"id"`
		TraineeID string `json:"trainee_id"`
		ClassDate string `json:"class_date"`
		Present   bool   `json:"present"`
	}
	var (
		items []attendanceDomain.Attendance
		err   error
	)
	if traineeID := r.URL.Query().Get("trainee_id"); traineeID != "" {
		items, err = stores.AttendanceStore.ListByTrainee(r.Context(), traineeID)
	} else if date := r.URL.Query().Get("date"); date != "" {
		items, err = stores.AttendanceStore.ListByDate(r.Context(), date)
	} else {
		http.Error(w, "trainee_id or date query parameter required", http.StatusBadRequest)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	rows := []attendanceRow{}
	for _, it := range items {
		rows = append(rows, attendanceRow{ID: it.ID, TraineeID: it.TraineeID, ClassDate: it.ClassDate, Present: it.Present})
	}
	writeJSON(w, http.StatusOK, rows)
}

// handlePaymentRecord records a membership payment.
func handlePaymentRecord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TraineeID string  `json:"trainee_id"`
		Amount    float64 `json:"amount"`
		Month     string  `json:"month"`
		Method    string  `json:"method"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	p := paymentDomain.Payment{
		ID:        generateID(),
		TraineeID: req.TraineeID,
		Amount:    req.Amount,
		Month:     req.Month,
		Method:    req.Method,
		PaidAt:    timeNow(),
	}
	if err := p.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.PaymentStore.Save(r.Context(), p); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": p.ID})
}

// handlePaymentList returns payments for a trainee or a month.
func handlePaymentList(w http.ResponseWriter, r *http.Request) {
	type paymentRow struct {
		ID        string  `json:"id"`
		TraineeID string  `json:"trainee_id"`
		Amount    float64 `json:"amount"`
		Month     string  `json:"month"`
		Method    string  `json:"method"`
		PaidAt    string  `json:"paid_at"`
	}
	var (
		items []paymentDomain.Payment
		err   error
	)
	if traineeID := r.URL.Query().Get("trainee_id"); traineeID != "" {
		items, err = stores.PaymentStore.ListByTrainee(r.Context(), traineeID)
	} else if month := r.URL.Query().Get("month"); month != "" {
		items, err = stores.PaymentStore.ListByMonth(r.Context(), month)
	} else {
		http.Error(w, "trainee_id or month query parameter required", http.StatusBadRequest)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	rows := []paymentRow{}
	for _, it := range items {
		rows = append(rows, paymentRow{
			ID:        it.ID,
			TraineeID: it.TraineeID,
			Amount:    it.Amount,
			Month:     it.Month,
			Method:    it.Method,
			PaidAt:    it.PaidAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, rows)
}
