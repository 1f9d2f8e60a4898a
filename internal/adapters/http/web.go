package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"courtside/internal/adapters/email"
	"courtside/internal/adapters/http/middleware"
	"courtside/internal/adapters/http/perf"
	accountStore "courtside/internal/adapters/storage/account"
	attendanceStore "courtside/internal/adapters/storage/attendance"
	classStore "courtside/internal/adapters/storage/class"
	importlogStore "courtside/internal/adapters/storage/importlog"
	noticeStore "courtside/internal/adapters/storage/notice"
	paymentStore "courtside/internal/adapters/storage/payment"
	scheduleStore "courtside/internal/adapters/storage/schedule"
	traineeStore "courtside/internal/adapters/storage/trainee"
	trainerStore "courtside/internal/adapters/storage/trainer"
	"courtside/internal/application/orchestrators"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore    accountStore.Store
	TraineeStore    traineeStore.Store
	TrainerStore    trainerStore.Store
	ClassStore      classStore.Store
	ScheduleStore   scheduleStore.Store
	AttendanceStore attendanceStore.Store
	PaymentStore    paymentStore.Store
	NoticeStore     noticeStore.Store
	ImportLogStore  importlogStore.Store
	RecordStore     orchestrators.RecordStore
}

// loadCSRFKey reads the CSRF secret from COURTSIDE_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("COURTSIDE_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("COURTSIDE_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("COURTSIDE_ENV") == "production" {
		log.Fatal("COURTSIDE_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set COURTSIDE_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var summaryRecipient string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, recipient string) {
	emailSender = sender
	emailFromAddress = from
	summaryRecipient = recipient
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("COURTSIDE_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}

// registerRoutes attaches every application route to the mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", handleLogin)
	mux.HandleFunc("POST /api/logout", handleLogout)

	staff := middleware.RequireRole("admin", "trainer")

	// Import wizard
	mux.Handle("GET /api/import/schemas", staff(http.HandlerFunc(handleImportSchemas)))
	mux.Handle("POST /api/import/sheet", staff(http.HandlerFunc(handleImportSheet)))
	mux.Handle("POST /api/import/table", staff(http.HandlerFunc(handleImportSelectTable)))
	mux.Handle("POST /api/import/mappings", staff(http.HandlerFunc(handleImportConfirmMappings)))
	mux.Handle("GET /api/import/preview", staff(http.HandlerFunc(handleImportPreview)))
	mux.Handle("POST /api/import/proceed", staff(http.HandlerFunc(handleImportProceed)))
	mux.Handle("GET /api/import/references", staff(http.HandlerFunc(handleImportReferences)))
	mux.Handle("POST /api/import/references", staff(http.HandlerFunc(handleImportSetReference)))
	mux.Handle("POST /api/import/resolve", staff(http.HandlerFunc(handleImportResolve)))
	mux.Handle("POST /api/import/commit", staff(http.HandlerFunc(handleImportCommit)))
	mux.Handle("POST /api/import/back", staff(http.HandlerFunc(handleImportBack)))
	mux.Handle("GET /api/import/history", staff(http.HandlerFunc(handleImportHistory)))

	// Club data
	mux.Handle("GET /api/trainees", staff(http.HandlerFunc(handleTraineeRoster)))
	mux.Handle("GET /api/classes", staff(http.HandlerFunc(handleClassList)))
	mux.Handle("GET /api/schedule", staff(http.HandlerFunc(handleScheduleList)))
	mux.Handle("GET /api/attendance", staff(http.HandlerFunc(handleAttendanceList)))
	mux.Handle("POST /api/attendance", staff(http.HandlerFunc(handleAttendanceMark)))
	mux.Handle("GET /api/payments", staff(http.HandlerFunc(handlePaymentList)))
	mux.Handle("POST /api/payments", staff(http.HandlerFunc(handlePaymentRecord)))

	// Notice board
	mux.Handle("GET /api/notices", staff(http.HandlerFunc(handleNoticeList)))
	mux.Handle("POST /api/notices", staff(http.HandlerFunc(handleNoticeCreate)))
	mux.Handle("POST /api/notices/{id}/publish", staff(http.HandlerFunc(handleNoticePublish)))

	// Admin
	admin := middleware.RequireRole("admin")
	mux.Handle("POST /api/admin/accounts", admin(http.HandlerFunc(handleAccountCreate)))
	mux.Handle("GET /api/admin/perf", admin(http.HandlerFunc(handlePerfSnapshot)))
}
