package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "courtside/internal/adapters/email"
	web "courtside/internal/adapters/http"
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

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// WAL mode, foreign keys, and a busy timeout keep concurrent readers happy
	dbPath := envOrDefault("COURTSIDE_DB", "courtside.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:    acctStore,
		TraineeStore:    traineeStore.NewSQLiteStore(timedDB),
		TrainerStore:    trainerStore.NewSQLiteStore(timedDB),
		ClassStore:      classStore.NewSQLiteStore(timedDB),
		ScheduleStore:   scheduleStore.NewSQLiteStore(timedDB),
		AttendanceStore: attendanceStore.NewSQLiteStore(timedDB),
		PaymentStore:    paymentStore.NewSQLiteStore(timedDB),
		NoticeStore:     noticeStore.NewSQLiteStore(timedDB),
		ImportLogStore:  importlogStore.NewSQLiteStore(timedDB),
		RecordStore:     recordsStore.NewSQLiteStore(timedDB),
	}

	// Seed default admin account if no accounts exist
	adminEmail := envOrDefault("COURTSIDE_ADMIN_EMAIL", "admin@courtside.example")
	adminPassword := os.Getenv("COURTSIDE_ADMIN_PASSWORD")
	if adminPassword != "" {
		seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore}
		if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
			log.Fatalf("failed to seed admin: %v", err)
		}
	} else if os.Getenv("COURTSIDE_ENV") == "production" {
		log.Println("WARNING: COURTSIDE_ADMIN_PASSWORD is not set — no admin account will be seeded")
	}

	// Configure email sender for import summary digests
	resendKey := os.Getenv("COURTSIDE_RESEND_KEY")
	emailFrom := envOrDefault("COURTSIDE_RESEND_FROM", "Courtside <noreply@courtside.example>")
	summaryTo := envOrDefault("COURTSIDE_SUMMARY_EMAIL", adminEmail)
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, summaryTo)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, "")
		log.Println("Email sender configured (noop — set COURTSIDE_RESEND_KEY for real delivery)")
	}

	mux := web.NewMux("static", stores, collector)

	addr := envOrDefault("COURTSIDE_ADDR", ":8080")
	log.Printf("Courtside %s starting on %s (env=%s)", version, addr, envOrDefault("COURTSIDE_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
