package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"mailprobe/internal/config"
	"mailprobe/internal/mxcache"
	"mailprobe/internal/proxy"
	"mailprobe/internal/smtpprobe"
	"mailprobe/internal/types"
	"mailprobe/internal/verifier"
)

func main() {
	cfg := config.Load()

	dialer, err := proxy.New(cfg.ProxyURL)
	if err != nil {
		log.Fatalf("❌ Invalid proxy configuration: %v", err)
	}
	if dialer.Enabled() {
		fmt.Println("🛡️  SMTP proxying enabled")
	} else {
		fmt.Println("✅ Running with direct SMTP connections (no proxy configured)")
	}

	resolver := mxcache.NewResolver(cfg.MXCacheTTL, cfg.DNSTimeout)
	prober := &smtpprobe.Prober{
		Dialer:     dialer,
		Timeout:    cfg.SMTPTimeout,
		Pause:      cfg.ProbePause,
		HeloDomain: cfg.HeloDomain,
		MailFrom:   cfg.MailFrom,
	}
	v := verifier.New(resolver, prober)

	app := &app{verifier: v, maxWorkers: cfg.MaxWorkers, apiSecretKey: cfg.APISecretKey}

	// 1. Define Handlers
	mux := http.NewServeMux()
	mux.HandleFunc("/verify", withRequestID(enableCORS(requireAPIKey(app.apiSecretKey, app.verifyHandler))))
	mux.HandleFunc("/bulk", withRequestID(enableCORS(requireAPIKey(app.apiSecretKey, app.bulkHandler))))
	mux.HandleFunc("/info", withRequestID(enableCORS(infoHandler)))

	// 2. Server Configuration
	server := &http.Server{
		Addr:         ":8080",
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// 3. Graceful shutdown on SIGTERM / SIGINT.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		fmt.Println("🚀 Mailprobe Engine running on :8080")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	<-quit
	fmt.Println("⏳ Shutdown signal received, draining in-flight requests...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}
	fmt.Println("✅ Server shut down cleanly.")
}

// emailVerifier is the subset of *verifier.Verifier the handlers depend on,
// narrow enough that tests can swap in a fake without standing up real DNS
// or SMTP collaborators.
type emailVerifier interface {
	VerifyEmail(ctx context.Context, email string) types.Result
}

// app bundles the handlers' shared, request-independent collaborators.
type app struct {
	verifier     emailVerifier
	maxWorkers   int
	apiSecretKey string
}

// enableCORS middleware sets CORS headers for frontend access.
// Note: Access-Control-Allow-Origin is set to "*" which is permissive.
// Restrict this to your specific frontend origin in production.
func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// withRequestID tags every request with a fresh UUID and logs it alongside
// the method/path/duration, so a given request's log lines can be
// correlated across a multi-line handler without a persisted job row.
func withRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.New().String()
		w.Header().Set("X-Request-ID", reqID)

		start := time.Now()
		next(w, r)
		log.Printf("[%s] %s %s %s", reqID, r.Method, r.URL.Path, time.Since(start))
	}
}

func infoHandler(w http.ResponseWriter, r *http.Request) {
	guide := map[string]interface{}{
		"service": "Mailprobe Engine",
		"capabilities": []string{
			"MX resolution with TTL cache",
			"ESP-aware decoy/real/decoy SMTP probing",
			"Timing and entropy pattern scoring",
			"Bounded-concurrency bulk verification",
		},
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(guide); err != nil {
		log.Printf("❌ Error encoding /info response: %v", err)
	}
}
