// Command finder runs the pattern-generate-and-try email finder as a small
// standalone HTTP service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mailprobe/internal/config"
	"mailprobe/internal/finder"
	"mailprobe/internal/mxcache"
	"mailprobe/internal/pattern"
	"mailprobe/internal/proxy"
	"mailprobe/internal/smtpprobe"
	"mailprobe/internal/types"
	"mailprobe/internal/verifier"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	dialer, err := proxy.New(cfg.ProxyURL)
	if err != nil {
		log.Fatalf("❌ Invalid proxy configuration: %v", err)
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

	app := &app{verifier: v, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/", app.homeHandler)
	mux.HandleFunc("/find", app.findHandler)

	server := &http.Server{
		Addr:         ":8090",
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		fmt.Println("🚀 Email Finder running on :8090")
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

// emailVerifier narrows *verifier.Verifier to the one method the handlers
// use, so tests can inject a scripted fake instead of a real resolver/prober.
type emailVerifier interface {
	VerifyEmail(ctx context.Context, email string) types.Result
}

type app struct {
	verifier emailVerifier
	logger   *slog.Logger
}

type findRequest struct {
	FullName string `json:"full_name"`
	Domain   string `json:"domain"`
}

type findResponse struct {
	Found *string `json:"found"`
}

func (a *app) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	guide := map[string]interface{}{
		"message":   "Email Finder API is live",
		"endpoints": []string{"/find"},
	}
	if err := json.NewEncoder(w).Encode(guide); err != nil {
		a.logger.Error("error encoding / response", "error", err)
	}
}

func (a *app) findHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req findRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	domain, err := pattern.CleanDomain(req.Domain)
	if err != nil {
		http.Error(w, "Invalid domain", http.StatusBadRequest)
		return
	}

	found, ok := finder.Find(r.Context(), a.verifier, a.logger, req.FullName, domain)
	if !ok {
		http.Error(w, "Could not generate email patterns (need at least a first name)", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(findResponse{Found: found}); err != nil {
		a.logger.Error("error encoding /find response", "error", err)
	}
}
