package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

func (a *app) verifyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "Missing 'email' parameter", http.StatusBadRequest)
		return
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		http.Error(w, "Malformed email", http.StatusBadRequest)
		return
	}

	result := a.verifier.VerifyEmail(r.Context(), email)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("❌ Error encoding /verify response for %s: %v", email, err)
	}
}
