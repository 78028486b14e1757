package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
)

// Exemplo: um workflow falso para rodar o relay localmente.
//
//	UPSTREAM_URL=http://localhost:8081/webhook/chat go run ./cmd/relay
//
// A forma da resposta é escolhida pela mensagem: "/shape <nome> <texto>".
func main() {
	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("example workflow listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Post("/webhook/chat", handleChat)
	return r
}

type chatRequest struct {
	Message string `json:"message"`
}

func handleChat(w http.ResponseWriter, r *http.Request) {
	tenant := r.Header.Get("x-client-id")
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		log.Printf("workflow tenant=%q missing bearer credential", tenant)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}
	var req chatRequest
	_ = json.Unmarshal(raw, &req)

	shape, text := parseShape(req.Message)
	log.Printf("workflow tenant=%q request_id=%q shape=%s", tenant, r.Header.Get("X-Request-Id"), shape)

	switch shape {
	case "array":
		writeJSON(w, http.StatusOK, []map[string]string{{"message": text}})
	case "nested":
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{"answer": text}})
	case "object":
		writeJSON(w, http.StatusOK, map[string]any{"output": map[string]any{"items": []string{text}}})
	case "string":
		writeJSON(w, http.StatusOK, text)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, text)
	case "empty":
		w.WriteHeader(http.StatusOK)
	case "error":
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": text})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"output": text})
	}
}

// parseShape separa "/shape array olá" em ("array", "olá").
// Sem prefixo, ecoa a mensagem no formato padrão {"output": ...}.
func parseShape(msg string) (string, string) {
	msg = strings.TrimSpace(msg)
	rest, ok := strings.CutPrefix(msg, "/shape ")
	if !ok {
		if msg == "" {
			msg = "hello from the workflow"
		}
		return "output", "echo: " + msg
	}
	shape, text, _ := strings.Cut(strings.TrimSpace(rest), " ")
	text = strings.TrimSpace(text)
	if text == "" {
		text = "hello from the workflow"
	}
	return strings.ToLower(shape), text
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
