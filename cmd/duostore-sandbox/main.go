// Command duostore-sandbox runs a local HTTP double of the duostore host
// storage service. It mounts two independent in-memory stores under /local
// and /session so SDK code can exercise the HTTP runtime mode without a
// real host, with optional latency and failure injection for resilience
// testing.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/duostore/duostore_sdk_go/internal/devseed"
	"github.com/duostore/duostore_sdk_go/internal/hostapi"
	"github.com/duostore/duostore_sdk_go/pkg/duostore/mock"
)

// faultConfig describes the artificial misbehavior injected in front of
// every handler: a fixed latency plus a random share of failed requests.
type faultConfig struct {
	latency time.Duration
	rate    float64
	code    int
}

func main() {
	addr := flag.String("addr", ":8787", "listen address")
	seed := flag.String("seed", "", "path to JSON seed file for the mock stores")
	latency := flag.Duration("latency", 0, "artificial latency to inject per request")
	fail := flag.String("fail", "", "failure injection (rate=<0..1>,code=<httpStatus>)")
	flag.Parse()

	faults, err := parseFaultFlag(*fail)
	if err != nil {
		log.Fatalf("parse fail flag: %v", err)
	}
	faults.latency = *latency

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	local := mock.New()
	session := mock.New()
	if *seed != "" {
		entries, err := devseed.Load(*seed)
		if err != nil {
			log.Fatalf("load seed: %v", err)
		}
		if err := local.Seed(devseed.ForScope(entries, "local")); err != nil {
			log.Fatalf("apply local seed: %v", err)
		}
		if err := session.Seed(devseed.ForScope(entries, "session")); err != nil {
			log.Fatalf("apply session seed: %v", err)
		}
	}

	mux := http.NewServeMux()
	mountScope(mux, "/local", local, faults, rng)
	mountScope(mux, "/session", session, faults, rng)

	server := &http.Server{
		Addr:    *addr,
		Handler: mux,
	}

	log.Printf("duostore-sandbox listening on %s", *addr)
	host := *addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	fmt.Println()
	fmt.Println("export DUOSTORE_RUNTIME_MODE=http")
	fmt.Printf("export DUOSTORE_LOCAL_API_URL=http://%s/local\n", host)
	fmt.Printf("export DUOSTORE_SESSION_API_URL=http://%s/session\n", host)
	fmt.Println()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}

func mountScope(mux *http.ServeMux, root string, store *mock.Store, faults faultConfig, rng *rand.Rand) {
	handle := func(path string, h func(http.ResponseWriter, *http.Request, *mock.Store)) {
		mux.HandleFunc(root+path, faults.wrap(rng, func(w http.ResponseWriter, r *http.Request) {
			h(w, r, store)
		}))
	}
	handle("/get", handleGet)
	handle("/set", handleSet)
	handle("/remove", handleRemove)
	handle("/clear", handleClear)
	handle("/get_status", handleStatus)
}

// wrap applies the configured latency and random failures before next runs.
func (f faultConfig) wrap(rng *rand.Rand, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if f.latency > 0 {
			time.Sleep(f.latency)
		}
		if f.rate > 0 && rng.Float64() < f.rate {
			code := f.code
			if code == 0 {
				code = http.StatusInternalServerError
			}
			http.Error(w, "injected fault", code)
			return
		}
		next(w, r)
	}
}

func handleGet(w http.ResponseWriter, r *http.Request, store *mock.Store) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name parameter", http.StatusBadRequest)
		return
	}
	text, ok, err := store.GetItem(r.Context(), name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	body, err := hostapi.WrapText(text, ok)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func handleSet(w http.ResponseWriter, r *http.Request, store *mock.Store) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var payload struct {
		Name string `json:"name"`
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if !json.Valid([]byte(payload.Text)) {
		http.Error(w, "text must be valid JSON", http.StatusBadRequest)
		return
	}
	if err := store.SetItem(r.Context(), payload.Name, payload.Text); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, true)
}

func handleRemove(w http.ResponseWriter, r *http.Request, store *mock.Store) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := store.RemoveItem(r.Context(), payload.Name); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, true)
}

func handleClear(w http.ResponseWriter, r *http.Request, store *mock.Store) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := store.Clear(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, true)
}

func handleStatus(w http.ResponseWriter, r *http.Request, store *mock.Store) {
	body, err := hostapi.Wrap(map[string]any{"names": store.Names()})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// parseFaultFlag reads the -fail flag, a comma-separated list of key=value
// pairs. Recognized keys are rate (share of requests to fail, 0 to 1) and
// code (HTTP error status to answer with, defaulting to 500).
func parseFaultFlag(raw string) (faultConfig, error) {
	cfg := faultConfig{}
	if strings.TrimSpace(raw) == "" {
		return cfg, nil
	}
	cfg.code = http.StatusInternalServerError
	for _, pair := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			return faultConfig{}, fmt.Errorf("fault option %q: want key=value", pair)
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "rate":
			rate, err := strconv.ParseFloat(value, 64)
			if err != nil || rate < 0 || rate > 1 {
				return faultConfig{}, fmt.Errorf("fault rate %q: want a number between 0 and 1", value)
			}
			cfg.rate = rate
		case "code":
			code, err := strconv.Atoi(value)
			if err != nil || code < 400 || code > 599 {
				return faultConfig{}, fmt.Errorf("fault code %q: want an HTTP error status", value)
			}
			cfg.code = code
		default:
			return faultConfig{}, fmt.Errorf("fault option %q: unknown key", key)
		}
	}
	return cfg, nil
}
