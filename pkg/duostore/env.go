package duostore

import (
	"fmt"
	"os"
	"strings"

	"github.com/duostore/duostore_sdk_go/internal/devseed"
	"github.com/duostore/duostore_sdk_go/pkg/duostore/mock"
)

const (
	envMode       = "DUOSTORE_RUNTIME_MODE"
	envLocalURL   = "DUOSTORE_LOCAL_API_URL"
	envSessionURL = "DUOSTORE_SESSION_API_URL"
	envMockSeed   = "DUOSTORE_MOCK_SEED"

	modeAuto = "auto"
	modeHTTP = "http"
	modeMock = "mock"
)

// NewFromEnv initialises an Accessor from duostore environment variables and
// returns the resolved mode ("http" or "mock"). HTTP mode requires base URLs
// for both scope roots; mock mode builds in-memory stores, optionally seeded
// from the file named by DUOSTORE_MOCK_SEED.
func NewFromEnv() (accessor *Accessor, mode string, err error) {
	mode = strings.ToLower(strings.TrimSpace(os.Getenv(envMode)))
	localURL := strings.TrimSpace(os.Getenv(envLocalURL))
	sessionURL := strings.TrimSpace(os.Getenv(envSessionURL))

	switch mode {
	case "", modeAuto:
		if localURL != "" && sessionURL != "" {
			return newHTTPAccessor(localURL, sessionURL)
		}
		return newMockAccessor()
	case modeHTTP:
		if localURL == "" || sessionURL == "" {
			return nil, "", fmt.Errorf("duostore: HTTP mode requires %s and %s", envLocalURL, envSessionURL)
		}
		return newHTTPAccessor(localURL, sessionURL)
	case modeMock:
		return newMockAccessor()
	default:
		return nil, "", fmt.Errorf("duostore: unsupported %s value %q", envMode, mode)
	}
}

func newHTTPAccessor(localURL, sessionURL string) (*Accessor, string, error) {
	local, err := NewHTTPStorage(localURL)
	if err != nil {
		return nil, "", fmt.Errorf("duostore: init local HTTP storage: %w", err)
	}
	session, err := NewHTTPStorage(sessionURL)
	if err != nil {
		return nil, "", fmt.Errorf("duostore: init session HTTP storage: %w", err)
	}
	return New(local, session), modeHTTP, nil
}

func newMockAccessor() (*Accessor, string, error) {
	local := mock.New()
	session := mock.New()

	if path := strings.TrimSpace(os.Getenv(envMockSeed)); path != "" {
		entries, err := devseed.Load(path)
		if err != nil {
			return nil, "", fmt.Errorf("duostore: load mock seed: %w", err)
		}
		if err := local.Seed(devseed.ForScope(entries, string(Local))); err != nil {
			return nil, "", fmt.Errorf("duostore: apply local seed: %w", err)
		}
		if err := session.Seed(devseed.ForScope(entries, string(Session))); err != nil {
			return nil, "", fmt.Errorf("duostore: apply session seed: %w", err)
		}
	}
	return New(local, session), modeMock, nil
}
