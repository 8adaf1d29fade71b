package duostore

import (
	"context"
	"fmt"
	"net/url"

	"github.com/duostore/duostore_sdk_go/internal/hostapi"
	"github.com/duostore/duostore_sdk_go/internal/httpx"
)

// httpStorage speaks the duostore host storage service wire API. Each scope
// is a separate service root, so one httpStorage backs exactly one scope.
type httpStorage struct {
	client *httpx.Client
}

// NewHTTPStorage returns a Storage bound to one scope root of the host
// storage service.
func NewHTTPStorage(baseURL string) (Storage, error) {
	client, err := httpx.New(baseURL)
	if err != nil {
		return nil, err
	}
	return &httpStorage{client: client}, nil
}

func (s *httpStorage) GetItem(ctx context.Context, name string) (string, bool, error) {
	if s == nil || s.client == nil {
		return "", false, fmt.Errorf("duostore: http storage not configured")
	}
	body, err := s.client.GetJSON(ctx, "get", url.Values{"name": {name}})
	if err != nil {
		return "", false, err
	}
	return hostapi.ExtractText(body)
}

func (s *httpStorage) SetItem(ctx context.Context, name, text string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("duostore: http storage not configured")
	}
	_, err := s.client.PostJSON(ctx, "set", map[string]any{
		"name": name,
		"text": text,
	})
	return err
}

func (s *httpStorage) RemoveItem(ctx context.Context, name string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("duostore: http storage not configured")
	}
	_, err := s.client.PostJSON(ctx, "remove", map[string]any{
		"name": name,
	})
	return err
}

func (s *httpStorage) Clear(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("duostore: http storage not configured")
	}
	_, err := s.client.PostJSON(ctx, "clear", nil)
	return err
}
