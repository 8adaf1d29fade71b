package hostapi_test

import (
	"testing"

	"github.com/duostore/duostore_sdk_go/internal/hostapi"
)

func TestWrapTextRoundTrip(t *testing.T) {
	body, err := hostapi.WrapText(`{"userId":123}`, true)
	if err != nil {
		t.Fatalf("WrapText: %v", err)
	}

	text, ok, err := hostapi.ExtractText(body)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !ok || text != `{"userId":123}` {
		t.Fatalf("round trip = %q ok=%v", text, ok)
	}
}

func TestWrapTextAbsent(t *testing.T) {
	body, err := hostapi.WrapText("", false)
	if err != nil {
		t.Fatalf("WrapText: %v", err)
	}
	text, ok, err := hostapi.ExtractText(body)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if ok || text != "" {
		t.Fatalf("expected absent marker, got %q ok=%v", text, ok)
	}
}

func TestExtractTextBareBody(t *testing.T) {
	// A response without the envelope is treated as the payload itself.
	text, ok, err := hostapi.ExtractText([]byte(`"bare"`))
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !ok || text != "bare" {
		t.Fatalf("bare body = %q ok=%v", text, ok)
	}

	_, ok, err = hostapi.ExtractText([]byte("null"))
	if err != nil || ok {
		t.Fatalf("null body should be absent, ok=%v err=%v", ok, err)
	}
	_, ok, err = hostapi.ExtractText(nil)
	if err != nil || ok {
		t.Fatalf("empty body should be absent, ok=%v err=%v", ok, err)
	}
}

func TestExtractTextRejectsNonString(t *testing.T) {
	if _, _, err := hostapi.ExtractText([]byte(`{"result":{"not":"a string"}}`)); err == nil {
		t.Fatalf("expected error for non-string result")
	}
}

func TestDecodeResult(t *testing.T) {
	body, err := hostapi.Wrap(map[string]any{"names": []string{"a", "b"}})
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	var payload struct {
		Names []string `json:"names"`
	}
	if err := hostapi.DecodeResult(body, &payload); err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if len(payload.Names) != 2 || payload.Names[0] != "a" {
		t.Fatalf("decoded payload mismatch: %#v", payload)
	}
}

func TestDecodeResultEmptyBody(t *testing.T) {
	var out any
	if err := hostapi.DecodeResult(nil, &out); err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil payload, got %#v", out)
	}
}
