package service

import (
	"net/url"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	curl := `curl 'https://api.mercari.jp/sold_histories?limit=20&offset=0' \
  -H 'accept: application/json' \
  -H 'authorization: Bearer abc123' \
  -H 'x-platform: web'`

	rawURL, headers := parseCurlCommand(curl)
	if rawURL != "https://api.mercari.jp/sold_histories?limit=20&offset=0" {
		t.Errorf("url = %q", rawURL)
	}
	if len(headers) != 3 {
		t.Fatalf("expected 3 headers, got %d: %v", len(headers), headers)
	}
	if headers["authorization"] != "Bearer abc123" {
		t.Errorf("authorization = %q", headers["authorization"])
	}
	if headers["x-platform"] != "web" {
		t.Errorf("x-platform = %q", headers["x-platform"])
	}
}

func TestParseCurlCommandNoURL(t *testing.T) {
	rawURL, _ := parseCurlCommand("not a curl command")
	if rawURL != "" {
		t.Errorf("expected empty url, got %q", rawURL)
	}
}

func TestSetURLParam(t *testing.T) {
	got, err := setURLParam("https://api.mercari.jp/sold?limit=20&offset=0", "limit", "100")
	if err != nil {
		t.Fatalf("setURLParam: %v", err)
	}
	u, _ := url.Parse(got)
	if u.Query().Get("limit") != "100" {
		t.Errorf("limit = %q, want 100", u.Query().Get("limit"))
	}
	if u.Query().Get("offset") != "0" {
		t.Errorf("offset = %q, want 0 (preserved)", u.Query().Get("offset"))
	}
}
