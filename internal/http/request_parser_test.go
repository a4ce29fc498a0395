package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseRemarkForm(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        RemarkForm
		wantErr     error
	}{
		{
			name:        "form encoded",
			contentType: "application/x-www-form-urlencoded",
			body:        "row=NET+PROFIT&column=Jul-25&text=checked",
			want:        RemarkForm{Row: "NET PROFIT", Column: "Jul-25", Text: "checked"},
		},
		{
			name:        "json",
			contentType: "application/json",
			body:        `{"row":"GROSS PROFIT","column":"Jun-25","text":"ok"}`,
			want:        RemarkForm{Row: "GROSS PROFIT", Column: "Jun-25", Text: "ok"},
		},
		{
			name: "json sniffed without content type",
			body: `{"row":"A","column":"B","text":"c"}`,
			want: RemarkForm{Row: "A", Column: "B", Text: "c"},
		},
		{
			name:        "control characters stripped",
			contentType: "application/x-www-form-urlencoded",
			body:        "row=%00NET%07+PROFIT&column=Jul-25&text=line1%0Aline2",
			want:        RemarkForm{Row: "NET PROFIT", Column: "Jul-25", Text: "line1\nline2"},
		},
		{
			name: "empty body",
			want: RemarkForm{},
		},
		{
			name:        "too long",
			contentType: "application/x-www-form-urlencoded",
			body:        "row=A&column=B&text=" + strings.Repeat("x", maxRemarkLength+1),
			wantErr:     errRemarkTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/remarks", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			got, err := ParseRemarkForm(req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseRemarkForm_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/remarks", strings.NewReader(`{"row":`))
	req.Header.Set("Content-Type", "application/json")
	if _, err := ParseRemarkForm(req); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestRequestBodyParser_NonStringJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"n":12.5,"b":true,"o":{"x":1}}`))
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.IsJSON() {
		t.Fatal("IsJSON = false")
	}
	if p.Get("n") != "12.5" || p.Get("b") != "true" || p.Get("o") != "" || p.Get("missing") != "" {
		t.Errorf("got n=%q b=%q o=%q", p.Get("n"), p.Get("b"), p.Get("o"))
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  padded  ", "padded"},
		{"tab\tkept", "tab\tkept"},
		{"bell\x07gone", "bellgone"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRequireMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if b := RequirePOST(req); b == nil {
		t.Fatal("GET should be rejected")
	} else {
		w := httptest.NewRecorder()
		b.Write(w)
		if w.Code != http.StatusMethodNotAllowed || w.Header().Get("Allow") != "POST" {
			t.Errorf("status=%d Allow=%q", w.Code, w.Header().Get("Allow"))
		}
	}

	if b := RequireMethod(req, http.MethodPost, http.MethodGet); b != nil {
		t.Error("GET should be allowed")
	}
}

func TestIsHTMX(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if isHTMX(req) {
		t.Error("plain request reported as htmx")
	}
	req.Header.Set("HX-Request", "true")
	if !isHTMX(req) {
		t.Error("htmx request not detected")
	}
}
