package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestApprovalGate_Check(t *testing.T) {
	g := newApprovalGate("Bomba", []byte("secret"))
	tests := []struct {
		code string
		want bool
	}{
		{"Bomba", true},
		{" Bomba ", true},
		{"bomba", false},
		{"Bomb", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := g.check(tt.code); got != tt.want {
			t.Errorf("check(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func grantCookie(t *testing.T, g *approvalGate) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	g.grant(rr, httptest.NewRequest(http.MethodPost, "/approval", nil))
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %v", cookies)
	}
	return cookies[0]
}

func TestApprovalGate_Cookie(t *testing.T) {
	now := time.Date(2025, 7, 31, 10, 0, 0, 0, time.UTC)
	g := newApprovalGate("Bomba", []byte("secret"))
	g.now = func() time.Time { return now }

	c := grantCookie(t, g)
	if !c.HttpOnly || c.SameSite != http.SameSiteStrictMode {
		t.Fatalf("cookie flags = %+v", c)
	}

	req := func(c *http.Cookie) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/download", nil)
		if c != nil {
			r.AddCookie(c)
		}
		return r
	}

	if !g.approved(req(c)) {
		t.Fatal("fresh cookie should approve")
	}
	if g.approved(req(nil)) {
		t.Fatal("missing cookie should not approve")
	}

	tampered := *c
	exp, sig, _ := strings.Cut(c.Value, ".")
	tampered.Value = exp + "0." + sig
	if g.approved(req(&tampered)) {
		t.Fatal("tampered expiry should not approve")
	}

	other := newApprovalGate("Bomba", []byte("other secret"))
	other.now = g.now
	if other.approved(req(c)) {
		t.Fatal("cookie signed with another secret should not approve")
	}

	now = now.Add(approvalTTL + time.Minute)
	if g.approved(req(c)) {
		t.Fatal("expired cookie should not approve")
	}
}

func TestApprovalGate_Revoke(t *testing.T) {
	g := newApprovalGate("Bomba", []byte("secret"))
	rr := httptest.NewRecorder()
	g.revoke(rr, httptest.NewRequest(http.MethodPost, "/approval/reset", nil))

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 || cookies[0].Value != "" {
		t.Fatalf("revoke cookie = %+v", cookies)
	}
}
