package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	approvalCookie = "pnl_approval"
	approvalTTL    = 12 * time.Hour
)

// approvalGate guards the download behind a shared passphrase. A correct
// passphrase earns a cookie carrying its expiry and an HMAC of it.
type approvalGate struct {
	codeDigest [sha256.Size]byte
	secret     []byte
	ttl        time.Duration
	now        func() time.Time
}

func newApprovalGate(code string, secret []byte) *approvalGate {
	return &approvalGate{
		codeDigest: sha256.Sum256([]byte(code)),
		secret:     secret,
		ttl:        approvalTTL,
		now:        time.Now,
	}
}

// check compares digests so the comparison time does not depend on the
// length of the guess either.
func (g *approvalGate) check(code string) bool {
	d := sha256.Sum256([]byte(strings.TrimSpace(code)))
	return subtle.ConstantTimeCompare(d[:], g.codeDigest[:]) == 1
}

func (g *approvalGate) sign(payload string) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (g *approvalGate) grant(w http.ResponseWriter, r *http.Request) {
	exp := strconv.FormatInt(g.now().Add(g.ttl).Unix(), 10)
	http.SetCookie(w, &http.Cookie{
		Name:     approvalCookie,
		Value:    exp + "." + g.sign(exp),
		Path:     "/",
		MaxAge:   int(g.ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

func (g *approvalGate) revoke(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     approvalCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

// approved reports whether the request carries a valid, unexpired approval.
func (g *approvalGate) approved(r *http.Request) bool {
	c, err := r.Cookie(approvalCookie)
	if err != nil {
		return false
	}
	exp, sig, ok := strings.Cut(c.Value, ".")
	if !ok {
		return false
	}
	if !hmac.Equal([]byte(sig), []byte(g.sign(exp))) {
		return false
	}
	unix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return false
	}
	return g.now().Before(time.Unix(unix, 0))
}
