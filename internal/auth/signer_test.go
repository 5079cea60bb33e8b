package auth

import (
	"strings"
	"testing"
	"time"

	"coupang-shorts/internal/config"
)

func testSigner(secret string) *Signer {
	return NewSigner(config.Credential{
		AccessKey: "test-access-key",
		SecretKey: secret,
	})
}

func TestAuthorizationAt_Deterministic(t *testing.T) {
	s := testSigner("test-secret-key")
	at := time.Date(2025, 3, 1, 12, 34, 56, 0, time.UTC)

	a := s.authorizationAt(at, "GET", "/v2/providers/affiliate_open_api/apis/openapi/products/search", "keyword=%EC%97%AC%EC%84%B1%EC%9D%98%EB%A5%98&limit=10")
	b := s.authorizationAt(at, "GET", "/v2/providers/affiliate_open_api/apis/openapi/products/search", "keyword=%EC%97%AC%EC%84%B1%EC%9D%98%EB%A5%98&limit=10")

	if a != b {
		t.Fatalf("same inputs at same instant must sign identically:\n%s\n%s", a, b)
	}
}

func TestAuthorizationAt_Format(t *testing.T) {
	s := testSigner("test-secret-key")
	at := time.Date(2025, 3, 1, 12, 34, 56, 0, time.UTC)

	got := s.authorizationAt(at, "GET", "/path", "q=1")

	if !strings.HasPrefix(got, "CEA algorithm=HmacSHA256, access-key=test-access-key, ") {
		t.Fatalf("unexpected header prefix: %s", got)
	}
	if !strings.Contains(got, "signed-date=250301T123456Z") {
		t.Fatalf("signed-date must be yyMMdd'T'HHmmss'Z' UTC, got: %s", got)
	}

	// signature 는 64자리 소문자 hex
	idx := strings.LastIndex(got, "signature=")
	sig := got[idx+len("signature="):]
	if len(sig) != 64 {
		t.Fatalf("signature must be 64 hex chars, got %d: %s", len(sig), sig)
	}
	for _, c := range sig {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Fatalf("signature has non-hex char %q: %s", c, sig)
		}
	}
}

func TestAuthorizationAt_DifferentInputsDiffer(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 34, 56, 0, time.UTC)
	s := testSigner("test-secret-key")

	base := s.authorizationAt(at, "GET", "/path", "keyword=a&limit=10")

	if got := s.authorizationAt(at, "POST", "/path", "keyword=a&limit=10"); got == base {
		t.Fatal("different method must change signature")
	}
	if got := s.authorizationAt(at, "GET", "/other", "keyword=a&limit=10"); got == base {
		t.Fatal("different path must change signature")
	}
	if got := s.authorizationAt(at, "GET", "/path", "keyword=b&limit=10"); got == base {
		t.Fatal("different query must change signature")
	}
	if got := testSigner("other-secret").authorizationAt(at, "GET", "/path", "keyword=a&limit=10"); got == base {
		t.Fatal("different secret must change signature")
	}
	if got := s.authorizationAt(at.Add(time.Second), "GET", "/path", "keyword=a&limit=10"); got == base {
		t.Fatal("different instant must change signature")
	}
}

func TestAuthorization_UsesCurrentTime(t *testing.T) {
	s := testSigner("test-secret-key")
	fixed := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	got := s.Authorization("GET", "/path", "")
	want := s.authorizationAt(fixed, "GET", "/path", "")
	if got != want {
		t.Fatalf("Authorization must sign with injected clock:\n%s\n%s", got, want)
	}
}
