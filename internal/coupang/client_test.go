package coupang

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coupang-shorts/internal/auth"
	"coupang-shorts/internal/config"
	"coupang-shorts/internal/metrics"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server, *metrics.Metrics) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	m := metrics.New()
	signer := auth.NewSigner(config.Credential{AccessKey: "ak", SecretKey: "sk"})
	c := NewClient(config.SearchConfig{
		BaseURL:     srv.URL,
		HTTPTimeout: 2 * time.Second,
		MaxRetries:  2,
	}, m, signer)
	return c, srv, m
}

func TestSearch_NestedEnvelope(t *testing.T) {
	c, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); !strings.HasPrefix(got, "CEA algorithm=HmacSHA256, ") {
			t.Errorf("missing CEA authorization header: %q", got)
		}
		w.Write([]byte(`{
			"rCode": "0",
			"rMessage": "",
			"data": {"productData": [
				{"productId": 123, "productName": "니트", "productPrice": 19900,
				 "productUrl": "https://example.com/1", "isRocket": true, "categoryName": "패션의류"}
			]}
		}`))
	}))

	products, err := c.Search(context.Background(), "여성의류", 10)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("got %d products, want 1", len(products))
	}
	p := products[0]
	if p.ID != 123 || p.Name != "니트" || p.Price != 19900 || !p.Rocket || p.Category != "패션의류" {
		t.Fatalf("decoded product mismatch: %+v", p)
	}
}

func TestSearch_FlatListEnvelope(t *testing.T) {
	c, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rCode": "0", "data": [
			{"productId": 1, "productName": "a", "productPrice": 10000},
			{"productId": 2, "productName": "b", "productPrice": 20000}
		]}`))
	}))

	products, err := c.Search(context.Background(), "kw", 10)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("flat list envelope: got %d products, want 2", len(products))
	}
}

func TestSearch_MissingFieldsDefaultSafely(t *testing.T) {
	c, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rCode": "0", "data": {"productData": [{"productId": 9}]}}`))
	}))

	products, err := c.Search(context.Background(), "kw", 10)
	if err != nil || len(products) != 1 {
		t.Fatalf("got %d products (err=%v), want 1", len(products), err)
	}
	p := products[0]
	if p.Name != "" || p.Price != 0 || p.Rocket || p.Category != "" {
		t.Fatalf("absent fields must default to zero values: %+v", p)
	}
}

func TestSearch_NonZeroRCodeTreatedAsEmpty(t *testing.T) {
	c, _, m := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rCode": "400", "rMessage": "잘못된 요청"}`))
	}))

	products, err := c.Search(context.Background(), "kw", 10)
	if err != nil {
		t.Fatalf("rCode != 0 must not be an error, got: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("got %d products, want 0", len(products))
	}
	if m.APIEmptyTotal != 1 {
		t.Fatalf("empty counter = %d, want 1", m.APIEmptyTotal)
	}
}

func TestSearch_AuthFailureIsNotRetried(t *testing.T) {
	var calls int
	c, _, m := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.Search(context.Background(), "kw", 10)
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got: %v", err)
	}
	if calls != 1 {
		t.Fatalf("401 must not be retried, got %d calls", calls)
	}
	if m.APIAuthErrorsTotal != 1 {
		t.Fatalf("auth error counter = %d, want 1", m.APIAuthErrorsTotal)
	}
}

func TestSearch_RateLimitRetriedThenAbandoned(t *testing.T) {
	var calls int
	c, _, m := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.Search(context.Background(), "kw", 10)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got: %v", err)
	}
	if calls != 2 {
		t.Fatalf("429 must be retried up to MaxRetries, got %d calls", calls)
	}
	if m.APIRateLimitTotal != 2 {
		t.Fatalf("rate limit counter = %d, want 2", m.APIRateLimitTotal)
	}
}

func TestSearch_ServerErrorRetried(t *testing.T) {
	var calls int
	c, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"rCode": "0", "data": [{"productId": 1, "productName": "ok"}]}`))
	}))

	products, err := c.Search(context.Background(), "kw", 10)
	if err != nil {
		t.Fatalf("retry after 5xx must succeed: %v", err)
	}
	if calls != 2 || len(products) != 1 {
		t.Fatalf("calls=%d products=%d, want 2/1", calls, len(products))
	}
}

func TestConvertDeeplinks(t *testing.T) {
	c, _, m := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("deeplink must POST, got %s", r.Method)
		}
		w.Write([]byte(`{"rCode": "0", "data": [
			{"originalUrl": "https://www.coupang.com/vp/products/1", "shortenUrl": "https://link.coupang.com/a/abc"}
		]}`))
	}))

	urls := []string{"https://www.coupang.com/vp/products/1", "https://www.coupang.com/vp/products/2"}
	got := c.ConvertDeeplinks(context.Background(), urls)

	if got[0] != "https://link.coupang.com/a/abc" {
		t.Fatalf("converted url mismatch: %s", got[0])
	}
	// 변환 응답에 없는 URL 은 원본 유지
	if got[1] != urls[1] {
		t.Fatalf("unmatched url must stay original: %s", got[1])
	}
	if m.DeeplinkConvertedTotal != 1 {
		t.Fatalf("deeplink counter = %d, want 1", m.DeeplinkConvertedTotal)
	}
}

func TestConvertDeeplinks_APIFailureKeepsOriginals(t *testing.T) {
	c, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	urls := []string{"https://www.coupang.com/vp/products/1"}
	if got := c.ConvertDeeplinks(context.Background(), urls); got[0] != urls[0] {
		t.Fatalf("failed conversion must keep original url, got %s", got[0])
	}
}
