// internal/coupang/client.go
package coupang

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"coupang-shorts/internal/auth"
	"coupang-shorts/internal/config"
	"coupang-shorts/internal/metrics"
	"coupang-shorts/internal/model"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// 쿠팡 파트너스 OPEN API 엔드포인트.
// path 는 서명 message 에 그대로 들어가므로 변경 시 주의.
const (
	searchPath   = "/v2/providers/affiliate_open_api/apis/openapi/products/search"
	deeplinkPath = "/v2/providers/affiliate_open_api/apis/openapi/v1/deeplink"

	// API 가 허용하는 키워드당 최대 결과 수
	maxSearchLimit = 10

	// retry backoff: 1s 에서 시작해 2배씩, 최대 30s
	backoffBase = time.Second
	backoffCap  = 30 * time.Second
)

// Client 는 쿠팡 파트너스 API 호출을 담당하는 구성 요소이다.
//   - 키워드 제품 검색 (Search)
//   - 일반 URL → 파트너스 추적 링크 변환 (ConvertDeeplinks)
//
// 모든 호출은 컨텍스트 기반(timeout + cancel-safe)으로 이루어지며,
// 일시 오류에 한해 재시도(backoff) 로직을 포함한다.
type Client struct {
	cfg     config.SearchConfig
	metrics *metrics.Metrics
	signer  *auth.Signer
	http    *http.Client
}

func NewClient(cfg config.SearchConfig, m *metrics.Metrics, signer *auth.Signer) *Client {
	return &Client{
		cfg:     cfg,
		metrics: m,
		signer:  signer,
		// Timeout 은 요청별 context 로 걸기 때문에 http.Client 자체에는 없음
		http: &http.Client{},
	}
}

// searchEnvelope
// ------------------------------------------------------------
// 검색 API 응답 envelope. data 필드는 버전에 따라
//   - {"productData": [...]} 객체이거나
//   - [...] 목록 그대로이거나
//
// 둘 다 관측되었다. RawMessage 로 받아서 두 형태 모두 시도한다.
type searchEnvelope struct {
	RCode    string          `json:"rCode"`
	RMessage string          `json:"rMessage"`
	Data     json.RawMessage `json:"data"`
}

// Search 는 키워드로 제품을 검색한다.
// 일시 오류(429, timeout, 연결 실패)는 backoff 후 MaxRetries 까지 재시도하고,
// 인증 실패(401)는 즉시 포기한다.
//
// 결과가 없는 것은 오류가 아니다: 빈 슬라이스와 nil 을 반환한다.
func (c *Client) Search(ctx context.Context, keyword string, limit int) ([]model.Product, error) {
	if limit <= 0 || limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	var lastErr error
	backoff := backoffBase

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		products, err := c.searchOnce(ctx, keyword, limit)
		if err == nil {
			return products, nil
		}
		if !Retryable(err) {
			return nil, err
		}
		lastErr = err
		if attempt == c.cfg.MaxRetries {
			break
		}

		log.Warn().
			Str("keyword", keyword).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Err(err).
			Msg("search retry")

		// backoff 적용 (cancel-safe)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
			if backoff > backoffCap {
				backoff = backoffCap
			}
		}
	}

	return nil, lastErr
}

// searchOnce 는 1회 검색 호출을 수행하고 실패를 분류한다.
func (c *Client) searchOnce(ctx context.Context, keyword string, limit int) ([]model.Product, error) {
	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("limit", strconv.Itoa(limit))
	query := params.Encode()

	body, err := c.do(ctx, http.MethodGet, searchPath, query, nil)
	if err != nil {
		return nil, err
	}

	var env searchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		// JSON 자체가 깨진 응답 → 해당 키워드는 "결과 없음" 취급
		atomic.AddInt64(&c.metrics.APIEmptyTotal, 1)
		log.Warn().Str("keyword", keyword).Err(err).Msg("malformed search response")
		return nil, nil
	}

	if env.RCode != "0" {
		atomic.AddInt64(&c.metrics.APIEmptyTotal, 1)
		log.Warn().Str("keyword", keyword).Str("rCode", env.RCode).Str("rMessage", env.RMessage).
			Msg("search API returned error code")
		return nil, nil
	}

	products := decodeProductData(env.Data)
	if len(products) == 0 {
		atomic.AddInt64(&c.metrics.APIEmptyTotal, 1)
	}
	atomic.AddInt64(&c.metrics.ProductsSeenTotal, int64(len(products)))
	return products, nil
}

// decodeProductData 는 data 필드의 두 가지 형태를 모두 처리한다.
// 둘 다 실패하면 빈 슬라이스 (방어적으로 결과 없음 처리).
func decodeProductData(raw json.RawMessage) []model.Product {
	if len(raw) == 0 {
		return nil
	}

	var wrapped struct {
		ProductData []model.Product `json:"productData"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.ProductData != nil {
		return wrapped.ProductData
	}

	var list []model.Product
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	return nil
}

// deeplinkRequest / deeplinkItem 은 deeplink 변환 API 의 wire 포맷.
type deeplinkRequest struct {
	CoupangURLs []string `json:"coupangUrls"`
}

type deeplinkItem struct {
	OriginalURL string `json:"originalUrl"`
	ShortenURL  string `json:"shortenUrl"`
}

// ConvertDeeplinks 는 일반 쿠팡 URL 을 파트너스 추적 링크로 변환한다.
// best-effort: 어떤 이유로든 변환하지 못한 URL 은 원본 그대로 돌려준다.
// (링크 변환이 안 됐다고 리포트 전체를 버릴 이유는 없다)
func (c *Client) ConvertDeeplinks(ctx context.Context, urls []string) []string {
	// 빈 URL 제외한 요청 목록 구성
	req := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != "" {
			req = append(req, u)
		}
	}
	if len(req) == 0 {
		return urls
	}

	payload, err := json.Marshal(deeplinkRequest{CoupangURLs: req})
	if err != nil {
		return urls
	}

	body, err := c.do(ctx, http.MethodPost, deeplinkPath, "", payload)
	if err != nil {
		log.Warn().Err(err).Msg("deeplink conversion failed, keeping original urls")
		return urls
	}

	var env struct {
		RCode    string         `json:"rCode"`
		RMessage string         `json:"rMessage"`
		Data     []deeplinkItem `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil || env.RCode != "0" {
		log.Warn().Str("rMessage", env.RMessage).Msg("deeplink API error, keeping original urls")
		return urls
	}

	// originalUrl 기준으로 매칭. 못 찾으면 원본 유지.
	converted := make(map[string]string, len(env.Data))
	for _, item := range env.Data {
		if item.ShortenURL != "" {
			converted[item.OriginalURL] = item.ShortenURL
		}
	}

	out := make([]string, len(urls))
	for i, u := range urls {
		if short, ok := converted[u]; ok {
			out[i] = short
			atomic.AddInt64(&c.metrics.DeeplinkConvertedTotal, 1)
		} else {
			out[i] = u
		}
	}
	return out
}

// do 는 서명 포함 HTTP 호출 1회를 수행한다.
//   - 호출당 HTTPTimeout 의 context timeout
//   - 상태 코드를 §오류 분류에 따라 typed error 로 변환
//
// Authorization 은 매 호출 직전에 새로 만든다.
// signed-date 가 message 에 포함되므로 재사용하면 401 이 난다.
func (c *Client) do(ctx context.Context, method, path, query string, payload []byte) ([]byte, error) {
	ctx2, cancel := context.WithTimeout(ctx, c.cfg.HTTPTimeout)
	defer cancel()

	reqURL := c.cfg.BaseURL + path
	if query != "" {
		reqURL += "?" + query
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx2, method, reqURL, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", c.signer.Authorization(method, path, query))
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")

	resp, err := c.http.Do(req)
	if err != nil {
		if transientCause(err) {
			atomic.AddInt64(&c.metrics.APITransientErrorsTotal, 1)
			return nil, fmt.Errorf("%w: %v", ErrTransient, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through

	case resp.StatusCode == http.StatusUnauthorized:
		atomic.AddInt64(&c.metrics.APIAuthErrorsTotal, 1)
		return nil, ErrAuth

	case resp.StatusCode == http.StatusTooManyRequests:
		atomic.AddInt64(&c.metrics.APIRateLimitTotal, 1)
		return nil, ErrRateLimited

	case resp.StatusCode >= 500:
		// 서버측 일시 장애로 간주
		atomic.AddInt64(&c.metrics.APITransientErrorsTotal, 1)
		return nil, fmt.Errorf("%w: HTTP %d", ErrTransient, resp.StatusCode)

	default:
		return nil, fmt.Errorf("coupang: unexpected HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		atomic.AddInt64(&c.metrics.APITransientErrorsTotal, 1)
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return body, nil
}
