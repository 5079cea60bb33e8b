// internal/coupang/errors.go
package coupang

import (
	"context"
	"errors"
	"net"
)

// API 호출 실패 분류.
//
// retry 정책이 실패 종류에 따라 달라지기 때문에
// 아래 세 가지는 호출자가 반드시 구분할 수 있어야 한다.
//
//   - ErrAuth: 401. 같은 키로 재시도해도 결정적으로 또 실패한다 → retry 금지.
//   - ErrRateLimited: 429. backoff 후 제한 횟수까지 retry.
//   - ErrTransient: timeout/연결 오류. backoff 후 제한 횟수까지 retry.
//
// envelope 형태가 예상과 다르거나 rCode != "0" 인 경우는
// 오류가 아니라 "해당 키워드 결과 없음"(빈 결과)으로 처리한다.
var (
	ErrAuth        = errors.New("coupang: authentication rejected (401)")
	ErrRateLimited = errors.New("coupang: rate limited (429)")
	ErrTransient   = errors.New("coupang: transient network failure")
)

// Retryable 은 backoff 후 재시도할 가치가 있는 실패인지 판단한다.
// 인증 실패는 재시도 대상이 아니다.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTransient)
}

// transientCause 는 저수준 오류가 일시적 네트워크 실패인지 판단한다.
// context deadline(=호출 timeout)과 net.Error 모두 일시 오류로 본다.
func transientCause(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
