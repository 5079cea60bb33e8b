// internal/auth/signer.go
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"coupang-shorts/internal/config"
)

// 쿠팡 파트너스 OPEN API 의 CEA 서명 규격.
//
// signed-date 는 UTC 기준 "yyMMdd'T'HHmmss'Z'" 고정 포맷이며,
// 서버가 짧은 유효 시간 창을 강제하므로 토큰은 요청마다 새로 만들어야 한다.
// (캐시해서 재사용하면 시계가 조금만 밀려도 401 이 난다)
const (
	signedDateLayout = "060102T150405Z"

	// Authorization 헤더 템플릿. 알고리즘 필드는 고정값이다.
	authTemplate = "CEA algorithm=HmacSHA256, access-key=%s, signed-date=%s, signature=%s"
)

// Signer
// ------------------------------------------------------------
// 요청별 HMAC 인증 토큰 생성기.
// Credential 은 프로세스 시작 시 한 번 로드되어 불변으로 유지된다.
//
// message = signedDate + method + path + query
//
// path/query 에는 절대 scheme/host 를 포함하면 안 된다.
// (초기 버전에서 전체 URL 을 넣었다가 전부 무효 서명이 난 전례가 있다)
type Signer struct {
	cred config.Credential
	now  func() time.Time
}

func NewSigner(cred config.Credential) *Signer {
	return &Signer{cred: cred, now: time.Now}
}

// Authorization 은 현재 시각 기준의 Authorization 헤더 값을 만든다.
// 매 호출마다 signed-date 가 달라지므로 결과를 저장해 두면 안 된다.
func (s *Signer) Authorization(method, path, query string) string {
	return s.authorizationAt(s.now().UTC(), method, path, query)
}

// authorizationAt 은 주어진 시각으로 서명한다.
// 동일 입력 + 동일 시각 → 동일 서명 (결정적).
func (s *Signer) authorizationAt(t time.Time, method, path, query string) string {
	signedDate := t.UTC().Format(signedDateLayout)

	mac := hmac.New(sha256.New, []byte(s.cred.SecretKey))
	mac.Write([]byte(signedDate + method + path + query))
	signature := hex.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf(authTemplate, s.cred.AccessKey, signedDate, signature)
}
