package metrics

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics 는 한 번의 배치 실행 상태를 나타내는 카운터 모음이다.
// Prometheus 연동용이 아니라, summary.txt 와 로그에 남겨서
// 운영자가 장애 원인을 분석할 때 보는 내부 지표들이다.
type Metrics struct {
	// ======================
	// 검색 단계 지표
	// ======================

	// KeywordsTotal
	// - 검색을 시도한 키워드 수. 성공/실패와 무관하게 키워드당 1 증가.
	KeywordsTotal int64

	// KeywordsFailedTotal
	// - 재시도까지 모두 소진하고 결국 결과를 얻지 못한 키워드 수.
	// - KeywordsTotal 과 비교하면 "이번 실행에서 몇 %가 버려졌는지" 알 수 있다.
	KeywordsFailedTotal int64

	// APIAuthErrorsTotal
	// - 쿠팡 API 가 401 로 서명/키를 거부한 횟수.
	// - 같은 키로 재시도해도 결과가 같으므로 retry 는 하지 않는다.
	//   이 값이 0 이 아니면 키 재발급 또는 시계 동기화를 의심해야 한다.
	APIAuthErrorsTotal int64

	// APIRateLimitTotal
	// - 429 응답을 받은 "시도(attempt)" 횟수. retry 포함이므로
	//   한 키워드에서 여러 번 증가할 수 있다.
	// - 지속적으로 증가하면 CALL_DELAY 를 늘려야 한다는 신호.
	APIRateLimitTotal int64

	// APITransientErrorsTotal
	// - timeout / 연결 실패 등 일시적 네트워크 오류 시도 횟수.
	APITransientErrorsTotal int64

	// APIEmptyTotal
	// - 응답은 받았지만 제품 목록이 비었거나 envelope 형태가 예상과
	//   달랐던 키워드 수. 오류가 아니라 "결과 없음"으로 처리된다.
	APIEmptyTotal int64

	// ======================
	// 선별 지표
	// ======================

	// ProductsSeenTotal
	// - API 에서 받은 원본 제품 수 (필터링 전).
	ProductsSeenTotal int64

	// ProductsQualifiedTotal
	// - 최소 수수료율 조건을 통과한 제품 수.
	// - ProductsSeenTotal 대비 비율이 너무 낮으면 MIN_RATE 조정 검토.
	ProductsQualifiedTotal int64

	// DeeplinkConvertedTotal
	// - 파트너스 추적 링크로 변환에 성공한 URL 수.
	//   실패한 URL 은 원본 그대로 남는다 (best-effort).
	DeeplinkConvertedTotal int64

	// ======================
	// 산출물/아카이브 지표
	// ======================

	// ArtifactsWrittenTotal
	// - 로컬에 쓴 산출물 파일 수 (report / export / summary / manifest).
	ArtifactsWrittenTotal int64

	// ArchiveUploadedTotal
	// - S3 아카이브에 업로드 성공한 산출물 수.
	ArchiveUploadedTotal int64

	// ArchivePutErrorsTotal
	// - S3 PutObject 가 실패한 시도(attempt) 횟수. retry 포함.
	ArchivePutErrorsTotal int64
}

func New() *Metrics {
	return &Metrics{}
}

func (m *Metrics) String() string {
	var sb strings.Builder
	sb.Grow(256)

	fmt.Fprintf(&sb, "keywords_total=%d\n", atomic.LoadInt64(&m.KeywordsTotal))
	fmt.Fprintf(&sb, "keywords_failed_total=%d\n", atomic.LoadInt64(&m.KeywordsFailedTotal))
	fmt.Fprintf(&sb, "api_auth_errors_total=%d\n", atomic.LoadInt64(&m.APIAuthErrorsTotal))
	fmt.Fprintf(&sb, "api_rate_limit_total=%d\n", atomic.LoadInt64(&m.APIRateLimitTotal))
	fmt.Fprintf(&sb, "api_transient_errors_total=%d\n", atomic.LoadInt64(&m.APITransientErrorsTotal))
	fmt.Fprintf(&sb, "api_empty_total=%d\n", atomic.LoadInt64(&m.APIEmptyTotal))

	fmt.Fprintf(&sb, "products_seen_total=%d\n", atomic.LoadInt64(&m.ProductsSeenTotal))
	fmt.Fprintf(&sb, "products_qualified_total=%d\n", atomic.LoadInt64(&m.ProductsQualifiedTotal))
	fmt.Fprintf(&sb, "deeplink_converted_total=%d\n", atomic.LoadInt64(&m.DeeplinkConvertedTotal))

	fmt.Fprintf(&sb, "artifacts_written_total=%d\n", atomic.LoadInt64(&m.ArtifactsWrittenTotal))
	fmt.Fprintf(&sb, "archive_uploaded_total=%d\n", atomic.LoadInt64(&m.ArchiveUploadedTotal))
	fmt.Fprintf(&sb, "archive_put_errors_total=%d\n", atomic.LoadInt64(&m.ArchivePutErrorsTotal))

	return sb.String()
}
