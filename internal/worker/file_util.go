// internal/worker/file_util.go
package worker

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

// file_util.go
// ------------------------------------------------------------
// 산출물 아카이브 저장 시 사용하는 유틸리티 모음.
// 파일명/키 규칙은 아카이브 탐색과 보존 정책 판단의 기준이므로
// 예측 가능한 deterministic 패턴을 유지해야 한다.
//
// 파일명 규칙:
//
//	<unix>_<instance>_<counter>_<이름>.gz
//
// 예:
//
//	1764721594_runner1_000003_result.txt.gz
//
// 정렬하면 곧 시간 순 정렬이므로, 같은 날짜 파티션 안에서
// 실행 순서를 그대로 따라갈 수 있다.
var globalCounter uint64

// NextCounter
// ------------------------------------------------------------
// 원자적 증가 값으로 순차 번호를 생성한다.
// 1,000,000 에서 다시 0으로 돌아가며, wrap-around 되어도
// timestamp·instance ID 조합으로 파일명 충돌 가능성은 사실상 없다.
func NextCounter() uint64 {
	return atomic.AddUint64(&globalCounter, 1) % 1_000_000
}

// NewArchiveName 은 로컬 산출물 경로에서 아카이브 파일명을 만든다.
// <unix>_<instance>_<counter>_<basename>.gz 형태.
func NewArchiveName(instanceID, artifactPath string) string {
	base := filepath.Base(artifactPath)
	return fmt.Sprintf("%d_%s_%06d_%s.gz", time.Now().Unix(), instanceID, NextCounter(), base)
}

// BuildS3Key
// ------------------------------------------------------------
// 표준화된 S3 Key 생성기.
// S3 폴더 구조(Partitioning):
//
//	<prefix>/dt=<YYYY-MM-DD>/hr=<HH>/<filename>
//
// Athena / Glue 파티션 스캔 비용을 줄이기 위한 표준적인 구조.
// 파티션 시각은 KST 기준이다 (운영자가 보는 시간대와 일치시키기 위함).
func BuildS3Key(prefix, filename string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	kst := time.Now().UTC().Add(kstOffset)
	return fmt.Sprintf("%s/dt=%s/hr=%s/%s", prefix, kst.Format("2006-01-02"), kst.Format("15"), filename)
}

const kstOffset = 9 * time.Hour
