// internal/config/config.go
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// .env 파일이 있으면 로드 (없으면 조용히 무시)
	_ = godotenv.Load()
}

// Config
//
// 파이프라인 실행 시 필요한 모든 환경 변수 값을 보관하는 구조체.
// 모든 값은 프로세스 시작 시점에 Load() 에 의해 초기화되며,
// 이후에는 변경되지 않는 불변(read-only) 설정들이다.
//
// 단, API 인증 키는 여기에 없다 — LoadCredential() 참고.
// 키 누락은 "설정 오류"로서 실패 마커 파일 작성 후 종료해야 하므로
// fail-fast 하게 죽이지 않고 호출자에게 에러로 돌려준다.
type Config struct {
	App     AppConfig
	Search  SearchConfig
	Output  OutputConfig
	Archive ArchiveConfig
	Log     LogConfig

	// InstanceID
	// 실행 프로세스 고유 ID (호스트명 기반, 실패 시 랜덤 hex).
	// 아카이브 파일명과 로그의 공통 태그로 쓰인다.
	InstanceID string
}

// AppConfig 는 서비스 식별 정보.
type AppConfig struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"coupang-shorts"`
}

// SearchConfig 는 쿠팡 파트너스 검색 단계 파라미터.
//
// CallDelay 는 외부 rate limit 을 존중하기 위한 키워드 간 고정 대기.
// 병렬화하지 않고 순차 실행하는 것이 의도된 설계다.
type SearchConfig struct {
	BaseURL string `envconfig:"COUPANG_BASE_URL" default:"https://api-gateway.coupang.com"`

	// 검색 키워드 목록 (쉼표 구분)
	Keywords []string `envconfig:"KEYWORDS" default:"여성의류,화장품세트,건강식품"`

	Limit   int     `envconfig:"SEARCH_LIMIT" default:"10"` // 키워드당 최대 검색 수 (API 상한 10)
	TopN    int     `envconfig:"TOP_N" default:"5"`         // 리포트에 남길 상위 N개
	MinRate float64 `envconfig:"MIN_RATE" default:"5.0"`    // 예상 수수료율 최소 조건 (%)

	PriceMin int `envconfig:"PRICE_MIN" default:"10000"`  // 가격 필터 하한 (원)
	PriceMax int `envconfig:"PRICE_MAX" default:"100000"` // 가격 필터 상한 (원)

	CallDelay   time.Duration `envconfig:"CALL_DELAY" default:"15s"`   // 키워드 간 대기
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"` // 호출당 timeout
	MaxRetries  int           `envconfig:"API_RETRIES" default:"3"`    // 일시 오류 재시도 횟수

	Deeplink bool `envconfig:"DEEPLINK_ENABLED" default:"true"` // 파트너스 링크 변환 여부
}

// OutputConfig 는 산출물 파일 경로.
// result.txt 는 검색 단계가 쓰고 렌더링 단계가 다시 읽는
// 두 프로세스 사이의 유일한 인터페이스다.
type OutputConfig struct {
	ReportPath  string `envconfig:"REPORT_PATH" default:"result.txt"`
	ExportPath  string `envconfig:"EXPORT_PATH" default:"products.json"`
	SummaryPath string `envconfig:"SUMMARY_PATH" default:"summary.txt"`
	ManifestDir string `envconfig:"MANIFEST_DIR" default:"shorts"`
}

// ArchiveConfig 는 산출물 S3 아카이브 설정.
// Bucket 이 비어 있으면 아카이브 기능 전체가 비활성화된다.
//
// Retry 정책 단일화
// --------------------------------------------
// AWS SDK v2 기본 retry 와 코드 레벨 retry 가 겹치면
// 예측 불가능한 처리 지연이 발생한다.
// → SDK Retry 는 코드에서 0으로 고정한다.
// → "재시도 횟수"는 오직 애플리케이션 레벨(AppRetries)만 사용한다.
type ArchiveConfig struct {
	Bucket     string        `envconfig:"ARCHIVE_BUCKET" default:""`
	Prefix     string        `envconfig:"ARCHIVE_PREFIX" default:"reports"`
	AWSRegion  string        `envconfig:"AWS_REGION" default:"ap-northeast-2"`
	S3Timeout  time.Duration `envconfig:"S3_TIMEOUT" default:"5s"` // PutObject 시도당 timeout
	AppRetries int           `envconfig:"S3_APP_RETRIES" default:"3"`
}

// LogConfig 는 zerolog 초기화 파라미터.
type LogConfig struct {
	Level   string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty  bool   `envconfig:"LOG_PRETTY" default:"false"`
	SampleN uint32 `envconfig:"LOG_SAMPLE_N" default:"0"`
}

// Credential
//
// 쿠팡 파트너스 API 인증 키 쌍.
// 프로세스 시작 시 한 번 로드되며 이후 불변으로 취급한다.
// SecretKey 는 절대 전체를 로그에 남기지 않는다 (길이만 기록).
type Credential struct {
	AccessKey string
	SecretKey string
}

// ErrMissingCredential 은 필수 API 키 env 가 비어 있을 때 반환된다.
// 호출자(main)는 이 에러를 받으면 실패 마커 파일을 쓰고 비정상 종료한다.
var ErrMissingCredential = errors.New("config: COUPANG_ACCESS_KEY / COUPANG_SECRET_KEY not set")

// Load 는 환경 변수 기반으로 Config 값을 초기화한다.
// envconfig 태그의 default 덕분에 필수값 누락으로 실패하는 일은 없고,
// 형식이 잘못된 값(duration 파싱 실패 등)만 에러가 된다.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}

	// 키워드 목록의 공백/빈 항목 정리
	cfg.Search.Keywords = cleanKeywords(cfg.Search.Keywords)

	cfg.InstanceID = fallbackInstanceID()
	return cfg, nil
}

// LoadCredential 은 API 키 쌍을 env 에서 읽는다.
// 하나라도 비어 있으면 ErrMissingCredential.
func LoadCredential() (Credential, error) {
	c := Credential{
		AccessKey: strings.TrimSpace(os.Getenv("COUPANG_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("COUPANG_SECRET_KEY")),
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return Credential{}, ErrMissingCredential
	}
	return c, nil
}

func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.TrimSpace(k)
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// fallbackInstanceID
//
// 이 실행 프로세스를 식별하는 고유 값.
//   - 기본: hostname (GitHub Actions runner 에서도 고유)
//   - fallback: 12자리 랜덤 hex
func fallbackInstanceID() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	// 랜덤 6바이트 → 12자리 hex
	var b [6]byte
	if _, err := rand.Read(b[:]); err == nil {
		return hex.EncodeToString(b[:])
	}
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}
