// internal/logger/log.go
package logger

import (
	"io"
	"os"
	"strings"

	"coupang-shorts/internal/config"

	stdlog "log"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Init
//
// 프로세스 시작 시 한 번만 호출되는 로거 초기화 함수입니다.
// Config 설정(환경변수)에 따라 '개발자용 화면' 또는 '운영용 시스템 로그'로
// 자동으로 형태를 바꾸어 설정합니다.
//
//  1. 로그 포맷 자동 전환:
//     - 개발 환경 (LOG_PRETTY=true): 색상 있는 텍스트 출력 (가독성 위주)
//     - 운영 환경 (LOG_PRETTY=false): JSON 포맷 출력 (Actions 로그 검색 위주)
//
//  2. 공통 필드 자동 추가:
//     - 모든 로그에 "service", "instance", "run" 정보가 자동으로 붙습니다.
//     - 스케줄 실행이 겹쳤을 때 어느 실행의 로그인지 즉시 식별 가능합니다.
//
//  3. 로그 샘플링:
//     - 배치 작업 특성상 로그량이 적어 기본은 샘플링 없음(SampleN=0).
//     - Warn/Error 는 샘플링 설정과 무관하게 항상 기록됩니다.
func Init(cfg config.Config, runID string) {

	// 1) 로그 레벨 결정 (최소 출력 기준)
	level := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Log.Level))); err == nil {
		level = l
	}

	zerolog.SetGlobalLevel(level)

	// 2) 출력 방식 결정 (사람 vs 기계)
	var w io.Writer

	if cfg.Log.Pretty {
		// 로컬 개발: 색상/정렬 적용, 날짜 없이 시간만
		w = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	} else {
		// 운영: 표준 JSON 을 그대로 stdout 으로
		w = os.Stdout
	}

	// 3) 기본 Logger 생성 (공통 태그 부착)
	base := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.App.ServiceName).
		Str("instance", cfg.InstanceID).
		Str("run", runID).
		Logger()

	logger := base

	// 4) 샘플링 (Info 이하만, Warn/Error 는 전부 기록)
	if cfg.Log.SampleN > 1 {
		logger = base.Sample(&zerolog.LevelSampler{
			DebugSampler: &zerolog.BasicSampler{N: cfg.Log.SampleN},
			InfoSampler:  &zerolog.BasicSampler{N: cfg.Log.SampleN},
		})
	}

	// 5) 전역 Logger 교체
	zlog.Logger = logger

	// 표준 라이브러리 log 를 쓰는 코드도 같은 출력으로 모은다.
	stdlog.SetFlags(0)
	stdlog.SetOutput(zlog.Logger)
}
