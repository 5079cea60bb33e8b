package main

import (
	"context"
	"os"
	"sync/atomic"

	"coupang-shorts/internal/auth"
	"coupang-shorts/internal/config"
	"coupang-shorts/internal/coupang"
	"coupang-shorts/internal/logger"
	"coupang-shorts/internal/metrics"
	"coupang-shorts/internal/model"
	"coupang-shorts/internal/report"
	"coupang-shorts/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	stdlog "log"
)

// cmd/search
// ====================================================================
// 검색 단계 바이너리.
//
//	키워드 검색 → 수수료 추정/랭킹 → result.txt + products.json 작성
//	→ (옵션) S3 아카이브
//
// 스케줄러(GitHub Actions cron)가 이 바이너리를 먼저 실행하고,
// 별도 워크플로우가 cmd/pipeline 을 실행해 result.txt 를 소비한다.
//
// 종료 코드:
//   - 0: 산출물을 하나 이상 만들었음
//   - 1: 인증 키 누락 / 전체 키워드에서 쓸 만한 결과 0건 / 설정 오류
// ====================================================================

func main() {
	os.Exit(run())
}

func run() int {

	// ====================================================================
	// Config / Logger 초기화
	// ====================================================================
	cfg, err := config.Load()
	if err != nil {
		// 로거가 아직 없으므로 표준 로그로
		stdlog.Printf("[FATAL] invalid configuration: %v", err)
		return 1
	}

	runID := uuid.NewString()
	logger.Init(cfg, runID)

	// ====================================================================
	// API 인증 키 로드
	// ====================================================================
	//
	// 키 누락은 재시도할 수 없는 설정 오류다.
	// 빈 파이프라인을 조용히 내보내는 대신, 실패 마커를 리포트 위치에
	// 남겨서 다음 단계와 운영자가 원인을 바로 알 수 있게 한다.
	//
	// SecretKey 는 절대 값 자체를 로그에 남기지 않는다.
	// ====================================================================
	cred, err := config.LoadCredential()
	if err != nil {
		log.Error().Err(err).Msg("API credential missing")
		writeFile(cfg.Output.ReportPath, report.WriteFailure("API 키가 설정되지 않았습니다"), nil)
		return 1
	}

	log.Info().
		Int("accessKeyLen", len(cred.AccessKey)).
		Int("secretKeyLen", len(cred.SecretKey)).
		Strs("keywords", cfg.Search.Keywords).
		Msg("credential loaded, starting search")

	// ====================================================================
	// 파이프라인 구성
	// ====================================================================
	//
	//  - Signer: 요청별 CEA HMAC 인증 토큰 생성
	//  - Client: 검색/deeplink 호출 + 오류 분류 + retry/backoff
	//  - Runner: 키워드 순차 실행 (rate limit 존중) + 추정/랭킹/필터
	//  - Archiver: 산출물 gzip → S3 보관 (ARCHIVE_BUCKET 있을 때만)
	// ====================================================================
	m := metrics.New()
	signer := auth.NewSigner(cred)
	client := coupang.NewClient(cfg.Search, m, signer)
	runner := worker.NewRunner(cfg.Search, m, client)

	ctx := context.Background()

	results, err := runner.Run(ctx)
	if err != nil {
		// 키워드 단위 실패(401 포함)는 Runner 안에서 격리되므로
		// 여기까지 올라오는 에러는 컨텍스트 취소뿐이다.
		log.Error().Err(err).Msg("search run aborted")
		writeFile(cfg.Output.ReportPath, report.WriteFailure(err.Error()), m)
		return 1
	}

	// ====================================================================
	// 결과 판정 + 산출물 작성
	// ====================================================================
	total := 0
	for _, r := range results {
		total += len(r.Products)
	}

	if total == 0 {
		log.Error().Msg("no usable products across all keywords")
		writeFile(cfg.Output.ReportPath, report.WriteFailure("전체 키워드에서 검색 결과 없음"), m)
		logCounters(m)
		return 1
	}

	if !writeFile(cfg.Output.ReportPath, report.Write(results), m) {
		return 1
	}
	if err := report.ExportResults(cfg.Output.ExportPath, results); err != nil {
		log.Error().Err(err).Msg("export write failed")
	} else {
		atomic.AddInt64(&m.ArtifactsWrittenTotal, 1)
	}

	logBest(results)

	// ====================================================================
	// S3 아카이브 (best-effort)
	// ====================================================================
	arch := worker.NewArchiver(cfg.Archive, cfg.InstanceID, m)
	arch.ArchiveFiles(ctx, cfg.Output.ReportPath, cfg.Output.ExportPath)

	logCounters(m)
	log.Info().Int("products", total).Str("report", cfg.Output.ReportPath).Msg("search complete")
	return 0
}

// writeFile 은 산출물 텍스트 1개를 쓰고 카운터를 올린다.
func writeFile(path, content string, m *metrics.Metrics) bool {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		log.Error().Str("path", path).Err(err).Msg("artifact write failed")
		return false
	}
	if m != nil {
		atomic.AddInt64(&m.ArtifactsWrittenTotal, 1)
	}
	return true
}

// logBest 는 이번 실행의 최고 우선순위 제품을 로그에 남긴다.
// 운영자가 summary 를 열지 않고도 실행 품질을 가늠하는 용도.
func logBest(results []model.KeywordResult) {
	var best *model.ScoredProduct
	for i := range results {
		for j := range results[i].Products {
			p := &results[i].Products[j]
			if best == nil || p.Priority > best.Priority {
				best = p
			}
		}
	}
	if best != nil {
		log.Info().
			Str("name", best.Name).
			Int("price", best.Price).
			Float64("rate", best.Rate).
			Int("commission", best.Commission).
			Bool("rocket", best.Rocket).
			Msg("best product this run")
	}
}

func logCounters(m *metrics.Metrics) {
	log.Info().Str("counters", m.String()).Msg("run counters")
}
