package main

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"

	"coupang-shorts/internal/config"
	"coupang-shorts/internal/logger"
	"coupang-shorts/internal/metrics"
	"coupang-shorts/internal/report"
	"coupang-shorts/internal/shorts"
	"coupang-shorts/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	stdlog "log"
)

// cmd/pipeline
// ====================================================================
// 렌더링 준비 단계 바이너리.
//
//	result.txt 파싱 → products.json 재작성 → 쇼츠 렌더 매니페스트 생성
//	→ summary.txt 작성 → (옵션) S3 아카이브
//
// 검색 단계와 별도 프로세스로 실행되며, 두 단계는 result.txt 텍스트
// 포맷으로만 연결된다. 공유 저장소는 없다.
//
// 리포트에서 0건이 복원되면 (API 장애, 실패 리포트) placeholder
// 세트로 대체한다 — 다운스트림 렌더러와 업로드 스케줄이 빈 입력으로
// 깨지는 것보다 더미 영상이 낫다는 운영 판단이다.
//
// 종료 코드:
//   - 0: 매니페스트를 하나 이상 만들었음 (placeholder 포함)
//   - 1: 설정 오류 또는 산출물을 전혀 만들지 못함
// ====================================================================

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Printf("[FATAL] invalid configuration: %v", err)
		return 1
	}

	runID := uuid.NewString()
	logger.Init(cfg, runID)

	m := metrics.New()

	// ====================================================================
	// result.txt 파싱 (+ placeholder fallback)
	// ====================================================================
	var products []report.ParsedProduct
	fallback := false

	content, err := os.ReadFile(cfg.Output.ReportPath)
	if err != nil {
		log.Warn().Str("path", cfg.Output.ReportPath).Err(err).Msg("report missing, using placeholders")
	} else {
		products = report.Parse(string(content))
	}

	if len(products) == 0 {
		log.Warn().Msg("no products recovered from report, using placeholder set")
		products = report.Placeholders()
		fallback = true
	}

	for _, p := range products {
		log.Info().
			Str("keyword", p.Keyword).
			Str("name", p.Name).
			Int("price", p.Price).
			Msg("product recovered")
	}

	// ====================================================================
	// 구조화 export + 렌더 매니페스트 작성
	// ====================================================================
	if err := report.ExportParsed(cfg.Output.ExportPath, products); err != nil {
		log.Error().Err(err).Msg("export write failed")
	} else {
		atomic.AddInt64(&m.ArtifactsWrittenTotal, 1)
	}

	manifests := shorts.BuildAll(products)
	written, err := shorts.WriteAll(cfg.Output.ManifestDir, manifests)
	if err != nil {
		log.Error().Err(err).Msg("manifest write failed")
	}
	atomic.AddInt64(&m.ArtifactsWrittenTotal, int64(len(written)))

	if len(written) == 0 {
		log.Error().Msg("no manifests produced")
		return 1
	}

	// ====================================================================
	// 실행 요약 + 아카이브
	// ====================================================================
	artifacts := append([]string{cfg.Output.ExportPath}, written...)
	err = report.WriteSummary(cfg.Output.SummaryPath, report.SummaryInput{
		RunID:     runID,
		Parsed:    len(products),
		Manifests: len(written),
		Fallback:  fallback,
		Artifacts: artifacts,
		Counters:  m.String(),
	})
	if err != nil {
		log.Error().Err(err).Msg("summary write failed")
	} else {
		atomic.AddInt64(&m.ArtifactsWrittenTotal, 1)
	}

	ctx := context.Background()
	arch := worker.NewArchiver(cfg.Archive, cfg.InstanceID, m)

	archivePaths := []string{cfg.Output.ExportPath, cfg.Output.SummaryPath}
	for _, name := range written {
		archivePaths = append(archivePaths, filepath.Join(cfg.Output.ManifestDir, name))
	}
	arch.ArchiveFiles(ctx, archivePaths...)

	log.Info().
		Int("products", len(products)).
		Int("manifests", len(written)).
		Bool("fallback", fallback).
		Msg("pipeline complete")
	return 0
}
