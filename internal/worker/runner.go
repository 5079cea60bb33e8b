// internal/worker/runner.go
package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"coupang-shorts/internal/config"
	"coupang-shorts/internal/coupang"
	"coupang-shorts/internal/metrics"
	"coupang-shorts/internal/model"
	"coupang-shorts/internal/score"

	"github.com/rs/zerolog/log"
)

// Runner 는 검색 단계의 핵심 파이프라인이다.
// 키워드 목록을 순서대로 돌며
//   - API 검색 (서명 + retry 는 Client 가 담당)
//   - 수수료 추정 / 랭킹 / 최소 수수료율 필터
//   - 상위 제품의 파트너스 링크 변환 (best-effort)
//
// 를 수행하고 키워드별 결과를 누적한다.
//
// 의도적으로 병렬화하지 않는다. 쿠팡 API 의 rate limit 이 빡빡해서
// 키워드 사이에 CallDelay 만큼 고정 대기를 넣는 것이 안정적이다.
// (예전에 goroutine 으로 돌렸다가 429 폭탄을 맞은 적이 있다)
type Runner struct {
	cfg     config.SearchConfig
	metrics *metrics.Metrics
	client  *coupang.Client
}

func NewRunner(cfg config.SearchConfig, m *metrics.Metrics, client *coupang.Client) *Runner {
	return &Runner{cfg: cfg, metrics: m, client: client}
}

// Run 은 전체 키워드를 처리하고 키워드별 결과를 반환한다.
//
// 키워드 1개의 실패는 실행 전체를 중단시키지 않는다.
// 인증 실패(401)도 마찬가지로 해당 키워드만 버린다. retry 만 하지 않을 뿐,
// 남은 키워드는 계속 진행한다. "전체 0건"의 판정은 호출자(main) 몫이다.
func (r *Runner) Run(ctx context.Context) ([]model.KeywordResult, error) {
	results := make([]model.KeywordResult, 0, len(r.cfg.Keywords))

	for i, keyword := range r.cfg.Keywords {
		atomic.AddInt64(&r.metrics.KeywordsTotal, 1)

		log.Info().
			Str("keyword", keyword).
			Int("position", i+1).
			Int("total", len(r.cfg.Keywords)).
			Msg("searching keyword")

		res, err := r.processKeyword(ctx, keyword)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			atomic.AddInt64(&r.metrics.KeywordsFailedTotal, 1)
			if errors.Is(err, coupang.ErrAuth) {
				// 결정적 실패라 retry 는 없지만, 키워드 격리는 지킨다.
				log.Error().Str("keyword", keyword).Err(err).Msg("authentication rejected, keyword abandoned")
			} else {
				log.Error().Str("keyword", keyword).Err(err).Msg("keyword search abandoned")
			}
		} else {
			results = append(results, res)
		}

		// rate limit 존중: 마지막 키워드 뒤에는 기다릴 필요 없음
		if i < len(r.cfg.Keywords)-1 {
			log.Info().Dur("delay", r.cfg.CallDelay).Msg("waiting before next keyword")
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(r.cfg.CallDelay):
			}
		}
	}

	return results, nil
}

// processKeyword 는 키워드 1개를 검색하고 선별까지 마친다.
func (r *Runner) processKeyword(ctx context.Context, keyword string) (model.KeywordResult, error) {
	products, err := r.client.Search(ctx, keyword, r.cfg.Limit)
	if err != nil {
		return model.KeywordResult{}, err
	}

	// 같은 상품이 겹쳐 들어오는 경우 대비 (가격 구간 분할 질의, API 중복 응답)
	products = score.Dedup(products)

	if len(products) == 0 {
		log.Warn().Str("keyword", keyword).Msg("no products returned")
		return model.KeywordResult{Keyword: keyword, Qualified: true}, nil
	}

	analyzed := score.Analyze(products, r.cfg.PriceMin, r.cfg.PriceMax)
	selected, qualified := score.Filter(analyzed, r.cfg.MinRate, r.cfg.TopN)

	if qualified {
		atomic.AddInt64(&r.metrics.ProductsQualifiedTotal, int64(len(selected)))
	} else {
		log.Warn().
			Str("keyword", keyword).
			Float64("minRate", r.cfg.MinRate).
			Msg("no products met the minimum rate, showing top of all instead")
	}

	// 상위 제품 링크를 파트너스 추적 링크로 변환 (실패해도 원본 유지)
	if r.cfg.Deeplink && len(selected) > 0 {
		urls := make([]string, len(selected))
		for i, p := range selected {
			urls[i] = p.URL
		}
		converted := r.client.ConvertDeeplinks(ctx, urls)
		for i := range selected {
			selected[i].URL = converted[i]
		}
	}

	log.Info().
		Str("keyword", keyword).
		Int("seen", len(products)).
		Int("selected", len(selected)).
		Bool("qualified", qualified).
		Msg("keyword processed")

	return model.KeywordResult{
		Keyword:   keyword,
		Products:  selected,
		Qualified: qualified,
	}, nil
}
