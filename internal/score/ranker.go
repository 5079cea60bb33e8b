// internal/score/ranker.go
package score

import (
	"sort"

	"coupang-shorts/internal/model"
)

// 우선순위 점수 파라미터.
//
// score = rate*10 + (로켓배송이면 +20) + (가격이 중간 밴드면 +10)
//
// 중간 가격 밴드(1만~3만원)는 구매 전환이 가장 잘 되는 구간이라
// 수수료율이 같다면 이 구간을 먼저 민다.
const (
	rateWeight    = 10.0
	shippingBonus = 20.0
	midPriceBonus = 10.0

	midPriceLow  = 10000
	midPriceHigh = 30000
)

func priorityScore(rate float64, p model.Product) float64 {
	score := rate * rateWeight
	if p.Rocket {
		score += shippingBonus
	}
	if p.Price >= midPriceLow && p.Price <= midPriceHigh {
		score += midPriceBonus
	}
	return score
}

// Analyze 는 원본 제품 목록을 가격 범위로 거른 뒤 전부 스코어링한다.
// priceMin/priceMax 가 0 이하이면 해당 방향의 필터는 적용하지 않는다.
func Analyze(products []model.Product, priceMin, priceMax int) []model.ScoredProduct {
	out := make([]model.ScoredProduct, 0, len(products))
	for _, p := range products {
		if priceMin > 0 && p.Price < priceMin {
			continue
		}
		if priceMax > 0 && p.Price > priceMax {
			continue
		}
		out = append(out, Score(p))
	}
	return out
}

// Rank 는 우선순위 점수 내림차순으로 정렬한다 (in place, stable).
//
// 동점 처리는 (수수료율, 예상 수수료, 가격) 사전식 내림차순으로 고정한다.
// 과거에 수수료 금액만 보는 버전도 있었지만, 정책을 하나로 통일했다.
func Rank(items []model.ScoredProduct) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Rate != b.Rate {
			return a.Rate > b.Rate
		}
		if a.Commission != b.Commission {
			return a.Commission > b.Commission
		}
		return a.Price > b.Price
	})
}

// Filter 는 추정 수수료율이 minRate 이상인 제품 중 상위 topN 을 고른다.
//
// 조건을 만족하는 제품이 하나도 없으면, 전체 중 수수료율 높은 순으로
// topN 을 대신 돌려주고 qualified=false 를 반환한다.
// 호출자는 이 구분을 반드시 경고로 표기해야 한다 —
// 기준 미달 결과를 기준 통과처럼 조용히 내보내면 안 된다.
//
// 입력은 Rank 된 상태를 가정하지 않는다. 내부에서 정렬한다.
func Filter(items []model.ScoredProduct, minRate float64, topN int) ([]model.ScoredProduct, bool) {
	if topN <= 0 {
		topN = len(items)
	}

	filtered := make([]model.ScoredProduct, 0, len(items))
	for _, it := range items {
		if it.Rate >= minRate {
			filtered = append(filtered, it)
		}
	}

	if len(filtered) == 0 {
		// 기준 미달: 전체에서 수수료율 높은 순 topN 을 fallback 으로
		all := make([]model.ScoredProduct, len(items))
		copy(all, items)
		sort.SliceStable(all, func(i, j int) bool {
			return all[i].Rate > all[j].Rate
		})
		if len(all) > topN {
			all = all[:topN]
		}
		return all, false
	}

	Rank(filtered)
	if len(filtered) > topN {
		filtered = filtered[:topN]
	}
	return filtered, true
}

// Dedup 은 제품 ID 기준으로 중복을 제거한다 (첫 등장 우선, 순서 유지).
// 같은 키워드를 가격 구간별로 나눠 여러 번 질의하면
// 동일 상품이 겹쳐 들어오므로, 최종 랭킹 전에 반드시 거쳐야 한다.
func Dedup(products []model.Product) []model.Product {
	seen := make(map[int64]struct{}, len(products))
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
