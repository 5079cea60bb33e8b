// internal/score/estimator.go
package score

import (
	"math"
	"strings"

	"coupang-shorts/internal/model"
)

// 카테고리별 평균 수수료율 (%).
//
// 순서가 의미를 가진다: 카테고리명에 키가 "부분 문자열"로 포함되는
// 첫 번째 항목이 이긴다 (best match 가 아니라 first match).
// 예: "건강식품" 이 "식품"(4.5) 보다 앞에 있어야 5.0 으로 잡힌다.
var categoryRates = []struct {
	key  string
	rate float64
}{
	{"패션의류", 6.0},
	{"패션잡화", 6.0},
	{"화장품", 5.0},
	{"뷰티", 5.0},
	{"건강식품", 5.0},
	{"건강", 5.0},
	{"식품", 4.5},
	{"생활용품", 4.0},
	{"가전디지털", 3.0},
	{"도서", 7.5},
	{"출산/육아", 4.5},
	{"스포츠", 4.0},
}

// 수수료율 추정 파라미터.
// 경계값은 모두 "이상/이하" (inclusive) 이다:
// price == 20000 이면 저가 보너스, price == 100000 이면 고가 페널티.
const (
	defaultRate = 3.5

	lowPriceMax      = 20000  // 이하 → +0.5
	highPriceMin     = 100000 // 이상 → −0.5
	lowPriceBonus    = 0.5
	highPricePenalty = 0.5

	rocketBonus = 0.3 // 로켓배송 → +0.3

	// 추정치 clamp 범위. 실제 수수료율이 이 범위를 벗어나는 카테고리는
	// 없다고 보고, 보정이 누적돼도 비현실적인 값이 나오지 않게 자른다.
	rateMin = 1.0
	rateMax = 10.0
)

// EstimateRate 는 카테고리/가격/배송 타입 기반으로 수수료율을 추정한다.
// 반환값은 % 단위, 소수 1자리로 반올림, [rateMin, rateMax] 로 clamp.
//
// 어디까지나 휴리스틱 추정치다. 출력할 때는 반드시 "(추정치)" 를 붙인다.
func EstimateRate(p model.Product) float64 {
	rate := defaultRate
	for _, cr := range categoryRates {
		if strings.Contains(p.Category, cr.key) {
			rate = cr.rate
			break
		}
	}

	// 보정은 반드시 이 순서로: 가격 → 배송
	if p.Price <= lowPriceMax {
		rate += lowPriceBonus
	} else if p.Price >= highPriceMin {
		rate -= highPricePenalty
	}

	if p.Rocket {
		rate += rocketBonus
	}

	if rate < rateMin {
		rate = rateMin
	} else if rate > rateMax {
		rate = rateMax
	}

	return math.Round(rate*10) / 10
}

// Commission 은 추정 수수료 금액(원)을 계산한다.
// 불변식: Commission == floor(price * rate / 100)
func Commission(price int, rate float64) int {
	if price <= 0 || rate <= 0 {
		return 0
	}
	return int(math.Floor(float64(price) * rate / 100.0))
}

// Score 는 단일 제품의 추정을 완료한 ScoredProduct 를 만든다.
func Score(p model.Product) model.ScoredProduct {
	rate := EstimateRate(p)
	return model.ScoredProduct{
		Product:    p,
		Rate:       rate,
		Commission: Commission(p.Price, rate),
		Priority:   priorityScore(rate, p),
	}
}
