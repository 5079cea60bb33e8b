// internal/model/product.go
package model

// Product
// ------------------------------------------------------------
// 쿠팡 파트너스 검색 API 가 돌려주는 단일 상품 구조체.
// 파이프라인 전체에서 데이터의 "기본 단위"가 된다.
// Client → Estimator/Ranker → Report 작성까지 그대로 전달된다.
//
// 외부 API 응답은 필드가 빠져 있을 수 있으므로
// 모든 필드는 zero value 가 안전한 기본값이 되도록 설계한다.
// (빈 문자열 / 0 / false)
type Product struct {
	ID       int64  `json:"productId"`    // 상품 고유 ID (dedup 기준)
	Name     string `json:"productName"`  // 상품명
	Price    int    `json:"productPrice"` // 판매가 (원)
	ImageURL string `json:"productImage"` // 상품 이미지 URL
	URL      string `json:"productUrl"`   // 상품/파트너스 링크
	Rocket   bool   `json:"isRocket"`     // 로켓배송 여부
	Category string `json:"categoryName"` // 카테고리명 (예: 패션의류)
}

// ScoredProduct
// ------------------------------------------------------------
// 수수료 추정이 끝난 상품.
// Rate 는 어디까지나 추정치이며, 출력 시 반드시 "(추정치)" 로 표기한다.
//
// 불변식: Commission == floor(Price * Rate / 100)
type ScoredProduct struct {
	Product

	Rate       float64 `json:"estimatedRate"`       // 예상 수수료율 (%, 소수 1자리)
	Commission int     `json:"estimatedCommission"` // 예상 수수료 (원)
	Priority   float64 `json:"priorityScore"`       // 정렬용 우선순위 점수
}

// KeywordResult
// ------------------------------------------------------------
// 키워드 1개에 대한 검색/선별 결과.
// Qualified=false 는 최소 수수료율 조건을 만족한 상품이 없어서
// 전체 중 상위 N개를 대신 담았다는 뜻이다.
// 리포트 작성 시 이 구분을 경고로 표기해야 한다.
type KeywordResult struct {
	Keyword   string          `json:"keyword"`
	Products  []ScoredProduct `json:"products"`
	Qualified bool            `json:"qualified"`
}
