// internal/report/parse.go
package report

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ParsedProduct
// ------------------------------------------------------------
// 리포트에서 복원한 제품 레코드.
// 렌더링 단계는 구조화 저장소 없이 result.txt 만 보고 동작하므로
// 이 구조체가 두 프로세스 사이의 사실상의 "프로토콜"이다.
//
// URL 은 직렬화 시점에 잘려 있으므로 (보안상 전체 링크를 남기지 않음)
// 완전 복원이 불가능한 lossy 필드다.
type ParsedProduct struct {
	Keyword    string  `json:"keyword"`
	Name       string  `json:"name"`
	Price      int     `json:"price"`
	Category   string  `json:"category"`
	Rate       float64 `json:"rate"`
	Commission int     `json:"commission"`
	Rocket     bool    `json:"rocket"`
	URL        string  `json:"url"`
}

// serialize.go 의 라벨과 짝을 이루는 역문법.
var (
	sectionSplitRe = regexp.MustCompile(`={70}\n📌 키워드: `)
	keywordRe      = regexp.MustCompile(`^(.+?)\s+\((\d+)/(\d+)\)`)
	itemStartRe    = regexp.MustCompile(`(?m)^(\d+)\.\s+(.+)$`)

	priceRe      = regexp.MustCompile(`💰 가격:\s*([\d,]+)원`)
	categoryRe   = regexp.MustCompile(`📂 카테고리:\s*(.+)`)
	rateRe       = regexp.MustCompile(`📊 예상 수수료율:\s*([\d.]+)%`)
	commissionRe = regexp.MustCompile(`💵 예상 수수료:\s*([\d,]+)원`)
	linkRe       = regexp.MustCompile(`🔗 파트너스 링크:\s*(\S+)`)
)

// Parse 는 리포트 텍스트를 다시 제품 레코드 목록으로 되돌린다.
//
// 관대한 파서다:
//   - "검색 실패" / "제품 없음" 섹션은 오류 없이 건너뛴다.
//   - 제품명(필수)을 못 찾은 블록은 그 블록만 버린다.
//   - 나머지 필드는 누락 시 안전한 기본값 (0 / "" / false, 수수료율은 5.0).
//
// 전체가 실패 리포트라면 빈 슬라이스가 나온다.
// 그 경우 대체 동작은 호출자 몫이다 — Placeholders() 참고.
func Parse(content string) []ParsedProduct {
	var products []ParsedProduct

	sections := sectionSplitRe.Split(content, -1)
	// sections[0] 은 첫 구분선 이전의 내용이므로 제외
	for _, section := range sections[1:] {
		km := keywordRe.FindStringSubmatch(section)
		if km == nil {
			continue
		}
		keyword := strings.TrimSpace(km[1])

		// 실패/빈 섹션은 그대로 통과
		if strings.Contains(section, "검색 실패") || strings.Contains(section, "제품 없음") {
			log.Debug().Str("keyword", keyword).Msg("skipping failed section")
			continue
		}

		products = append(products, parseSection(keyword, section)...)
	}

	return products
}

// parseSection 은 한 키워드 섹션 안의 번호 붙은 제품 블록들을 파싱한다.
func parseSection(keyword, section string) []ParsedProduct {
	starts := itemStartRe.FindAllStringSubmatchIndex(section, -1)
	if starts == nil {
		return nil
	}

	var out []ParsedProduct
	for i, loc := range starts {
		end := len(section)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		block := section[loc[0]:end]

		// 제품명: 번호 라인의 나머지. 이름 끝에 로켓 마커가 붙어 있으면 제거.
		name := strings.TrimSpace(section[loc[4]:loc[5]])
		name = strings.TrimSpace(strings.TrimSuffix(name, "🚀"))
		if name == "" {
			continue
		}

		p := ParsedProduct{
			Keyword: keyword,
			Name:    name,
			Rate:    5.0, // 수수료율 라벨이 없던 과거 포맷 대비 기본값
			Rocket:  strings.Contains(block, "🚀"),
		}

		if m := priceRe.FindStringSubmatch(block); m != nil {
			p.Price = parseCommaInt(m[1])
		}
		if m := categoryRe.FindStringSubmatch(block); m != nil {
			p.Category = strings.TrimSpace(m[1])
		}
		if m := rateRe.FindStringSubmatch(block); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				p.Rate = v
			}
		}
		if m := commissionRe.FindStringSubmatch(block); m != nil {
			p.Commission = parseCommaInt(m[1])
		}
		if m := linkRe.FindStringSubmatch(block); m != nil {
			p.URL = strings.TrimSuffix(m[1], "...")
		}

		out = append(out, p)
	}

	return out
}

func parseCommaInt(s string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0
	}
	return n
}

// Placeholders 는 리포트에서 0건이 복원됐을 때 렌더링 단계가
// 대신 사용할 고정 더미 세트다.
// 업스트림 API 장애 중에도 쇼츠 생성 경로 자체는 계속 돌아가야
// 다음 단계(업로드, 스케줄)가 깨지지 않는다.
func Placeholders() []ParsedProduct {
	return []ParsedProduct{
		{
			Keyword:    "여성의류",
			Name:       "제니트 여성 루즈핏 반오픈 하이넥 니트",
			Price:      19900,
			Category:   "패션의류",
			Rate:       6.8,
			Commission: 1353,
			Rocket:     true,
		},
		{
			Keyword:    "화장품세트",
			Name:       "어반티지 비타민C 토너 세럼 기초 세트",
			Price:      29800,
			Category:   "화장품",
			Rate:       5.8,
			Commission: 1728,
			Rocket:     true,
		},
		{
			Keyword:    "건강식품",
			Name:       "뉴트리원 프리미엄 유산균 3개월분",
			Price:      24900,
			Category:   "건강식품",
			Rate:       5.8,
			Commission: 1444,
			Rocket:     false,
		},
	}
}
