// internal/report/serialize.go
package report

import (
	"fmt"
	"strconv"
	"strings"

	"coupang-shorts/internal/model"
)

// result.txt 는 검색 단계와 렌더링 단계 사이의 유일한 인터페이스다.
// 여기의 라벨/구분선/단위 표기는 parse.go 의 역문법과 정확히 짝을 이룬다.
// 한쪽을 고치면 반드시 반대쪽도 같이 고쳐야 한다.
const (
	separator = "======================================================================" // '=' x70

	labelKeyword    = "📌 키워드: "
	labelPrice      = "💰 가격: "
	labelCategory   = "📂 카테고리: "
	labelRate       = "📊 예상 수수료율: "
	labelCommission = "💵 예상 수수료: "
	labelRocket     = "🚀 로켓배송"
	labelLink       = "🔗 파트너스 링크: "

	markerNoResult = "⚠️ 제품 없음"
	markerNotFound = "⚠️ 예상 고수수료 제품을 찾지 못했습니다."
	markerBelowMin = "⚠️ 수수료율 기준 미달 — 전체 중 상위 제품을 표시합니다."

	// 추적 링크 전체를 평문 리포트에 남기지 않는다.
	// 잘린 링크는 parse 시 복원되지 않는다 (의도된 lossy 필드).
	linkTruncateLen = 50
)

// Write 는 키워드별 결과를 리포트 텍스트로 직렬화한다.
//
// 섹션 형식:
//
//	======================================================================
//	📌 키워드: 여성의류 (1/3)
//	======================================================================
//
//	1. 제니트 여성 루즈핏 하이넥 니트
//	   💰 가격: 19,900원
//	   📂 카테고리: 패션의류
//	   📊 예상 수수료율: 6.8% (추정치)
//	   💵 예상 수수료: 1,353원
//	   🚀 로켓배송
//	   🔗 파트너스 링크: https://link.coupang.com/a/...
func Write(results []model.KeywordResult) string {
	var sb strings.Builder

	for i, res := range results {
		sb.WriteString(separator + "\n")
		fmt.Fprintf(&sb, "%s%s (%d/%d)\n", labelKeyword, res.Keyword, i+1, len(results))
		sb.WriteString(separator + "\n\n")

		if len(res.Products) == 0 {
			sb.WriteString(markerNoResult + "\n\n")
			continue
		}

		if !res.Qualified {
			sb.WriteString(markerBelowMin + "\n\n")
		}

		for n, p := range res.Products {
			fmt.Fprintf(&sb, "%d. %s\n", n+1, p.Name)
			fmt.Fprintf(&sb, "   %s%s원\n", labelPrice, Comma(p.Price))
			fmt.Fprintf(&sb, "   %s%s\n", labelCategory, p.Category)
			fmt.Fprintf(&sb, "   %s%s%% (추정치)\n", labelRate, formatRate(p.Rate))
			fmt.Fprintf(&sb, "   %s%s원\n", labelCommission, Comma(p.Commission))
			if p.Rocket {
				fmt.Fprintf(&sb, "   %s\n", labelRocket)
			}
			fmt.Fprintf(&sb, "   %s%s...\n", labelLink, truncate(p.URL, linkTruncateLen))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// WriteFailure 는 이번 실행에서 쓸 만한 결과가 하나도 없을 때의
// 실패 리포트 본문을 만든다. parse 쪽은 이 본문에서 0건을 읽게 되고,
// 렌더링 단계는 placeholder 세트로 대체한다.
func WriteFailure(reason string) string {
	var sb strings.Builder
	sb.WriteString(separator + "\n")
	sb.WriteString(markerNotFound + "\n")
	sb.WriteString(separator + "\n\n")

	if reason != "" {
		sb.WriteString("원인: " + reason + "\n\n")
	}

	sb.WriteString("가능한 원인:\n")
	sb.WriteString("- API 키 인증 문제\n")
	sb.WriteString("- 검색 키워드 문제\n")
	sb.WriteString("- 일시적 API 오류\n\n")
	sb.WriteString("해결 방법:\n")
	sb.WriteString("1. GitHub Secrets에서 API 키 재확인\n")
	sb.WriteString("2. 쿠팡 파트너스에서 키 재발급\n")
	sb.WriteString("3. 잠시 후 다시 시도\n")
	sb.WriteString(separator + "\n")
	return sb.String()
}

// Comma 는 천 단위 구분자를 붙인다. 19900 → "19,900"
// 리포트와 렌더 매니페스트가 같은 가격 표기를 쓰도록 여기 한 곳에만 둔다.
func Comma(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var sb strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		sb.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}

// formatRate 는 수수료율을 소수 1자리로 표기한다. 6.0 → "6.0"
func formatRate(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// truncate 는 rune 단위로 자른다 (한글 URL 파라미터가 섞여도 안전).
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
