// internal/report/export.go
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"coupang-shorts/internal/model"

	json "github.com/goccy/go-json"
)

// 텍스트 리포트 외의 구조화 산출물.
//
// result.txt 가 사람이 보는 인터페이스라면, products.json 은
// 패턴 매칭 파서를 거치고 싶지 않은 downstream 소비자를 위한
// 구조화 버전이다. 둘은 같은 실행에서 같은 데이터로 만들어진다.

// ExportResults 는 검색 단계의 키워드별 결과를 JSON 배열로 저장한다.
func ExportResults(path string, results []model.KeywordResult) error {
	return writeJSON(path, results)
}

// ExportParsed 는 렌더링 단계에서 복원한 레코드를 JSON 배열로 저장한다.
func ExportParsed(path string, products []ParsedProduct) error {
	return writeJSON(path, products)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SummaryInput 은 summary.txt 에 기록할 실행 통계.
type SummaryInput struct {
	RunID     string
	Parsed    int      // 리포트에서 복원된 제품 수
	Manifests int      // 생성된 렌더 매니페스트 수
	Fallback  bool     // placeholder 세트로 대체했는지
	Artifacts []string // 이번 실행이 만든 파일 이름들
	Counters  string   // metrics.Metrics.String() 덤프
}

// WriteSummary 는 운영 확인용 실행 요약 파일을 쓴다.
// 형식은 자유 텍스트이며 어떤 것도 이 파일을 다시 파싱하지 않는다.
func WriteSummary(path string, in SummaryInput) error {
	var sb strings.Builder

	sb.WriteString("쿠팡 쇼츠 자동 생성 요약\n")
	fmt.Fprintf(&sb, "실행 ID: %s\n", in.RunID)
	fmt.Fprintf(&sb, "생성 시간: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "복원된 제품: %d개\n", in.Parsed)
	fmt.Fprintf(&sb, "생성된 매니페스트: %d개\n", in.Manifests)
	if in.Fallback {
		sb.WriteString("⚠️ 리포트에서 제품을 복원하지 못해 placeholder 세트를 사용했습니다.\n")
	}
	sb.WriteString("\n")

	if len(in.Artifacts) > 0 {
		sb.WriteString("생성된 파일:\n")
		for _, a := range in.Artifacts {
			fmt.Fprintf(&sb, "  - %s\n", a)
		}
		sb.WriteString("\n")
	}

	if in.Counters != "" {
		sb.WriteString("카운터:\n")
		sb.WriteString(in.Counters)
	}

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
