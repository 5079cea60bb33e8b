// internal/shorts/manifest.go
package shorts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"coupang-shorts/internal/report"

	json "github.com/goccy/go-json"
)

// Manifest
// ------------------------------------------------------------
// 쇼츠 1편을 렌더링하는 데 필요한 모든 입력.
// 실제 TTS 합성과 영상 합성/인코딩은 외부 렌더러가 담당하고,
// 이 모듈은 렌더러가 소비할 매니페스트 JSON 만 만든다.
//
// VideoFile 은 렌더러가 출력할 파일명 규칙이다: shorts_<키워드>_<n>.mp4
// n 은 같은 키워드 안에서의 순번(1부터)이다. 키워드당 상위 N개 제품이
// 복원되므로 키워드만으로는 파일명이 유일하지 않다.
type Manifest struct {
	Keyword   string `json:"keyword"`
	VideoFile string `json:"videoFile"`

	Script    string `json:"script"`    // TTS 대본
	Name      string `json:"name"`      // 화면 제목 (최대 3줄 래핑은 렌더러 몫)
	PriceText string `json:"priceText"` // "₩19,900원"
	Category  string `json:"category"`
	Rocket    bool   `json:"rocket"`
	LinkNote  string `json:"linkNote"` // 영상 하단 고정 문구
}

// Build 는 복원된 제품 레코드 하나를 렌더 매니페스트로 변환한다.
// seq 는 같은 키워드 안에서의 1-기반 순번이다.
func Build(p report.ParsedProduct, seq int) Manifest {
	script := fmt.Sprintf("%s. 가격은 %s원입니다.", p.Name, report.Comma(p.Price))
	if p.Rocket {
		script += " 로켓배송 가능합니다."
	}

	return Manifest{
		Keyword:   p.Keyword,
		VideoFile: fmt.Sprintf("shorts_%s_%d.mp4", SafeFilename(p.Keyword), seq),
		Script:    script,
		Name:      p.Name,
		PriceText: fmt.Sprintf("₩%s원", report.Comma(p.Price)),
		Category:  p.Category,
		Rocket:    p.Rocket,
		LinkNote:  "🔗 링크는 댓글 확인!",
	}
}

// BuildAll 은 제품 목록 전체의 매니페스트를 만든다.
// 키워드별로 순번을 매겨 매니페스트 파일명이 서로 덮어쓰지 않게 한다.
func BuildAll(products []report.ParsedProduct) []Manifest {
	seq := make(map[string]int, len(products))
	out := make([]Manifest, 0, len(products))
	for _, p := range products {
		seq[p.Keyword]++
		out = append(out, Build(p, seq[p.Keyword]))
	}
	return out
}

// WriteAll 은 매니페스트를 dir/<VideoFile>.json 으로 저장하고
// 쓴 파일 이름 목록을 반환한다.
func WriteAll(dir string, manifests []Manifest) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(manifests))
	for _, m := range manifests {
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return written, err
		}
		name := m.VideoFile + ".json"
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return written, err
		}
		written = append(written, name)
	}
	return written, nil
}

// SafeFilename 은 키워드를 파일명에 안전한 형태로 바꾼다.
// 문자/숫자만 남기고 (한글 포함), 공백은 '_' 로 치환한다.
func SafeFilename(keyword string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(keyword) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case r == ' ' || r == '_':
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
