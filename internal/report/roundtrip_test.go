package report

import (
	"strings"
	"testing"

	"coupang-shorts/internal/model"
)

func sampleResults() []model.KeywordResult {
	return []model.KeywordResult{
		{
			Keyword:   "여성의류",
			Qualified: true,
			Products: []model.ScoredProduct{
				{
					Product: model.Product{
						ID: 1, Name: "제니트 여성 루즈핏 하이넥 니트",
						Price: 19900, Category: "패션의류", Rocket: true,
						URL: "https://link.coupang.com/a/bXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX",
					},
					Rate: 6.8, Commission: 1353,
				},
				{
					Product: model.Product{
						ID: 2, Name: "베이직 오버핏 맨투맨",
						Price: 15900, Category: "패션의류", Rocket: false,
						URL: "https://www.coupang.com/vp/products/2",
					},
					Rate: 6.5, Commission: 1033,
				},
			},
		},
		{
			Keyword:   "건강식품",
			Qualified: true,
			Products: []model.ScoredProduct{
				{
					Product: model.Product{
						ID: 3, Name: "프리미엄 유산균 3개월분",
						Price: 24900, Category: "건강식품", Rocket: true,
						URL: "https://www.coupang.com/vp/products/3",
					},
					Rate: 5.8, Commission: 1444,
				},
			},
		},
	}
}

func TestRoundTrip_RecoversAllFields(t *testing.T) {
	results := sampleResults()
	text := Write(results)
	parsed := Parse(text)

	if len(parsed) != 3 {
		t.Fatalf("got %d products, want 3\nreport:\n%s", len(parsed), text)
	}

	want := []struct {
		keyword, name, category string
		price, commission       int
		rate                    float64
		rocket                  bool
	}{
		{"여성의류", "제니트 여성 루즈핏 하이넥 니트", "패션의류", 19900, 1353, 6.8, true},
		{"여성의류", "베이직 오버핏 맨투맨", "패션의류", 15900, 1033, 6.5, false},
		{"건강식품", "프리미엄 유산균 3개월분", "건강식품", 24900, 1444, 5.8, true},
	}

	for i, w := range want {
		p := parsed[i]
		if p.Keyword != w.keyword || p.Name != w.name || p.Category != w.category {
			t.Errorf("product %d: got (%s, %s, %s), want (%s, %s, %s)",
				i, p.Keyword, p.Name, p.Category, w.keyword, w.name, w.category)
		}
		if p.Price != w.price || p.Commission != w.commission || p.Rate != w.rate {
			t.Errorf("product %d: got price=%d commission=%d rate=%.1f, want %d/%d/%.1f",
				i, p.Price, p.Commission, p.Rate, w.price, w.commission, w.rate)
		}
		if p.Rocket != w.rocket {
			t.Errorf("product %d: rocket=%v, want %v", i, p.Rocket, w.rocket)
		}
	}
}

func TestRoundTrip_LinkIsLossy(t *testing.T) {
	results := sampleResults()
	parsed := Parse(Write(results))

	// 직렬화 시 50자로 잘리므로 원본 전체 링크는 복원되지 않는다.
	long := results[0].Products[0].URL
	if parsed[0].URL == long {
		t.Fatal("full tracking link must not survive serialization")
	}
	if !strings.HasPrefix(long, parsed[0].URL) {
		t.Fatalf("recovered link must be a prefix of the original:\n%s\n%s", parsed[0].URL, long)
	}
}

func TestWrite_MarksUnqualifiedSections(t *testing.T) {
	results := []model.KeywordResult{
		{
			Keyword:   "무선이어폰",
			Qualified: false,
			Products: []model.ScoredProduct{
				{Product: model.Product{ID: 1, Name: "저수수료 이어폰", Price: 30000}, Rate: 3.0, Commission: 900},
			},
		},
	}

	text := Write(results)
	if !strings.Contains(text, "기준 미달") {
		t.Fatalf("below-minimum section must carry a warning marker:\n%s", text)
	}

	// 경고가 있어도 제품 자체는 복원된다
	parsed := Parse(text)
	if len(parsed) != 1 || parsed[0].Name != "저수수료 이어폰" {
		t.Fatalf("unqualified products must still round-trip: %+v", parsed)
	}
}

func TestParse_SkipsEmptyAndFailedSections(t *testing.T) {
	results := []model.KeywordResult{
		{Keyword: "실패키워드", Qualified: true}, // 제품 없음
		{
			Keyword:   "정상키워드",
			Qualified: true,
			Products: []model.ScoredProduct{
				{Product: model.Product{ID: 1, Name: "정상 제품", Price: 12000, Category: "생활용품"}, Rate: 4.5, Commission: 540},
			},
		},
	}

	parsed := Parse(Write(results))
	if len(parsed) != 1 {
		t.Fatalf("got %d products, want 1 (empty section skipped)", len(parsed))
	}
	if parsed[0].Keyword != "정상키워드" {
		t.Fatalf("wrong keyword recovered: %s", parsed[0].Keyword)
	}
}

func TestParse_FailureReportYieldsZeroRecords(t *testing.T) {
	text := WriteFailure("전체 키워드에서 검색 결과 없음")
	if parsed := Parse(text); len(parsed) != 0 {
		t.Fatalf("failure report must parse to zero records, got %d", len(parsed))
	}
}

func TestPlaceholders_UsableByRenderer(t *testing.T) {
	ps := Placeholders()
	if len(ps) == 0 {
		t.Fatal("placeholder set must not be empty")
	}
	for _, p := range ps {
		if p.Keyword == "" || p.Name == "" || p.Price <= 0 {
			t.Fatalf("placeholder must be fully populated: %+v", p)
		}
	}
}

func TestComma(t *testing.T) {
	cases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		19900:    "19,900",
		1353:     "1,353",
		12345678: "12,345,678",
	}
	for n, want := range cases {
		if got := Comma(n); got != want {
			t.Errorf("Comma(%d) = %s, want %s", n, got, want)
		}
	}
}
