package score

import (
	"testing"

	"coupang-shorts/internal/model"
)

func scored(id int64, rate float64, price int, rocket bool) model.ScoredProduct {
	p := model.Product{ID: id, Price: price, Rocket: rocket}
	return model.ScoredProduct{
		Product:    p,
		Rate:       rate,
		Commission: Commission(price, rate),
		Priority:   priorityScore(rate, p),
	}
}

func TestRank_PriorityDescending(t *testing.T) {
	items := []model.ScoredProduct{
		scored(1, 4.0, 50000, false), // priority 40
		scored(2, 6.8, 19900, true),  // priority 98
		scored(3, 5.0, 25000, false), // priority 60
	}
	Rank(items)

	wantOrder := []int64{2, 3, 1}
	for i, want := range wantOrder {
		if items[i].ID != want {
			t.Fatalf("position %d: got id=%d, want %d", i, items[i].ID, want)
		}
	}
}

func TestRank_TieBreak(t *testing.T) {
	// 같은 priority: (rate, commission, price) 사전식 내림차순
	a := scored(1, 5.0, 40000, false) // priority 50, commission 2000
	b := scored(2, 5.0, 50000, false) // priority 50, commission 2500

	items := []model.ScoredProduct{a, b}
	Rank(items)
	if items[0].ID != 2 {
		t.Fatalf("equal rate: higher commission must come first, got id=%d", items[0].ID)
	}

	// rate 까지 같고 commission 까지 같으면 가격 내림차순
	c := scored(3, 5.0, 0, false)
	d := scored(4, 5.0, 0, false)
	c.Commission, d.Commission = 100, 100
	c.Priority, d.Priority = 50, 50
	c.Price, d.Price = 1000, 2000

	items = []model.ScoredProduct{c, d}
	Rank(items)
	if items[0].ID != 4 {
		t.Fatalf("full tie except price: higher price first, got id=%d", items[0].ID)
	}
}

func TestFilter_MinRate(t *testing.T) {
	items := []model.ScoredProduct{
		scored(1, 6.8, 19900, true),
		scored(2, 3.8, 98600, true),
		scored(3, 4.5, 25000, false),
	}

	selected, qualified := Filter(items, 4.0, 5)
	if !qualified {
		t.Fatal("expected qualified=true")
	}
	if len(selected) != 2 {
		t.Fatalf("minRate=4.0: got %d selected, want 2", len(selected))
	}

	selected, qualified = Filter(items, 5.0, 5)
	if !qualified || len(selected) != 1 || selected[0].ID != 1 {
		t.Fatalf("minRate=5.0: got %d selected (qualified=%v), want only id=1", len(selected), qualified)
	}
}

func TestFilter_FallbackWhenNoneQualify(t *testing.T) {
	items := []model.ScoredProduct{
		scored(1, 3.5, 50000, false),
		scored(2, 4.0, 50000, false),
		scored(3, 3.0, 50000, false),
	}

	selected, qualified := Filter(items, 9.0, 2)
	if qualified {
		t.Fatal("expected qualified=false when nothing meets minRate")
	}
	if len(selected) != 2 {
		t.Fatalf("fallback must return top-N of all, got %d", len(selected))
	}
	// fallback 은 수수료율 높은 순
	if selected[0].ID != 2 || selected[1].ID != 1 {
		t.Fatalf("fallback order wrong: got [%d, %d]", selected[0].ID, selected[1].ID)
	}
}

func TestDedup_ByProductID(t *testing.T) {
	merged := []model.Product{
		{ID: 10, Name: "a"},
		{ID: 20, Name: "b"},
		{ID: 10, Name: "a-duplicate"},
		{ID: 30, Name: "c"},
		{ID: 20, Name: "b-duplicate"},
	}

	out := Dedup(merged)
	if len(out) != 3 {
		t.Fatalf("got %d products after dedup, want 3", len(out))
	}
	// 첫 등장 우선, 순서 유지
	if out[0].ID != 10 || out[0].Name != "a" || out[1].ID != 20 || out[2].ID != 30 {
		t.Fatalf("dedup must keep first occurrence in order: %+v", out)
	}
}

// 대표 시나리오: 저가+로켓 패션 제품이 고가 제품들을 이긴다.
func TestEndToEnd_FashionRanksFirst(t *testing.T) {
	products := []model.Product{
		{ID: 1, Name: "니트", Category: "패션의류", Price: 19900, Rocket: true},
		{ID: 2, Name: "토너", Category: "뷰티", Price: 98600, Rocket: true},
		{ID: 3, Name: "유산균", Category: "식품", Price: 99900, Rocket: false},
	}

	analyzed := Analyze(products, 10000, 100000)
	if len(analyzed) != 3 {
		t.Fatalf("price window must keep all three, got %d", len(analyzed))
	}

	// minRate=4.0 → 셋 다 유지 (6.8 / 5.3 / 4.5)
	selected, qualified := Filter(analyzed, 4.0, 5)
	if !qualified || len(selected) != 3 {
		t.Fatalf("minRate=4.0: got %d (qualified=%v), want all 3", len(selected), qualified)
	}
	if selected[0].ID != 1 {
		t.Fatalf("fashion item must rank first, got id=%d", selected[0].ID)
	}

	// minRate=5.0 → 패션이 여전히 1위
	selected, qualified = Filter(analyzed, 5.0, 5)
	if !qualified || selected[0].ID != 1 {
		t.Fatalf("minRate=5.0: fashion item must rank first, got id=%d (qualified=%v)",
			selected[0].ID, qualified)
	}
}
