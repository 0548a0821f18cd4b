package table

import (
	"testing"

	"github.com/vanderheijden86/wdiview/pkg/model"
)

func obs(name, code, ind string, year int, v model.Value) model.Observation {
	return model.Observation{CountryName: name, CountryCode: code, Indicator: ind, Year: year, Value: v}
}

func sampleRows() []model.Observation {
	return []model.Observation{
		obs("France", "FRA", "GDP", 2000, model.Present(30)),
		obs("Chad", "TCD", "GDP", 2000, model.Present(5)),
		obs("Peru", "PER", "GDP", 2000, model.Absent),
		obs("France", "FRA", "GDP", 2001, model.Present(31)),
		obs("France", "FRA", "Life", 2000, model.Present(79)),
		obs("Peru", "PER", "Life", 2000, model.Present(71)),
	}
}

func TestNew_IndexesAndSummary(t *testing.T) {
	tbl := New(sampleRows())

	if tbl.Len() != 6 {
		t.Fatalf("Len=%d; want 6", tbl.Len())
	}
	inds := tbl.Indicators()
	if len(inds) != 2 || inds[0] != "GDP" || inds[1] != "Life" {
		t.Fatalf("Indicators=%v; want [GDP Life]", inds)
	}
	if !tbl.HasIndicator("Life") || tbl.HasIndicator("Nope") {
		t.Fatal("HasIndicator mismatch")
	}
	lo, hi := tbl.YearSpan()
	if lo != 2000 || hi != 2001 {
		t.Fatalf("YearSpan=%d..%d; want 2000..2001", lo, hi)
	}

	s := tbl.Summary()
	if s.Countries != 3 || s.Indicators != 2 || s.Present != 5 || s.Observations != 6 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestNew_CopiesInput(t *testing.T) {
	rows := sampleRows()
	tbl := New(rows)
	rows[0].Value = model.Present(-1)

	got := tbl.Indicator("GDP")
	if got[0].Value.Float != 30 {
		t.Fatalf("table changed after caller mutated input: %v", got[0].Value)
	}

	out := tbl.Rows()
	out[0].CountryName = "mutated"
	if tbl.Rows()[0].CountryName != "France" {
		t.Fatal("Rows must return a copy")
	}
}

func TestRows_SortByValueDesc(t *testing.T) {
	tbl := New(sampleRows())
	sorted := tbl.Indicator("GDP").Year(2000).SortByValueDesc()

	want := []string{"FRA", "TCD", "PER"}
	for i, code := range want {
		if sorted[i].CountryCode != code {
			t.Fatalf("pos %d: got %s; want %s (%v)", i, sorted[i].CountryCode, code, sorted.CountryCodes())
		}
	}
}

func TestRows_SortTieBreaksByName(t *testing.T) {
	rows := Rows{
		obs("Zambia", "ZMB", "X", 2000, model.Present(1)),
		obs("Angola", "AGO", "X", 2000, model.Present(1)),
	}
	sorted := rows.SortByValueDesc()
	if sorted[0].CountryName != "Angola" {
		t.Fatalf("tie should break by name, got %v", sorted.CountryCodes())
	}
}

func TestRows_HeadAndMax(t *testing.T) {
	tbl := New(sampleRows())
	gdp := tbl.Indicator("GDP")

	if got := len(gdp.Head(2)); got != 2 {
		t.Errorf("Head(2) len=%d", got)
	}
	if got := len(gdp.Head(100)); got != len(gdp) {
		t.Errorf("Head(100) len=%d; want %d", got, len(gdp))
	}
	if got := len(gdp.Head(-1)); got != 0 {
		t.Errorf("Head(-1) len=%d; want 0", got)
	}

	max, ok := gdp.Max()
	if !ok || max != 31 {
		t.Errorf("Max=%v,%v; want 31,true", max, ok)
	}
	if _, ok := tbl.Indicator("missing").Max(); ok {
		t.Error("Max of empty selection should report !ok")
	}
}

func TestRows_Stats(t *testing.T) {
	rows := Rows{
		obs("A", "AAA", "X", 2000, model.Present(1)),
		obs("B", "BBB", "X", 2000, model.Present(3)),
		obs("C", "CCC", "X", 2000, model.Present(2)),
		obs("D", "DDD", "X", 2000, model.Absent),
	}
	s := rows.Stats()
	if s.Count != 3 || s.Min != 1 || s.Max != 3 || s.Mean != 2 || s.Median != 2 {
		t.Fatalf("unexpected stats %+v", s)
	}
	if (Rows{}).Stats().Count != 0 {
		t.Fatal("empty stats should be zero")
	}
}

func TestInnerJoin_DropsUnmatchedAndKeepsLeftOrder(t *testing.T) {
	tbl := New(sampleRows())
	x := tbl.Indicator("GDP").Year(2000)
	y := tbl.Indicator("Life").Year(2000)

	pairs := InnerJoin(x, y, ByCountryName)
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs; want 2", len(pairs))
	}
	if pairs[0].Left.CountryName != "France" || pairs[1].Left.CountryName != "Peru" {
		t.Fatalf("unexpected order: %+v", pairs)
	}
	if pairs[0].Right.Value.Float != 79 {
		t.Fatalf("wrong partner: %+v", pairs[0])
	}
}

func TestInnerJoin_CompositeKey(t *testing.T) {
	left := Rows{
		obs("France", "FRA", "GDP", 2000, model.Present(1)),
		obs("France", "FRA", "GDP", 2001, model.Present(2)),
	}
	right := Rows{
		obs("France", "FRA", "Life", 2001, model.Present(80)),
	}
	pairs := InnerJoin(left, right, ByCountryNameAndYear)
	if len(pairs) != 1 || pairs[0].Left.Year != 2001 {
		t.Fatalf("composite join mismatch: %+v", pairs)
	}
	if n := len(InnerJoin(left, nil, ByCountryName)); n != 0 {
		t.Fatalf("join with empty side produced %d rows", n)
	}
}
