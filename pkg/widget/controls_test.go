package widget

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/rank"
	"github.com/vanderheijden86/heckleviz/pkg/render"
	"github.com/vanderheijden86/heckleviz/pkg/scene"
)

func partyRates() []model.PartyRate {
	var out []model.PartyRate
	for i, p := range []string{"ALP", "LIB", "NAT", "GRN", "DEM", "ON", "IND", "KAP", "UAP", "CLP"} {
		turns := float64(1000 - i*50)
		out = append(out,
			model.PartyRate{Year: 2000, Party: p, Turns: turns, Rate: float64(i)},
			model.PartyRate{Year: 2001, Party: p, Turns: turns, Rate: float64(i + 1)},
		)
	}
	return out
}

func TestPartyFilter_SeedAndToggle(t *testing.T) {
	f, err := NewPartyFilter(partyRates(), DefaultPartyLimit, DefaultPartySeed)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Parties()) != 8 {
		t.Fatalf("parties = %v", f.Parties())
	}
	if !reflect.DeepEqual(f.Active(), []string{"ALP", "LIB", "NAT", "GRN"}) {
		t.Fatalf("active = %v", f.Active())
	}
	colors := map[string]string{}
	for k, v := range f.Colors() {
		colors[k] = v
	}

	for _, p := range []string{"LIB", "NAT", "GRN"} {
		_ = f.HandleEvent(ToggleCategory{Category: p})
	}
	_ = f.HandleEvent(ToggleCategory{Category: "ALP"})
	if !reflect.DeepEqual(f.Active(), []string{"ALP"}) {
		t.Errorf("removing the last party must re-add it, got %v", f.Active())
	}
	_ = f.HandleEvent(ToggleCategory{Category: "KAP"})
	if !reflect.DeepEqual(f.Active(), []string{"ALP", "KAP"}) {
		t.Errorf("active = %v", f.Active())
	}
	if !reflect.DeepEqual(map[string]string(f.Colors()), colors) {
		t.Error("colours moved after toggles")
	}
	if f.Caption() != "2 party series shown. Toggle parties to compare trends." {
		t.Errorf("caption = %q", f.Caption())
	}

	var nc *model.NoCategoryDataError
	if !errors.As(f.HandleEvent(ToggleCategory{Category: "CLP"}), &nc) {
		t.Error("party outside the top 8 should be rejected")
	}

	var legend []string
	for _, e := range f.Render().ByClass(render.ClassLegend) {
		if e.Kind == scene.KindText {
			legend = append(legend, e.Text)
		}
	}
	if !reflect.DeepEqual(legend, f.Active()) {
		t.Errorf("legend %v != active %v", legend, f.Active())
	}
}

func TestCoefficientToggle(t *testing.T) {
	c := NewCoefficientToggle([]model.Coefficient{{Model: "logit", Label: "x", Coef: 0.1, CILow: 0, CIHigh: 0.2}})
	if got := c.Render().Texts(); len(got) != 1 || got[0] != "No coefficient data found." {
		t.Errorf("negative binomial has no rows: %v", got)
	}
	if err := c.HandleEvent(SelectModel{Model: ModelLogit}); err != nil {
		t.Fatal(err)
	}
	if n := len(c.Render().ByClass(render.ClassEstimate)); n != 1 {
		t.Errorf("estimates = %d", n)
	}
	if c.HandleEvent(SelectModel{Model: "probit"}) == nil || c.Model() != ModelLogit {
		t.Error("unknown model should be rejected")
	}

	fb := NewCoefficientFallback()
	if fb.Image() != "assets/charts/model_coefficients_nb.svg" {
		t.Errorf("image = %s", fb.Image())
	}
	_ = fb.HandleEvent(SelectModel{Model: ModelLogit})
	if fb.Image() != "assets/charts/model_coefficients_logit.svg" {
		t.Errorf("image = %s", fb.Image())
	}
}

func TestMemberLookup_MinTurns(t *testing.T) {
	members := map[model.Perspective][]model.MemberSummary{
		model.PerspectiveHeckler: {
			{ID: "a1", Name: "Abbott", Party: "LIB", Turns: 500, Count: 90, Rate: 18},
			{ID: "n1", Name: "Newcomer", Party: "IND", Turns: 40, Count: 3, Rate: 7.5},
		},
	}
	tests := []struct {
		name     string
		minTurns float64
		want     int
	}{
		{"zero admits everyone", 0, 2},
		{"negative uses default", -1, 1},
		{"explicit threshold", rank.MinTurns, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMemberLookup(members, tt.minTurns)
			if err != nil {
				t.Fatal(err)
			}
			if got := len(m.Result().Rows); got != tt.want {
				t.Errorf("rows = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMemberLookup(t *testing.T) {
	m, err := NewMemberLookup(map[model.Perspective][]model.MemberSummary{
		model.PerspectiveHeckler: {
			{ID: "a1", Name: "Abbott", Party: "LIB", Turns: 500, Count: 90, Rate: 18},
			{ID: "k1", Name: "Keating", Party: "ALP", Turns: 800, Count: 120, Rate: 15},
		},
	}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.HandleEvent(SetQuery{Query: "abb"}); err != nil {
		t.Fatal(err)
	}
	res := m.Result()
	if res.Hits != 1 || res.Rows[0].Name != "Abbott" || res.Rows[0].Rank != 2 {
		t.Fatalf("result = %+v", res)
	}
	if err := m.HandleEvent(SelectPerspective{Perspective: model.PerspectiveHeckled}); err == nil {
		t.Error("perspective without data should be rejected")
	}
	_ = m.HandleEvent(SortColumn{Key: rank.KeyName})
	_ = m.HandleEvent(ClearQuery{})
	if m.Query() != "" || m.Order().Key != rank.KeyName {
		t.Errorf("query %q order %+v", m.Query(), m.Order())
	}
	if len(m.Render().ByClass(render.ClassHitRow)) != 0 {
		t.Error("no hits after clearing the query")
	}
}

func TestFallbackIgnoresEvents(t *testing.T) {
	f := NewFallback(NameParties, errors.New("boom"))
	if err := f.HandleEvent(ToggleCategory{Category: "ALP"}); err != nil {
		t.Fatal(err)
	}
	if got := f.Render().Texts(); len(got) != 1 || got[0] != "Party trend data unavailable." {
		t.Errorf("texts = %v", got)
	}
}
