package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/vanderheijden86/heckleviz/pkg/model"
)

func TestTopicEffectCaption(t *testing.T) {
	sorted := SortEffects([]model.TopicEffect{
		{Topic: "Health", Coef: 0.1, PValue: 0.2},
		{Topic: "Defence", Coef: -0.25, PValue: 0.01},
		{Topic: "Trade", Coef: -0.05, PValue: math.NaN()},
	})
	if sorted[0].Topic != "Defence" || sorted[2].Topic != "Health" {
		t.Fatalf("sort order = %+v", sorted)
	}
	got := TopicEffectCaption(sorted)
	if !strings.HasPrefix(got, "1/3 topics") || !strings.Contains(got, "Defence (-0.250)") {
		t.Errorf("caption = %q", got)
	}
}

func TestModelEffectCaption(t *testing.T) {
	got := ModelEffectCaption([]model.ModelEffect{{Coef: -0.1}, {Coef: -0.2}})
	if !strings.Contains(got, "average coefficient -0.150") {
		t.Errorf("caption = %q", got)
	}
	if ModelEffectCaption(nil) != UnavailableUncertaintyCaption {
		t.Error("empty caption")
	}
}
