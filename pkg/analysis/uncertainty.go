package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/heckleviz/pkg/model"
)

// Significance is the p-value threshold used in the uncertainty caption.
const Significance = 0.05

// SortEffects returns a copy of effects ordered by coefficient, ascending.
func SortEffects(effects []model.TopicEffect) []model.TopicEffect {
	out := make([]model.TopicEffect, len(effects))
	copy(out, effects)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Coef < out[j].Coef })
	return out
}

// TopicEffectCaption summarises per-topic effects sorted by coefficient:
// how many are significant and which is most negative.
func TopicEffectCaption(sorted []model.TopicEffect) string {
	if len(sorted) == 0 {
		return UnavailableUncertaintyCaption
	}
	sig := 0
	for _, e := range sorted {
		if !math.IsNaN(e.PValue) && e.PValue < Significance {
			sig++
		}
	}
	return fmt.Sprintf("%d/%d topics show statistically significant uncertainty effects (p<0.05). "+
		"Most negative association: %s (%.3f).", sig, len(sorted), sorted[0].Topic, sorted[0].Coef)
}

// ModelEffectCaption reports the average pooled coefficient across model
// variants.
func ModelEffectCaption(effects []model.ModelEffect) string {
	if len(effects) == 0 {
		return UnavailableUncertaintyCaption
	}
	coefs := make([]float64, len(effects))
	for i, e := range effects {
		coefs[i] = e.Coef
	}
	return fmt.Sprintf("Overall uncertainty effect across model variants: average coefficient %.3f. "+
		"Negative values imply higher uncertainty is associated with fewer interjections per speech.",
		stat.Mean(coefs, nil))
}

// UnavailableUncertaintyCaption is shown when neither uncertainty table has
// usable rows.
const UnavailableUncertaintyCaption = "Uncertainty effect not available for this build."

// PartyCaption describes the party chart's active set.
func PartyCaption(shown int) string {
	return fmt.Sprintf("%d party series shown. Toggle parties to compare trends.", shown)
}
