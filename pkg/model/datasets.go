// Package model holds the typed records projected from the article's
// datasets, the per-category series index and the error taxonomy shared by
// loaders and widgets.
package model

// Dataset names as published by the upstream pipeline.
const (
	YearlyGenderGap      = "yearly_gender_gap.csv"
	YearlyRateByGender   = "yearly_interjection_rate_by_gender.csv"
	TopicFindingsSummary = "topic_findings_summary.csv"
	TopicGapOverTime     = "policy_topic_gap_over_time.csv"
	TopicRateByYear      = "policy_topic_heckle_rate_by_year.csv"
	UncertaintyEffects   = "uncertainty_effects_table.csv"
	UncertaintyByTopic   = "uncertainty_topic_effects.csv"
	ModelCoefficients    = "model_coefficients.csv"
	PartyRateByYear      = "party_heckle_rate_by_year.csv"
	MemberHecklerSummary = "member_heckle_summary.csv"
	MemberHeckledSummary = "member_heckled_summary.csv"
)

// AllDatasets lists every dataset the article knows about.
func AllDatasets() []string {
	return []string{
		YearlyGenderGap,
		YearlyRateByGender,
		TopicFindingsSummary,
		TopicGapOverTime,
		TopicRateByYear,
		UncertaintyEffects,
		UncertaintyByTopic,
		ModelCoefficients,
		PartyRateByYear,
		MemberHecklerSummary,
		MemberHeckledSummary,
	}
}

// Perspective selects which member summary feeds the lookup table.
type Perspective string

const (
	PerspectiveHeckler Perspective = "heckler"
	PerspectiveHeckled Perspective = "heckled"
)

// Dataset returns the dataset name backing the perspective.
func (p Perspective) Dataset() string {
	if p == PerspectiveHeckled {
		return MemberHeckledSummary
	}
	return MemberHecklerSummary
}

// CountColumn is the primary count column for the perspective.
func (p Perspective) CountColumn() string {
	if p == PerspectiveHeckled {
		return "n_heckled"
	}
	return "n_heckles"
}

// RateColumn is the per-100-turns rate column for the perspective.
func (p Perspective) RateColumn() string {
	if p == PerspectiveHeckled {
		return "heckled_rate_per_100_turns"
	}
	return "heckle_rate_per_100_turns"
}

// CountLabel is the human label of the primary count.
func (p Perspective) CountLabel() string {
	if p == PerspectiveHeckled {
		return "times heckled"
	}
	return "heckles"
}
