package render

import (
	"fmt"

	"github.com/vanderheijden86/heckleviz/pkg/analysis"
	"github.com/vanderheijden86/heckleviz/pkg/metrics"
	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/rank"
	"github.com/vanderheijden86/heckleviz/pkg/scene"
)

const (
	tableWidth  = 980
	tableHeader = 40
	tableRow    = 22
	hitFill     = "#fff1c9"
	ClassHitRow = "hit-row"
	ClassHeader = "header"
	ClassCell   = "cell"
)

type column struct {
	title  string
	x      float64
	anchor scene.Anchor
	value  func(rank.Ranked) string
}

func tableColumns(p model.Perspective) []column {
	return []column{
		{"Rank", 48, scene.AnchorEnd, func(r rank.Ranked) string { return fmt.Sprintf("%d", r.Rank) }},
		{"Name", 72, scene.AnchorStart, func(r rank.Ranked) string { return r.Name }},
		{"Party", 430, scene.AnchorStart, func(r rank.Ranked) string { return r.Party }},
		{"Turns", 650, scene.AnchorEnd, func(r rank.Ranked) string { return analysis.FormatEvents(int(r.Turns)) }},
		{capitalize(p.CountLabel()), 800, scene.AnchorEnd, func(r rank.Ranked) string { return analysis.FormatEvents(int(r.Count)) }},
		{"Per 100 turns", 950, scene.AnchorEnd, func(r rank.Ranked) string { return fmt.Sprintf("%.1f", r.Rate) }},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

// MemberTable draws the lookup table. Hit rows are highlighted and carry the
// member identifier as metadata.
func MemberTable(res rank.Result, p model.Perspective) *scene.Scene {
	defer metrics.Timer(metrics.SceneRender)()

	h := float64(tableHeader + tableRow*len(res.Rows) + 12)
	s := scene.New(tableWidth, h)
	s.Title = res.Message
	s.Add(scene.Rect(0, 0, tableWidth, h, scene.Style{Fill: paper}).WithClass(ClassBackground))

	cols := tableColumns(p)
	for _, c := range cols {
		st := label(12, titleColor, c.anchor)
		st.Bold = true
		s.Add(scene.Text(c.x, 26, c.title, st).WithClass(ClassHeader))
	}
	s.Add(scene.Line(16, tableHeader-6, tableWidth-16, tableHeader-6, scene.Style{Stroke: tickColor, StrokeWidth: 1}).WithClass(ClassGrid))

	for i, r := range res.Rows {
		top := float64(tableHeader + i*tableRow)
		if r.Hit {
			s.Add(scene.Rect(16, top, tableWidth-32, tableRow, scene.Style{Fill: hitFill}).
				WithClass(ClassHitRow).
				WithMeta(scene.Meta{Category: r.ID, X: float64(r.Rank), Y: r.Count, Label: r.Name}))
		}
		for _, c := range cols {
			s.Add(scene.Text(c.x, top+15, c.value(r), label(12, inkColor, c.anchor)).WithClass(ClassCell))
		}
	}
	return s
}
