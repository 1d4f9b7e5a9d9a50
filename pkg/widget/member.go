package widget

import (
	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/rank"
	"github.com/vanderheijden86/heckleviz/pkg/render"
	"github.com/vanderheijden86/heckleviz/pkg/scene"
)

// MemberLookup is the searchable member table.
type MemberLookup struct {
	engine *rank.Engine
}

// NewMemberLookup ranks both perspectives. The heckler perspective is
// primary; the heckled one is optional. A zero minTurns admits every member;
// a negative one falls back to rank.MinTurns.
func NewMemberLookup(members map[model.Perspective][]model.MemberSummary, minTurns float64) (*MemberLookup, error) {
	if len(members[model.PerspectiveHeckler]) == 0 {
		return nil, &model.EmptyDatasetError{Name: model.MemberHecklerSummary}
	}
	if minTurns < 0 {
		minTurns = rank.MinTurns
	}
	present := make(map[model.Perspective][]model.MemberSummary, len(members))
	for p, ms := range members {
		if len(ms) > 0 {
			present[p] = ms
		}
	}
	return &MemberLookup{engine: rank.NewEngine(present, minTurns)}, nil
}

func (m *MemberLookup) Name() string { return NameMembers }

// Perspectives lists the perspectives with data.
func (m *MemberLookup) Perspectives() []model.Perspective {
	var out []model.Perspective
	for _, p := range []model.Perspective{model.PerspectiveHeckler, model.PerspectiveHeckled} {
		if m.engine.HasPerspective(p) {
			out = append(out, p)
		}
	}
	return out
}

// Perspective returns the active perspective.
func (m *MemberLookup) Perspective() model.Perspective { return m.engine.Perspective() }

// Query returns the search text.
func (m *MemberLookup) Query() string { return m.engine.Query() }

// Order returns the column sort.
func (m *MemberLookup) Order() rank.Order { return m.engine.Order() }

// Result returns the table for the current state.
func (m *MemberLookup) Result() rank.Result { return m.engine.Result() }

func (m *MemberLookup) HandleEvent(ev Event) error {
	switch e := ev.(type) {
	case SetQuery:
		m.engine.SetQuery(e.Query)
	case ClearQuery:
		m.engine.SetQuery("")
	case SortColumn:
		if _, ok := rank.ParseKey(string(e.Key)); !ok {
			return &model.NoCategoryDataError{Category: string(e.Key)}
		}
		m.engine.SortBy(e.Key)
	case SelectPerspective:
		if !m.engine.HasPerspective(e.Perspective) {
			return &model.NoCategoryDataError{Category: string(e.Perspective)}
		}
		m.engine.SetPerspective(e.Perspective)
	default:
		return ErrUnsupportedEvent
	}
	return nil
}

func (m *MemberLookup) Render() *scene.Scene {
	return render.MemberTable(m.engine.Result(), m.engine.Perspective())
}

func (m *MemberLookup) Caption() string { return m.engine.Result().Message }
