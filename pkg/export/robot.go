package export

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/rank"
	"github.com/vanderheijden86/heckleviz/pkg/scene"
	"github.com/vanderheijden86/heckleviz/pkg/version"
	"github.com/vanderheijden86/heckleviz/pkg/widget"
)

// RobotScene is the machine-readable form of a rendered widget.
type RobotScene struct {
	Version     string       `json:"version"`
	Widget      string       `json:"widget"`
	Caption     string       `json:"caption"`
	Fallback    bool         `json:"fallback"`
	Scene       *scene.Scene `json:"scene"`
	Addressable []scene.Meta `json:"addressable"`
}

// NewRobotScene renders w.
func NewRobotScene(w widget.Controller) RobotScene {
	s := w.Render()
	_, fallback := w.(*widget.Fallback)
	if c, ok := w.(*widget.CoefficientToggle); ok && c.Fallback() {
		fallback = true
	}
	return RobotScene{
		Version:     version.Version,
		Widget:      w.Name(),
		Caption:     w.Caption(),
		Fallback:    fallback,
		Scene:       s,
		Addressable: s.Addressable(),
	}
}

// RobotMember is one row of the member lookup.
type RobotMember struct {
	Rank  int     `json:"rank"`
	Hit   bool    `json:"hit"`
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Party string  `json:"party"`
	Turns float64 `json:"turns"`
	Count float64 `json:"count"`
	Rate  float64 `json:"rate_per_100_turns"`
}

// RobotMembers is the machine-readable member lookup result.
type RobotMembers struct {
	Version     string            `json:"version"`
	Perspective model.Perspective `json:"perspective"`
	Query       string            `json:"query"`
	NoMatch     bool              `json:"no_match"`
	Message     string            `json:"message"`
	Rows        []RobotMember     `json:"rows"`
}

// NewRobotMembers converts a search result.
func NewRobotMembers(res rank.Result, p model.Perspective) RobotMembers {
	out := RobotMembers{
		Version:     version.Version,
		Perspective: p,
		Query:       res.Query,
		NoMatch:     res.NoMatch,
		Message:     res.Message,
		Rows:        make([]RobotMember, 0, len(res.Rows)),
	}
	for _, r := range res.Rows {
		out.Rows = append(out.Rows, RobotMember{
			Rank:  r.Rank,
			Hit:   r.Hit,
			ID:    r.ID,
			Name:  r.Name,
			Party: r.Party,
			Turns: r.Turns,
			Count: r.Count,
			Rate:  r.Rate,
		})
	}
	return out
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
