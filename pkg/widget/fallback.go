package widget

import (
	"github.com/vanderheijden86/heckleviz/pkg/render"
	"github.com/vanderheijden86/heckleviz/pkg/scale"
	"github.com/vanderheijden86/heckleviz/pkg/scene"
)

// Fallback is the static presentation a widget shows when its primary
// dataset failed to load. It ignores every event.
type Fallback struct {
	name    string
	message string
	image   string
	frame   scale.Frame
	Err     error
}

// NewFallback returns a static stand-in for the named widget.
func NewFallback(name string, err error) *Fallback {
	f := &Fallback{name: name, Err: err, frame: render.TopicFrame}
	switch name {
	case NameTopics:
		f.message = "Topic trend data unavailable."
		f.image = "assets/charts/policy_topic_gap_over_time.svg"
	case NameParties:
		f.message = "Party trend data unavailable."
		f.frame = render.PartyFrame
	case NameMembers:
		f.message = "MP summary data unavailable."
	default:
		f.message = "Chart data unavailable."
	}
	return f
}

func (f *Fallback) Name() string { return f.name }

// HandleEvent accepts and ignores every event.
func (f *Fallback) HandleEvent(Event) error { return nil }

func (f *Fallback) Render() *scene.Scene { return render.Message(f.frame, f.message) }

func (f *Fallback) Caption() string { return f.message }

// Image is the static chart shown instead, if any.
func (f *Fallback) Image() string { return f.image }
