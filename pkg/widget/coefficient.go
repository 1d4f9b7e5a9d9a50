package widget

import (
	"github.com/vanderheijden86/heckleviz/pkg/model"
	"github.com/vanderheijden86/heckleviz/pkg/render"
	"github.com/vanderheijden86/heckleviz/pkg/scene"
)

// Coefficient models offered by the toggle.
const (
	ModelNegativeBinomial = "negative_binomial"
	ModelLogit            = "logit"
)

// Models lists the toggle entries.
func Models() []string { return []string{ModelNegativeBinomial, ModelLogit} }

// FallbackImage is the pre-rendered chart for a model, used when the
// coefficient table cannot be loaded.
func FallbackImage(m string) string {
	if m == ModelLogit {
		return "assets/charts/model_coefficients_logit.svg"
	}
	return "assets/charts/model_coefficients_nb.svg"
}

// CoefficientToggle switches the coefficient plot between models. Without
// data it keeps toggling but points at the static images instead.
type CoefficientToggle struct {
	rows     []model.Coefficient
	model    string
	fallback bool
}

// NewCoefficientToggle starts on the negative binomial model.
func NewCoefficientToggle(rows []model.Coefficient) *CoefficientToggle {
	return &CoefficientToggle{rows: rows, model: ModelNegativeBinomial}
}

// NewCoefficientFallback is the toggle shown when the table failed to load.
func NewCoefficientFallback() *CoefficientToggle {
	return &CoefficientToggle{model: ModelNegativeBinomial, fallback: true}
}

func (c *CoefficientToggle) Name() string { return NameCoefficients }

// Model returns the selected model.
func (c *CoefficientToggle) Model() string { return c.model }

// Fallback reports whether the static images are in use.
func (c *CoefficientToggle) Fallback() bool { return c.fallback }

// Image is the static chart for the selected model in fallback mode.
func (c *CoefficientToggle) Image() string {
	if !c.fallback {
		return ""
	}
	return FallbackImage(c.model)
}

func (c *CoefficientToggle) HandleEvent(ev Event) error {
	e, ok := ev.(SelectModel)
	if !ok {
		return ErrUnsupportedEvent
	}
	m := e.Model
	if m == "" {
		m = ModelNegativeBinomial
	}
	if m != ModelNegativeBinomial && m != ModelLogit {
		return &model.NoCategoryDataError{Category: m}
	}
	c.model = m
	return nil
}

func (c *CoefficientToggle) Render() *scene.Scene {
	if c.fallback {
		return render.Message(render.CoefficientFrame, "Static chart: "+c.Image())
	}
	return render.Coefficients(c.rows, c.model)
}

func (c *CoefficientToggle) Caption() string {
	if c.model == ModelLogit {
		return "Logit model: odds of a speech drawing any interjection."
	}
	return "Negative binomial model: interjection counts per speech."
}
