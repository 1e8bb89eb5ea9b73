package tags

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParamKind describes how a parameter is entered.
type ParamKind string

const (
	ParamKindNumber ParamKind = "number"
	ParamKindSlider ParamKind = "slider"
)

// ParamSpec describes a per-segment synthesis parameter.
type ParamSpec struct {
	Name    string
	Label   string
	Kind    ParamKind
	Min     float64
	Max     float64
	Step    float64
	Default float64

	// Engines lists the synthesis engines that honor the parameter.
	Engines []string
}

// Integer reports whether the parameter only accepts whole numbers.
func (p ParamSpec) Integer() bool {
	return p.Kind == ParamKindNumber
}

var paramCatalog = map[string]ParamSpec{
	"seed":          {Name: "seed", Label: "Seed", Kind: ParamKindNumber, Min: 0, Max: 4294967295, Step: 1, Default: 0, Engines: []string{"universal"}},
	"temperature":   {Name: "temperature", Label: "Temp", Kind: ParamKindSlider, Min: 0.1, Max: 2.0, Step: 0.1, Default: 0.7, Engines: []string{"universal"}},
	"cfg":           {Name: "cfg", Label: "CFG", Kind: ParamKindSlider, Min: 0.0, Max: 20.0, Step: 0.1, Default: 7.0, Engines: []string{"chatterbox"}},
	"exaggeration":  {Name: "exaggeration", Label: "Exag", Kind: ParamKindSlider, Min: 0.0, Max: 2.0, Step: 0.1, Default: 1.0, Engines: []string{"chatterbox"}},
	"speed":         {Name: "speed", Label: "Speed", Kind: ParamKindSlider, Min: 0.5, Max: 2.0, Step: 0.1, Default: 1.0, Engines: []string{"f5-tts", "higgs"}},
	"top_p":         {Name: "top_p", Label: "Top P", Kind: ParamKindSlider, Min: 0.0, Max: 1.0, Step: 0.01, Default: 0.95, Engines: []string{"higgs", "vibevoice", "indextts"}},
	"top_k":         {Name: "top_k", Label: "Top K", Kind: ParamKindNumber, Min: 1, Max: 100, Step: 1, Default: 50, Engines: []string{"higgs", "vibevoice", "indextts"}},
	"steps":         {Name: "steps", Label: "Inference Steps", Kind: ParamKindNumber, Min: 1, Max: 100, Step: 1, Default: 30, Engines: []string{"vibevoice", "indextts"}},
	"emotion_alpha": {Name: "emotion_alpha", Label: "Emotion", Kind: ParamKindSlider, Min: 0.0, Max: 1.0, Step: 0.05, Default: 0.5, Engines: []string{"indextts"}},
}

// LookupParam returns the catalog entry for a parameter name.
func LookupParam(name string) (ParamSpec, bool) {
	spec, ok := paramCatalog[strings.ToLower(strings.TrimSpace(name))]
	return spec, ok
}

// Params returns the parameter catalog sorted by name.
func Params() []ParamSpec {
	specs := make([]ParamSpec, 0, len(paramCatalog))
	for _, spec := range paramCatalog {
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// CheckParameter verifies a parameter value against the catalog.
func CheckParameter(name, value string) error {
	spec, ok := LookupParam(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("%w: %s must be a number, got %q", ErrParameterRange, spec.Name, value)
	}
	if spec.Integer() && v != float64(int64(v)) {
		return fmt.Errorf("%w: %s must be a whole number, got %s", ErrParameterRange, spec.Name, value)
	}
	if v < spec.Min || v > spec.Max {
		return fmt.Errorf("%w: %s must be between %g and %g, got %s", ErrParameterRange, spec.Name, spec.Min, spec.Max, value)
	}
	return nil
}

// Lint validates text and then range-checks every catalog parameter found in
// its tags. Unknown parameters are reported too, since engines ignore them.
func Lint(text string) []error {
	if err := ValidateErr(text); err != nil {
		return []error{err}
	}

	var errs []error
	for _, tag := range Extract(text) {
		names := make([]string, 0, len(tag.Parameters))
		for name := range tag.Parameters {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if err := CheckParameter(name, tag.Parameters[name]); err != nil {
				errs = append(errs, fmt.Errorf("%s at %d: %w", tag.Full, tag.Position, err))
			}
		}
	}
	return errs
}
