// Package easing provides time-based interpolation curves in the classic
// Penner form. Curves map elapsed time within a duration to an eased value
// between begin and begin+change; motions evaluate them every tick.
package easing

import (
	"fmt"
	"sort"
	"strings"
)

// Curve computes an eased value for a point in time.
// elapsed and duration are seconds, begin is the starting value and
// change the total value delta over the full duration.
type Curve func(elapsed, begin, change, duration float64) float64

// Linear interpolates at a constant rate
func Linear(t, b, c, d float64) float64 {
	return c*(t/d) + b
}

var curves = map[string]Curve{
	"linear":       Linear,
	"quadin":       QuadIn,
	"quadout":      QuadOut,
	"quadinout":    QuadInOut,
	"cubicin":      CubicIn,
	"cubicout":     CubicOut,
	"cubicinout":   CubicInOut,
	"quartin":      QuartIn,
	"quartout":     QuartOut,
	"quartinout":   QuartInOut,
	"quintin":      QuintIn,
	"quintout":     QuintOut,
	"quintinout":   QuintInOut,
	"sinein":       SineIn,
	"sineout":      SineOut,
	"sineinout":    SineInOut,
	"expoin":       ExpoIn,
	"expoout":      ExpoOut,
	"expoinout":    ExpoInOut,
	"circin":       CircIn,
	"circout":      CircOut,
	"circinout":    CircInOut,
	"backin":       BackIn,
	"backout":      BackOut,
	"backinout":    BackInOut,
	"elasticin":    ElasticIn,
	"elasticout":   ElasticOut,
	"elasticinout": ElasticInOut,
	"bouncein":     BounceIn,
	"bounceout":    BounceOut,
	"bounceinout":  BounceInOut,
}

// ForName returns the curve registered under name (case-insensitive).
// Unknown names are a configuration error.
func ForName(name string) (Curve, error) {
	c, ok := curves[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("easing: unknown curve %q", name)
	}
	return c, nil
}

// Names returns all registered curve names, sorted
func Names() []string {
	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
