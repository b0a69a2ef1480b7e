package config

import (
	"math"
	"sort"
)

var (
	geoStart = []float64{0, 0}
	geoGoal  = []float64{9.5, 9.5}
	velStart = []float64{0, 0, math.Pi / 4}
	velGoal  = []float64{9.5, 9.5, 0}
	accStart = []float64{0, 0, 0, math.Pi / 4}
	accGoal  = []float64{9.5, 9.5, 0, 0}
)

func preset(name, model, layout string, start, goal []float64) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Model = model
	cfg.Layout = layout
	cfg.Start = start
	cfg.Goal = goal
	return cfg
}

// Presets are the benchmark scenarios: every model in an empty workspace and
// in the forest.
var Presets = map[string]*Config{
	"simplegeo": preset("simplegeo", "geometric", "none", geoStart, geoGoal),
	"forestgeo": preset("forestgeo", "geometric", "forest", geoStart, geoGoal),
	"simplevel": preset("simplevel", "velocity", "none", velStart, velGoal),
	"forestvel": preset("forestvel", "velocity", "forest", velStart, velGoal),
	"simpleacc": preset("simpleacc", "acceleration", "none", accStart, accGoal),
	"forestacc": preset("forestacc", "acceleration", "forest", accStart, accGoal),
}

// GetPreset returns a copy of the named scenario, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
