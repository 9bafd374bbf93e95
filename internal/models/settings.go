package models

import "fmt"

// Mode is the unit the solver minimises.
type Mode string

const (
	ModeLevels     Mode = "lvl"
	ModeExperience Mode = "xp"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLevels, ModeExperience:
		return Mode(s), nil
	case "":
		return ModeLevels, nil
	}
	return "", fmt.Errorf("unknown mode %q, expected %q or %q", s, ModeLevels, ModeExperience)
}

type Settings struct {
	UseBedrock        bool `json:"use_bedrock" yaml:"use_bedrock"`
	AllowIncompatible bool `json:"allow_incompatible" yaml:"allow_incompatible"`
	AllowTooExpensive bool `json:"allow_too_expensive" yaml:"allow_too_expensive"`
	AllowOverMaxLevel bool `json:"allow_over_max_level" yaml:"allow_over_max_level"`
	Mode              Mode `json:"mode" yaml:"mode"`
}

// Signature is a stable representation of the settings, used as part of cache keys.
func (s Settings) Signature() string {
	return fmt.Sprintf("bedrock=%t,incompatible=%t,expensive=%t,overmax=%t,mode=%s",
		s.UseBedrock, s.AllowIncompatible, s.AllowTooExpensive, s.AllowOverMaxLevel, s.Mode)
}

// SolveRequest is what the CLI, API and queue hand to the solver.
type SolveRequest struct {
	Items    []Item   `json:"items" yaml:"items"`
	Settings Settings `json:"settings" yaml:"settings"`
}

// WithDefaults fills in the level mode when none was given.
func (s Settings) WithDefaults() Settings {
	if s.Mode == "" {
		s.Mode = ModeLevels
	}
	return s
}
