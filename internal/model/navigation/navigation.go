package navigation

import "github.com/go-playground/validator/v10"

// Traffic is the congestion level reported for a route.
type Traffic string

const (
	TrafficLight    Traffic = "light"
	TrafficModerate Traffic = "moderate"
	TrafficHeavy    Traffic = "heavy"
)

// StepType drives the turn icon shown for a NavigationStep.
type StepType string

const (
	StepStraight StepType = "straight"
	StepLeft     StepType = "left"
	StepRight    StepType = "right"
	StepExit     StepType = "exit"
	StepMerge    StepType = "merge"
)

// RouteOption is one of the candidate routes offered before navigation starts.
type RouteOption struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Distance    string  `json:"distance" yaml:"distance"`
	Duration    string  `json:"duration" yaml:"duration"`
	Tolls       float64 `json:"tolls" yaml:"tolls"`
	Traffic     Traffic `json:"traffic" yaml:"traffic"`
	Recommended bool    `json:"isRecommended,omitempty" yaml:"recommended"`
}

// NavigationStep is a single turn-by-turn instruction.
type NavigationStep struct {
	ID          string   `json:"id" yaml:"id"`
	Instruction string   `json:"instruction" yaml:"instruction"`
	Distance    string   `json:"distance" yaml:"distance"`
	Type        StepType `json:"type" yaml:"type"`
}

// TollLeg summarises the toll side of a TollComparison.
type TollLeg struct {
	Distance string  `json:"distance" yaml:"distance"`
	Duration string  `json:"duration" yaml:"duration"`
	Cost     float64 `json:"cost" yaml:"cost"`
	Savings  string  `json:"savings" yaml:"savings"`
}

// FreeLeg summarises the toll-free side of a TollComparison.
type FreeLeg struct {
	Distance  string  `json:"distance" yaml:"distance"`
	Duration  string  `json:"duration" yaml:"duration"`
	Cost      float64 `json:"cost" yaml:"cost"`
	ExtraTime string  `json:"extraTime" yaml:"extraTime"`
}

// TollComparison backs the "Use Toll Routes" toggle.
type TollComparison struct {
	TollRoute TollLeg `json:"tollRoute" yaml:"tollRoute"`
	FreeRoute FreeLeg `json:"freeRoute" yaml:"freeRoute"`
}

// VoiceSettings controls spoken guidance.
type VoiceSettings struct {
	Enabled         bool    `json:"enabled"`
	Volume          int     `json:"volume" validate:"gte=0,lte=100"`
	Voice           string  `json:"voice" validate:"oneof=male female robotic"`
	Speed           float64 `json:"speed" validate:"gte=0.5,lte=2"`
	AnnounceTraffic bool    `json:"announceTraffic"`
	AnnounceAlerts  bool    `json:"announceAlerts"`
}

// DefaultVoiceSettings mirrors the controls' initial state.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		Enabled:         true,
		Volume:          75,
		Voice:           "female",
		Speed:           1.0,
		AnnounceTraffic: true,
		AnnounceAlerts:  true,
	}
}

var validate = validator.New()

// Validate checks ranges and enumerations.
func (v VoiceSettings) Validate() error {
	return validate.Struct(v)
}
