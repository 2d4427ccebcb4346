package models

// AnalysisRequest describes one feasibility analysis. Exactly one climate
// source is used: inline samples, a file, or a catalogue zone.
type AnalysisRequest struct {
	Climate          ClimateSource   `json:"climate" yaml:"climate"`
	Samples          []SampleSpec    `json:"samples,omitempty" yaml:"samples,omitempty"`
	Components       []ComponentSpec `json:"components,omitempty" yaml:"components,omitempty"`
	Parameters       ParameterSpec   `json:"parameters" yaml:"parameters"`
	Humidification   *bool           `json:"humidification,omitempty" yaml:"humidification,omitempty"`
	ComfortThreshold *float64        `json:"comfort_threshold,omitempty" yaml:"comfort_threshold,omitempty"`
	IncludeHours     bool            `json:"include_hours,omitempty" yaml:"include_hours,omitempty"`
}

// ClimateSource selects a TMY file, either by catalogue zone and period or by path.
type ClimateSource struct {
	Zone   string `json:"zone,omitempty" yaml:"zone,omitempty" example:"2A"`
	Period string `json:"period,omitempty" yaml:"period,omitempty" example:"present"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
}

// SampleSpec is one hour of outdoor air given inline.
type SampleSpec struct {
	TDry float64 `json:"t_dry" yaml:"t_dry"` // °C
	W    float64 `json:"w" yaml:"w"`         // kg/kg
}

// ComponentSpec is an installed component. A nil efficiency takes the nominal value.
type ComponentSpec struct {
	Type       string   `json:"type" yaml:"type" example:"DEC"`
	Efficiency *float64 `json:"efficiency,omitempty" yaml:"efficiency,omitempty" example:"0.85"`
}

// ParameterSpec holds the operating constraints; nil fields take defaults.
type ParameterSpec struct {
	TSuMin *float64 `json:"t_su_min,omitempty" yaml:"t_su_min,omitempty"`
	TSuMax *float64 `json:"t_su_max,omitempty" yaml:"t_su_max,omitempty"`
	TReg   *float64 `json:"t_reg,omitempty" yaml:"t_reg,omitempty"`
	TIn    *float64 `json:"t_in,omitempty" yaml:"t_in,omitempty"`
	RHIn   *float64 `json:"rh_in,omitempty" yaml:"rh_in,omitempty"`
	WIn    *float64 `json:"w_in,omitempty" yaml:"w_in,omitempty"`
	TWbIn  *float64 `json:"t_wb_in,omitempty" yaml:"t_wb_in,omitempty"`
}

// Report is the outcome of an analysis.
type Report struct {
	Location       string             `json:"location" yaml:"location"`
	Hours          int                `json:"hours" yaml:"hours"`
	Humidification bool               `json:"humidification" yaml:"humidification"`
	Components     []ComponentReport  `json:"components" yaml:"components"`
	Parameters     ResolvedParameters `json:"parameters" yaml:"parameters"`
	Notes          []string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	Zones          []ZoneReport       `json:"zones" yaml:"zones"`
	Boundaries     []BoundaryReport   `json:"boundaries" yaml:"boundaries"`
	Recommendation Recommendation     `json:"recommendation" yaml:"recommendation"`
}

// ComponentReport is a component as it was used.
type ComponentReport struct {
	Type       string  `json:"type" yaml:"type"`
	Efficiency float64 `json:"efficiency" yaml:"efficiency"`
}

// ResolvedParameters are the constraints after defaults and derivations.
type ResolvedParameters struct {
	TSuMin float64 `json:"t_su_min" yaml:"t_su_min"`
	TSuMax float64 `json:"t_su_max" yaml:"t_su_max"`
	TReg   float64 `json:"t_reg" yaml:"t_reg"`
	TIn    float64 `json:"t_in" yaml:"t_in"`
	RHIn   float64 `json:"rh_in" yaml:"rh_in"`
	WIn    float64 `json:"w_in" yaml:"w_in"`
	TWbIn  float64 `json:"t_wb_in" yaml:"t_wb_in"`
}

// ZoneReport is the share of the year a mode covers.
type ZoneReport struct {
	Mode      string   `json:"mode" yaml:"mode"`
	Hours     int      `json:"hours" yaml:"hours"`
	Share     float64  `json:"share" yaml:"share"`
	Equipment []string `json:"equipment,omitempty" yaml:"equipment,omitempty"`
	Indices   []int    `json:"indices,omitempty" yaml:"indices,omitempty"`
}

// BoundaryReport is a mode boundary line with its chart reference points.
type BoundaryReport struct {
	Mode      string        `json:"mode" yaml:"mode"`
	Legend    string        `json:"legend" yaml:"legend"`
	Line      string        `json:"line" yaml:"line"`
	Threshold *float64      `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Slope     *float64      `json:"slope,omitempty" yaml:"slope,omitempty"`
	Intercept *float64      `json:"intercept,omitempty" yaml:"intercept,omitempty"`
	Ref       [2][2]float64 `json:"ref" yaml:"ref"` // [[T, w], [T, w]]
}

// Recommendation is the least equipped mode reaching the comfort threshold.
type Recommendation struct {
	Mode          string   `json:"mode" yaml:"mode"`
	Components    []string `json:"components,omitempty" yaml:"components,omitempty"`
	ComfortHours  int      `json:"comfort_hours" yaml:"comfort_hours"`
	Share         float64  `json:"share" yaml:"share"`
	Threshold     float64  `json:"threshold" yaml:"threshold"`
	ActiveCooling bool     `json:"active_cooling" yaml:"active_cooling"`
	Message       string   `json:"message" yaml:"message"`
}
