// Package apitypes holds the wire-schema structs of spec §6: Engine Input,
// Engine Output, Workflow Envelope, and the error envelope. These mirror
// the JSON-like schemas field-for-field so a transport layer can encode
// them directly.
package apitypes

import "time"

// BirthDataInput is the optional birth-data block of an Engine Input.
type BirthDataInput struct {
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// EngineInput is the request record of spec §3/§6.
type EngineInput struct {
	EngineID           string                 `json:"engine_id"`
	BirthData          *BirthDataInput        `json:"birth_data,omitempty"`
	CurrentTime        *time.Time             `json:"current_time,omitempty"`
	Precision          string                 `json:"precision"`
	ConsciousnessLevel int                    `json:"consciousness_level"`
	Options            map[string]interface{} `json:"options,omitempty"`
}

// Metadata is the per-result metadata block of an Engine Output.
type Metadata struct {
	CalculationTimeMs float64   `json:"calculation_time_ms"`
	Backend           string    `json:"backend"`
	PrecisionAchieved string    `json:"precision_achieved"`
	Cached            bool      `json:"cached"`
	Timestamp         time.Time `json:"timestamp"`
}

// EngineOutput is the response record of spec §3/§6.
type EngineOutput struct {
	EngineID           string                 `json:"engine_id"`
	Result             map[string]interface{} `json:"result"`
	WitnessPrompt      string                 `json:"witness_prompt"`
	ConsciousnessLevel int                    `json:"consciousness_level"`
	Metadata           Metadata               `json:"metadata"`
}

// EngineError is the slot value used in a Workflow Envelope when an engine
// call fails; it carries the same shape as ErrorEnvelope.
type EngineError struct {
	ErrorKind    string                 `json:"error_kind"`
	ErrorMessage string                 `json:"error_message"`
	ErrorDetails map[string]interface{} `json:"error_details,omitempty"`
}

// Theme is one entry of a Workflow Envelope's synthesis.themes.
type Theme struct {
	Label    string   `json:"label"`
	Sources  []string `json:"sources"`
	Strength float64  `json:"strength"`
}

// Alignment is one entry of a Workflow Envelope's synthesis.alignments.
type Alignment struct {
	Engines []string `json:"engines"`
	Label   string   `json:"label"`
}

// Tension is one entry of a Workflow Envelope's synthesis.tensions.
type Tension struct {
	Engines  []string `json:"engines"`
	Question string   `json:"question"`
}

// Synthesis is the cross-engine synthesis block of a Workflow Envelope.
type Synthesis struct {
	Themes     []Theme     `json:"themes"`
	Alignments []Alignment `json:"alignments"`
	Tensions   []Tension   `json:"tensions"`
}

// Timing is the workflow timing block.
type Timing struct {
	TotalMs    float64            `json:"total_ms"`
	PerEngine  map[string]float64 `json:"per_engine_ms"`
}

// WorkflowEnvelope is the aggregate response of spec §6.
type WorkflowEnvelope struct {
	WorkflowID string                 `json:"workflow_id"`
	Engines    map[string]interface{} `json:"engines"` // EngineOutput or EngineError per slot
	Synthesis  Synthesis              `json:"synthesis"`
	Timing     Timing                 `json:"timing"`
}

// ErrorEnvelope is the standalone error wire schema of spec §6.
type ErrorEnvelope struct {
	ErrorKind    string                 `json:"error_kind"`
	ErrorMessage string                 `json:"error_message"`
	ErrorDetails map[string]interface{} `json:"error_details,omitempty"`
}
