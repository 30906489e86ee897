package common

// MetricReading is one named scalar reading coming from the diagnostic session
type MetricReading struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Present returns false if the reading carries the "no data" unit sentinel
func (r MetricReading) Present() bool {
	return !IsNoData(r.Unit)
}

// MetricUpdate is the normalized update republished after a reading was handled
type MetricUpdate struct {
	Key     string  `json:"key"`
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
	Present bool    `json:"present"`
}

// MetricKey returns the identity key of the updated metric
func (u MetricUpdate) MetricKey() string {
	if len(u.Key) > 0 {
		return u.Key
	}

	return NormalizeName(u.Name)
}

// CardView is the displayed state of one metric card
type CardView struct {
	Key            string `json:"key"`
	Title          string `json:"title"`
	DisplayedValue string `json:"displayedValue"`
	DisplayedUnit  string `json:"displayedUnit"`
	Frozen         bool   `json:"frozen"`
	Expanded       bool   `json:"expanded"`
}

// Sample is one rolling window entry. A nil Value is a gap in the graph.
type Sample struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

// GraphView is the painted state of one chart surface
type GraphView struct {
	Target    string   `json:"target"`
	TrackerID string   `json:"trackerId"`
	Metric    string   `json:"metric"`
	Unit      string   `json:"unit"`
	Samples   []Sample `json:"samples"`
}

// CustomMetricDefinition is an ad-hoc metric definition submitted by the user
type CustomMetricDefinition struct {
	Mode     string `json:"mode"`
	PID      string `json:"pid"`
	Equation string `json:"equation"`
	Unit     string `json:"unit"`
	Name     string `json:"name"`
}

// RegisterCustomMetricRequest is emitted to the diagnostic session after a successful validation
type RegisterCustomMetricRequest struct {
	Mode     string `json:"mode"`
	PID      string `json:"pid"`
	Command  string `json:"command"`
	Equation string `json:"equation"`
	Unit     string `json:"unit"`
	Name     string `json:"name"`
}

// ConnectionStatus describes the diagnostic session connection
type ConnectionStatus struct {
	Connected  bool   `json:"connected"`
	SerialPort string `json:"serialPort"`
	Message    string `json:"message"`
}

// RecordedReading is a reading persisted by the recorder
type RecordedReading struct {
	MetricReading
	RecordedAt int64 `json:"recordedAt"`
}

// PaintEventKind tells what a paint event carries
type PaintEventKind string

const (
	// PaintCard is emitted when a card was created or repainted
	PaintCard PaintEventKind = "card"
	// PaintGraph is emitted when a graph was repainted
	PaintGraph PaintEventKind = "graph"
	// PaintClear is emitted when the cards were cleared
	PaintClear PaintEventKind = "clear"
	// PaintSession is emitted when the vehicle, trouble codes, readiness tests, parameter catalog or unit preferences changed
	PaintSession PaintEventKind = "session"
)

// PaintEvent is one paint streamed to the UI clients
type PaintEvent struct {
	Kind    PaintEventKind   `json:"kind"`
	Card    *CardView        `json:"card,omitempty"`
	Graph   *GraphView       `json:"graph,omitempty"`
	Session *SessionSnapshot `json:"session,omitempty"`
}

// VehicleDetails identifies the connected vehicle
type VehicleDetails struct {
	VIN   string `json:"vin"`
	Make  string `json:"make"`
	Model string `json:"model"`
}

// TroubleCode is one diagnostic trouble code reported by the vehicle.
// Permanent codes survive a clear request.
type TroubleCode struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Permanent   bool   `json:"permanent"`
}

// ReadinessTest is the status of one on-board monitor
type ReadinessTest struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Complete  bool   `json:"complete"`
}

// ParameterInfo is one entry of the parameter catalog
type ParameterInfo struct {
	Mode      string `json:"mode"`
	PID       string `json:"pid"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	Formula   string `json:"formula"`
	Supported bool   `json:"supported"`
}

// Command returns the request sent on the wire for this parameter
func (p ParameterInfo) Command() string {
	return p.Mode + p.PID
}

// UnitPreferences selects the unit the diagnostic session converts each quantity to
type UnitPreferences struct {
	Speed       string `json:"speed"`
	Distance    string `json:"distance"`
	Temperature string `json:"temperature"`
	Torque      string `json:"torque"`
	Pressure    string `json:"pressure"`
	FlowRate    string `json:"flowRate"`
}

// DefaultUnitPreferences returns the metric unit set
func DefaultUnitPreferences() UnitPreferences {
	return UnitPreferences{
		Speed:       "km/h",
		Distance:    "km",
		Temperature: "°C",
		Torque:      "Nm",
		Pressure:    "kPa",
		FlowRate:    "L/h",
	}
}

// SessionSnapshot is the session-held state besides cards and graphs
type SessionSnapshot struct {
	Connection      ConnectionStatus `json:"connection"`
	Vehicle         *VehicleDetails  `json:"vehicle"`
	TroubleCodes    []TroubleCode    `json:"troubleCodes"`
	ReadinessTests  []ReadinessTest  `json:"readinessTests"`
	Parameters      []ParameterInfo  `json:"parameters"`
	UnitPreferences UnitPreferences  `json:"unitPreferences"`
}
