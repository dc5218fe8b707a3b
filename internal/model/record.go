package model

// StepRecord is the diagnostic record emitted by every step. Values are
// exact; the first eight fields are the stable set consumed by dashboards
// and loggers.
type StepRecord struct {
	Hour           int     `json:"hour"`
	Solar          float64 `json:"solar"`
	Wind           float64 `json:"wind"`
	GridUsed       float64 `json:"grid_used"`      // kWh
	CarbonEmitted  float64 `json:"carbon_emitted"` // gCO2
	TasksProcessed int     `json:"tasks_processed"`
	QueueLength    int     `json:"queue_length"`
	Battery        float64 `json:"battery"` // kWh, after reconciliation

	Action          string  `json:"action,omitempty"`
	CarbonIntensity float64 `json:"carbon_intensity"`
	Arrivals        int     `json:"arrivals"`
	DroppedTasks    int     `json:"dropped_tasks"`
	EnergyConsumed  float64 `json:"energy_consumed"`
	GreenUsed       float64 `json:"green_used"`
	Reward          float64 `json:"reward"`
}

// EpisodeStep is one entry of a recorded trajectory.
type EpisodeStep struct {
	Observation Observation `json:"obs"`
	Normalized  Observation `json:"obs_normalized"`
	Action      Action      `json:"action"`
	Reward      float64     `json:"reward"`
	Done        bool        `json:"done"`
	Record      StepRecord  `json:"info"`
}
