package model

// Scenario is a serializable snapshot of a topology + demand set,
// independent of any live World's mutable RNG/cumulative-curve state.
// It exists so a constructed network can be round-tripped through
// YAML for fixtures and tooling (gopkg.in/yaml.v3 tags below), the
// same separation lvlath keeps between its in-memory graph and its
// YAML-backed test fixtures.
type Scenario struct {
	Name                   string           `yaml:"name" json:"name"`
	TMax                   float64          `yaml:"t_max" json:"t_max"`
	DeltaN                 float64          `yaml:"delta_n" json:"delta_n"`
	Tau                    float64          `yaml:"tau" json:"tau"`
	DuoUpdateTime          float64          `yaml:"duo_update_time" json:"duo_update_time"`
	DuoUpdateWeight        float64          `yaml:"duo_update_weight" json:"duo_update_weight"`
	RouteChoiceUncertainty float64          `yaml:"route_choice_uncertainty,omitempty" json:"route_choice_uncertainty,omitempty"`
	RandomSeed             int64            `yaml:"random_seed" json:"random_seed"`
	VehicleLogMode         int              `yaml:"vehicle_log_mode" json:"vehicle_log_mode"`
	Nodes                  []ScenarioNode   `yaml:"nodes" json:"nodes"`
	Links                  []ScenarioLink   `yaml:"links" json:"links"`
	Demands                []ScenarioDemand `yaml:"demands" json:"demands"`
}

type ScenarioNode struct {
	Name            string    `yaml:"name" json:"name"`
	X               float64   `yaml:"x" json:"x"`
	Y               float64   `yaml:"y" json:"y"`
	SignalIntervals []float64 `yaml:"signal_intervals,omitempty" json:"signal_intervals,omitempty"`
	SignalOffset    float64   `yaml:"signal_offset,omitempty" json:"signal_offset,omitempty"`
}

type ScenarioLink struct {
	Name          string  `yaml:"name" json:"name"`
	Start         string  `yaml:"start" json:"start"`
	End           string  `yaml:"end" json:"end"`
	FreeFlowSpeed float64 `yaml:"free_flow_speed" json:"free_flow_speed"`
	JamDensity    float64 `yaml:"jam_density" json:"jam_density"`
	Length        float64 `yaml:"length" json:"length"`
	MergePriority float64 `yaml:"merge_priority" json:"merge_priority"`
	CapacityOut   float64 `yaml:"capacity_out" json:"capacity_out"`
	SignalGroup   []int   `yaml:"signal_group,omitempty" json:"signal_group,omitempty"`
}

type ScenarioDemand struct {
	Origin         string   `yaml:"origin" json:"origin"`
	Destination    string   `yaml:"destination" json:"destination"`
	StartTime      float64  `yaml:"start_time" json:"start_time"`
	EndTime        float64  `yaml:"end_time" json:"end_time"`
	Flow           float64  `yaml:"flow" json:"flow"`
	PreferredLinks []string `yaml:"preferred_links,omitempty" json:"preferred_links,omitempty"`
}

// Build materializes a Scenario into a fresh, topology-frozen World.
func (s Scenario) Build(printMode bool) (*World, error) {
	w, err := NewWorld(s.Name, s.TMax, s.DeltaN, s.Tau, s.DuoUpdateTime, s.DuoUpdateWeight, s.RouteChoiceUncertainty, printMode, s.RandomSeed, s.VehicleLogMode)
	if err != nil {
		return nil, err
	}
	for _, n := range s.Nodes {
		if _, err := w.AddNode(n.Name, n.X, n.Y, n.SignalIntervals, n.SignalOffset); err != nil {
			return nil, err
		}
	}
	for _, l := range s.Links {
		if _, err := w.AddLink(l.Name, l.Start, l.End, l.FreeFlowSpeed, l.JamDensity, l.Length, l.MergePriority, l.CapacityOut, l.SignalGroup); err != nil {
			return nil, err
		}
	}
	for _, d := range s.Demands {
		if _, err := w.AddDemand(d.Origin, d.Destination, d.StartTime, d.EndTime, d.Flow, d.PreferredLinks); err != nil {
			return nil, err
		}
	}
	if err := w.InitializeAdjMatrix(); err != nil {
		return nil, err
	}
	return w, nil
}
