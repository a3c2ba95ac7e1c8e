package domain

// ExperimentType classifies a record. Stored values outside the known set are
// kept as-is and rendered as TypeOther.
type ExperimentType string

// Known experiment types.
const (
	TypeSynthesis        ExperimentType = "synthesis"
	TypeCharacterization ExperimentType = "characterization"
	TypeTesting          ExperimentType = "testing"
	TypeSimulation       ExperimentType = "simulation"
	TypeOther            ExperimentType = "other"
)

// DefaultType is preselected on the create form.
const DefaultType = TypeSynthesis

var experimentTypes = []ExperimentType{
	TypeSynthesis,
	TypeCharacterization,
	TypeTesting,
	TypeSimulation,
	TypeOther,
}

var experimentTypeLabels = map[ExperimentType]string{
	TypeSynthesis:        "Synthesis",
	TypeCharacterization: "Characterization",
	TypeTesting:          "Testing",
	TypeSimulation:       "Simulation",
	TypeOther:            "Other",
}

// ExperimentTypes returns the known types in display order.
func ExperimentTypes() []ExperimentType {
	return append([]ExperimentType(nil), experimentTypes...)
}

// Valid reports whether t is one of the known types.
func (t ExperimentType) Valid() bool {
	_, ok := experimentTypeLabels[t]
	return ok
}

// Normalize maps unknown values to TypeOther.
func (t ExperimentType) Normalize() ExperimentType {
	if t.Valid() {
		return t
	}
	return TypeOther
}

// Label is the human readable name of the (normalized) type.
func (t ExperimentType) Label() string {
	return experimentTypeLabels[t.Normalize()]
}

// BadgeClass is the presentation class for the type badge.
func (t ExperimentType) BadgeClass() string {
	return "type-" + string(t.Normalize())
}
