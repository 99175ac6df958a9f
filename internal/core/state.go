package core

type State int

const (
	StateIdle State = iota
	StateNormalizingOptions
	StateResolvingAssets
	StateEvaluating
	StateComposing
	StateSubstituting
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:               "idle",
	StateNormalizingOptions: "normalizing-options",
	StateResolvingAssets:    "resolving-assets",
	StateEvaluating:         "evaluating",
	StateComposing:          "composing",
	StateSubstituting:       "substituting",
	StateDone:               "done",
	StateFailed:             "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
