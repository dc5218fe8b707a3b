package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Action is the dispatch decision taken at the start of each hour.
type Action int

const (
	// ProcessAll clears the whole queue, drawing grid power for any shortfall.
	ProcessAll Action = iota
	// ProcessGreen clears only what solar, wind and battery can power.
	ProcessGreen
	// Hold processes nothing and pays the idle load.
	Hold
)

// NumActions is the size of the action space.
const NumActions = 3

var actionNames = [NumActions]string{"PROCESS_ALL", "PROCESS_GREEN", "HOLD"}

// Actions returns every valid action in ordinal order.
func Actions() []Action {
	return []Action{ProcessAll, ProcessGreen, Hold}
}

// Valid reports whether a is one of the defined actions.
func (a Action) Valid() bool {
	return a >= ProcessAll && a <= Hold
}

func (a Action) String() string {
	if !a.Valid() {
		return "Action(" + strconv.Itoa(int(a)) + ")"
	}
	return actionNames[a]
}

// ParseAction accepts symbolic names in any case, with either dashes or
// underscores, a few short aliases, and the ordinals 0, 1 and 2.
func ParseAction(s string) (Action, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	switch key {
	case "process-all", "all", "0":
		return ProcessAll, nil
	case "process-green", "green", "green-only", "1":
		return ProcessGreen, nil
	case "hold", "idle", "2":
		return Hold, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid action %d", int(a))
	}
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
