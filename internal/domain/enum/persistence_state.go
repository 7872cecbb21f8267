package enum

import "encoding/json"

// PersistenceState is the autosave state of a draft
type PersistenceState int

const (
	PersistenceStateIdle  PersistenceState = 0
	PersistenceStateDirty PersistenceState = 1
)

func (s PersistenceState) String() string {
	switch s {
	case PersistenceStateIdle:
		return "Idle"
	case PersistenceStateDirty:
		return "Dirty"
	}
	return "Unknown"
}

func (s PersistenceState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
