package enum

import "encoding/json"

// DraftEventKind identifies the Draft Store operation behind a change notification
type DraftEventKind int

const (
	DraftEventInitialized DraftEventKind = iota
	DraftEventRestored
	DraftEventItemAdded
	DraftEventItemRemoved
	DraftEventItemUpdated
	DraftEventHeaderUpdated
)

var draftEventNames = [...]string{
	"initialized",
	"restored",
	"item_added",
	"item_removed",
	"item_updated",
	"header_updated",
}

func (k DraftEventKind) String() string {
	if k < 0 || int(k) >= len(draftEventNames) {
		return "unknown"
	}
	return draftEventNames[k]
}

func (k DraftEventKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// IsUserEdit reports whether the event comes from user input, as opposed to
// the store being reset or re-hydrated. Only user edits make a draft dirty.
func (k DraftEventKind) IsUserEdit() bool {
	return k != DraftEventInitialized && k != DraftEventRestored
}
