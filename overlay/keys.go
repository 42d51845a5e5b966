package overlay

import (
	"strconv"
	"strings"
)

// primaryKeys is the paint order of the controls:
// the shoulder triggers first, since the body covers them.
var primaryKeys = [...]string{
	"l", "r",
	"body", "screen",
	"a", "b", "start", "select",
	"up", "right", "down", "left",
}

// buttonKeys are the controls which may be pressed.
var buttonKeys = [...]string{"a", "b", "select", "start", "up", "down", "left", "right", "l", "r"}

// structuralKeys are painted with the device background color.
var structuralKeys = map[string]bool{"body": true, "l": true, "r": true}

const additionalSuffix = "_ADDITIONAL_"

// PrimaryKeys returns the canonical control keys, in paint order.
func PrimaryKeys() []string {
	out := primaryKeys
	return out[:]
}

// ButtonKeys returns the keys which may appear in a ButtonState.
func ButtonKeys() []string {
	out := buttonKeys
	return out[:]
}

// ElementID returns the document identifier of the primary key `key`.
func ElementID(key string) string { return strings.ToUpper(key) }

// ProbeID returns the identifier of the overlay shape `index` of
// the primary key `key`, such as "A_ADDITIONAL_0".
func ProbeID(key string, index int) string {
	return ElementID(key) + additionalSuffix + strconv.Itoa(index)
}

// ButtonState maps button keys to their pressed state.
// Missing keys are not pressed.
type ButtonState map[string]bool
