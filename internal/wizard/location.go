// Package wizard contains the per-shot completion rules and the step
// machine that gates navigation through the shot configuration wizard.
// Validation results are plain data; blocked navigation is a normal
// outcome, never an error value.
package wizard

import (
	"strings"

	"github.com/shotwright/shotwright/internal/scene"
	"github.com/shotwright/shotwright/internal/session"
)

// NeedsLocation reports whether a shot calls for a location reference:
// establishing shots always do, action and dialogue shots only when the
// scene carries an associated location.
func NeedsLocation(shot scene.Shot, sceneHasLocation bool) bool {
	if shot.Type == scene.ShotEstablishing {
		return true
	}
	return sceneHasLocation
}

// LocationRequired reports whether the location requirement is mandatory
// for the shot. Currently every location-needing shot is mandatory unless
// opted out, so this mirrors NeedsLocation; it is kept separate because the
// two questions diverge the moment optional location hints exist.
func LocationRequired(shot scene.Shot, sceneHasLocation bool) bool {
	return NeedsLocation(shot, sceneHasLocation)
}

// LocationSatisfied reports whether the shot's location requirement is met:
// either a reference is selected, or the user opted out and supplied a
// non-empty description.
func LocationSatisfied(ref session.LocationRef, optedOut bool, description string) bool {
	if !ref.IsZero() {
		return true
	}
	return optedOut && strings.TrimSpace(description) != ""
}
