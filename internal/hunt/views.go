package hunt

import (
	"fmt"
	"strconv"
	"strings"
)

// View is a navigation target, expressed as the route path that renders it.
type View string

const (
	ViewLanding View = "/"
	ViewLogin   View = "/login"
	ViewStart   View = "/piraten"
	ViewHistory View = "/historik"
	ViewProfile View = "/profil"
)

const waypointPfx = "/piratenstory_"

func WaypointView(k int) View {
	return View(fmt.Sprintf("/PiratenStory_%02d", k))
}

// ViewFor is the page a user at progress belongs on.
func (m Machine) ViewFor(progress int) View {
	if progress <= 0 {
		return ViewStart
	}
	if progress > m.Waypoints {
		progress = m.Waypoints
	}
	return WaypointView(progress)
}

// Guard checks whether waypoint view k may be shown at progress. When it may
// not, the returned view is where to redirect instead.
func (m Machine) Guard(k, progress int) (View, bool) {
	if k < 1 || k > m.Waypoints || progress < k {
		return ViewStart, false
	}
	return WaypointView(k), true
}

// ParseWaypointPath recognises /PiratenStory_NN in any letter case.
func ParseWaypointPath(path string) (int, bool) {
	lower := strings.ToLower(strings.TrimRight(path, "/"))
	rest, ok := strings.CutPrefix(lower, waypointPfx)
	if !ok || len(rest) != 2 || !isDigit(rest[0]) || !isDigit(rest[1]) {
		return 0, false
	}
	k, err := strconv.Atoi(rest)
	if err != nil || k < 1 {
		return 0, false
	}
	return k, true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
