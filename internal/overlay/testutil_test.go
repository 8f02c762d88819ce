package overlay

import "github.com/inkglass/corepad/internal/marker"

func newSharedMarkers() *marker.List {
	return marker.New()
}
