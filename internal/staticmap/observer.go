package staticmap

import "time"

// Stage is a render milestone.
type Stage string

const (
	StageZoomResolved   Stage = "zoom_resolved"
	StageBaseLayerReady Stage = "base_layer_ready"
	StageOverlayReady   Stage = "overlay_ready"
	StageComposited     Stage = "composited"
)

// Stages lists the milestones of a render. Base layer and overlay may be
// reported in either order.
var Stages = []Stage{StageZoomResolved, StageBaseLayerReady, StageOverlayReady, StageComposited}

// Event is passed to an Observer at each milestone.
type Event struct {
	Stage Stage
	Zoom  int
	// Took is the duration of the stage.
	Took time.Duration
	// Tiles and FailedTiles are set for StageBaseLayerReady.
	Tiles       int
	FailedTiles int
}

// Observer receives render milestones. Observe may be called from several
// goroutines at once.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) {
	f(e)
}
