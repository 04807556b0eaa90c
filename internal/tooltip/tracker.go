package tooltip

type trackerState int

const (
	trackerIdle trackerState = iota
	trackerTracking
)

// tracker is the frame hook subscription that keeps an attached tooltip
// on its target. Ticks delivered after stop are dropped.
type tracker struct {
	host  Host
	view  View
	tick  func()
	id    HookID
	state trackerState
}

func newTracker(host Host, view View, tick func()) *tracker {
	return &tracker{host: host, view: view, tick: tick}
}

func (tr *tracker) start() {
	if tr.state == trackerTracking {
		return
	}
	tr.state = trackerTracking
	tr.id = tr.host.RegisterFrameHook(tr.view, tr.onFrame)
}

func (tr *tracker) stop() {
	if tr.state != trackerTracking {
		return
	}
	tr.state = trackerIdle
	tr.host.UnregisterFrameHook(tr.view, tr.id)
}

func (tr *tracker) onFrame() {
	if tr.state != trackerTracking {
		return
	}
	tr.tick()
}
