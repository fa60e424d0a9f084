package impeller

// CommandList is an immutable recording produced by Recorder.Build. It can
// be drawn any number of times, on any surface or nested in another
// recorder, until it is disposed.
type CommandList struct {
	*Handle
	cull *Rect
	ops  int
}

// Bounds returns the cull rectangle the list was recorded with, and false
// if it was recorded unbounded.
func (l *CommandList) Bounds() (Rect, bool) {
	if l.cull == nil {
		return Rect{}, false
	}
	return *l.cull, true
}

// Ops returns how many commands were recorded.
func (l *CommandList) Ops() int { return l.ops }
