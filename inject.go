package canopy

// injectedPointer is one queued pointer sample in screen coordinates.
type injectedPointer struct {
	x, y    float64
	pressed bool
	button  MouseButton
}

// InjectPress queues a left-button press at the screen point. Queued samples
// replace the real mouse, one per Update.
func (s *Stage) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, injectedPointer{x: x, y: y, pressed: true})
}

// InjectMove queues a pointer move with the button held.
func (s *Stage) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, injectedPointer{x: x, y: y, pressed: true})
}

// InjectRelease queues a release at the screen point.
func (s *Stage) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, injectedPointer{x: x, y: y})
}

// InjectHover queues a move with no button held.
func (s *Stage) InjectHover(x, y float64) {
	s.InjectRelease(x, y)
}

// InjectClick queues a press and a release at the same point. Consumes two frames.
func (s *Stage) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 evenly spaced moves
// and a release at (toX, toY). frames is at least 2.
func (s *Stage) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	frames = max(frames, 2)
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// PendingInjections returns the number of queued pointer samples.
func (s *Stage) PendingInjections() int { return len(s.injectQueue) }

// processInjectedInput feeds one queued sample through processPointer.
// Returns false when the queue is empty and real input should be read.
func (s *Stage) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	ev := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	s.processPointer(ev.x, ev.y, ev.pressed, ev.button)
	return true
}
