package session

import (
	"context"

	"github.com/stagehand-games/stagehand/pkg/save"
	"github.com/stagehand-games/stagehand/pkg/scene"
)

type transitionPhase int

const (
	phaseIdle transitionPhase = iota
	phaseDrain
	phaseSettle
)

type transition struct {
	phase  transitionPhase
	target *scene.Room
	settle float64
}

// GoToRoom starts a transition into r. The change is not instant: pending
// message pages drain first, the session autosaves unless the destination
// is a cutscene, and the new room activates after a short settle. A second
// request while one is in flight is rejected.
func (s *Session) GoToRoom(r *scene.Room) {
	if r == nil {
		s.log.Error("tried to go to nil room")
		return
	}
	if s.current == r {
		s.log.Warn("already in room", "room", r.ID)
		return
	}
	if s.transition.phase != phaseIdle {
		s.log.Warn("transition already in flight, rejecting",
			"in_flight", s.transition.target.ID, "requested", r.ID)
		return
	}
	s.transition = transition{phase: phaseDrain, target: r}
	s.log.Debug("transition started", "to", r.ID)
}

// GoBack travels through the current room's back exit, narrating the
// room's back message on the way out.
func (s *Session) GoBack() {
	if s.current == nil || s.current.BackRoom == nil {
		return
	}
	s.window.Clear()
	if s.current.BackMessage != "" {
		s.window.ShowMessage(s.current.BackMessage)
	}
	s.GoToRoom(s.current.BackRoom)
}

// DescribeRoom narrates the current room's description.
func (s *Session) DescribeRoom() {
	if s.current == nil {
		return
	}
	s.window.ShowMessage(s.current.Description)
}

func (s *Session) advanceTransition(dt float64) {
	switch s.transition.phase {
	case phaseIdle:
		return

	case phaseDrain:
		if s.window.HasMore() {
			return
		}
		if s.current != nil && !s.transition.target.IsCutscene {
			if err := s.saveAs(context.Background(), save.TempSlot, false); err != nil {
				s.log.Error("autosave failed", "error", err)
			}
		}
		s.transition.settle = s.cfg.TransitionSettleSec
		s.transition.phase = phaseSettle

	case phaseSettle:
		s.transition.settle -= dt
		if s.transition.settle > 0 {
			return
		}
		target := s.transition.target
		s.transition = transition{}
		s.activateRoom(target)
	}
}

func (s *Session) activateRoom(r *scene.Room) {
	s.current = r
	s.audio.PlayMusic(r.Music)
	s.CloseContainerIfNotHeld()
	s.Deselect()
	if s.cfg.Verbose && !r.IsCutscene {
		s.window.Clear()
		s.DescribeRoom()
	}
	s.log.Info("entered room", "room", r.ID, "turns", s.turnCount)
}
