package session

import (
	"errors"
	"fmt"
)

// pidSet holds debuggee pids keyed by thread-group id, in the order the
// groups started.
type pidSet struct {
	order []string          // group ids
	pids  map[string]string // group id -> pid
}

func newPidSet() pidSet {
	return pidSet{pids: make(map[string]string)}
}

// add records pid for group. A pid already tracked under any group is
// ignored.
func (p *pidSet) add(group, pid string) bool {
	for _, g := range p.order {
		if p.pids[g] == pid {
			return false
		}
	}
	if _, ok := p.pids[group]; !ok {
		p.order = append(p.order, group)
	}
	p.pids[group] = pid
	return true
}

func (p *pidSet) remove(group string) (string, bool) {
	pid, ok := p.pids[group]
	if !ok {
		return "", false
	}
	delete(p.pids, group)
	for i, g := range p.order {
		if g == group {
			p.order = append(p.order[:i:i], p.order[i+1:]...)
			break
		}
	}
	return pid, true
}

func (p *pidSet) list() []string {
	out := make([]string, 0, len(p.order))
	for _, g := range p.order {
		out = append(out, p.pids[g])
	}
	return out
}

// trackThreadGroup updates the pid set from a notify record.
func (s *Session) trackThreadGroup(snap Snapshot) {
	group, _ := snap.Fields.String("id")

	switch snap.State {
	case StateThreadGroupStarted:
		pid, _ := snap.Fields.String("pid")
		if pid == "" {
			return
		}
		if group == "" {
			group = pid
		}
		s.mu.Lock()
		added := s.pids.add(group, pid)
		s.mu.Unlock()
		if added {
			s.log.Debug("tracking debuggee", "group", group, "pid", pid)
		}

	case StateThreadGroupExited:
		if group == "" {
			return
		}
		s.mu.Lock()
		pid, ok := s.pids.remove(group)
		s.mu.Unlock()
		if ok {
			s.log.Debug("debuggee exited", "group", group, "pid", pid)
		}
	}
}

// Pids returns the tracked debuggee pids in the order they started.
func (s *Session) Pids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pids.list()
}

// Interrupt stops the running program. It arms h for the next terminal
// record through an empty command, then signals every tracked pid. Signal
// failures for individual pids are joined into the returned error; the
// remaining pids are still signalled.
func (s *Session) Interrupt(h Handler) error {
	if err := s.IssueCommand("", h); err != nil {
		return err
	}
	if s.signaler == nil {
		return nil
	}

	var errs []error
	for _, pid := range s.Pids() {
		s.log.Debug("interrupting debuggee", "pid", pid)
		if err := s.signaler.Signal(pid); err != nil {
			errs = append(errs, fmt.Errorf("interrupt pid %s: %w", pid, err))
		}
	}
	return errors.Join(errs...)
}
