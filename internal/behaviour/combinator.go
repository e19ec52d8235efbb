package behaviour

import "squad-formation-sim/internal/simulation"

type sequence struct {
	left, right simulation.Behaviour
	leftRes     simulation.CondRes
}

// Sequence runs its behaviours one after another. While a behaviour is
// unresolved the sequence reports NotMet and later behaviours are not run.
// An abort ends the sequence. After a behaviour is met the next one starts
// on the following frame, and the sequence reports the last one's results.
func Sequence(first simulation.Behaviour, rest ...simulation.Behaviour) simulation.Behaviour {
	if len(rest) == 0 {
		return first
	}
	return &sequence{left: first, right: Sequence(rest[0], rest[1:]...)}
}

func (s *sequence) Run(restart bool, dt float64) simulation.CondRes {
	if restart {
		s.leftRes = simulation.NotMet
		s.left.Run(true, 0)
		s.right.Run(true, 0)
		return simulation.NotMet
	}
	switch s.leftRes {
	case simulation.Abort:
		return simulation.Abort
	case simulation.Met:
		return s.right.Run(false, dt)
	}
	s.leftRes = s.left.Run(false, dt)
	return simulation.NotMet
}

// parallel runs both operands each frame until each resolves. A resolved
// operand is held and not run again.
type parallel struct {
	left, right       simulation.Behaviour
	leftRes, rightRes simulation.CondRes
	needBoth          bool
}

// ParallelOr runs both behaviours until either resolves. The pair aborts if
// a resolved operand aborted, and is met otherwise.
func ParallelOr(left, right simulation.Behaviour) simulation.Behaviour {
	return &parallel{left: left, right: right}
}

// ParallelAnd runs both behaviours until both resolve. The pair aborts if
// either operand aborted, and is met otherwise.
func ParallelAnd(left, right simulation.Behaviour) simulation.Behaviour {
	return &parallel{left: left, right: right, needBoth: true}
}

func (p *parallel) Run(restart bool, dt float64) simulation.CondRes {
	if restart {
		p.leftRes, p.rightRes = simulation.NotMet, simulation.NotMet
		p.left.Run(true, 0)
		p.right.Run(true, 0)
		return simulation.NotMet
	}
	if !p.leftRes.Resolved() {
		p.leftRes = p.left.Run(false, dt)
	}
	if !p.rightRes.Resolved() {
		p.rightRes = p.right.Run(false, dt)
	}

	resolved := p.leftRes.Resolved() || p.rightRes.Resolved()
	if p.needBoth {
		resolved = p.leftRes.Resolved() && p.rightRes.Resolved()
	}
	if !resolved {
		return simulation.NotMet
	}
	if p.leftRes == simulation.Abort || p.rightRes == simulation.Abort {
		return simulation.Abort
	}
	return simulation.Met
}

type loop struct {
	cond Condition
	body simulation.Behaviour
}

// Loop restarts body every time it is met, forever. An abort from body ends
// the loop.
func Loop(body simulation.Behaviour) simulation.Behaviour {
	return LoopUntil(Infinite(), body)
}

// LoopUntil loops body until cond resolves, and then reports cond's result.
func LoopUntil(cond Condition, body simulation.Behaviour) simulation.Behaviour {
	return &loop{cond: cond, body: body}
}

func (l *loop) Run(restart bool, dt float64) simulation.CondRes {
	if restart {
		l.cond.Check(true, 0)
		l.body.Run(true, 0)
		return simulation.NotMet
	}
	if res := l.cond.Check(false, dt); res.Resolved() {
		return res
	}
	switch l.body.Run(false, dt) {
	case simulation.Abort:
		return simulation.Abort
	case simulation.Met:
		l.body.Run(true, 0)
	}
	return simulation.NotMet
}

type repeat struct {
	cond  Condition
	body  simulation.Behaviour
	times int
	count int
}

// Repeat runs body to completion times times, restarting it in between,
// and is met after the last completion. An abort from body ends the repeat.
func Repeat(body simulation.Behaviour, times int) simulation.Behaviour {
	return RepeatUntil(Infinite(), body, times)
}

// RepeatUntil is Repeat that also stops with cond's result once cond
// resolves.
func RepeatUntil(cond Condition, body simulation.Behaviour, times int) simulation.Behaviour {
	return &repeat{cond: cond, body: body, times: times}
}

func (r *repeat) Run(restart bool, dt float64) simulation.CondRes {
	if restart {
		r.count = 0
		r.cond.Check(true, 0)
		r.body.Run(true, 0)
		return simulation.NotMet
	}
	if r.count >= r.times {
		return simulation.Met
	}
	if res := r.cond.Check(false, dt); res.Resolved() {
		return res
	}
	switch r.body.Run(false, dt) {
	case simulation.Abort:
		return simulation.Abort
	case simulation.Met:
		r.count++
		if r.count >= r.times {
			return simulation.Met
		}
		r.body.Run(true, 0)
	}
	return simulation.NotMet
}

// Count returns the completions since the last restart.
func (r *repeat) Count() int { return r.count }

type wait struct {
	cond Condition
}

// Wait does nothing until cond resolves and reports its result.
func Wait(cond Condition) simulation.Behaviour {
	return &wait{cond: cond}
}

func (w *wait) Run(restart bool, dt float64) simulation.CondRes {
	if restart {
		w.cond.Check(true, 0)
		return simulation.NotMet
	}
	return w.cond.Check(false, dt)
}

// DoWhile runs left to completion and then loops right forever with a
// delay-second pause before each pass. An abort from either side ends it.
func DoWhile(left simulation.Behaviour, delay float64, right simulation.Behaviour) simulation.Behaviour {
	return Sequence(left, Loop(Sequence(Wait(TimeElapsed(delay)), right)))
}
