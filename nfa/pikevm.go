package nfa

import (
	"github.com/tchlux/regex/internal/sparse"
	"github.com/tchlux/regex/prefilter"
)

// PikeVM executes a Program against an input by simulating the NFA
// with two frontiers of live instruction indices, consuming one input
// byte per outer step. It never backtracks: runtime is
// O(len(input) * len(program)).
//
// A PikeVM owns mutable frontier state and must not be shared between
// goroutines; the Program it runs is read-only and may back any
// number of VMs.
type PikeVM struct {
	prog   *Program
	accept int32

	cur  *sparse.Frontier
	next *sparse.Frontier

	// pf, when set, is consulted whenever cur has collapsed to the
	// leading ".*" self-loop: every position before the next
	// candidate would leave the frontier unchanged, so the VM jumps
	// straight to it. Only honored on programs with that shape.
	pf          prefilter.Prefilter
	leadingSkip bool

	bestStart int
	bestEnd   int
}

// NewPikeVM creates a VM for the given program.
func NewPikeVM(prog *Program) *PikeVM {
	capacity := len(prog.Insts) + 1
	return &PikeVM{
		prog:        prog,
		accept:      prog.Accept(),
		cur:         sparse.NewFrontier(capacity),
		next:        sparse.NewFrontier(capacity),
		leadingSkip: hasLeadingSkip(prog),
	}
}

// SetPrefilter installs a candidate finder. It is ignored unless the
// program begins with the ".*" skip shape the finder was derived from.
func (p *PikeVM) SetPrefilter(pf prefilter.Prefilter) {
	if p.leadingSkip {
		p.pf = pf
	}
}

// hasLeadingSkip recognizes the compiled form of a leading ".*": a
// split whose body is a dot looping back to the split.
func hasLeadingSkip(prog *Program) bool {
	if len(prog.Insts) < 2 {
		return false
	}
	return prog.Insts[0].Op == OpSplit && prog.Insts[0].Next == 1 &&
		prog.Insts[1].Op == OpAny && prog.Insts[1].Next == 0
}

// Search runs the program over input and returns the bounds of the
// first match: input[start:end). With no match it returns
// (-1, CodeNoMatch); on empty input, (-1, CodeEmptyInput) without
// executing.
//
// The final step runs against a virtual terminator past the last
// byte, so an accepting edge taken there may report end == len(input)+1.
func (p *PikeVM) Search(input []byte) (start, end int) {
	if len(input) == 0 {
		return -1, CodeEmptyInput
	}

	p.cur.Reset()
	p.next.Reset()
	p.bestStart = -1
	p.bestEnd = 0

	// expanded[pc] is the outer step at which pc was last drained from
	// cur and expandedAt the start it carried then; popping pc again in
	// the same step without an earlier start would only repeat that
	// work, and on a zero-width loop of splits would never stop.
	expanded := make([]int, p.accept+1)
	expandedAt := make([]int32, p.accept+1)
	step := 0

	pos := 0
	p.cur.Push(0, 0)
	if p.pf != nil {
		pos = p.pf.Find(input, 0)
		if pos < 0 {
			return -1, CodeNoMatch
		}
	}

	for {
		step++
		var c byte
		if pos < len(input) {
			c = input[pos]
		}

		// Drain the current frontier against c. Splits expand in
		// place; consuming instructions seed the next frontier.
		for p.cur.Len() > 0 {
			pc, st := p.cur.Pop()
			if expanded[pc] == step && expandedAt[pc] <= st {
				continue
			}
			expanded[pc], expandedAt[pc] = step, st
			in := p.prog.Insts[pc]
			switch in.Op {
			case OpSplit:
				p.enqueue(p.cur, in.Next, st, pos, false)
				p.enqueue(p.cur, in.Fail, st, pos, false)
			case OpByte:
				if c == in.B {
					p.enqueue(p.next, in.Next, st, pos, true)
				} else {
					p.enqueue(p.next, in.Fail, st, pos, true)
				}
			case OpAny:
				if c != 0 {
					p.enqueue(p.next, in.Next, st, pos, true)
				} else {
					p.enqueue(p.next, in.Fail, st, pos, true)
				}
			case OpClassByte:
				if c == in.B {
					p.enqueue(p.next, in.Next, st, pos, true)
				} else {
					// Interior class member: retry the next member
					// against the same input byte.
					p.enqueue(p.cur, in.Fail, st, pos, true)
				}
			case OpClassEnd:
				if c == in.B {
					p.enqueue(p.next, in.Next, st, pos, true)
				} else {
					p.enqueue(p.next, in.Fail, st, pos, true)
				}
			}
		}

		// A recorded match is final once no surviving thread could
		// start earlier.
		if p.bestStart >= 0 && !p.next.HasStartBelow(int32(p.bestStart)) {
			return p.bestStart, p.bestEnd
		}

		p.cur, p.next = p.next, p.cur
		p.next.Reset()

		if c == 0 {
			break
		}
		pos++

		if p.pf != nil && p.bestStart < 0 && p.cur.Only(0) {
			skip := p.pf.Find(input, pos)
			if skip < 0 {
				return -1, CodeNoMatch
			}
			pos = skip
		}

		if p.cur.Len() == 0 {
			break
		}
	}

	if p.bestStart >= 0 {
		return p.bestStart, p.bestEnd
	}
	return -1, CodeNoMatch
}

// enqueue routes a thread to dest, merging repeat arrivals so the
// earliest start survives. Reaching the accept index records a match
// candidate instead: consumed tells whether the originating
// instruction consumed c, which decides whether the match ends before
// or after the current position.
func (p *PikeVM) enqueue(f *sparse.Frontier, dest, start int32, pos int, consumed bool) {
	if dest < 0 {
		return
	}
	if dest == p.accept {
		end := pos
		if consumed {
			end++
		}
		if p.bestStart < 0 || int(start) < p.bestStart ||
			(int(start) == p.bestStart && end < p.bestEnd) {
			p.bestStart = int(start)
			p.bestEnd = end
		}
		return
	}
	f.Push(dest, start)
}
