package nfa

import (
	"fmt"
	"strings"
)

// Dead is the jump target that abandons a thread.
const Dead int32 = -1

// Op identifies the kind of a compiled instruction and determines how
// the executor interprets its byte and its two jump targets.
type Op uint8

const (
	// OpByte matches the exact byte B.
	OpByte Op = iota

	// OpAny matches any byte except NUL; the end-of-input terminator
	// reads as NUL.
	OpAny

	// OpSplit forks to both Next and Fail without consuming input.
	// All three prefix modifiers ('*', '?', '|') compile to this
	// shape; they differ only in the jump targets the compiler
	// installed.
	OpSplit

	// OpClassByte is an interior class member: on a mismatch the
	// thread retries Fail against the same input byte.
	OpClassByte

	// OpClassEnd is the member that textually closes its class: on a
	// mismatch the thread takes Fail at the next input position.
	OpClassEnd
)

// String returns a human-readable representation of the Op
func (o Op) String() string {
	switch o {
	case OpByte:
		return "byte"
	case OpAny:
		return "any"
	case OpSplit:
		return "split"
	case OpClassByte:
		return "class"
	case OpClassEnd:
		return "class-end"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(o))
	}
}

// Inst is one slot of the compiled table. Next is taken when the
// instruction succeeds, Fail when it does not; either may be Dead or
// the accept index (one past the last instruction). For instructions
// inside a negation group the compiler has already exchanged the two,
// so the executor never learns about negation.
type Inst struct {
	Op   Op
	B    byte
	Next int32
	Fail int32
}

// Program is the compiled, read-only form of a pattern. It may be
// shared by any number of concurrent PikeVMs; each VM carries its own
// frontier state.
type Program struct {
	Insts []Inst

	// NumGroups is the group count reported by the validator.
	NumGroups int
}

// Accept returns the accepting index: one past the last instruction.
func (p *Program) Accept() int32 {
	return int32(len(p.Insts))
}

// String renders the instruction table, one row per slot, in the form
//
//	 2: class     'a' next=5   fail=3
//
// which is the diagnostic the tests print on mismatches.
func (p *Program) String() string {
	var b strings.Builder
	for i, in := range p.Insts {
		switch in.Op {
		case OpSplit:
			fmt.Fprintf(&b, "%2d: %-9s      next=%-3d fail=%d\n", i, in.Op, in.Next, in.Fail)
		default:
			fmt.Fprintf(&b, "%2d: %-9s %q next=%-3d fail=%d\n", i, in.Op, in.B, in.Next, in.Fail)
		}
	}
	fmt.Fprintf(&b, "%2d: accept\n", len(p.Insts))
	return b.String()
}
