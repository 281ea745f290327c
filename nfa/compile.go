package nfa

import (
	"github.com/tchlux/regex/internal/conv"
)

// exitToken is the pre-redirect spelling of Dead used while laying
// out jump targets.
const exitToken = -1

// Compile validates pattern and builds its Program.
//
// Compilation makes three passes over the pattern after counting:
//
//   - pass A records, for every group, its first interior slot, the
//     slot just past its last interior token, and a trailing modifier
//     if one follows the closer;
//   - pass B re-walks the pattern simulating the final layout, in
//     which every group or single-token modifier has been moved to a
//     prefix slot directly before what it modifies, and re-aligns the
//     group boundaries recorded by pass A;
//   - pass C assigns every slot its instruction and jump targets,
//     routing targets through a redirect table so loops ('*') and
//     alternation arms ('|') land on the right continuation, and
//     exchanging success and failure for slots covered by a '{...}'
//     negation.
//
// The returned error is always a *ParseError.
func Compile(pattern string) (*Program, error) {
	nTokens, nGroups := Count(pattern)
	if nTokens == 0 {
		return nil, &ParseError{Pattern: pattern, Pos: 0, Err: ErrNoTokens}
	}
	if nTokens < 0 {
		return nil, &ParseError{Pattern: pattern, Pos: -nTokens - 1, Err: errFromCode(nGroups)}
	}

	c := &compiler{
		pattern:    pattern,
		nTokens:    nTokens,
		nGroups:    nGroups,
		groupStart: make([]int, nGroups),
		groupNext:  make([]int, nGroups),
		groupMod:   make([]byte, nGroups),
		redirect:   make([]int, nTokens+2),
		insts:      make([]Inst, nTokens),
	}
	for j := range c.groupStart {
		c.groupStart[j] = exitToken
		c.groupNext[j] = exitToken
	}
	// Identity redirects for every slot, the accept index, and Dead.
	for j := -1; j <= nTokens; j++ {
		c.setRedirect(j, j)
	}

	c.passA()
	c.passB()
	c.passC()

	return &Program{Insts: c.insts, NumGroups: nGroups}, nil
}

type compiler struct {
	pattern string
	nTokens int
	nGroups int

	groupStart []int  // first interior slot (the prefix slot once modified)
	groupNext  []int  // one past the last interior slot
	groupMod   []byte // trailing '*', '?', or '|', else 0

	redirect []int // jump indirection, index shifted by one to admit -1
	insts    []Inst
	neg      bool
}

// rd resolves a jump destination through the redirect table.
func (c *compiler) rd(p int) int32 {
	return conv.IntToInt32(c.redirect[p+1])
}

func (c *compiler) setRedirect(p, v int) {
	c.redirect[p+1] = v
}

// set assigns slot nt's jump targets, exchanging success and failure
// under an active negation. This is the only place the exchange
// happens; the few call sites that pass pre-exchanged arguments do so
// to keep prefix slots and class interiors oriented the same way in
// both polarities.
func (c *compiler) set(nt, succ, fail int) {
	if c.neg {
		succ, fail = fail, succ
	}
	c.insts[nt].Next = c.rd(succ)
	c.insts[nt].Fail = c.rd(fail)
}

// instFor builds the instruction for a consuming token byte.
func instFor(t byte) Inst {
	if t == '.' {
		return Inst{Op: OpAny}
	}
	return Inst{Op: OpByte, B: t}
}

func isMod(t byte) bool {
	return t == '*' || t == '?' || t == '|'
}

func opensGroup(t byte) bool {
	return t == '(' || t == '[' || t == '{'
}

// at returns pattern[i], or 0 past the end.
func (c *compiler) at(i int) byte {
	if i < len(c.pattern) {
		return c.pattern[i]
	}
	return 0
}

// passA walks the pattern numbering slots the way the validator
// counted them (modifiers still in their source positions) and records
// each group's boundaries and trailing modifier. Groups that have
// closed receive their "next" boundary when the following token
// appears, so consecutive closers all point past the same spot.
func (c *compiler) passA() {
	var (
		giStack = make([]int, c.nGroups)
		csStack = make([]byte, c.nGroups)
		gcStack = make([]int, c.nGroups)

		i, nt, ng int
		gi        = -1
		iga       = -1
		igc       = -1
		cgs       byte
	)
	for i < len(c.pattern) {
		t := c.pattern[i]
		switch {
		case opensGroup(t) && cgs != '[':
			gi = ng
			cgs = t
			ng++
			iga++
			giStack[iga] = gi
			csStack[iga] = t
			c.groupStart[gi] = nt

		case iga >= 0 && ((cgs == '(' && t == ')') || (cgs == '[' && t == ']') || (cgs == '{' && t == '}')):
			igc++
			gcStack[igc] = gi
			if m := c.at(i + 1); isMod(m) {
				c.groupMod[gi] = m
			}
			iga--
			if iga >= 0 {
				gi = giStack[iga]
				cgs = csStack[iga]
			} else {
				gi = -1
				cgs = 0
			}

		default:
			if cgs == '[' || !isMod(t) {
				for j := 0; j <= igc; j++ {
					c.groupNext[gcStack[j]] = nt
				}
				igc = -1
			}
			nt++
		}
		i++
	}
	for j := 0; j <= igc; j++ {
		c.groupNext[gcStack[j]] = nt
	}
}

// passB replays the walk with every modifier relocated to its prefix
// slot, shifting the group boundaries from pass A into the final
// numbering. gx counts the prefix slots of still-open groups; each
// one pushes the starts of groups opened beneath it back by one, and
// when a modified group closes, the boundaries recorded inside it
// move up by one as well.
func (c *compiler) passB() {
	var (
		giStack = make([]int, c.nGroups)
		csStack = make([]byte, c.nGroups)

		i, nt, ng, gx int
		gi            = -1
		iga           = -1
		cgs           byte
	)
	for i < len(c.pattern) {
		t := c.pattern[i]
		switch {
		case opensGroup(t) && cgs != '[':
			if gx > 0 {
				c.groupStart[ng] += gx
			}
			gi = ng
			cgs = t
			ng++
			iga++
			giStack[iga] = gi
			csStack[iga] = t
			if c.groupMod[gi] != 0 {
				gx++
				nt++ // the group's prefix slot
			}

		case iga >= 0 && ((cgs == '(' && t == ')') || (cgs == '[' && t == ']') || (cgs == '{' && t == '}')):
			if c.groupMod[gi] != 0 {
				gx--
				last := nt - 1
				for j := gi; j < ng; j++ {
					if c.groupNext[j] < last {
						c.groupNext[j]++
					}
				}
			}
			iga--
			if iga >= 0 {
				gi = giStack[iga]
				cgs = csStack[iga]
			} else {
				gi = -1
				cgs = 0
			}

		default:
			if nt < c.nTokens {
				if cgs != '[' && isMod(c.at(i+1)) {
					nt++ // the token's prefix slot
					i++
				}
				if cgs == '[' || !isMod(t) {
					nt++
				}
			}
		}
		i++
	}
}

// passC lays down the instructions. The redirect table is consulted
// at assignment time and reset to identity as each slot is placed, so
// a redirect installed for a group only affects slots assigned while
// textually inside it. That discipline is what makes '*' loops and
// '|' continuations land correctly without revisiting earlier slots.
func (c *compiler) passC() {
	var (
		giStack = make([]int, c.nGroups)
		csStack = make([]byte, c.nGroups)

		i, nt, ng int
		gi        = -1
		iga       = -1
		cgs       byte
	)
	c.neg = false
	for i < len(c.pattern) {
		t := c.pattern[i]
		switch {
		case opensGroup(t) && cgs != '[':
			gi = ng
			cgs = t
			ng++
			iga++
			giStack[iga] = gi
			csStack[iga] = t
			if mod := c.groupMod[gi]; mod != 0 {
				c.insts[nt] = Inst{Op: OpSplit}
				// Pre-exchanged so the prefix keeps its orientation
				// inside a negation.
				if c.neg {
					c.set(nt, c.groupNext[gi], nt+1)
				} else {
					c.set(nt, nt+1, c.groupNext[gi])
				}
				c.setRedirect(nt, nt)
				nt++
				switch mod {
				case '*':
					// Fall-through past the group loops back to the
					// prefix, tightening the iteration.
					c.setRedirect(c.groupNext[gi], nt-1)
				case '|':
					// The left arm's continuation jumps past the
					// right arm: past the group that starts there,
					// or past the single token otherwise.
					j := gi + 1
					for j < c.nGroups && c.groupStart[j] < c.groupNext[gi] {
						j++
					}
					if j < c.nGroups && c.groupStart[j] == c.groupNext[gi] {
						c.setRedirect(c.groupNext[gi], c.groupNext[j])
					} else {
						c.setRedirect(c.groupNext[gi], c.groupNext[gi]+1)
					}
				}
			}
			if cgs == '{' {
				c.neg = !c.neg
			}

		case iga >= 0 && ((cgs == '(' && t == ')') || (cgs == '[' && t == ']') || (cgs == '{' && t == '}')):
			if t == '}' {
				c.neg = !c.neg
			}
			iga--
			if iga >= 0 {
				gi = giStack[iga]
				cgs = csStack[iga]
			} else {
				gi = -1
				cgs = 0
			}

		default:
			if nt < c.nTokens {
				nx := c.at(i + 1)
				switch {
				case cgs == '[':
					if nx == ']' {
						c.insts[nt] = Inst{Op: OpClassEnd, B: t}
						c.set(nt, c.groupNext[gi], exitToken)
					} else {
						c.insts[nt] = Inst{Op: OpClassByte, B: t}
						// Pre-exchanged: a negated interior member
						// dies on a match and retries the next member
						// on a mismatch.
						if c.neg {
							c.set(nt, nt+1, exitToken)
						} else {
							c.set(nt, c.groupNext[gi], nt+1)
						}
					}

				case isMod(nx):
					c.insts[nt] = Inst{Op: OpSplit}
					if c.neg {
						c.set(nt, nt+2, nt+1)
					} else {
						c.set(nt, nt+1, nt+2)
					}
					c.setRedirect(nt, nt)
					nt++
					i++
					c.insts[nt] = instFor(t)
					switch nx {
					case '*':
						c.set(nt, nt-1, exitToken)
					case '?':
						c.set(nt, nt+1, exitToken)
					case '|':
						if after := nt + 1; opensGroup(c.at(i + 1)) {
							// Right arm is a group: jump past it.
							j := 0
							for j < c.nGroups && c.groupStart[j] != after {
								j++
							}
							if j < c.nGroups {
								c.set(nt, c.groupNext[j], exitToken)
							} else {
								c.set(nt, nt+2, exitToken)
							}
						} else {
							c.set(nt, nt+2, exitToken)
						}
					}

				default:
					c.insts[nt] = instFor(t)
					c.set(nt, nt+1, exitToken)
				}
				c.setRedirect(nt, nt)
				if cgs == '[' || !isMod(t) {
					nt++
				}
			}
		}
		i++
	}
}
