// Package regex provides fast matching for a reduced regular
// expression dialect over flat byte arrays.
//
// The dialect:
//
//	.    any byte except NUL
//	*    zero or more of the preceding token or group
//	?    zero or one of the preceding token or group
//	|    either the preceding or the following token or group
//	()   grouping
//	[]   class: any one of the listed bytes (no ranges, no escapes)
//	{}   negation: succeeds where the enclosed pattern does not match
//
// Patterns are implicitly anchored at the start of the input; prefix
// ".*" to search anywhere. Patterns compile to a linear instruction
// table executed by a PikeVM in O(len(input) * len(pattern)) with no
// backtracking.
//
// Basic usage:
//
//	re, err := regex.Compile(".*[0123456789][0123456789]")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	start, end := re.Find([]byte("order 42 shipped"))
//
// The package-level Match reports results and errors through a single
// sentinel (start, end) channel; the compiled API returns ordinary
// errors instead.
package regex

import (
	"bytes"
	"strings"
	"sync"

	"github.com/tchlux/regex/literal"
	"github.com/tchlux/regex/nfa"
	"github.com/tchlux/regex/prefilter"
)

// Regex is a compiled pattern. It is safe for concurrent use: the
// instruction table is read-only and each search borrows a pooled
// executor for its mutable state.
type Regex struct {
	pattern string
	prog    *nfa.Program
	pf      prefilter.Prefilter

	// complete holds the stem literal when the pattern is ".*" plus a
	// plain literal, in which case a substring search replaces the
	// NFA entirely.
	complete []byte

	vms sync.Pool
}

// Compile compiles a pattern.
// The returned error is always a *nfa.ParseError.
func Compile(pattern string) (*Regex, error) {
	prog, err := nfa.Compile(pattern)
	if err != nil {
		return nil, err
	}

	r := &Regex{pattern: pattern, prog: prog}
	if stem, ok := strings.CutPrefix(pattern, ".*"); ok {
		seq := literal.ExtractStemHeads(stem)
		r.pf = prefilter.NewBuilder(seq).Build()
		if seq.Len() == 1 && seq.Get(0).Complete {
			r.complete = seq.Get(0).Bytes
		}
	}
	r.vms.New = func() any {
		vm := nfa.NewPikeVM(prog)
		vm.SetPrefilter(r.pf)
		return vm
	}
	return r, nil
}

// MustCompile compiles a pattern and panics if it fails.
// Useful for patterns known to be valid at compile time.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("regex: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// String returns the source pattern.
func (r *Regex) String() string {
	return r.pattern
}

// Program exposes the compiled instruction table.
func (r *Regex) Program() *nfa.Program {
	return r.prog
}

// Find returns the bounds of the first match of r in b: b[start:end).
// With no match it returns (-1, 0); on empty input, (-1, -5). A final
// step that consumes the virtual terminator reports end == len(b)+1.
func (r *Regex) Find(b []byte) (start, end int) {
	if len(b) == 0 {
		return -1, nfa.CodeEmptyInput
	}
	if r.complete != nil {
		// Literal engine bypass: the stem is one exact literal, so
		// its first occurrence ends the earliest, shortest match.
		i := bytes.Index(b, r.complete)
		if i < 0 {
			return -1, nfa.CodeNoMatch
		}
		return 0, i + len(r.complete)
	}
	vm := r.vms.Get().(*nfa.PikeVM)
	start, end = vm.Search(b)
	r.vms.Put(vm)
	return start, end
}

// FindIndex returns a two-element slice holding the bounds of the
// first match, or nil if there is none.
func (r *Regex) FindIndex(b []byte) []int {
	start, end := r.Find(b)
	if start < 0 {
		return nil
	}
	return []int{start, end}
}

// FindString returns the text of the first match of r in s, or ""
// when there is none. A match that consumed the terminator is clamped
// to the end of s.
func (r *Regex) FindString(s string) string {
	start, end := r.Find([]byte(s))
	if start < 0 {
		return ""
	}
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}

// Match reports whether r matches anywhere it is anchored in b.
func (r *Regex) Match(b []byte) bool {
	start, _ := r.Find(b)
	return start >= 0
}

// MatchString is Match on a string.
func (r *Regex) MatchString(s string) bool {
	return r.Match([]byte(s))
}

// Match compiles pattern and searches input, reporting through the
// engine's sentinel channel:
//
//	start >= 0              match: input[start:end)
//	start == -1, end == 0   no match
//	start == -1, end == -5  empty input
//	start < 0 otherwise     compile error at byte -start-1; end is
//	                        the error code (-1 no tokens, -2 unclosed
//	                        group, -3 syntax, -4 empty group)
//
// The empty-input check precedes validation, so a bad pattern against
// empty input reports the empty input.
func Match(pattern, input string) (start, end int) {
	if input == "" {
		return -1, nfa.CodeEmptyInput
	}
	re, err := Compile(pattern)
	if err != nil {
		pe := err.(*nfa.ParseError)
		return -(pe.Pos + 1), nfa.Code(err)
	}
	return re.Find([]byte(input))
}
