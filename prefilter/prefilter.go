// Package prefilter provides fast candidate-position search ahead of
// the NFA executor.
//
// A prefilter scans the input for the literals extracted from a
// pattern's stem. Wherever it reports a candidate, a match may begin;
// everywhere else none can, so the executor skips straight to the
// candidate whenever only its leading ".*" state is live. A prefilter
// answer of -1 proves no further match is possible.
//
// The builder selects the cheapest strategy for the extracted
// literals:
//
//   - a single one-byte literal: byte search
//   - a single multi-byte literal: substring search
//   - several one-byte literals: byte-set scan
//   - several multi-byte literals: Aho-Corasick automaton
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/tchlux/regex/literal"
)

// Prefilter reports candidate match positions in a haystack.
type Prefilter interface {
	// Find returns the index of the first candidate at or after
	// 'start', or -1 if there is none. A candidate is a position a
	// match could begin at, not a match.
	Find(haystack []byte, start int) int

	// IsComplete reports whether a candidate is itself a full match
	// of the pattern's stem, letting the caller skip verification.
	IsComplete() bool
}

// Builder constructs the prefilter best suited to a literal sequence.
type Builder struct {
	seq *literal.Seq
}

// NewBuilder creates a builder over the extracted literals. A nil or
// empty sequence builds no prefilter.
func NewBuilder(seq *literal.Seq) *Builder {
	return &Builder{seq: seq}
}

// Build returns the selected prefilter, or nil when the literals
// admit none.
func (b *Builder) Build() Prefilter {
	switch {
	case b.seq.IsEmpty():
		return nil

	case b.seq.Len() == 1:
		lit := b.seq.Get(0)
		if len(lit.Bytes) == 1 {
			return &memchrFinder{b: lit.Bytes[0], complete: lit.Complete}
		}
		return &memmemFinder{needle: lit.Bytes, complete: lit.Complete}

	case b.seq.AllSingleByte():
		f := &byteSetFinder{}
		for i := 0; i < b.seq.Len(); i++ {
			f.set[b.seq.Get(i).Bytes[0]] = true
		}
		return f

	default:
		builder := ahocorasick.NewBuilder()
		for i := 0; i < b.seq.Len(); i++ {
			builder.AddPattern(b.seq.Get(i).Bytes)
		}
		auto, err := builder.Build()
		if err != nil {
			return nil
		}
		return &ahoFinder{auto: auto}
	}
}

// memchrFinder searches for a single byte.
type memchrFinder struct {
	b        byte
	complete bool
}

func (f *memchrFinder) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	i := bytes.IndexByte(haystack[start:], f.b)
	if i < 0 {
		return -1
	}
	return start + i
}

func (f *memchrFinder) IsComplete() bool { return f.complete }

// memmemFinder searches for a single substring.
type memmemFinder struct {
	needle   []byte
	complete bool
}

func (f *memmemFinder) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	i := bytes.Index(haystack[start:], f.needle)
	if i < 0 {
		return -1
	}
	return start + i
}

func (f *memmemFinder) IsComplete() bool { return f.complete }

// byteSetFinder scans for any byte of a set.
type byteSetFinder struct {
	set [256]bool
}

func (f *byteSetFinder) Find(haystack []byte, start int) int {
	for i := start; i < len(haystack); i++ {
		if f.set[haystack[i]] {
			return i
		}
	}
	return -1
}

func (f *byteSetFinder) IsComplete() bool { return false }

// ahoFinder locates the leftmost occurrence of any of several
// literals with an Aho-Corasick automaton.
type ahoFinder struct {
	auto *ahocorasick.Automaton
}

func (f *ahoFinder) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	m := f.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

func (f *ahoFinder) IsComplete() bool { return false }
