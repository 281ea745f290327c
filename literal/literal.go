// Package literal extracts required leading literals from patterns of
// the form ".*STEM" so a prefilter can skip input positions where no
// match can begin.
//
// Extraction is deliberately conservative: it only reports literals
// that every match of the stem must begin with. Any construct at the
// stem head that could match something else (a '.', a modifier that
// permits zero occurrences, a negation, nesting) yields nothing, and
// the executor falls back to plain NFA simulation.
package literal

// maxArms bounds how many alternation arms are extracted before
// giving up; beyond this the prefilter stops paying for itself.
const maxArms = 64

// Literal is one required stem head. Complete marks a literal that is
// the entire stem, in which case finding it is finding a match.
type Literal struct {
	Bytes    []byte
	Complete bool
}

// Seq is an ordered collection of extracted literals.
type Seq struct {
	lits []Literal
}

// NewSeq creates a sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{lits: lits}
}

// Add appends a literal to the sequence.
func (s *Seq) Add(l Literal) {
	s.lits = append(s.lits, l)
}

// Len returns the number of literals.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.lits)
}

// Get returns the i-th literal.
func (s *Seq) Get(i int) Literal {
	return s.lits[i]
}

// IsEmpty reports whether the sequence holds no literals.
func (s *Seq) IsEmpty() bool {
	return s.Len() == 0
}

// AllSingleByte reports whether every literal is exactly one byte,
// in which case a byte-set scan beats a multi-pattern automaton.
func (s *Seq) AllSingleByte() bool {
	for _, l := range s.lits {
		if len(l.Bytes) != 1 {
			return false
		}
	}
	return true
}

func isMod(t byte) bool {
	return t == '*' || t == '?' || t == '|'
}

func isSpecial(t byte) bool {
	switch t {
	case '.', '*', '?', '|', '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

// at returns stem[i], or 0 past the end.
func at(stem string, i int) byte {
	if i < len(stem) {
		return stem[i]
	}
	return 0
}

// ExtractStemHeads returns the literals that every match of stem must
// begin with, or nil when no such set can be proven. stem must be the
// remainder of an already-validated pattern after its leading ".*".
//
// Three shapes are recognized:
//
//   - a plain literal run ("abc..."), cut before a modified byte;
//   - an unmodified class at the head ("[abc]...") as one-byte literals;
//   - a chain of unmodified literal groups joined by '|'
//     ("(cat)|(dog)..."), optionally ending in a plain single byte.
func ExtractStemHeads(stem string) *Seq {
	if stem == "" {
		return nil
	}
	switch c := stem[0]; {
	case c == '[':
		return extractClass(stem)
	case c == '(':
		return extractAlternation(stem)
	case !isSpecial(c):
		return extractRun(stem)
	}
	return nil
}

// extractRun takes the maximal run of plain bytes at the head. A
// trailing byte owned by a modifier is not required and is dropped.
func extractRun(stem string) *Seq {
	i := 0
	for i < len(stem) && !isSpecial(stem[i]) {
		i++
	}
	run := stem[:i]
	complete := i == len(stem)
	if i < len(stem) && isMod(stem[i]) {
		run = run[:len(run)-1]
	}
	if run == "" {
		return nil
	}
	return NewSeq(Literal{Bytes: []byte(run), Complete: complete})
}

// extractClass expands an unmodified head class into one-byte literals.
func extractClass(stem string) *Seq {
	j := 1
	for j < len(stem) && stem[j] != ']' {
		j++
	}
	if j == len(stem) || j == 1 {
		return nil
	}
	if m := at(stem, j+1); isMod(m) {
		return nil
	}
	complete := j+1 == len(stem)
	seq := NewSeq()
	for _, b := range []byte(stem[1:j]) {
		seq.Add(Literal{Bytes: []byte{b}, Complete: complete})
	}
	return seq
}

// extractAlternation collects the arms of a "(lit)|(lit)|..." chain,
// optionally closed by a single plain byte as the last arm. Each arm
// must be a flat literal group with no trailing modifier.
func extractAlternation(stem string) *Seq {
	seq := NewSeq()
	i := 0
	for {
		if seq.Len() >= maxArms {
			return nil
		}
		if at(stem, i) != '(' {
			// Final arm is a single token: required only when it is a
			// plain unmodified byte.
			t := at(stem, i)
			if isSpecial(t) || t == 0 || isMod(at(stem, i+1)) {
				return nil
			}
			seq.Add(Literal{Bytes: []byte{t}, Complete: i+1 == len(stem)})
			return seq
		}
		j := i + 1
		for j < len(stem) && stem[j] != ')' {
			if isSpecial(stem[j]) {
				return nil
			}
			j++
		}
		if j == len(stem) || j == i+1 {
			return nil
		}
		arm := []byte(stem[i+1 : j])
		after := j + 1
		switch m := at(stem, after); {
		case m == '*' || m == '?':
			// The whole group may match zero times.
			return nil
		case m == '|':
			seq.Add(Literal{Bytes: arm})
			i = after + 1
		default:
			seq.Add(Literal{Bytes: arm, Complete: after == len(stem)})
			return seq
		}
	}
}
