package regex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tchlux/regex/nfa"
)

// TestMatch covers the end-to-end scenarios of the engine contract:
// matches report the earliest start; errors come back through the
// sentinel channel.
func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		start   int
		end     int
	}{
		{".", " abc", 0, 1},
		{".*abc", "      abc", 0, 9},
		{"a*bc", "aabc", 0, 4},
		{"[ab]*c", "baabc", 0, 5},
		{"{ab}*c", "zzdc", -1, 0},
		{"[*][*]*{[*]}", "*** test", 0, 4},
		{".*end{.}", " does it ever end", 0, 18},
		{"abc", " abc", -1, 0}, // implicit begin-of-string anchor

		// Compile errors: start encodes the byte offset, end the code.
		{"*abc", "x", -1, -3},
		{"abc(", "x", -5, -2},
		{"abc()", "x", -5, -4},
		{"", "x", -1, -1},

		// The empty-input check precedes validation.
		{"abc", "", -1, -5},
		{"abc(", "", -1, -5},
		{"", "", -1, -5},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			start, end := Match(tt.pattern, tt.input)
			if start != tt.start || end != tt.end {
				t.Errorf("Match(%q, %q) = (%d, %d), want (%d, %d)",
					tt.pattern, tt.input, start, end, tt.start, tt.end)
			}
		})
	}
}

func TestCompileError(t *testing.T) {
	re, err := Compile("ab[")
	require.Error(t, err)
	assert.Nil(t, re)
	assert.ErrorIs(t, err, nfa.ErrUnclosedGroup)
	assert.Equal(t, nfa.CodeUnclosedGroup, nfa.Code(err))
}

func TestMustCompile(t *testing.T) {
	assert.NotPanics(t, func() { MustCompile(".*abc") })
	assert.Panics(t, func() { MustCompile("*abc") })
}

func TestRegexString(t *testing.T) {
	assert.Equal(t, ".*abc", MustCompile(".*abc").String())
}

func TestFind(t *testing.T) {
	re := MustCompile(".*abc")
	start, end := re.Find([]byte("xx abc yy"))
	assert.Equal(t, 0, start)
	assert.Equal(t, 6, end)

	start, end = re.Find([]byte("nothing here"))
	assert.Equal(t, -1, start)
	assert.Equal(t, 0, end)

	start, end = re.Find(nil)
	assert.Equal(t, -1, start)
	assert.Equal(t, nfa.CodeEmptyInput, end)
}

func TestFindIndex(t *testing.T) {
	re := MustCompile("a*bc")
	assert.Equal(t, []int{0, 4}, re.FindIndex([]byte("aabcd")))
	assert.Nil(t, re.FindIndex([]byte("zzz")))
}

func TestFindString(t *testing.T) {
	assert.Equal(t, "aabc", MustCompile("a*bc").FindString("aabcd"))
	assert.Equal(t, "", MustCompile("abc").FindString(" abc"))
	// A match that consumed the terminator clamps to the input.
	assert.Equal(t, "the end", MustCompile(".*end{.}").FindString("the end"))
}

func TestMatchBool(t *testing.T) {
	re := MustCompile(".*[0123456789]")
	assert.True(t, re.Match([]byte("order 42")))
	assert.False(t, re.Match([]byte("no digits")))
	assert.True(t, re.MatchString("7"))
	assert.False(t, re.MatchString(""))
}

// TestPrefilterEquivalence cross-checks the prefilter-accelerated
// path against the bare executor on patterns that select each
// prefilter strategy.
func TestPrefilterEquivalence(t *testing.T) {
	patterns := []string{
		".*abc",               // complete-literal bypass
		".*abc*d",             // substring prefilter with verification
		".*[xy]z",             // byte-set prefilter
		".*(cat)|(dog)s",      // Aho-Corasick prefilter
		".*(cat)|(dog)|(fox)", // Aho-Corasick, complete arms
		".*q",                 // single-byte bypass
	}
	inputs := []string{
		"", "abc", "xxabc", "   abcd", "abdabcd", "xzyz", "yz",
		"the cats dogs", "a fox ran", "dog", "qq", "no hits at all",
		"abab", "catdog", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzz",
	}
	for _, pattern := range patterns {
		re := MustCompile(pattern)
		prog, err := nfa.Compile(pattern)
		require.NoError(t, err)
		vm := nfa.NewPikeVM(prog) // no prefilter installed
		for _, input := range inputs {
			ws, we := vm.Search([]byte(input))
			gs, ge := re.Find([]byte(input))
			if gs != ws || ge != we {
				t.Errorf("Find(%q, %q) = (%d, %d), bare executor = (%d, %d)",
					pattern, input, gs, ge, ws, we)
			}
		}
	}
}

// TestConcurrentUse exercises the executor pool: one Regex, many
// goroutines.
func TestConcurrentUse(t *testing.T) {
	re := MustCompile(".*[ab]c")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if !re.MatchString("xx ac yy") {
					t.Error("expected match")
					return
				}
				if re.MatchString("nothing") {
					t.Error("unexpected match")
					return
				}
			}
		}()
	}
	wg.Wait()
}
