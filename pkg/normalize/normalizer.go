// Package normalize canonicalizes raw entity mentions into stable identifiers.
//
// A Normalizer remembers every normalized form it has seen. A new mention
// either matches a known form exactly, is similar to one (and becomes its
// alias), or is registered as a canonical id of its own. Results depend on
// call order: the first similar form found in registration order wins.
//
// Lookups are linear in the number of known forms, which is fine for the
// hundreds to low thousands of entities of a single corpus.
package normalize

import (
	"regexp"
	"strings"
	"sync"
)

// WordOverlapThreshold is the share of words two multi-word names must have
// in common to be considered the same entity.
const WordOverlapThreshold = 0.70

var (
	punctuation = strings.NewReplacer(".", "", ",", "", "!", "", "?", "", ";", "", ":", "", "'", "")
	whitespace  = regexp.MustCompile(`\s+`)
)

type alias struct {
	normalized string
	canonical  string
}

// Normalizer maps entity mentions to canonical ids. It is safe for
// concurrent use.
type Normalizer struct {
	mu      sync.Mutex
	aliases []alias
	exact   map[string]string
}

// New returns an empty Normalizer.
func New() *Normalizer {
	return &Normalizer{
		exact: make(map[string]string),
	}
}

// Normalize returns the canonical id for name, registering it when needed.
func (n *Normalizer) Normalize(name string) string {
	normalized := Clean(name)

	n.mu.Lock()
	defer n.mu.Unlock()

	if canonical, ok := n.exact[normalized]; ok {
		return canonical
	}

	canonical := normalized
	for _, a := range n.aliases {
		if Similar(normalized, a.normalized) {
			canonical = a.canonical
			break
		}
	}

	n.exact[normalized] = canonical
	n.aliases = append(n.aliases, alias{normalized: normalized, canonical: canonical})
	return canonical
}

// Canonical returns the canonical id already registered for name without
// registering anything.
func (n *Normalizer) Canonical(name string) (string, bool) {
	normalized := Clean(name)

	n.mu.Lock()
	defer n.mu.Unlock()

	canonical, ok := n.exact[normalized]
	return canonical, ok
}

// Len returns the number of known normalized forms.
func (n *Normalizer) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.aliases)
}

// Aliases returns a copy of the alias table as normalized form -> canonical id.
func (n *Normalizer) Aliases() map[string]string {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make(map[string]string, len(n.exact))
	for k, v := range n.exact {
		out[k] = v
	}
	return out
}

// Clean lower-cases name, strips punctuation and collapses whitespace runs
// to single spaces. The result never has leading or trailing whitespace.
func Clean(name string) string {
	s := punctuation.Replace(strings.ToLower(name))
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Similar reports whether two normalized names refer to the same entity.
func Similar(a, b string) bool {
	if a == b {
		return true
	}
	if a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)) {
		return true
	}
	return wordOverlap(a, b) > WordOverlapThreshold
}

// wordOverlap returns the fraction of the smaller word set found in the
// larger one, or 0 when either name has fewer than two words.
func wordOverlap(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) < 2 || len(wordsB) < 2 {
		return 0
	}

	small, large := wordsA, wordsB
	if len(small) > len(large) {
		small, large = large, small
	}

	common := 0
	for w := range small {
		if _, ok := large[w]; ok {
			common++
		}
	}
	return float64(common) / float64(len(small))
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
