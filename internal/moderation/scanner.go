// Package moderation implements the relay's content policy: the text scanner,
// the bounded ban ledger with per-user violation history, and the anti-spam
// message counter.
package moderation

import (
	"regexp"
	"strings"
)

// VerdictKind classifies a scanned message.
type VerdictKind int

const (
	Clean VerdictKind = iota
	LinkDetected
	BannedWord
)

// Verdict is the result of scanning one message. Word is set only for
// BannedWord and carries the denylist entry exactly as listed.
type Verdict struct {
	Kind VerdictKind
	Word string
}

// linkPattern matches http(s) URLs, www-prefixed tokens and bare domain-like
// tokens ending in a common TLD.
var linkPattern = regexp.MustCompile(`(?i)https?://\S+|www\.\S+|[a-zA-Z0-9-]+\.(?:com|net|org|br|io|gov|edu|co|tv|me|app|dev)\S*`)

type entry struct {
	word   string
	lower  string
	phrase bool           // phrases match by substring
	re     *regexp.Regexp // single words match by word boundary
}

// Scanner evaluates message text against the link pattern and a denylist.
// It is immutable after construction and safe for concurrent use.
type Scanner struct {
	entries []entry
}

// NewScanner compiles the given denylist. Entry order is preserved: the
// first matching entry wins.
func NewScanner(words []string) *Scanner {
	s := &Scanner{entries: make([]entry, 0, len(words))}
	for _, w := range words {
		e := entry{word: w, lower: strings.ToLower(w)}
		if strings.Contains(w, " ") {
			e.phrase = true
		} else {
			e.re = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
		}
		s.entries = append(s.entries, e)
	}
	return s
}

// DefaultScanner returns a scanner over the built-in denylist.
func DefaultScanner() *Scanner {
	return NewScanner(Denylist)
}

// Scan checks text against the policy. The link check runs before the word
// check: a message containing both reports LinkDetected.
func (s *Scanner) Scan(text string) Verdict {
	if text == "" {
		return Verdict{Kind: Clean}
	}
	if linkPattern.MatchString(text) {
		return Verdict{Kind: LinkDetected}
	}
	lower := strings.ToLower(text)
	for _, e := range s.entries {
		if e.phrase {
			if strings.Contains(lower, e.lower) {
				return Verdict{Kind: BannedWord, Word: e.word}
			}
		} else if e.re.MatchString(text) {
			return Verdict{Kind: BannedWord, Word: e.word}
		}
	}
	return Verdict{Kind: Clean}
}
