// Package trie is a prefix tree over lowercase ASCII letters supporting exact
// and bounded-Hamming lookups. It indexes a document's vocabulary so that many
// distinct subscription words can be probed against it.
package trie

import (
	apperrors "github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/pkg/errors"
)

const alphabetSize = 26

type node struct {
	terminal bool
	children [alphabetSize]*node
}

type Trie struct {
	root  *node
	words int
}

func New() *Trie {
	return &Trie{root: &node{}}
}

// Build creates a trie holding every word. It fails on the first word outside
// the alphabet.
func Build(words []string) (*Trie, error) {
	t := New()
	for _, w := range words {
		if err := t.Insert(w); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Insert adds word. Words containing anything but 'a'..'z' are rejected and
// leave the trie unchanged.
func (t *Trie) Insert(word string) error {
	if err := checkAlphabet(word); err != nil {
		return err
	}
	curr := t.root
	for i := 0; i < len(word); i++ {
		idx := word[i] - 'a'
		if curr.children[idx] == nil {
			curr.children[idx] = &node{}
		}
		curr = curr.children[idx]
	}
	if !curr.terminal {
		curr.terminal = true
		t.words++
	}
	return nil
}

// Len returns the number of distinct words inserted.
func (t *Trie) Len() int {
	return t.words
}

// SearchExact reports whether word was inserted.
func (t *Trie) SearchExact(word string) (bool, error) {
	if err := checkAlphabet(word); err != nil {
		return false, err
	}
	curr := t.root
	for i := 0; i < len(word); i++ {
		curr = curr.children[word[i]-'a']
		if curr == nil {
			return false, nil
		}
	}
	return curr.terminal, nil
}

// SearchHamming reports whether some inserted word of the same length differs
// from word in at most tolerance positions. The first such word found ends the
// search.
func (t *Trie) SearchHamming(word string, tolerance int) (bool, error) {
	if err := checkAlphabet(word); err != nil {
		return false, err
	}
	if tolerance < 0 {
		return false, nil
	}
	return searchHamming(t.root, word, 0, 0, tolerance), nil
}

func searchHamming(n *node, word string, depth, mismatches, tolerance int) bool {
	if depth == len(word) {
		return n.terminal
	}
	want := word[depth] - 'a'
	for idx, child := range n.children {
		if child == nil {
			continue
		}
		m := mismatches
		if byte(idx) != want {
			m++
			if m > tolerance {
				continue
			}
		}
		if searchHamming(child, word, depth+1, m, tolerance) {
			return true
		}
	}
	return false
}

func checkAlphabet(word string) error {
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return apperrors.Newf(apperrors.ErrInvalidAlphabet, apperrors.CodeFail, "%q at offset %d in %q", word[i], i, word)
		}
	}
	return nil
}
