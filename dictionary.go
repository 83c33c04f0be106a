/*
Copyright © 2026 gsahin96 <gsahin96@gmail.com>
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
)

// The letter wheel and categories the game draws from. The alphabet
// matches the client's dice wheel, which leaves out G and Ğ.
var (
	gameAlphabet = []string{
		"A", "B", "C", "Ç", "D", "E", "F", "H", "I", "İ", "J", "K", "L",
		"M", "N", "O", "Ö", "P", "R", "S", "Ş", "T", "U", "Ü", "V", "Y", "Z",
	}
	gameCategories = []string{
		"İsim", "Hayvan", "Bitki/Meyve/Sebze", "Ülke/Şehir/İlçe", "Eşya", "Meslek",
	}
)

var (
	errWordExists  = errors.New("word already present")
	errNoSuchEntry = errors.New("no such category or letter")
)

// WordSource is the dictionary collaborator. Lookups return the
// normalized word set for a (category, letter) pair; AddWord is the one
// write path and must be idempotent.
type WordSource interface {
	WordsFor(category, letter string) map[string]bool
	HasWords(category, letter string) bool
	AddWord(category, letter, word string) error
	Categories() []string
}

// Dictionary is a JSON-file-backed WordSource: category → lowercase
// letter → sorted word list, flushed whole-file on every accepted write.
type Dictionary struct {
	mu      sync.RWMutex
	path    string
	entries map[string]map[string][]string
}

func loadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]map[string][]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &Dictionary{
		path:    path,
		entries: entries,
	}, nil
}

func (d *Dictionary) Categories() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	categories := make([]string, 0, len(d.entries))
	for category := range d.entries {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	return categories
}

// WordsFor returns the normalized word set for a category and
// (normalized) letter. Missing entries yield an empty set.
func (d *Dictionary) WordsFor(category, letter string) map[string]bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	raw := d.entries[category][normalizeWord(letter)]
	words := make(map[string]bool, len(raw))
	for _, w := range raw {
		words[normalizeWord(w)] = true
	}

	return words
}

func (d *Dictionary) HasWords(category, letter string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.entries[category][normalizeWord(letter)]) > 0
}

// AddWord inserts a word into the entry for (category, letter) and
// flushes the database file. Inserting an already-present word returns
// errWordExists without touching the file; an unknown category or letter
// returns errNoSuchEntry. Writes are serialized by the dictionary lock
// so concurrent accepts from different rooms cannot lose updates.
func (d *Dictionary) AddWord(category, letter, word string) error {
	normalizedLetter := normalizeWord(letter)
	normalized := normalizeWord(word)
	if normalized == "" {
		return errNoSuchEntry
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.entries[category][normalizedLetter]
	if !ok {
		return errNoSuchEntry
	}

	for _, w := range entry {
		if normalizeWord(w) == normalized {
			return errWordExists
		}
	}

	d.entries[category][normalizedLetter] = append(entry, word)
	sort.Strings(d.entries[category][normalizedLetter])

	return d.flushLocked()
}

func (d *Dictionary) flushLocked() error {
	data, err := json.MarshalIndent(d.entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(d.path, data, 0o644)
}
