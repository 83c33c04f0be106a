/*
Copyright © 2026 gsahin96 <gsahin96@gmail.com>
*/

package main

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const strippedPunctuation = ".,/#!$%^&*;:{}=-_`~()"

// normalizeWord trims, strips punctuation, and lowercases with Turkish
// casing rules. A plain ASCII lowercase would fold İ/I incorrectly (İ→i
// and I→ı in Turkish), so the locale-aware caser is required here.
func normalizeWord(word string) string {
	word = strings.TrimSpace(word)
	word = strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedPunctuation, r) {
			return -1
		}
		return r
	}, word)

	return cases.Lower(language.Turkish).String(word)
}

// acceptWord reports whether a submission is valid for the current turn:
// non-empty after normalization, starts with the target letter, present
// in the dictionary entry for (category, letter), and not already used
// this round. Pure function of its inputs.
func acceptWord(submitted, letter, category string, used map[string]bool, words WordSource) bool {
	normalized := normalizeWord(submitted)
	normalizedLetter := normalizeWord(letter)

	if normalized == "" || normalizedLetter == "" {
		return false
	}
	if !strings.HasPrefix(normalized, normalizedLetter) {
		return false
	}
	if !words.WordsFor(category, normalizedLetter)[normalized] {
		return false
	}

	return !used[normalized]
}
