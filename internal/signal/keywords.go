package signal

import (
	"strings"
	"unicode"
)

// ExtractKeywords reduces free text to its content-bearing tokens:
// split on anything that is not a letter or digit, lowercase, drop
// stop words and bare single characters, deduplicate preserving the
// order of first appearance.
//
// The transform is idempotent — extracting from an already-extracted
// token list returns the same tokens. No stemming is applied, so
// "render" and "rendering" stay distinct (fuzzy matching downstream
// absorbs near-misses instead).
func ExtractKeywords(text string) []string {
	return dedupe(tokenize(text, true))
}

// TokenizeName splits an identifier such as a folder name into lowercase
// tokens. Stop-word filtering does not apply: names are already curated,
// and short words like "fix" or "old" carry meaning there.
func TokenizeName(name string) []string {
	return dedupe(tokenize(name, false))
}

func tokenize(text string, dropStopWords bool) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var tokens []string
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if dropStopWords && stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func dedupe(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	var out []string
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// stopWords is the fixed set of common English function words removed
// during extraction. Roughly eighty entries: articles, auxiliaries,
// prepositions, conjunctions, and pronouns.
var stopWords = map[string]bool{
	"the": true, "an": true, "and": true, "or": true, "but": true,
	"if": true, "then": true, "than": true, "because": true, "while": true,
	"until": true, "when": true, "where": true, "why": true, "how": true,
	"what": true, "which": true, "who": true, "this": true, "that": true,
	"these": true, "those": true, "each": true, "some": true, "any": true,
	"all": true, "such": true, "other": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "should": true, "can": true,
	"could": true, "may": true, "might": true, "of": true, "in": true,
	"on": true, "at": true, "by": true, "to": true, "for": true,
	"from": true, "with": true, "into": true, "over": true, "about": true,
	"between": true, "through": true, "before": true, "after": true, "it": true,
	"its": true, "they": true, "them": true, "their": true, "you": true,
	"your": true, "we": true, "our": true, "he": true, "him": true,
	"his": true, "she": true, "her": true, "not": true, "no": true,
	"so": true, "as": true, "there": true, "too": true, "also": true,
	"just": true,
}
