// Package tfidf scores lexical similarity between texts using TF-IDF
// weighted cosine similarity.
//
// The weighting follows the common smoothed formulation: term frequency
// normalised by document length, inverse document frequency computed as
// ln((1+N)/(1+df))+1, and vectors L2-normalised before the dot product.
// No stop-word removal is applied; scores stay conservative and
// deterministic, which is what the relevance heuristics need.
package tfidf

import (
	"math"
	"regexp"
	"strings"
)

// wordRun matches runs of word characters. Bengali letters fall inside
// the explicit block range since \w is ASCII-only here.
var wordRun = regexp.MustCompile(`[\x{0980}-\x{09FF}]+|[a-zA-Z0-9_]+`)

// keywordRun matches keyword tokens: runs of Bengali letters or ASCII
// letters only. Digits are not keywords; a query like "price 2024"
// has the single keyword "price".
var keywordRun = regexp.MustCompile(`[\x{0980}-\x{09FF}]+|[a-zA-Z]+`)

// Tokenize lowercases text and splits it into word tokens. Bengali
// runs and ASCII alphanumeric runs form separate tokens.
func Tokenize(text string) []string {
	return wordRun.FindAllString(strings.ToLower(text), -1)
}

// keywords lowercases text and splits it into keyword tokens.
func keywords(text string) []string {
	return keywordRun.FindAllString(strings.ToLower(text), -1)
}

// normalize collapses whitespace runs and lowercases, the minimal
// preparation applied before vectorisation.
var whitespaceRun = regexp.MustCompile(`\s+`)

func normalize(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(strings.ToLower(text), " "))
}

// Similarity computes the TF-IDF cosine similarity between two texts
// over their shared two-document corpus. The result is in [0, 1];
// texts with no tokens in common, or with no tokens at all, score 0.
func Similarity(a, b string) float64 {
	docA := Tokenize(normalize(a))
	docB := Tokenize(normalize(b))
	if len(docA) == 0 || len(docB) == 0 {
		return 0
	}

	// Build the shared vocabulary and per-document frequencies.
	vocab := make(map[string]int)
	for _, tok := range docA {
		if _, ok := vocab[tok]; !ok {
			vocab[tok] = len(vocab)
		}
	}
	for _, tok := range docB {
		if _, ok := vocab[tok]; !ok {
			vocab[tok] = len(vocab)
		}
	}

	vecA := vectorize(docA, vocab, docB)
	vecB := vectorize(docB, vocab, docA)

	return cosine(vecA, vecB)
}

// vectorize builds the L2-normalised TF-IDF vector for doc against the
// two-document corpus {doc, other}.
func vectorize(doc []string, vocab map[string]int, other []string) []float64 {
	counts := make(map[string]int, len(doc))
	for _, tok := range doc {
		counts[tok]++
	}
	otherSet := make(map[string]struct{}, len(other))
	for _, tok := range other {
		otherSet[tok] = struct{}{}
	}

	const corpusSize = 2
	vec := make([]float64, len(vocab))
	for tok, idx := range vocab {
		n := counts[tok]
		if n == 0 {
			continue
		}
		tf := float64(n) / float64(len(doc))

		df := 1
		if _, ok := otherSet[tok]; ok {
			df = 2
		}
		idf := math.Log(float64(1+corpusSize)/float64(1+df)) + 1

		vec[idx] = tf * idf
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// cosine returns the dot product of two L2-normalised vectors, clamped
// to [0, 1] against floating point drift.
func cosine(a, b []float64) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	if dot < 0 {
		return 0
	}
	if dot > 1 {
		return 1
	}
	return dot
}

// KeywordOverlap returns the fraction of unique query keywords that
// also appear in doc, in [0, 1]. Keywords are letter runs only; a
// query with no keywords scores 0.
func KeywordOverlap(query, doc string) float64 {
	queryToks := keywords(query)
	if len(queryToks) == 0 {
		return 0
	}

	docSet := make(map[string]struct{})
	for _, tok := range keywords(doc) {
		docSet[tok] = struct{}{}
	}

	querySet := make(map[string]struct{}, len(queryToks))
	for _, tok := range queryToks {
		querySet[tok] = struct{}{}
	}

	shared := 0
	for tok := range querySet {
		if _, ok := docSet[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(querySet))
}
