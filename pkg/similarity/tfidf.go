// Package similarity builds a smoothed TF-IDF model over a set of normalized
// documents and scores pairwise cosine similarity.
package similarity

import (
	"math"
	"sort"
)

// Matrix holds the L2-normalized TF-IDF vectors of one document set. Scores
// are cosine similarities in [0,1]; an empty document is a zero vector and
// scores 0 against everything, including itself.
type Matrix struct {
	vectors [][]float64
}

// NewMatrix vectorizes the documents. Vocabulary indices are assigned over
// the sorted term set so identical document multisets produce bit-stable
// scores regardless of submission order.
func NewMatrix(documents [][]string) *Matrix {
	vocabulary := buildVocabulary(documents)
	idf := inverseDocumentFrequencies(documents, vocabulary)

	vectors := make([][]float64, len(documents))
	for i, doc := range documents {
		vectors[i] = vectorize(doc, vocabulary, idf)
	}

	return &Matrix{vectors: vectors}
}

// Size returns the number of documents in the matrix.
func (m *Matrix) Size() int {
	return len(m.vectors)
}

// Score returns the cosine similarity between documents i and j. Vectors are
// normalized at build time, so the dot product is the cosine directly.
func (m *Matrix) Score(i, j int) float64 {
	a, b := m.vectors[i], m.vectors[j]
	var dot float64
	for k := range a {
		dot += a[k] * b[k]
	}

	// Clamp accumulated floating point drift.
	if dot > 1 {
		return 1
	}
	if dot < 0 {
		return 0
	}
	return dot
}

func buildVocabulary(documents [][]string) map[string]int {
	seen := make(map[string]struct{})
	for _, doc := range documents {
		for _, term := range doc {
			seen[term] = struct{}{}
		}
	}

	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	for index, term := range terms {
		vocabulary[term] = index
	}
	return vocabulary
}

// inverseDocumentFrequencies computes smoothed IDF values,
// idf = log((1+N)/(1+df)) + 1, which stay positive and defined for terms
// present in every document.
func inverseDocumentFrequencies(documents [][]string, vocabulary map[string]int) []float64 {
	docFrequencies := make([]int, len(vocabulary))
	for _, doc := range documents {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			if _, counted := seen[term]; counted {
				continue
			}
			seen[term] = struct{}{}
			docFrequencies[vocabulary[term]]++
		}
	}

	n := float64(len(documents))
	idf := make([]float64, len(vocabulary))
	for index, df := range docFrequencies {
		idf[index] = math.Log((1+n)/(1+float64(df))) + 1
	}
	return idf
}

// vectorize produces the L2-normalized TF-IDF vector of a single document.
// An empty document stays an all-zero vector.
func vectorize(doc []string, vocabulary map[string]int, idf []float64) []float64 {
	vector := make([]float64, len(vocabulary))
	if len(doc) == 0 {
		return vector
	}

	for _, term := range doc {
		vector[vocabulary[term]]++
	}

	total := float64(len(doc))
	var norm float64
	for index := range vector {
		if vector[index] == 0 {
			continue
		}
		weight := (vector[index] / total) * idf[index]
		vector[index] = weight
		norm += weight * weight
	}

	if norm == 0 {
		return vector
	}

	norm = math.Sqrt(norm)
	for index := range vector {
		vector[index] /= norm
	}
	return vector
}
