package core

import "math"

// NormalizeVector returns a unit-length copy of v.
// A zero vector normalizes to a zero vector of the same length.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	magnitude := float32(math.Sqrt(float64(sumSquares(v))))

	// Can't normalize zero vector
	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}

	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}

// DotProduct calculates the inner product of two vectors.
// Vectors of different length are compared over their common prefix.
func DotProduct(a, b []float32) float32 {
	var sum float32
	minLen := min(len(a), len(b))
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// CosineSimilarity returns the cosine of the angle between a and b, in [-1, 1].
// It returns 0 when the lengths differ or either vector is zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp rounding noise
	return math.Max(-1, math.Min(1, sim))
}

// Norm returns the L2 norm of v.
func Norm(v []float32) float64 {
	return math.Sqrt(float64(sumSquares(v)))
}

func sumSquares(v []float32) float32 {
	var sum float32
	for _, val := range v {
		sum += val * val
	}
	return sum
}
