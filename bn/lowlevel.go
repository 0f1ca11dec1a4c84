package bn

// Words returns a copy of z's magnitude as little-endian machine words,
// length Top(). Used by the montgomery and modexp packages, which need
// direct word-level access to implement CIOS reduction and the
// constant-time power-table layout without going through a general
// division on every step.
func (z *BN) Words() []uint64 {
	out := make([]uint64, z.top)
	copy(out, z.d[:z.top])
	return out
}

// WordsPadded returns z's magnitude as little-endian words, zero-padded (or
// truncated, which only occurs for callers that have already reduced z) to
// exactly n words.
func (z *BN) WordsPadded(n int) []uint64 {
	out := make([]uint64, n)
	copy(out, z.d[:z.top])
	return out
}

// FromWordsUnsigned builds a non-negative BN from little-endian words.
func FromWordsUnsigned(words []uint64) *BN {
	return New().setWords(words)
}

// SetWordsUnsigned sets z to the non-negative integer whose little-endian
// words are given, and returns z.
func (z *BN) SetWordsUnsigned(words []uint64) *BN {
	z.setWords(words)
	z.neg = false
	return z
}
