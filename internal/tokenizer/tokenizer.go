// Package tokenizer converts text to the int32 token ID batches the
// transformer consumes.
package tokenizer

// Tokenizer is the core interface for text tokenization.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int32, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int32) (string, error)

	// VocabSize returns the total vocabulary size.
	VocabSize() int

	// EosToken returns the end-of-sequence token ID, or -1 if the
	// encoding has none.
	EosToken() int32
}

// PadBatch right-pads variable-length token sequences to a rectangular
// [len(seqs), maxLen] batch using padID, truncating sequences longer
// than maxLen. The result is laid out row-major for tensor.FromSlice
// with shape {len(seqs), maxLen}.
func PadBatch(seqs [][]int32, maxLen int, padID int32) []int32 {
	batch := make([]int32, len(seqs)*maxLen)
	for i := range batch {
		batch[i] = padID
	}
	for i, seq := range seqs {
		if len(seq) > maxLen {
			seq = seq[:maxLen]
		}
		copy(batch[i*maxLen:], seq)
	}
	return batch
}

// LongestSeq returns the length of the longest sequence, for sizing a
// padded batch.
func LongestSeq(seqs [][]int32) int {
	longest := 0
	for _, seq := range seqs {
		if len(seq) > longest {
			longest = len(seq)
		}
	}
	return longest
}
