package tokenizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weft-ml/weft/internal/tokenizer"
)

func TestPadBatch(t *testing.T) {
	seqs := [][]int32{
		{1, 2, 3},
		{4},
		{},
	}

	batch := tokenizer.PadBatch(seqs, 4, 0)
	want := []int32{
		1, 2, 3, 0,
		4, 0, 0, 0,
		0, 0, 0, 0,
	}
	assert.Equal(t, want, batch)
}

func TestPadBatch_Truncates(t *testing.T) {
	batch := tokenizer.PadBatch([][]int32{{1, 2, 3, 4, 5}}, 3, 0)
	assert.Equal(t, []int32{1, 2, 3}, batch)
}

func TestPadBatch_CustomPadID(t *testing.T) {
	batch := tokenizer.PadBatch([][]int32{{7}}, 3, 9)
	assert.Equal(t, []int32{7, 9, 9}, batch)
}

func TestLongestSeq(t *testing.T) {
	assert.Equal(t, 3, tokenizer.LongestSeq([][]int32{{1}, {1, 2, 3}, {}}))
	assert.Equal(t, 0, tokenizer.LongestSeq(nil))
}

func TestTikToken_RoundTrip(t *testing.T) {
	tok, err := tokenizer.NewTikToken("cl100k_base")
	if err != nil {
		t.Skipf("tiktoken encoding unavailable (offline?): %v", err)
	}

	text := "the quick brown fox"
	ids, err := tok.Encode(text)
	require.NoError(t, err)
	require.NotEmpty(t, ids)

	decoded, err := tok.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, text, decoded)

	assert.Positive(t, tok.VocabSize())
	for _, id := range ids {
		assert.Less(t, int(id), tok.VocabSize())
	}
}

func TestTikToken_UnknownEncoding(t *testing.T) {
	_, err := tokenizer.NewTikToken("no_such_encoding")
	assert.Error(t, err)
}

func TestTikToken_ImplementsTokenizer(t *testing.T) {
	tok, err := tokenizer.NewTikToken("cl100k_base")
	if err != nil {
		t.Skipf("tiktoken encoding unavailable (offline?): %v", err)
	}
	var _ tokenizer.Tokenizer = tok
}
