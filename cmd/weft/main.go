// Package main provides the weft CLI: builds a transformer from flags
// and runs a demonstration forward pass.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/weft-ml/weft/backend/cpu"
	"github.com/weft-ml/weft/internal/tokenizer"
	"github.com/weft-ml/weft/nn"
	"github.com/weft-ml/weft/tensor"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("weft %s\n", version)
		return
	}

	var (
		dModel    = flag.Int("d-model", 128, "model dimension")
		numHeads  = flag.Int("heads", 8, "attention heads")
		numLayers = flag.Int("layers", 2, "encoder/decoder depth")
		ffnDim    = flag.Int("ffn-dim", 0, "feed-forward dimension (0 = 4*d-model)")
		dropout   = flag.Float64("dropout", 0.1, "dropout probability")
		maxLen    = flag.Int("max-len", 512, "positional encoding table length")
		padID     = flag.Int("pad-id", 0, "padding token ID")
		src       = flag.String("src", "the quick brown fox", "source text")
		tgt       = flag.String("tgt", "jumps over the lazy dog", "target text")
		encoding  = flag.String("encoding", "cl100k_base", "tiktoken encoding name")
	)
	flag.Parse()

	backend := cpu.New()

	srcIDs, tgtIDs, vocab := tokenize(*encoding, *src, *tgt)

	config := nn.Config{
		VocabEncSize: vocab,
		VocabDecSize: vocab,
		DModel:       *dModel,
		NumHeads:     *numHeads,
		NumLayers:    *numLayers,
		FFNDim:       *ffnDim,
		Dropout:      float32(*dropout),
		MaxLen:       *maxLen,
		PadID:        int32(*padID),
	}

	model, err := nn.NewTransformer(config, backend)
	if err != nil {
		log.Fatalf("weft: %v", err)
	}

	seqLen := max(len(srcIDs), len(tgtIDs))
	batch := tokenizer.PadBatch([][]int32{srcIDs}, seqLen, int32(*padID))
	srcTensor, err := tensor.FromSlice(batch, tensor.Shape{1, seqLen}, backend)
	if err != nil {
		log.Fatalf("weft: %v", err)
	}
	batch = tokenizer.PadBatch([][]int32{tgtIDs}, seqLen, int32(*padID))
	tgtTensor, err := tensor.FromSlice(batch, tensor.Shape{1, seqLen}, backend)
	if err != nil {
		log.Fatalf("weft: %v", err)
	}

	logits := model.Forward(srcTensor, tgtTensor)

	fmt.Printf("weft %s (backend: %s)\n", version, backend.Name())
	fmt.Printf("config: d_model=%d heads=%d layers=%d ffn=%d vocab=%d\n",
		config.DModel, config.NumHeads, config.NumLayers, model.Config().FFNDim, vocab)
	fmt.Printf("src tokens: %v\n", srcIDs)
	fmt.Printf("tgt tokens: %v\n", tgtIDs)
	fmt.Printf("logits: %v\n", logits.Shape())
	fmt.Printf("parameters: %d tensors\n", len(model.Parameters()))
}

// tokenize encodes both texts with tiktoken, falling back to a
// byte-level vocabulary when the encoding cannot be loaded (e.g. no
// network access for the BPE ranks download).
func tokenize(encoding, src, tgt string) (srcIDs, tgtIDs []int32, vocab int) {
	tok, err := tokenizer.NewTikToken(encoding)
	if err != nil {
		log.Printf("weft: tiktoken unavailable (%v), using byte-level fallback", err)
		return byteIDs(src), byteIDs(tgt), 256
	}

	srcIDs, err = tok.Encode(src)
	if err != nil {
		log.Fatalf("weft: encode source: %v", err)
	}
	tgtIDs, err = tok.Encode(tgt)
	if err != nil {
		log.Fatalf("weft: encode target: %v", err)
	}
	return srcIDs, tgtIDs, tok.VocabSize()
}

// byteIDs maps raw bytes to token IDs 0-255, shifted by one so 0 stays
// free for padding.
func byteIDs(text string) []int32 {
	ids := make([]int32, 0, len(text))
	for _, b := range []byte(text) {
		if int32(b)+1 < 256 {
			ids = append(ids, int32(b)+1)
		} else {
			ids = append(ids, 255)
		}
	}
	return ids
}
