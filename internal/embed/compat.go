package embed

import (
	"fmt"

	serr "github.com/noahread/escrituras/internal/errors"
	"github.com/noahread/escrituras/internal/vector"
)

// CheckCompatibility ensures query vectors will be comparable to the stored
// ones. Scores against a mismatched file are meaningless, so callers must
// refuse the file: startup treats this as fatal, the watcher keeps the
// previous store.
func CheckCompatibility(vs *vector.Store, embedder Embedder) error {
	if vs.Dimensions() != embedder.Dimensions() {
		return serr.New(serr.ErrCodeDimensionMismatch,
			fmt.Sprintf("embeddings file has %d dimensions but embedder %q produces %d",
				vs.Dimensions(), embedder.ModelName(), embedder.Dimensions()), nil).
			WithSuggestion("Regenerate the file with `escrituras embed`, or set embeddings.provider to match it.")
	}
	if vs.ModelName() != embedder.ModelName() {
		return serr.New(serr.ErrCodeDimensionMismatch,
			fmt.Sprintf("embeddings file was generated by %q but the configured embedder is %q",
				vs.ModelName(), embedder.ModelName()), nil).
			WithSuggestion("Regenerate the file with `escrituras embed`, or set embeddings.model to match it.")
	}
	return nil
}
