package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serr "github.com/noahread/escrituras/internal/errors"
)

func TestMapError_Nil(t *testing.T) {
	assert.Nil(t, MapError(nil))
}

func TestMapError_PassesThroughMCPErrors(t *testing.T) {
	orig := NewInvalidParamsError("bad input")
	assert.Same(t, orig, MapError(orig))
}

func TestMapError_ContextErrors(t *testing.T) {
	assert.Equal(t, ErrCodeTimeout, MapError(context.DeadlineExceeded).Code)
	assert.Equal(t, ErrCodeTimeout, MapError(context.Canceled).Code)
}

func TestMapError_Categories(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", serr.New(serr.ErrCodeInvalidInput, "bad limit", nil), ErrCodeInvalidParams},
		{"data", serr.New(serr.ErrCodeCorpusNotFound, "no corpus", nil), ErrCodeDataNotLoaded},
		{"missing embedding", serr.New(serr.ErrCodeMissingEmbedding, "no vector", nil), ErrCodeEmbeddingFailed},
		{"network", serr.New(serr.ErrCodeNetworkUnavailable, "ollama down", nil), ErrCodeEmbeddingFailed},
		{"internal", serr.New(serr.ErrCodeSearchFailed, "legs failed", nil), ErrCodeInternalError},
		{"plain error", errors.New("boom"), ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			require.NotNil(t, mapped)
			assert.Equal(t, tt.code, mapped.Code)
		})
	}
}

func TestMapError_IncludesSuggestion(t *testing.T) {
	err := serr.New(serr.ErrCodeCorpusNotFound, "corpus missing", nil).
		WithSuggestion("Download the dataset.")
	mapped := MapError(err)
	assert.Contains(t, mapped.Message, "corpus missing")
	assert.Contains(t, mapped.Message, "Download the dataset.")
}
