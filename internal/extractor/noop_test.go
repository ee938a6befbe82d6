package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kioku"
)

func TestNoopExtractor_ReturnsEmptyUpdate(t *testing.T) {
	update, err := NoopExtractor{}.Extract(context.Background(), kioku.Interaction{Text: "anything"}, "src-1")
	require.NoError(t, err)
	assert.Empty(t, update.Facts)
	assert.Empty(t, update.Prefs)
	assert.Empty(t, update.Entities)
	assert.Empty(t, update.OpenLoops)
}
