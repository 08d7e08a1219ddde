package gemini

import (
	"context"
	"errors"
	"testing"

	"SafeDrive/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	answers map[string]string
	calls   []string
}

func (f *fakeGenerator) generate(_ context.Context, model string, _ []byte, _ string) (string, error) {
	f.calls = append(f.calls, model)
	if a, ok := f.answers[model]; ok {
		return a, nil
	}
	return "", errors.New("model unavailable")
}

func TestAnalyzeImageFallsBackInOrder(t *testing.T) {
	gen := &fakeGenerator{answers: map[string]string{"second": `{"state":"alert"}`}}
	g := &geminiClient{models: []string{"first", "second", "third"}, gen: gen, log: log.NewTestLogger()}

	text, err := g.AnalyzeImage(context.Background(), []byte{1}, "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"state":"alert"}`, text)
	assert.Equal(t, []string{"first", "second"}, gen.calls)
}

func TestAnalyzeImageAllFail(t *testing.T) {
	gen := &fakeGenerator{}
	g := &geminiClient{models: []string{"a", "b"}, gen: gen, log: log.NewTestLogger()}

	_, err := g.AnalyzeImage(context.Background(), []byte{1}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
	assert.Len(t, gen.calls, 2)
}

func TestAnalyzeImageRejectsEmptyImage(t *testing.T) {
	g := &geminiClient{models: []string{"a"}, gen: &fakeGenerator{}, log: log.NewTestLogger()}
	_, err := g.AnalyzeImage(context.Background(), nil, "prompt")
	assert.Error(t, err)
}

func TestAnalyzeImageStopsOnCancelledContext(t *testing.T) {
	gen := &fakeGenerator{}
	g := &geminiClient{models: []string{"a"}, gen: gen, log: log.NewTestLogger()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.AnalyzeImage(ctx, []byte{1}, "prompt")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, gen.calls)
}
