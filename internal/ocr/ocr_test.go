package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Extract(_ context.Context, _ []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestExtractPicksLongestText(t *testing.T) {
	short := &fakeBackend{name: "short", text: "short"}
	long := &fakeBackend{name: "long", text: "a longer result"}

	// Declared order must not matter; length decides.
	svc := NewService([]Backend{short, long}, false, zerolog.Nop())
	res := svc.Extract(context.Background(), []byte{1})

	require.True(t, res.Success)
	assert.Equal(t, "a longer result", res.Text)
	assert.Equal(t, "long", res.Method)
	assert.Equal(t, 1, short.calls)
	assert.Equal(t, 1, long.calls)
}

func TestExtractTieKeepsEarlierBackend(t *testing.T) {
	first := &fakeBackend{name: "first", text: "same len"}
	second := &fakeBackend{name: "second", text: "same len"}

	svc := NewService([]Backend{first, second}, false, zerolog.Nop())
	res := svc.Extract(context.Background(), []byte{1})

	require.True(t, res.Success)
	assert.Equal(t, "first", res.Method)
}

func TestExtractSurvivesBackendFailure(t *testing.T) {
	broken := &fakeBackend{name: "broken", err: errors.New("engine crashed")}
	working := &fakeBackend{name: "working", text: "recovered text"}

	svc := NewService([]Backend{broken, working}, false, zerolog.Nop())
	res := svc.Extract(context.Background(), []byte{1})

	require.True(t, res.Success)
	assert.Equal(t, "working", res.Method)
}

func TestExtractAllEmptyFails(t *testing.T) {
	a := &fakeBackend{name: "a", text: ""}
	b := &fakeBackend{name: "b", err: errors.New("nope")}

	svc := NewService([]Backend{a, b}, false, zerolog.Nop())
	res := svc.Extract(context.Background(), []byte{1})

	require.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestExtractEmptyPayloadRejected(t *testing.T) {
	b := &fakeBackend{name: "b", text: "text"}

	svc := NewService([]Backend{b}, false, zerolog.Nop())
	res := svc.Extract(context.Background(), nil)

	require.False(t, res.Success)
	assert.Zero(t, b.calls)
}

func TestConfidenceClamped(t *testing.T) {
	assert.Equal(t, 50, confidence("hi"))
	assert.Equal(t, 60, confidence("123456789012345678901234567890"))
	assert.Equal(t, 100, confidence(string(make([]byte, 200))))
}

func TestCleanTextPreservesNumbersAndSpacing(t *testing.T) {
	in := "Total   12,345.67   2024-05-01\nItem A     3.50"
	assert.Equal(t, in, CleanText(in))
}

func TestCleanTextStripsArtifacts(t *testing.T) {
	in := "hello~ world`\n\n\n\nnext"
	got := CleanText(in)
	assert.Equal(t, "hello world\n\nnext", got)
}
