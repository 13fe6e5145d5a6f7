package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetaRoundTrip(t *testing.T) {
	ctx := WithMeta(context.Background(), Meta{UserID: 42, RequestID: "req-1"})

	m := MetaFrom(ctx)

	assert.Equal(t, int64(42), m.UserID)
	assert.Equal(t, "req-1", m.RequestID)
}

func TestMetaFromBareContext(t *testing.T) {
	m := MetaFrom(context.Background())

	assert.Zero(t, m.UserID)
	assert.Empty(t, m.RequestID)
}

func TestNopRecordIsSafe(t *testing.T) {
	Nop{}.Record(context.Background(), StageEvent{Stage: "extract"})
}
