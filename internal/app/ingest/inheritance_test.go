package ingest

import (
	"errors"
	"testing"
	"time"

	"backend/internal/app/message"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	recent *message.Message
	err    error
}

func (f *fakeHistory) FindMostRecent(userID uint64, before time.Time) (*message.Message, error) {
	return f.recent, f.err
}

func TestInheritanceResolver_WithinWindow(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	history := &fakeHistory{recent: &message.Message{
		Tags:      []string{"work"},
		CreatedAt: t0,
	}}

	resolver := NewInheritanceResolver(history, 5*time.Minute)

	tags, err := resolver.Resolve(1, t0.Add(4*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, tags)
}

func TestInheritanceResolver_OutsideWindow(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	history := &fakeHistory{recent: &message.Message{
		Tags:      []string{"work"},
		CreatedAt: t0,
	}}

	resolver := NewInheritanceResolver(history, 5*time.Minute)

	tags, err := resolver.Resolve(1, t0.Add(6*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestInheritanceResolver_PriorMessageUntagged(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	history := &fakeHistory{recent: &message.Message{
		Tags:      nil,
		CreatedAt: t0,
	}}

	resolver := NewInheritanceResolver(history, 5*time.Minute)

	tags, err := resolver.Resolve(1, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestInheritanceResolver_NoPriorMessage(t *testing.T) {
	t.Parallel()

	resolver := NewInheritanceResolver(&fakeHistory{}, 5*time.Minute)

	tags, err := resolver.Resolve(1, time.Now())
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestInheritanceResolver_LookupError(t *testing.T) {
	t.Parallel()

	resolver := NewInheritanceResolver(&fakeHistory{err: errors.New("store down")}, 5*time.Minute)

	tags, err := resolver.Resolve(1, time.Now())
	assert.Error(t, err)
	assert.Empty(t, tags)
}

func TestInheritanceResolver_ReturnsCopy(t *testing.T) {
	t.Parallel()

	t0 := time.Now().UTC()
	prev := &message.Message{Tags: []string{"work"}, CreatedAt: t0}
	resolver := NewInheritanceResolver(&fakeHistory{recent: prev}, 5*time.Minute)

	tags, err := resolver.Resolve(1, t0)
	require.NoError(t, err)

	tags[0] = "mutated"
	assert.Equal(t, []string{"work"}, prev.Tags)
}
