package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToEverySubscriber(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var got []string
	boom := errors.New("boom")

	d.Subscribe(EventSchoolDeleted, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.SchoolID)
		return boom
	})
	d.Subscribe(EventSchoolDeleted, func(context.Context, Event) error {
		panic("subscriber bug")
	})
	d.Subscribe(EventSchoolDeleted, func(_ context.Context, e Event) error {
		got = append(got, "third:"+e.SchoolID)
		return nil
	})
	d.Subscribe(EventSchoolCreated, func(context.Context, Event) error {
		got = append(got, "unrelated")
		return nil
	})

	err := d.Publish(context.Background(), New(EventSchoolDeleted, "s-1", "u-1", SchoolPayload{Name: "North"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "subscriber bug")
	assert.Equal(t, []string{"first:s-1", "third:s-1"}, got)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	assert.NoError(t, d.Publish(context.Background(), New(EventStudentTransferred, "s-1", "u-1", nil)))
}

func TestNew_StampsEvent(t *testing.T) {
	e := New(EventSchoolCreated, "s-1", "u-1", nil)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, EventSchoolCreated, e.Type)
}
