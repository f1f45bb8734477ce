package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Record(t *testing.T) {
	s := newFakeMessageStore()
	r := NewRecorder(s, nil)

	rec := posted("1", 0)
	require.NoError(t, r.Record(context.Background(), rec))
	assert.Equal(t, rec, s.inserts[0])
}

func TestRecorder_SurfacesStoreFailure(t *testing.T) {
	s := newFakeMessageStore()
	s.insertErr = errStore
	r := NewRecorder(s, nil)

	err := r.Record(context.Background(), posted("1", 0))
	assert.ErrorIs(t, err, errStore)
	assert.Len(t, s.inserts, 1)
}
