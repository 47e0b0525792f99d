package rooms

import (
	"testing"
	"time"

	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDirectRoomID_Symmetry(t *testing.T) {
	pairs := [][2]string{
		{"S1", "S2"},
		{"21B81A0501", "21B81A0502"},
		{"zz", "aa"},
		{"same", "same"},
	}

	for _, p := range pairs {
		assert.Equal(t, DirectRoomID(p[0], p[1]), DirectRoomID(p[1], p[0]))
	}

	assert.Equal(t, "S1_S2", DirectRoomID("S2", "S1"))
}

func strPtr(s string) *string { return &s }

func TestPartitionThreads(t *testing.T) {
	base := time.Now()
	msgs := []models.Message{
		{ID: "T1", SenderID: "S1", Body: "topic?", CreatedAt: base},
		{ID: "R2", SenderID: "S3", Body: "second answer", ParentID: strPtr("T1"), CreatedAt: base.Add(2 * time.Minute)},
		{ID: "T2", SenderID: "S2", Body: "another topic", CreatedAt: base.Add(time.Minute)},
		{ID: "R1", SenderID: "S2", Body: "first answer", ParentID: strPtr("T1"), CreatedAt: base.Add(time.Minute)},
	}

	threads := PartitionThreads(msgs)

	// Top-level order follows input (storage) order
	assert.Len(t, threads.TopLevel, 2)
	assert.Equal(t, "T1", threads.TopLevel[0].ID)
	assert.Equal(t, "T2", threads.TopLevel[1].ID)

	// Replies grouped under their parent, ascending CreatedAt
	replies := threads.RepliesByParent["T1"]
	assert.Len(t, replies, 2)
	assert.Equal(t, "R1", replies[0].ID)
	assert.Equal(t, "R2", replies[1].ID)
	for _, r := range replies {
		assert.Equal(t, "T1", *r.ParentID)
	}

	assert.Empty(t, threads.Orphans)

	// Every message lands in exactly one bucket
	total := len(threads.TopLevel) + len(threads.Orphans)
	for _, rs := range threads.RepliesByParent {
		total += len(rs)
	}
	assert.Equal(t, len(msgs), total)
}

func TestPartitionThreads_HoldsOrphanReplies(t *testing.T) {
	// A reply arriving before its parent (partial fetch) must be held,
	// not rendered under a missing parent.
	msgs := []models.Message{
		{ID: "R1", SenderID: "S1", Body: "answer", ParentID: strPtr("missing"), CreatedAt: time.Now()},
		{ID: "T1", SenderID: "S2", Body: "topic", CreatedAt: time.Now()},
	}

	threads := PartitionThreads(msgs)

	assert.Len(t, threads.TopLevel, 1)
	assert.Empty(t, threads.RepliesByParent)
	assert.Len(t, threads.Orphans, 1)
	assert.Equal(t, "R1", threads.Orphans[0].ID)
}

func TestPartitionThreads_Empty(t *testing.T) {
	threads := PartitionThreads(nil)
	assert.Empty(t, threads.TopLevel)
	assert.Empty(t, threads.Orphans)
	assert.Empty(t, threads.RepliesByParent)
}
