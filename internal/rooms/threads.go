package rooms

import (
	"sort"

	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/models"
)

// Threads is the partition of a flat board feed into top-level messages
// and their replies. Orphans are replies whose parent was not part of
// the input (e.g. a partial fetch); callers must hold them back rather
// than render them under a missing parent.
type Threads struct {
	TopLevel       []models.Message
	RepliesByParent map[string][]models.Message
	Orphans        []models.Message
}

// PartitionThreads splits a flat message list into top-level messages
// (storage order preserved) and a lookup from parent id to its replies
// (ascending CreatedAt). Every input message lands in exactly one of
// TopLevel, RepliesByParent or Orphans.
func PartitionThreads(msgs []models.Message) Threads {
	t := Threads{
		RepliesByParent: make(map[string][]models.Message),
	}

	present := make(map[string]bool, len(msgs))
	for _, m := range msgs {
		if m.ParentID == nil {
			present[m.ID] = true
		}
	}

	for _, m := range msgs {
		switch {
		case m.ParentID == nil:
			t.TopLevel = append(t.TopLevel, m)
		case present[*m.ParentID]:
			t.RepliesByParent[*m.ParentID] = append(t.RepliesByParent[*m.ParentID], m)
		default:
			t.Orphans = append(t.Orphans, m)
		}
	}

	for parent := range t.RepliesByParent {
		replies := t.RepliesByParent[parent]
		sort.SliceStable(replies, func(i, j int) bool {
			return replies[i].CreatedAt.Before(replies[j].CreatedAt)
		})
	}

	return t
}
