package rooms

import (
	"sort"
	"strings"
)

// DirectRoomID derives the stable conversation key for a pair of
// participants. The pair is sorted before joining so that
// DirectRoomID(a, b) == DirectRoomID(b, a).
func DirectRoomID(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}
