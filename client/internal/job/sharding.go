package job

import (
	"hash/fnv"
	"strconv"
)

// labelBuckets bounds the cardinality of per-user metric labels.
const labelBuckets = 16

// Label hashes an external user ID to a stable metric label in [0, 16).
func Label(externalID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(externalID))
	return strconv.FormatUint(uint64(h.Sum32()%labelBuckets), 10)
}
