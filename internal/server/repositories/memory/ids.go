package memory

import "strconv"

func formatSeq(n int64) string {
	return strconv.FormatInt(n, 10)
}
