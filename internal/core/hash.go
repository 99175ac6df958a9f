package core

import (
	"fmt"
	"hash/fnv"
)

func HashSource(source string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(source))
	return fmt.Sprintf("%x", h.Sum64())
}
