package main

import (
	"fmt"
	"strings"

	"github.com/sarchlab/cachesim/cache"
)

// narrationLine formats one request result for console output:
//
//	write miss + replace [addr = 64, offset = 0, set index = 0, tag = 1]
//	[evict tag 0, way 0] [write back (0 - 15)]
func narrationLine(r cache.RequestResult, blockSize int) string {
	var b strings.Builder

	b.WriteString(r.Op.String())
	if r.Hit {
		b.WriteString(" hit")
	} else {
		b.WriteString(" miss")
	}
	if r.Evicted != nil {
		b.WriteString(" + replace")
	}

	fmt.Fprintf(&b, " [addr = %d, offset = %d, set index = %d, tag = %d]",
		r.Address, r.Offset, r.SetIndex, r.Tag)

	if r.Evicted != nil {
		fmt.Fprintf(&b, " [evict tag %d, way %d]", r.Evicted.Tag, r.Evicted.Way)
	}

	if r.BackingWrite {
		lo := r.Address - r.Offset
		if r.Evicted != nil && r.Evicted.WasDirty {
			lo = r.Evicted.BlockAddress
		}
		fmt.Fprintf(&b, " [write back (%d - %d)]", lo, lo+uint64(blockSize)-1)
	}

	return b.String()
}
