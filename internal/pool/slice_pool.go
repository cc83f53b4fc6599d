package pool

import "sync"

// stringSlicePool reuses string slices for materialized table rows.
var stringSlicePool = sync.Pool{
	New: func() any { return &[]string{} },
}

// GetStringSlice retrieves a string slice of exactly the given length from
// the pool, allocating a fresh slice if the pooled one is too small.
//
// The caller must call the returned cleanup function (typically with defer)
// to return the slice to the pool. The slice contents are not cleared; every
// element must be overwritten before use.
func GetStringSlice(size int) ([]string, func()) {
	ptr, _ := stringSlicePool.Get().(*[]string)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]string, size)
		*ptr = slice
	} else {
		slice = slice[:size]
		*ptr = slice
	}

	return slice, func() { stringSlicePool.Put(ptr) }
}
