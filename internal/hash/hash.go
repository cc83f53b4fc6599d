package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of a rendered key path.
//
// Key paths are identified by their 64-bit hash throughout the pipeline so
// that column and row lookups key on fixed-size integers instead of the
// (potentially long) rendered path strings.
func ID(path string) uint64 {
	return xxhash.Sum64String(path)
}
