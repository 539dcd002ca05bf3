package kmeans

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/kmviz/model"
)

// Reassigned returns the set of point indices whose label differs between prev and next.
// When prev does not line up with next (first step, or a different dataset) every index is reported.
func Reassigned(prev, next model.Labels) *roaring.Bitmap {
	rb := roaring.New()
	if len(prev) != len(next) {
		rb.AddRange(0, uint64(len(next)))
		return rb
	}

	for i := range next {
		if prev[i] != next[i] {
			rb.Add(uint32(i))
		}
	}
	return rb
}
