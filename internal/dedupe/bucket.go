package dedupe

import (
	"sort"

	"github.com/sadopc/godupes/internal/model"
)

// BucketBySize partitions records by size and drops sizes held by a single
// record. Buckets are ordered largest first; members keep input order.
func BucketBySize(records []*model.Record) (buckets []model.SizeGroup, dropped int) {
	bySize := make(map[int64][]*model.Record)
	for _, r := range records {
		bySize[r.Size] = append(bySize[r.Size], r)
	}

	sizes := make([]int64, 0, len(bySize))
	for size, files := range bySize {
		if len(files) < 2 {
			dropped += len(files)
			continue
		}
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] > sizes[j] })

	buckets = make([]model.SizeGroup, 0, len(sizes))
	for _, size := range sizes {
		buckets = append(buckets, model.SizeGroup{Size: size, Files: bySize[size]})
	}
	return buckets, dropped
}
