package benchmark

import (
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/fogfactory/sigbatch"
)

// Profile generates a CPU profile of a segment-then-rebalance pipeline. It
// will be outputted as sigbatch_{date}_n{records}_p{poolSize}.prof.
//
// - records Number of records per input batch.
// - samples Sample count of each record.
// - poolSize Dispatcher pool size.
//
// use pprof to read the file (go install github.com/google/pprof@latest).
func Profile(records, samples, poolSize int) {
	// Profile file
	f, err := os.Create(fmt.Sprintf("sigbatch_%s_n%d_p%d.prof",
		strings.ReplaceAll(time.Now().Truncate(time.Second).Format(time.DateTime), " ", "-"),
		records, poolSize))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	// Init engine
	dispatcher, err := sigbatch.NewDispatcher(poolSize)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer dispatcher.Release()

	index := sigbatch.NewRangeIndex(records)
	batch := sigbatch.NewBatch(index, nil)
	for pos := 0; pos < records; pos++ {
		rec := batch.Record(pos)
		rec.Signal = sigbatch.Signal{lo.Times(samples, func(i int) float64 { return float64(i % 251) })}
		rec.Meta[sigbatch.MetaFS] = 100.0
		batch.SetRecord(pos, rec)
	}
	segmenter := sigbatch.Segmenter(sigbatch.SegmentConfig{Length: 256, Step: 64, Copy: true})

	// Start profiling
	func() {
		_ = pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()

		start := time.Now()
		out, err := batch.Apply(dispatcher, segmenter)
		if err != nil {
			fmt.Println(err)
			return
		}
		front, rest, _ := sigbatch.Rebalance([]*sigbatch.Batch{out}, records)
		restLen := 0
		if !rest.Empty() {
			restLen = rest.Len()
		}
		fmt.Printf("windows: %d (front %d, rest %d, par: %s)\n",
			out.Len(), front.Len(), restLen, time.Since(start))
	}()

	// sequential equivalent, one inline task at a time
	inline, _ := sigbatch.NewDispatcher(0)
	start := time.Now()
	if _, err := batch.Apply(inline, segmenter); err != nil {
		fmt.Println(err)
	}
	fmt.Printf("(seq: %s)\n", time.Since(start))
	fmt.Printf("profile:%s\n", f.Name())

	// Call pprof on a file
	// pprof -http=:8080 $file
}
