// Package driver implements the bounded-parallelism document reducer
// (spec §4.4): partition documents round-robin among W workers,
// left-fold merge within each partition, then tree-reduce the partials.
// Because schema.Merge is associative and commutative, the result does
// not depend on W, partition boundaries, or reduction order (spec §5).
package driver

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/valyala/fastjson"

	"github.com/vigata/genson/schema"
)

// Config bounds the driver's concurrency.
type Config struct {
	MaxBuilders *uint32 // spec §3.3 max_builders
}

// BuildFunc folds one document into a schema node — the per-document
// builder of spec §4.2, plus whatever wrap_root/pre-processing the
// caller layers on top.
type BuildFunc func(*fastjson.Value) *schema.Node

// Run partitions docs, builds+merges each partition on its own
// goroutine, then balances a tree-reduction of schema.Merge over the
// partial results. ctx is checked cooperatively between documents
// within each worker (spec §5); a cancelled context yields whatever was
// merged so far, which callers should discard rather than trust.
func Run(ctx context.Context, docs []*fastjson.Value, build BuildFunc, cfg Config) (*schema.Node, time.Duration) {
	start := time.Now()
	if len(docs) == 0 {
		return schema.Unknown(), time.Since(start)
	}

	w := workerCount(len(docs), cfg.MaxBuilders)
	partitions := make([][]*fastjson.Value, w)
	for i, d := range docs {
		slot := i % w
		partitions[slot] = append(partitions[slot], d)
	}

	partials := make([]*schema.Node, w)
	var wg sync.WaitGroup
	for i := 0; i < w; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			acc := schema.Unknown()
			for _, d := range partitions[i] {
				if ctx.Err() != nil {
					break
				}
				acc = schema.Merge(acc, build(d))
			}
			partials[i] = acc
		}(i)
	}
	wg.Wait()

	return treeReduce(partials), time.Since(start)
}

// treeReduce performs a balanced pairwise reduction so that peak live
// intermediates stay O(log W), per the resource policy in spec §5.
func treeReduce(nodes []*schema.Node) *schema.Node {
	if len(nodes) == 0 {
		return schema.Unknown()
	}
	for len(nodes) > 1 {
		next := make([]*schema.Node, 0, (len(nodes)+1)/2)
		for i := 0; i < len(nodes); i += 2 {
			if i+1 < len(nodes) {
				next = append(next, schema.Merge(nodes[i], nodes[i+1]))
			} else {
				next = append(next, nodes[i])
			}
		}
		nodes = next
	}
	return nodes[0]
}

func workerCount(n int, maxBuilders *uint32) int {
	w := n
	if avail := runtime.GOMAXPROCS(0); avail < w {
		w = avail
	}
	if maxBuilders != nil && int(*maxBuilders) < w {
		w = int(*maxBuilders)
	}
	if w < 1 {
		w = 1
	}
	return w
}
