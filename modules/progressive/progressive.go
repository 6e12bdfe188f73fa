// Package progressive is the chunked variant of line matching used above the
// large-input threshold. It runs the same greedy alignment as textdiff but
// yields between fixed-size chunks, reporting fractional progress, so a host
// loop stays responsive and abandoned work can stop at a chunk boundary.
package progressive

import (
	"context"
	"runtime"

	"github.com/veridiff/veridiff/modules/compare"
	"github.com/veridiff/veridiff/modules/textdiff"
)

// DefaultChunkSize is the number of line operations processed per tick.
const DefaultChunkSize = 500

// ProgressFunc receives the fraction of processed lines in [0, 1].
type ProgressFunc func(fraction float64)

// Options tune the matcher. Zero values fall back to defaults; a nil
// OnProgress disables reporting.
type Options struct {
	ChunkSize  int
	OnProgress ProgressFunc
}

// Match aligns both inputs line by line. The result carries per-side line
// arrays and summary counts but no intra-line sub-diffs: at this scale the
// alignment itself is the product. Match returns ctx.Err() when cancelled at
// a chunk boundary.
func Match(ctx context.Context, left, right string, opts *compare.Options, po *Options) (*compare.Result, error) {
	if opts == nil {
		opts = compare.DefaultOptions()
	}
	chunkSize := DefaultChunkSize
	var onProgress ProgressFunc
	if po != nil {
		if po.ChunkSize > 0 {
			chunkSize = po.ChunkSize
		}
		onProgress = po.OnProgress
	}

	ll, rl := textdiff.SplitLines(left), textdiff.SplitLines(right)
	lk, rk := textdiff.Keys(ll, opts), textdiff.Keys(rl, opts)
	total := len(lk) + len(rk)

	report := func(i, j int) {
		if onProgress == nil {
			return
		}
		onProgress(min(1, float64(i+j)/float64(total)))
	}

	ops := make([]textdiff.Op, 0, max(len(lk), len(rk)))
	i, j := 0, 0
	sinceYield := 0
	for i < len(lk) || j < len(rk) {
		var op textdiff.Op
		op, i, j = textdiff.NextOp(lk, rk, i, j)
		ops = append(ops, op)
		sinceYield++
		if sinceYield >= chunkSize {
			sinceYield = 0
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			report(i, j)
			runtime.Gosched()
		}
	}
	report(len(lk), len(rk))

	leftLines, rightLines, summary := assemble(ops, ll, rl)
	return &compare.Result{
		Identical:  summary.Empty(),
		Summary:    summary,
		LeftLines:  leftLines,
		RightLines: rightLines,
	}, nil
}

func assemble(ops []textdiff.Op, ll, rl []string) (leftLines, rightLines []compare.DiffLine, summary compare.Summary) {
	ln, rn := 0, 0
	for _, op := range ops {
		switch op.Kind {
		case compare.Unchanged:
			ln++
			rn++
			leftLines = append(leftLines, compare.DiffLine{LineNumber: ln, Kind: compare.Unchanged, Content: ll[op.Left]})
			rightLines = append(rightLines, compare.DiffLine{LineNumber: rn, Kind: compare.Unchanged, Content: rl[op.Right]})
		case compare.Removed:
			ln++
			summary.Removed++
			leftLines = append(leftLines, compare.DiffLine{LineNumber: ln, Kind: compare.Removed, Content: ll[op.Left]})
		case compare.Added:
			rn++
			summary.Added++
			rightLines = append(rightLines, compare.DiffLine{LineNumber: rn, Kind: compare.Added, Content: rl[op.Right]})
		case compare.Modified:
			ln++
			rn++
			summary.Modified++
			leftLines = append(leftLines, compare.DiffLine{LineNumber: ln, Kind: compare.Modified, Content: ll[op.Left]})
			rightLines = append(rightLines, compare.DiffLine{LineNumber: rn, Kind: compare.Modified, Content: rl[op.Right]})
		}
	}
	return leftLines, rightLines, summary
}
