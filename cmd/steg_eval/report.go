package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

func sortedKeys(res allResults) []resultKey {
	keys := make([]resultKey, 0, len(res))
	for k := range res {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Parity != b.Parity {
			return a.Parity < b.Parity
		}
		if a.Compression != b.Compression {
			return a.Compression < b.Compression
		}
		return a.Flip < b.Flip
	})
	return keys
}

func writeMarkdown(path string, res allResults, p params) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	renderMarkdown(f, res, p, time.Now())
	return nil
}

func renderMarkdown(w io.Writer, res allResults, p params, now time.Time) {
	type row struct {
		Parity      int
		Compression string
	}
	rowSet := map[row]struct{}{}
	flipSet := map[float64]struct{}{}
	for k := range res {
		rowSet[row{k.Parity, k.Compression}] = struct{}{}
		flipSet[k.Flip] = struct{}{}
	}
	rows := make([]row, 0, len(rowSet))
	for r := range rowSet {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Parity != rows[j].Parity {
			return rows[i].Parity < rows[j].Parity
		}
		return rows[i].Compression < rows[j].Compression
	})
	flips := make([]float64, 0, len(flipSet))
	for l := range flipSet {
		flips = append(flips, l)
	}
	sort.Float64s(flips)

	fmt.Fprintf(w, "# Steganography Channel Evaluation\n\n")
	fmt.Fprintf(w, "Generated: %s\n\n", now.Format(time.RFC3339))
	fmt.Fprintf(w, "Payload %dx%dx%d, %d-byte messages, %d runs per cell", p.Width, p.Height, p.Depth, p.MsgLen, p.Runs)
	if p.BurstRate > 0 && p.BurstLen > 0 {
		fmt.Fprintf(w, ", bursts of %d bits at rate %g", p.BurstLen, p.BurstRate)
	}
	fmt.Fprintf(w, ".\n\n")

	fmt.Fprintf(w, "## Success Rate (%%)\n\n")
	headers := make([]string, len(flips))
	for i, l := range flips {
		headers[i] = fmt.Sprintf("flip %.2f%%", 100*l)
	}
	fmt.Fprintf(w, "| Parity | Compression | Copies | %s |\n", strings.Join(headers, " | "))
	fmt.Fprintf(w, "|---:|---|---:|%s\n", strings.Repeat("---:|", len(flips)))
	for _, r := range rows {
		copies := 0
		for _, l := range flips {
			if a := res[resultKey{r.Parity, r.Compression, l}]; a != nil {
				copies = a.Copies
				break
			}
		}
		fmt.Fprintf(w, "| %d | %s | %d ", r.Parity, r.Compression, copies)
		for _, l := range flips {
			a := res[resultKey{r.Parity, r.Compression, l}]
			if a == nil || a.Runs == 0 {
				fmt.Fprintf(w, "|  ")
				continue
			}
			fmt.Fprintf(w, "| %.2f ", 100*float64(a.Successes)/float64(a.Runs))
		}
		fmt.Fprintf(w, "|\n")
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "## Timing (ms)\n\n")
	fmt.Fprintf(w, "| Parity | Compression | Encode Total | Decode Total | Decode Avg/Run |\n")
	fmt.Fprintf(w, "|---:|---|---:|---:|---:|\n")
	for _, r := range rows {
		var enc, dec time.Duration
		runs := 0
		for _, l := range flips {
			a := res[resultKey{r.Parity, r.Compression, l}]
			if a == nil {
				continue
			}
			enc += a.EncTotal
			dec += a.DecTotal
			runs += a.Runs
		}
		avg := 0.0
		if runs > 0 {
			avg = float64(dec.Microseconds()) / 1000 / float64(runs)
		}
		fmt.Fprintf(w, "| %d | %s | %d | %d | %.3f |\n", r.Parity, r.Compression, enc.Milliseconds(), dec.Milliseconds(), avg)
	}
}
