// Command steg_eval measures how often messages survive random bit errors
// for a range of redundancy settings and writes a Markdown and JSON report.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	mrand "math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/elakiavm/Steganography-GANS/internal/sim"
	"github.com/elakiavm/Steganography-GANS/steg"
)

type resultKey struct {
	Parity      int
	Compression string
	Flip        float64
}

type agg struct {
	Runs      int
	Successes int
	// Copies is the number of whole copies tiled into the payload.
	Copies      int
	FlippedBits int
	EncTotal    time.Duration
	DecTotal    time.Duration
}

type allResults map[resultKey]*agg

type jsonRecord struct {
	Parity      int     `json:"parity"`
	Compression string  `json:"compression"`
	Flip        float64 `json:"flip"`
	Runs        int     `json:"runs"`
	Successes   int     `json:"successes"`
	Copies      int     `json:"copies"`
	FlippedBits int     `json:"flipped_bits"`
	EncMS       int64   `json:"enc_ms_total"`
	DecMS       int64   `json:"dec_ms_total"`
}

type params struct {
	Width, Height, Depth int
	MsgLen               int
	Runs                 int
	Workers              int
	Seed                 int64
	BurstRate            float64
	BurstLen             int
}

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		var v int
		if _, err := fmt.Sscanf(p, "%d", &v); err != nil {
			return nil, fmt.Errorf("bad parity %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseRates(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		var f float64
		if _, err := fmt.Sscanf(p, "%f", &f); err != nil {
			return nil, fmt.Errorf("bad flip rate %q: %w", p, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func parseCompressions(s string) ([]steg.Compression, error) {
	var out []steg.Compression
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		c, err := steg.ParseCompression(p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return nil
}

const alphabet = "abcdefghijklmnopqrstuvwxyz ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.,"

func randomMessage(rng *mrand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(b)
}

// evaluate runs p.Runs independent trials of one configuration. Trial i
// draws from its own generator so results do not depend on scheduling.
func evaluate(f *steg.Framer, scn sim.Scenario, p params) (*agg, error) {
	a := &agg{Runs: p.Runs}
	tiler := steg.NewTiler(f)
	ex := steg.NewExtractor(f)

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(p.Workers)
	for run := 0; run < p.Runs; run++ {
		run := run
		g.Go(func() error {
			rng := mrand.New(mrand.NewSource(p.Seed + int64(run)))
			msg := randomMessage(rng, p.MsgLen)

			encStart := time.Now()
			payload, capacity, err := tiler.Layout(p.Width, p.Height, p.Depth, msg)
			if err != nil {
				return err
			}
			encDur := time.Since(encStart)

			ch, err := sim.NewBitChannel(scn, rng)
			if err != nil {
				return err
			}
			bits := payload.Threshold(0.5)
			flipped := ch.Apply(bits)

			decStart := time.Now()
			got, err := ex.Extract(bits)
			decDur := time.Since(decStart)

			mu.Lock()
			defer mu.Unlock()
			a.EncTotal += encDur
			a.DecTotal += decDur
			a.FlippedBits += flipped
			a.Copies = capacity.Copies
			if err == nil && got == msg {
				a.Successes++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return a, nil
}

func main() {
	var (
		runs      = flag.Int("runs", 200, "runs per (parity,compression,flip)")
		width     = flag.Int("width", 128, "payload width in pixels")
		height    = flag.Int("height", 128, "payload height in pixels")
		depth     = flag.Int("depth", 4, "payload channels")
		msgLen    = flag.Int("msg-len", 32, "random message length in bytes")
		parityStr = flag.String("parity", "32,64,128,250", "comma-separated list of parity symbol counts")
		compStr   = flag.String("compression", "zlib", "comma-separated list of compressors: zlib|zstd|lz4|snappy")
		flipStr   = flag.String("flip", "0,0.001,0.005,0.01,0.03", "comma-separated list of bit flip probabilities")
		burstRate = flag.Float64("burst-rate", 0, "probability of a burst starting at each bit")
		burstLen  = flag.Int("burst-len", 0, "bits inverted per burst")
		workers   = flag.Int("workers", 4, "concurrent runs")
		outPath   = flag.String("out", "docs/reports/steg_eval_report.md", "output markdown report path")
		seed      = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	parities, err := parseInts(*parityStr)
	if err != nil {
		fatalf("%v", err)
	}
	comps, err := parseCompressions(*compStr)
	if err != nil {
		fatalf("%v", err)
	}
	flips, err := parseRates(*flipStr)
	if err != nil {
		fatalf("%v", err)
	}
	if *workers <= 0 {
		fatalf("workers must be positive, got %d", *workers)
	}
	p := params{
		Width: *width, Height: *height, Depth: *depth,
		MsgLen: *msgLen, Runs: *runs, Workers: *workers, Seed: *seed,
		BurstRate: *burstRate, BurstLen: *burstLen,
	}

	results := make(allResults)
	for _, parity := range parities {
		for _, c := range comps {
			f, err := steg.NewFramer(steg.FramerConfig{ParitySymbols: parity, Compression: c})
			if err != nil {
				fatalf("parity %d: %v", parity, err)
			}
			for _, flip := range flips {
				scn := sim.Scenario{FlipRate: flip, BurstRate: p.BurstRate, BurstLen: p.BurstLen}
				a, err := evaluate(f, scn, p)
				if err != nil {
					fatalf("parity %d %v %v: %v", parity, c, scn, err)
				}
				results[resultKey{Parity: parity, Compression: c.String(), Flip: flip}] = a
				fmt.Printf("parity=%d %s %v: %d/%d\n", parity, c, scn, a.Successes, a.Runs)
			}
		}
	}

	// Write JSON alongside MD
	if err := ensureDir(*outPath); err != nil {
		fatalf("%v", err)
	}
	ts := time.Now().Format("20060102_150405")
	jsonPath := strings.TrimSuffix(*outPath, ".md") + "_" + ts + ".json"
	mdPath := strings.TrimSuffix(*outPath, ".md") + "_" + ts + ".md"
	if err := writeJSON(jsonPath, results); err != nil {
		fatalf("write json: %v", err)
	}
	if err := writeMarkdown(mdPath, results, p); err != nil {
		fatalf("write md: %v", err)
	}
	fmt.Printf("Report written: %s\nJSON: %s\n", mdPath, jsonPath)
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeJSON(path string, res allResults) error {
	jf, err := os.Create(path)
	if err != nil {
		return err
	}
	defer jf.Close()
	recs := make([]jsonRecord, 0, len(res))
	for _, k := range sortedKeys(res) {
		v := res[k]
		recs = append(recs, jsonRecord{
			Parity:      k.Parity,
			Compression: k.Compression,
			Flip:        k.Flip,
			Runs:        v.Runs,
			Successes:   v.Successes,
			Copies:      v.Copies,
			FlippedBits: v.FlippedBits,
			EncMS:       v.EncTotal.Milliseconds(),
			DecMS:       v.DecTotal.Milliseconds(),
		})
	}
	enc := json.NewEncoder(jf)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Records []jsonRecord `json:"records"`
	}{Records: recs})
}
