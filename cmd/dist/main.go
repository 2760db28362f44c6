// Command dist measures how evenly a ring spreads objects across servers and
// how long it takes to build the ring, for a set of replicas numbers.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/flexihash/hashring"
	"github.com/gobwas/avl"
)

type config struct {
	parallelism int
	objects     int
	servers     int
	weight      int
	lo, hi      int
	replicas    string
	hash        string
	csv         bool
	verbose     bool
	silent      bool
}

func main() {
	var c config
	flag.IntVar(&c.parallelism, "parallelism", runtime.NumCPU(), "number of concurrent processors")
	flag.IntVar(&c.objects, "objects", 1e6, "number of objects to spread on ring")
	flag.IntVar(&c.servers, "servers", 10, "number of servers to place on ring")
	flag.IntVar(&c.weight, "weight", 1, "weight of each server")
	flag.IntVar(&c.lo, "lo", 0, "number of replicas to start from")
	flag.IntVar(&c.hi, "hi", 0, "number of replicas to end at (exclusive)")
	flag.StringVar(&c.replicas,
		"replicas", strconv.Itoa(hashring.DefaultReplicas),
		"comma-separated list of replicas numbers",
	)
	flag.StringVar(&c.hash, "hash", "crc32", "hash function to be used (crc32, md5 or xxhash)")
	flag.BoolVar(&c.csv, "csv", true, "print csv to standard output")
	flag.BoolVar(&c.verbose, "v", false, "be verbose")
	flag.BoolVar(&c.silent, "s", false, "be silent")
	flag.Parse()

	if err := run(c, os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(c config, stdout, stderr io.Writer) error {
	logf := func(f string, args ...interface{}) {
		if c.verbose {
			log.Printf(f, args...)
		}
	}
	progress := func(f string, args ...interface{}) {
		if !c.silent {
			fmt.Fprintf(stderr, f, args...)
		}
	}

	hasher, err := hashring.ParseHasher(c.hash)
	if err != nil {
		return err
	}
	if c.weight <= 0 {
		return fmt.Errorf("weight must be greater than zero: %d", c.weight)
	}
	replicas, err := replicasSet(c.replicas, c.lo, c.hi)
	if err != nil {
		return err
	}
	logf("%d replicas numbers are ready", replicas.Size())

	m := measurer{
		hasher:  hasher,
		weight:  c.weight,
		servers: uniqueStrings(c.servers, randomIP),
		objects: uniqueStrings(c.objects, randomKey),
	}
	logf("%d servers and %d objects are ready", len(m.servers), len(m.objects))

	results := m.measureAll(replicas, c.parallelism)

	var (
		sorted avl.Tree
		total  = replicas.Size()
	)
	for r := range results {
		sorted, _ = sorted.Insert(r)
		progress(".")
		if n := sorted.Size(); n%80 == 0 {
			progress("%d/%d(%.1f%%)\n", n, total, float64(n)/float64(total)*100)
		}
	}
	progress("\n")

	tw := tabwriter.NewWriter(stdout, 2, 2, 2, ' ', 0)
	sorted.InOrder(func(x avl.Item) bool {
		r := x.(result)
		devPct := r.stddev / float64(len(m.objects)) * 100
		diffPct := float64(r.maxDiff) / float64(len(m.objects)) * 100
		logf(
			"%04d: stddev=%.2f(%.2f%%) maxdiff=%d(%.2f%%) latency=%s",
			r.replicas, r.stddev, devPct, r.maxDiff, diffPct, r.latency,
		)
		if c.csv {
			fmt.Fprintf(tw, "%d,\t%.4f,\t%.4f,\t%.2f\n",
				r.replicas, devPct, diffPct, r.latency.Seconds()*1000,
			)
		}
		return true
	})
	if err := tw.Flush(); err != nil {
		return err
	}
	progress("OK\n")

	return nil
}

// replicasSet merges comma-separated replicas numbers with the [lo, hi)
// range. Duplicates are dropped by the tree.
func replicasSet(list string, lo, hi int) (set avl.Tree, err error) {
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return set, fmt.Errorf("malformed replicas number %q: %v", s, err)
		}
		if n <= 0 {
			return set, fmt.Errorf("replicas number must be greater than zero: %d", n)
		}
		set, _ = set.Insert(replicasNum(n))
	}
	for n := lo; n < hi; n++ {
		if n > 0 {
			set, _ = set.Insert(replicasNum(n))
		}
	}
	if set.Size() == 0 {
		return set, fmt.Errorf("no replicas numbers given")
	}
	return set, nil
}

type measurer struct {
	hasher  hashring.Hasher
	weight  int
	servers []string
	objects []string
}

// measureAll measures a ring for every replicas number in the set using
// given number of goroutines. Returned channel is closed when all
// measurements are done.
func (m *measurer) measureAll(set avl.Tree, parallelism int) <-chan result {
	var (
		work    = make(chan int)
		results = make(chan result, 1)
		wg      sync.WaitGroup
	)
	for i := 0; i < parallelism; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range work {
				results <- m.measure(n)
			}
		}()
	}
	go func() {
		set.InOrder(func(x avl.Item) bool {
			work <- int(x.(replicasNum))
			return true
		})
		close(work)
		wg.Wait()
		close(results)
	}()
	return results
}

func (m *measurer) measure(replicas int) result {
	r := hashring.Ring{
		Hasher:   m.hasher,
		Replicas: replicas,
	}
	start := time.Now()
	for _, srv := range m.servers {
		if err := r.AddTarget(srv, m.weight); err != nil {
			panic(err)
		}
	}
	latency := time.Since(start)

	load := make(map[string]int, len(m.servers))
	for _, obj := range m.objects {
		srv, err := r.Lookup(obj)
		if err != nil {
			panic(err)
		}
		load[srv]++
	}

	var (
		mean     = float64(len(m.objects)) / float64(len(m.servers))
		variance float64
		maxDiff  float64
	)
	for _, srv := range m.servers {
		diff := math.Abs(float64(load[srv]) - mean)
		variance += diff * diff
		maxDiff = math.Max(maxDiff, diff)
	}
	variance /= float64(len(m.servers))

	return result{
		replicas: replicas,
		latency:  latency,
		stddev:   math.Sqrt(variance),
		maxDiff:  int(maxDiff),
	}
}

// uniqueStrings returns n distinct strings produced by gen.
func uniqueStrings(n int, gen func() string) []string {
	var (
		ret  = make([]string, 0, n)
		seen = make(map[string]bool, n)
	)
	for len(ret) < n {
		s := gen()
		if seen[s] {
			continue
		}
		seen[s] = true
		ret = append(ret, s)
	}
	return ret
}

func randomIP() string {
	v := rand.Uint32()
	return net.IPv4(byte(v>>24), byte(v>>16), byte(v>>8), byte(v)).String()
}

func randomKey() string {
	return fmt.Sprintf("%016x", rand.Int63())
}

type result struct {
	replicas int
	latency  time.Duration
	stddev   float64
	maxDiff  int
}

func (r result) Compare(x avl.Item) int {
	return r.replicas - x.(result).replicas
}

type replicasNum int

func (n replicasNum) Compare(x avl.Item) int {
	return int(n - x.(replicasNum))
}
