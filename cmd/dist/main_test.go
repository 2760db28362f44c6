package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/gobwas/avl"
)

func TestReplicasSet(t *testing.T) {
	set, err := replicasSet("8, 4,8,", 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	var act []int
	set.InOrder(func(x avl.Item) bool {
		act = append(act, int(x.(replicasNum)))
		return true
	})
	if exp := []int{2, 3, 4, 8}; !reflect.DeepEqual(act, exp) {
		t.Fatalf("unexpected replicas: %v; want %v", act, exp)
	}
	for _, list := range []string{"x", "0", "-1", ""} {
		if _, err := replicasSet(list, 0, 0); err == nil {
			t.Errorf("want error for %q; got nothing", list)
		}
	}
}

func TestRun(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(config{
		parallelism: 2,
		objects:     1000,
		servers:     4,
		weight:      1,
		replicas:    "16,32,64",
		hash:        "xxhash",
		csv:         true,
		silent:      true,
	}, &stdout, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("unexpected output:\n%s", stdout.String())
	}
	for i, prefix := range []string{"16,", "32,", "64,"} {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("unexpected line #%d: %q; want prefix %q", i, lines[i], prefix)
		}
	}
	if stderr.Len() != 0 {
		t.Errorf("unexpected output on stderr: %q", stderr.String())
	}
}

func TestUniqueStrings(t *testing.T) {
	var i int
	gen := func() string {
		i++
		return []string{"a", "a", "b", "a", "c"}[i-1]
	}
	if act, exp := uniqueStrings(3, gen), []string{"a", "b", "c"}; !reflect.DeepEqual(act, exp) {
		t.Fatalf("unexpected strings: %v; want %v", act, exp)
	}
}
