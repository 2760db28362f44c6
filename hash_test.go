package hashring

import (
	"hash"
	"hash/fnv"
	"testing"

	"github.com/cespare/xxhash/v2"
)

func TestHashers(t *testing.T) {
	for _, test := range []struct {
		name   string
		hasher Hasher
		in     string
		exp    Position
	}{
		{
			name:   "crc32",
			hasher: CRC32,
			in:     "test",
			exp:    3632233996,
		},
		{
			name:   "crc32",
			hasher: CRC32,
			in:     "different",
			exp:    1812431075,
		},
		{
			name:   "md5",
			hasher: MD5,
			in:     "test",
			exp:    0x098f6bcd4621d373,
		},
		{
			name:   "md5",
			hasher: MD5,
			in:     "different",
			exp:    0x29e4b66fa8076de4,
		},
		{
			name:   "xxhash",
			hasher: XXHash,
			in:     "test",
			exp:    Position(xxhash.Sum64String("test")),
		},
		{
			name:   "static",
			hasher: StaticHasher(42),
			in:     "test",
			exp:    42,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			for i := 0; i < 2; i++ {
				if act := test.hasher.Hash(test.in); act != test.exp {
					t.Fatalf(
						"unexpected hash of %q: %d; want %d",
						test.in, act, test.exp,
					)
				}
			}
		})
	}
}

func TestHash64Hasher(t *testing.T) {
	h := NewHash64Hasher(func() hash.Hash64 {
		return fnv.New64a()
	})
	exp := func(s string) Position {
		d := fnv.New64a()
		d.Write([]byte(s))
		return Position(d.Sum64())
	}
	for _, s := range []string{"foo", "bar", "foo", ""} {
		// Pooled digests must be reset between calls.
		if act, exp := h.Hash(s), exp(s); act != exp {
			t.Fatalf("unexpected hash of %q: %d; want %d", s, act, exp)
		}
	}
}

func TestHash64HasherXXHash(t *testing.T) {
	h := NewHash64Hasher(func() hash.Hash64 {
		return xxhash.New()
	})
	if act, exp := h.Hash("test"), XXHash.Hash("test"); act != exp {
		t.Fatalf("unexpected hash: %d; want %d", act, exp)
	}
}

func TestParseHasher(t *testing.T) {
	for _, name := range []string{"", "crc32", "CRC32", "md5", "xxhash"} {
		if _, err := ParseHasher(name); err != nil {
			t.Errorf("unexpected error for %q: %v", name, err)
		}
	}
	if _, err := ParseHasher("sha1"); err == nil {
		t.Fatalf("want error; got nothing")
	}
}

func BenchmarkHasher(b *testing.B) {
	for _, bench := range []struct {
		name   string
		hasher Hasher
	}{
		{"crc32", CRC32},
		{"md5", MD5},
		{"xxhash", XXHash},
	} {
		b.Run(bench.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				bench.hasher.Hash("test")
			}
		})
	}
}
