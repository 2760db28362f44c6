package hashring

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Position is a coordinate on the ring.
type Position uint64

// Hasher converts a string into a position on the ring.
// Hash must return the same position for the same string during the whole
// lifetime of the ring it is used by.
type Hasher interface {
	Hash(string) Position
}

// HasherFunc is an adapter to allow the use of ordinary functions as Hasher.
type HasherFunc func(string) Position

// Hash implements Hasher.
func (fn HasherFunc) Hash(s string) Position {
	return fn(s)
}

var (
	// CRC32 is a Hasher using IEEE CRC-32 checksum of a string.
	// It is fast but places points less evenly than other hashers.
	CRC32 Hasher = HasherFunc(crc32Hash)

	// MD5 is a Hasher using first eight bytes of MD5 digest of a string,
	// interpreted as big-endian number.
	MD5 Hasher = HasherFunc(md5Hash)

	// XXHash is a Hasher using 64-bit xxHash of a string.
	XXHash Hasher = HasherFunc(xxHash)
)

func crc32Hash(s string) Position {
	return Position(crc32.ChecksumIEEE([]byte(s)))
}

func md5Hash(s string) Position {
	sum := md5.Sum([]byte(s))
	return Position(binary.BigEndian.Uint64(sum[:8]))
}

func xxHash(s string) Position {
	return Position(xxhash.Sum64String(s))
}

// ParseHasher returns built-in Hasher by its name.
func ParseHasher(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "", "crc32":
		return CRC32, nil
	case "md5":
		return MD5, nil
	case "xxhash":
		return XXHash, nil
	default:
		return nil, fmt.Errorf("hashring: unknown hasher %q", name)
	}
}

// StaticHasher is a Hasher which returns itself for any string.
// It is useful for placing targets on exact positions.
type StaticHasher Position

// Hash implements Hasher.
func (s StaticHasher) Hash(string) Position {
	return Position(s)
}

// Hash64Hasher is a Hasher built on top of 64-bit hash functions from the
// standard hash package. It is safe for concurrent use.
type Hash64Hasher struct {
	fn   func() hash.Hash64
	pool sync.Pool
}

// NewHash64Hasher returns Hasher using hash functions built by fn.
func NewHash64Hasher(fn func() hash.Hash64) *Hash64Hasher {
	if fn == nil {
		panic("hashring: nil hash constructor")
	}
	return &Hash64Hasher{
		fn: fn,
	}
}

// Hash implements Hasher.
func (h *Hash64Hasher) Hash(s string) Position {
	d, _ := h.pool.Get().(hash.Hash64)
	if d == nil {
		d = h.fn()
	}
	defer func() {
		d.Reset()
		h.pool.Put(d)
	}()

	_, err := io.WriteString(d, s)
	if err != nil {
		panic(fmt.Sprintf("hashring: digest error: %v", err))
	}
	return Position(d.Sum64())
}
