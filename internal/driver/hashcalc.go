package driver

import (
	"crypto/sha256"

	"github.com/vmihailenco/msgpack/v5"

	"shroud/internal/cff"
	"shroud/internal/mask"
	"shroud/internal/mba"
	"shroud/internal/opaque"
	"shroud/internal/pipeline"
)

// requestKey is the part of a request that influences the output. Jobs is
// left out: the pipeline output does not depend on scheduling.
type requestKey struct {
	Schema    uint16
	Functions []string
	Seed      int64
	Passes    uint8
	Strict    bool
	Opaque    opaque.Options
	MBA       mba.Options
	CFF       cff.Options
	Mask      mask.Options
}

// cacheKey: H(content || msgpack(requestKey)). ok is false when the output is
// not reproducible (random seed) and must not be cached.
func cacheKey(content []byte, req pipeline.Request) (key Digest, ok bool) {
	if req.Seed == 0 {
		return Digest{}, false
	}
	enc, err := msgpack.Marshal(requestKey{
		Schema:    diskCacheSchemaVersion,
		Functions: req.Functions,
		Seed:      req.Seed,
		Passes:    uint8(req.Passes),
		Strict:    req.Strict,
		Opaque:    req.Opaque,
		MBA:       req.MBA,
		CFF:       req.CFF,
		Mask:      req.Mask,
	})
	if err != nil {
		return Digest{}, false
	}
	h := sha256.New()
	_, _ = h.Write(content)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(enc)
	copy(key[:], h.Sum(nil))
	return key, true
}
