package pipeline

import (
	"fmt"
	"strings"

	"shroud/internal/cff"
	"shroud/internal/mask"
	"shroud/internal/mba"
	"shroud/internal/opaque"
)

// Pass is one transform. The run order is fixed regardless of how a set
// was spelled.
type Pass uint8

const (
	PassEncode Pass = 1 << iota
	PassOpaque
	PassMBA
	PassCFF
	PassMask
)

var passNames = []struct {
	pass Pass
	name string
}{
	{PassEncode, "encode"},
	{PassOpaque, "opaque"},
	{PassMBA, "mba"},
	{PassCFF, "cff"},
	{PassMask, "mask"},
}

func (p Pass) String() string {
	for _, pn := range passNames {
		if pn.pass == p {
			return pn.name
		}
	}
	return "unknown"
}

// PassSet is a bit set of passes.
type PassSet uint8

// AllPasses enables every transform.
const AllPasses PassSet = PassSet(PassEncode | PassOpaque | PassMBA | PassCFF | PassMask)

// Has reports whether p is enabled.
func (s PassSet) Has(p Pass) bool { return s&PassSet(p) != 0 }

// String lists the enabled passes in run order.
func (s PassSet) String() string {
	var parts []string
	for _, pn := range passNames {
		if s.Has(pn.pass) {
			parts = append(parts, pn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// ParsePasses reads a comma separated list such as "encode,mba". "all" and
// the empty string enable everything, "none" nothing.
func ParsePasses(s string) (PassSet, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "all":
		return AllPasses, nil
	case "none":
		return 0, nil
	}
	var set PassSet
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		found := false
		for _, pn := range passNames {
			if pn.name == part {
				set |= PassSet(pn.pass)
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown pass %q (want encode, opaque, mba, cff, mask)", part)
		}
	}
	return set, nil
}

// Request configures one run.
type Request struct {
	Functions []string // empty means every top-level function
	Seed      int64    // 0 picks a random seed, reported in Result.Seed
	Passes    PassSet
	Strict    bool
	Jobs      int // per-function workers; <= 0 uses GOMAXPROCS

	Opaque opaque.Options
	MBA    mba.Options
	CFF    cff.Options
	Mask   mask.Options
}

// DefaultRequest enables every pass with default settings.
func DefaultRequest() Request {
	return Request{
		Passes: AllPasses,
		Opaque: opaque.DefaultOptions(),
		MBA:    mba.DefaultOptions(),
		CFF:    cff.DefaultOptions(),
		Mask:   mask.DefaultOptions(),
	}
}
