package strset

// Bundle ties together an active buffer, a shadow buffer of equal
// capacity, and optionally an LCP array and a cached-first-difference
// byte array aligned with the eventual output (spec.md §3 "ShadowBundle
// (SB)"). A Bundle never resizes either buffer; it only flips which one
// is "active" and slices sub-ranges of both in lockstep.
type Bundle struct {
	Active Slice
	Shadow Slice
	LCP    []uint32 // nil if LCPs were not requested
	Cache  []byte   // nil if cache bytes were not requested

	// flipped is true when Active currently points at scratch storage
	// and Shadow points at the caller-visible "original" buffer.
	flipped bool
}

// NewBundle allocates a fresh shadow buffer of the same length as active
// and wraps it, lcp, and cache into a Bundle. lcp and cache may be nil.
func NewBundle(active Slice, lcp []uint32, cache []byte) *Bundle {
	return &Bundle{
		Active: active,
		Shadow: make(Slice, len(active)),
		LCP:    lcp,
		Cache:  cache,
	}
}

// Size returns the number of strings this bundle covers.
func (b *Bundle) Size() int { return len(b.Active) }

func subU32(s []uint32, off, ln int) []uint32 {
	if s == nil {
		return nil
	}
	return s[off : off+ln]
}

func subByte(s []byte, off, ln int) []byte {
	if s == nil {
		return nil
	}
	return s[off : off+ln]
}

// Sub returns a restricted sub-bundle over [off,off+ln), keeping the
// active/shadow roles as they are in b.
func (b *Bundle) Sub(off, ln int) *Bundle {
	return &Bundle{
		Active:  b.Active[off : off+ln],
		Shadow:  b.Shadow[off : off+ln],
		LCP:     subU32(b.LCP, off, ln),
		Cache:   subByte(b.Cache, off, ln),
		flipped: b.flipped,
	}
}

// Flip returns a sub-bundle over [off,off+ln) with active/shadow roles
// swapped, used once a distribute phase has permuted this range into
// the shadow buffer, which becomes the active buffer for the next
// recursion level.
func (b *Bundle) Flip(off, ln int) *Bundle {
	return &Bundle{
		Active:  b.Shadow[off : off+ln],
		Shadow:  b.Active[off : off+ln],
		LCP:     subU32(b.LCP, off, ln),
		Cache:   subByte(b.Cache, off, ln),
		flipped: !b.flipped,
	}
}

// CopyBack ensures the sorted region resides in the caller-visible
// ("original") buffer. If this bundle is currently flipped (meaning
// Active points at scratch storage and Shadow points at the original)
// it copies the sorted data back into Shadow and un-flips, so Active
// once again names the original buffer.
func (b *Bundle) CopyBack() {
	if !b.flipped {
		return
	}
	copy(b.Shadow, b.Active)
	b.Active, b.Shadow = b.Shadow, b.Active
	b.flipped = false
}

// SetLCP records lcp[i] = v, if an LCP array was requested.
func (b *Bundle) SetLCP(i int, v uint32) {
	if b.LCP != nil {
		b.LCP[i] = v
	}
}

// SetCache records cache[i] = c, if a cache array was requested.
func (b *Bundle) SetCache(i int, c byte) {
	if b.Cache != nil {
		b.Cache[i] = c
	}
}

// FillLCP broadcasts d to every LCP position in this bundle's range
// except index 0, used when an entire sub-range is a run of strings
// sharing a NUL-terminated common prefix, so every adjacent pair within
// the run has the same LCP. Index 0 is excluded because it is the
// boundary against whatever precedes this range, handled separately by
// the caller (FillBucketLCPs).
func (b *Bundle) FillLCP(d uint32) {
	if b.LCP == nil {
		return
	}
	for i := 1; i < len(b.LCP); i++ {
		b.LCP[i] = d
	}
}
