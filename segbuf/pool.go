// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"fmt"
	"sync"

	"code.hybscloud.com/iobuf"
)

// SegmentSize is the fixed size, in bytes, of every segment managed by
// every Group in every Pool. It is a package var, in the manner of
// iobuf.PageSize, so tests can shrink it to make group-sized scenarios
// cheap to construct; production code should treat it as a constant set
// once at process start.
var SegmentSize uintptr = 1 << 16

// SetSegmentSize updates the package-level segment size. Groups do not
// record their own segment size: every group, including ones created
// before the call, reads the current SegmentSize on each operation.
func SetSegmentSize(size uintptr) {
	SegmentSize = size
}

const (
	// initialSegmentsPerGroup is the segment count of every group in
	// generation 0.
	initialSegmentsPerGroup = 16

	// MaxAllowedGroupSegmentCount caps how large a single group's
	// segment count can grow across generations.
	MaxAllowedGroupSegmentCount = 64 * 9

	// groupsPerGeneration is the fixed number of groups a generation
	// holds before the pool opens the next, larger-group generation.
	groupsPerGeneration = 4
)

// PoolKind selects how a Pool's groups obtain their backing memory.
type PoolKind = storeKind

// generationTier tracks one tier of same-sized groups.
type generationTier struct {
	groupSegmentCount uint32
	groupCount        int
}

// groupSegmentCountForGeneration returns the segment count new groups
// in generation index use: doubling from initialSegmentsPerGroup each
// generation, capped at MaxAllowedGroupSegmentCount.
func groupSegmentCountForGeneration(index int) uint32 {
	count := uint64(initialSegmentsPerGroup) << uint(index)
	if count > MaxAllowedGroupSegmentCount || count < initialSegmentsPerGroup {
		// the shift can overflow for pathologically large indices;
		// both overflow and the explicit cap land here.
		return MaxAllowedGroupSegmentCount
	}
	return uint32(count)
}

// Pool is a process-wide coordinator dispatching GetBuffer across an
// ordered, append-only collection of Groups, and creating new Groups on
// demand per the generation policy. Pool is safe for concurrent use.
type Pool struct {
	_ noCopy

	kind PoolKind

	mu          sync.RWMutex
	groups      []*Group
	byBlockID   map[uint64]*Group
	generations []generationTier
	nextBlockID uint64
}

// NewPool creates an empty Pool of the given kind. Groups are created
// lazily, on the first GetBuffer call that needs one.
func NewPool(kind PoolKind) *Pool {
	return &Pool{
		kind:      kind,
		byBlockID: make(map[uint64]*Group),
	}
}

// GetBuffer satisfies a request for size bytes, optionally zero-filled,
// optionally preferring to start at preferred's segment if it names a
// group this pool owns and that segment is currently free. It walks
// existing groups in creation order and returns the first Available
// result; if every group reports GroupFull, it creates a new group per
// the generation policy and retries.
//
// A request larger than any single group is not an error: the returned
// handle may cover fewer segments than requested, and the caller (the
// stream facade) is expected to issue follow-up requests for the
// remainder.
func (p *Pool) GetBuffer(size uint32, requireZeroed bool, preferred *BufferInfo) (*SegmentBuffer, error) {
	if size == 0 {
		return nil, ErrInvalidArgument
	}

	for {
		p.mu.RLock()
		groups := p.groups
		p.mu.RUnlock()

		for _, g := range groups {
			preferredFirstSegment := -1
			if preferred != nil && preferred.BlockID == g.blockID {
				preferredFirstSegment = int(preferred.FirstSegment)
			}
			buf, res, _ := g.GetBuffer(size, requireZeroed, preferredFirstSegment)
			if res == Available {
				return buf, nil
			}
		}

		if err := p.createGroup(); err != nil {
			return nil, err
		}
	}
}

// ReleaseBuffer routes handle to its owning group, via an O(1) block-id
// lookup, and releases it there. The handle is left inert: further use
// is a use-after-release error.
func (p *Pool) ReleaseBuffer(buf *SegmentBuffer, zeroOnRelease bool) {
	p.mu.RLock()
	g, ok := p.byBlockID[buf.info.BlockID]
	p.mu.RUnlock()
	if !ok {
		panic(fmt.Errorf("%w: no group owns block %d", ErrWrongOwner, buf.info.BlockID))
	}
	g.ReleaseBuffer(buf.info, zeroOnRelease)
	buf.group = nil
}

// Get acquires a single-segment, non-zero-filled buffer, satisfying
// iobuf.Pool[*SegmentBuffer] for callers that already code against the
// teacher's generic pool interface and have no placement or zero-fill
// requirement.
func (p *Pool) Get() (item *SegmentBuffer, err error) {
	return p.GetBuffer(uint32(SegmentSize), false, nil)
}

// Put releases item without zero-filling, satisfying
// iobuf.Pool[*SegmentBuffer].
func (p *Pool) Put(item *SegmentBuffer) error {
	p.ReleaseBuffer(item, false)
	return nil
}

// Pool implements iobuf.Pool[*SegmentBuffer] alongside its own richer
// GetBuffer/ReleaseBuffer surface, the way segbuf.SegmentBuffer reuses
// iobuf.IoVec rather than inventing a parallel vectored-I/O type.
var _ iobuf.Pool[*SegmentBuffer] = (*Pool)(nil)

// createGroup appends one new group to the pool, opening a new,
// larger-group generation if the current one has reached
// groupsPerGeneration groups.
func (p *Pool) createGroup() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.generations) == 0 || p.generations[len(p.generations)-1].groupCount >= groupsPerGeneration {
		p.generations = append(p.generations, generationTier{
			groupSegmentCount: groupSegmentCountForGeneration(len(p.generations)),
		})
	}
	gen := &p.generations[len(p.generations)-1]

	blockID := p.nextBlockID
	g, err := newGroup(blockID, p.kind, gen.groupSegmentCount)
	if err != nil {
		return err
	}
	p.nextBlockID++
	gen.groupCount++
	p.groups = append(p.groups, g)
	p.byBlockID[blockID] = g
	return nil
}
