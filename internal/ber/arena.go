package ber

import (
	"fmt"
	"sort"
)

// NoParent is the parent index of root nodes.
const NoParent = -1

// NodeFlags mark nodes the scanner could not fully trust.
type NodeFlags uint8

const (
	// FlagMalformed marks a node whose header decoded but whose value range
	// could not be established. Its value range is empty.
	FlagMalformed NodeFlags = 1 << iota
	// FlagSkipped marks a root whose tag was rejected by Options.KnownRoot.
	// Its children were not scanned.
	FlagSkipped
	// FlagRecovered marks a node scanned from the octets after a malformed
	// sibling's header. Its parent's length covers it but no header does.
	FlagRecovered
)

// Node is one TLV in the arena. Offsets index the scanned buffer.
type Node struct {
	Class       Class
	Constructed bool
	Indefinite  bool
	Flags       NodeFlags
	Depth       uint16
	Number      uint32
	Parent      int32
	TLVStart    int
	ValueStart  int
	ValueLength int
}

func (n Node) Malformed() bool { return n.Flags&FlagMalformed != 0 }
func (n Node) Skipped() bool   { return n.Flags&FlagSkipped != 0 }
func (n Node) Recovered() bool { return n.Flags&FlagRecovered != 0 }
func (n Node) ValueEnd() int   { return n.ValueStart + n.ValueLength }

// Fault is a structural error confined to one record.
type Fault struct {
	Root   int
	Parent int
	// Node is the malformed node index, or -1 when no header could be read.
	Node int
	Err  *StructuralError
}

// Arena is the flat result of a structural scan. Nodes are stored in
// depth-first pre-order, so every root's subtree is the contiguous index range
// up to the next root. An Arena is read-only once Scan returns.
type Arena struct {
	nodes  []Node
	roots  []int
	faults []Fault
	stop   *StructuralError
	// Padding counts filler octets skipped between records.
	Padding int
}

func (a *Arena) Len() int { return len(a.nodes) }

func (a *Arena) Node(i int) Node { return a.nodes[i] }

// Roots returns root node indices in file order. The slice must not be modified.
func (a *Arena) Roots() []int { return a.roots }

// Faults returns all in-record faults in scan order.
func (a *Arena) Faults() []Fault { return a.faults }

// Stop returns the depth-0 error that ended the scan early, if any.
func (a *Arena) Stop() *StructuralError { return a.stop }

// Subtree returns the half-open index range [root, end) covering the root and
// all of its descendants.
func (a *Arena) Subtree(root int) (int, int) {
	k := sort.SearchInts(a.roots, root)
	if k+1 < len(a.roots) {
		return root, a.roots[k+1]
	}
	return root, len(a.nodes)
}

// FaultsFor returns the faults recorded while scanning root's subtree.
func (a *Arena) FaultsFor(root int) []Fault {
	lo := sort.Search(len(a.faults), func(i int) bool { return a.faults[i].Root >= root })
	hi := sort.Search(len(a.faults), func(i int) bool { return a.faults[i].Root > root })
	return a.faults[lo:hi]
}

// Validate checks the arena invariants: roots are depth 0 with no parent and
// appear in file order without nesting; every other node has an earlier
// parent one level up whose value range contains its own.
func (a *Arena) Validate() error {
	prevRootEnd := -1
	for i, n := range a.nodes {
		if n.Depth == 0 {
			if n.Parent != NoParent {
				return fmt.Errorf("ber: node %d: depth 0 with parent %d", i, n.Parent)
			}
			if n.TLVStart < prevRootEnd {
				return fmt.Errorf("ber: node %d: root overlaps previous root", i)
			}
			prevRootEnd = n.ValueEnd()
			continue
		}
		p := int(n.Parent)
		if p == NoParent || p >= i {
			return fmt.Errorf("ber: node %d: invalid parent %d", i, p)
		}
		parent := a.nodes[p]
		if n.Depth != parent.Depth+1 {
			return fmt.Errorf("ber: node %d: depth %d under parent depth %d", i, n.Depth, parent.Depth)
		}
		if n.ValueStart < parent.ValueStart || n.ValueEnd() > parent.ValueEnd() {
			return fmt.Errorf("ber: node %d: value range [%d,%d) outside parent [%d,%d)",
				i, n.ValueStart, n.ValueEnd(), parent.ValueStart, parent.ValueEnd())
		}
	}
	for k, r := range a.roots {
		if a.nodes[r].Depth != 0 {
			return fmt.Errorf("ber: root %d: node %d has depth %d", k, r, a.nodes[r].Depth)
		}
	}
	return nil
}
