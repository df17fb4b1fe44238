package graph

import "sort"

// Delta is the identity-keyed difference between two snapshots.
type Delta struct {
	AddedNodes    []NodeID
	RemovedNodes  []NodeID
	RetainedNodes []NodeID
	AddedEdges    []EdgeKey
	RemovedEdges  []EdgeKey
	RetainedEdges []EdgeKey
}

// Empty reports whether membership is unchanged.
func (d Delta) Empty() bool {
	return len(d.AddedNodes) == 0 && len(d.RemovedNodes) == 0 &&
		len(d.AddedEdges) == 0 && len(d.RemovedEdges) == 0
}

// Diff matches nodes by id and edges by unordered endpoint pair. Positions are
// never consulted. All slices are sorted ascending.
func Diff(prev, next Snapshot) Delta {
	var d Delta

	for _, n := range next.nodes {
		if prev.Contains(n.ID) {
			d.RetainedNodes = append(d.RetainedNodes, n.ID)
		} else {
			d.AddedNodes = append(d.AddedNodes, n.ID)
		}
	}
	for _, n := range prev.nodes {
		if !next.Contains(n.ID) {
			d.RemovedNodes = append(d.RemovedNodes, n.ID)
		}
	}

	for key := range next.keys {
		if _, ok := prev.keys[key]; ok {
			d.RetainedEdges = append(d.RetainedEdges, key)
		} else {
			d.AddedEdges = append(d.AddedEdges, key)
		}
	}
	for key := range prev.keys {
		if _, ok := next.keys[key]; !ok {
			d.RemovedEdges = append(d.RemovedEdges, key)
		}
	}

	sortIDs(d.AddedNodes)
	sortIDs(d.RemovedNodes)
	sortIDs(d.RetainedNodes)
	sortKeys(d.AddedEdges)
	sortKeys(d.RemovedEdges)
	sortKeys(d.RetainedEdges)
	return d
}

func sortIDs(ids []NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func sortKeys(keys []EdgeKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].A != keys[j].A {
			return keys[i].A < keys[j].A
		}
		return keys[i].B < keys[j].B
	})
}
