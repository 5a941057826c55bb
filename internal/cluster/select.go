package cluster

import "sort"

// clusterTree is the cluster-only view of a condensed tree: parent and child
// links between cluster ids, plus the birth lambda of each cluster.
type clusterTree struct {
	root     int
	children map[int][]int
	parent   map[int]int
	birth    map[int]float64
}

func newClusterTree(tree condensedTree) clusterTree {
	ct := clusterTree{
		root:     tree.n,
		children: make(map[int][]int),
		parent:   make(map[int]int),
		birth:    map[int]float64{tree.n: 0},
	}
	for _, e := range tree.edges {
		if e.child < tree.n {
			continue
		}
		ct.children[e.parent] = append(ct.children[e.parent], e.child)
		ct.parent[e.child] = e.parent
		ct.birth[e.child] = e.lambda
	}
	return ct
}

// birthEpsilon is the distance scale at which a cluster came into existence.
func (ct clusterTree) birthEpsilon(c int) float64 {
	return 1 / ct.birth[c]
}

func (ct clusterTree) descendants(c int) []int {
	var out []int
	stack := append([]int(nil), ct.children[c]...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		stack = append(stack, ct.children[cur]...)
	}
	return out
}

// selectClusters extracts the flat clustering from the condensed tree
// according to the selection method, then applies the epsilon merge floor.
// The root is never selected, so a dataset that is one uniform blob comes
// out as all noise rather than one giant cluster.
func selectClusters(tree condensedTree, p Params) map[int]bool {
	ct := newClusterTree(tree)

	var selected map[int]bool
	if p.SelectionMethod == MethodLeaf {
		selected = selectLeaves(ct)
	} else {
		selected = selectEOM(tree, ct)
	}

	if p.SelectionEpsilon > 0 {
		selected = applyEpsilon(ct, selected, p.SelectionEpsilon)
	}
	return selected
}

// selectEOM walks clusters bottom up. A cluster is kept when its own
// stability beats the combined stability of its children; otherwise the
// children win and their stability propagates upward.
func selectEOM(tree condensedTree, ct clusterTree) map[int]bool {
	stab := stabilities(tree)

	clusters := make([]int, 0, len(stab))
	for c := range stab {
		if c != ct.root {
			clusters = append(clusters, c)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(clusters)))

	selected := make(map[int]bool, len(clusters))
	for _, c := range clusters {
		subtree := 0.0
		for _, ch := range ct.children[c] {
			subtree += stab[ch]
		}
		if subtree > stab[c] {
			stab[c] = subtree
			selected[c] = false
		} else {
			selected[c] = true
			for _, d := range ct.descendants(c) {
				selected[d] = false
			}
		}
	}
	return selected
}

// selectLeaves picks the clusters with no cluster children.
func selectLeaves(ct clusterTree) map[int]bool {
	selected := make(map[int]bool)
	for c := range ct.birth {
		if c == ct.root {
			continue
		}
		selected[c] = len(ct.children[c]) == 0
	}
	return selected
}

// applyEpsilon reselects clusters so that none was born below the epsilon
// distance floor: a too-young cluster is replaced by its first ancestor born
// at or above epsilon. Direct children of the root stay as they are, since
// the root itself is never eligible.
func applyEpsilon(ct clusterTree, selected map[int]bool, epsilon float64) map[int]bool {
	picked := make([]int, 0, len(selected))
	for c, ok := range selected {
		if ok {
			picked = append(picked, c)
		}
	}
	sort.Ints(picked)

	out := make(map[int]bool, len(selected))
	processed := make(map[int]bool)
	for _, c := range picked {
		if processed[c] {
			continue
		}
		if ct.birthEpsilon(c) >= epsilon {
			out[c] = true
			continue
		}
		top := c
		for {
			par, ok := ct.parent[top]
			if !ok || par == ct.root {
				break
			}
			top = par
			if ct.birthEpsilon(top) >= epsilon {
				break
			}
		}
		out[top] = true
		for _, d := range ct.descendants(top) {
			processed[d] = true
		}
	}
	return out
}

// assignLabels maps every point to the nearest selected ancestor of the
// cluster it fell out of, or Noise when no ancestor was selected. Selected
// clusters are renumbered 0..k-1 in increasing id order.
func assignLabels(tree condensedTree, selected map[int]bool, n int) ([]int, int) {
	ct := newClusterTree(tree)

	sel := make([]int, 0, len(selected))
	for c, ok := range selected {
		if ok {
			sel = append(sel, c)
		}
	}
	sort.Ints(sel)
	final := make(map[int]int, len(sel))
	for i, c := range sel {
		final[c] = i
	}

	resolved := make(map[int]int)
	var resolve func(c int) int
	resolve = func(c int) int {
		if lbl, ok := resolved[c]; ok {
			return lbl
		}
		lbl := Noise
		if l, ok := final[c]; ok {
			lbl = l
		} else if par, ok := ct.parent[c]; ok {
			lbl = resolve(par)
		}
		resolved[c] = lbl
		return lbl
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = Noise
	}
	for _, e := range tree.edges {
		if e.child < n {
			labels[e.child] = resolve(e.parent)
		}
	}
	return labels, len(sel)
}
