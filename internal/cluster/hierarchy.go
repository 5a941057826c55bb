package cluster

// sltMerge is one step of the single-linkage dendrogram. Node ids follow the
// scipy convention: ids below n are points, id n+i is the cluster created by
// merge i. The final merge, node 2n-2, is the root.
type sltMerge struct {
	left, right int
	dist        float64
	size        int
}

// singleLinkage turns weight-sorted spanning tree edges into a dendrogram
// using union-find with path compression.
func singleLinkage(edges []mstEdge, n int) []sltMerge {
	parent := make([]int, n)
	nodeOf := make([]int, n)
	for i := range parent {
		parent[i] = i
		nodeOf[i] = i
	}

	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}

	merges := make([]sltMerge, 0, n-1)
	sizeOf := func(node int) int {
		if node < n {
			return 1
		}
		return merges[node-n].size
	}

	for i, e := range edges {
		ra, rb := find(e.a), find(e.b)
		na, nb := nodeOf[ra], nodeOf[rb]
		merges = append(merges, sltMerge{
			left:  na,
			right: nb,
			dist:  e.w,
			size:  sizeOf(na) + sizeOf(nb),
		})
		parent[ra] = rb
		nodeOf[rb] = n + i
	}
	return merges
}

// condEdge is one edge of the condensed tree. A child below n is a point
// falling out of its parent cluster at density level lambda; a child of n or
// above is a cluster splitting off with the given size.
type condEdge struct {
	parent int
	child  int
	lambda float64
	size   int
}

type condensedTree struct {
	edges []condEdge
	// n is the point count. The root cluster has id n, further clusters get
	// consecutive ids above it.
	n          int
	maxCluster int
}

// condense walks the dendrogram top down and keeps only splits where both
// sides have at least minClusterSize points. Smaller fragments are recorded
// as individual points falling out of the surviving cluster.
func condense(merges []sltMerge, n, minClusterSize int) condensedTree {
	root := 2*n - 2
	relabel := make(map[int]int, n)
	relabel[root] = n
	nextLabel := n + 1
	ignore := make(map[int]bool)
	edges := make([]condEdge, 0, n)

	for _, node := range bfsOrder(merges, root, n) {
		if node < n || ignore[node] {
			continue
		}
		m := merges[node-n]
		lambda := lambdaOf(m.dist)
		cur := relabel[node]
		lsz := subtreeSize(merges, m.left, n)
		rsz := subtreeSize(merges, m.right, n)

		switch {
		case lsz >= minClusterSize && rsz >= minClusterSize:
			relabel[m.left] = nextLabel
			edges = append(edges, condEdge{parent: cur, child: nextLabel, lambda: lambda, size: lsz})
			nextLabel++
			relabel[m.right] = nextLabel
			edges = append(edges, condEdge{parent: cur, child: nextLabel, lambda: lambda, size: rsz})
			nextLabel++
		case lsz < minClusterSize && rsz < minClusterSize:
			for _, leaf := range leavesUnder(merges, m.left, n, ignore) {
				edges = append(edges, condEdge{parent: cur, child: leaf, lambda: lambda, size: 1})
			}
			for _, leaf := range leavesUnder(merges, m.right, n, ignore) {
				edges = append(edges, condEdge{parent: cur, child: leaf, lambda: lambda, size: 1})
			}
		case lsz < minClusterSize:
			relabel[m.right] = cur
			for _, leaf := range leavesUnder(merges, m.left, n, ignore) {
				edges = append(edges, condEdge{parent: cur, child: leaf, lambda: lambda, size: 1})
			}
		default:
			relabel[m.left] = cur
			for _, leaf := range leavesUnder(merges, m.right, n, ignore) {
				edges = append(edges, condEdge{parent: cur, child: leaf, lambda: lambda, size: 1})
			}
		}
	}

	return condensedTree{edges: edges, n: n, maxCluster: nextLabel - 1}
}

// bfsOrder lists node ids reachable from start, parents before children.
func bfsOrder(merges []sltMerge, start, n int) []int {
	order := []int{start}
	for i := 0; i < len(order); i++ {
		node := order[i]
		if node >= n {
			m := merges[node-n]
			order = append(order, m.left, m.right)
		}
	}
	return order
}

func subtreeSize(merges []sltMerge, node, n int) int {
	if node < n {
		return 1
	}
	return merges[node-n].size
}

// leavesUnder collects the points below node and marks the internal nodes
// visited so the condense walk skips them.
func leavesUnder(merges []sltMerge, node, n int, ignore map[int]bool) []int {
	var leaves []int
	stack := []int{node}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur < n {
			leaves = append(leaves, cur)
			continue
		}
		ignore[cur] = true
		m := merges[cur-n]
		stack = append(stack, m.left, m.right)
	}
	return leaves
}

// stabilities computes, per cluster, the total persistence of its members:
// the sum over departing children of (departure lambda - birth lambda) times
// the child size.
func stabilities(tree condensedTree) map[int]float64 {
	birth := make(map[int]float64, tree.maxCluster-tree.n+1)
	birth[tree.n] = 0
	for _, e := range tree.edges {
		if e.child >= tree.n {
			birth[e.child] = e.lambda
		}
	}

	stab := make(map[int]float64, len(birth))
	for c := tree.n; c <= tree.maxCluster; c++ {
		stab[c] = 0
	}
	for _, e := range tree.edges {
		stab[e.parent] += (e.lambda - birth[e.parent]) * float64(e.size)
	}
	return stab
}
