package lens

// A ghost is an ordered pair of bounce interfaces: light travels up the
// stack, reflects off Bounce1, travels back down, reflects off Bounce2 and
// continues towards the sensor. Bounce1 > Bounce2 always holds.
type Ghost struct {
	Bounce1 int32
	Bounce2 int32
}

// Enumerate every two-bounce reflection sequence for a stack of n
// interfaces. Bounce indices stay strictly inside the stack (never 0 or n-1)
// and the bounces are separated by at least one interface. The enumeration
// order is deterministic: the second bounce advances in the outer loop, so
// the first ghost of the Nikon stack is {3, 1}.
func EnumerateGhosts(n int) []Ghost {
	ghosts := make([]Ghost, 0, GhostCount(n))
	for b2 := 1; b2 < n-1; b2++ {
		for b1 := b2 + 2; b1 < n-1; b1++ {
			ghosts = append(ghosts, Ghost{Bounce1: int32(b1), Bounce2: int32(b2)})
		}
	}
	return ghosts
}

// The number of ghosts EnumerateGhosts produces for a stack of n
// interfaces: (n-4)(n-3)/2, or zero for stacks too short to form a ghost.
func GhostCount(n int) int {
	if n < 5 {
		return 0
	}
	return (n - 4) * (n - 3) / 2
}
