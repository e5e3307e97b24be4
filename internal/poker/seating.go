package poker

import "sort"

// NextActingSeat returns the seat in liveSeats that follows `after` in
// cyclic (wrapping) ascending order. liveSeats need not be sorted or
// contain `after` itself; passing after=-1 returns the smallest seat,
// which doubles as "first dealer when there is no previous dealer".
func NextActingSeat(liveSeats []int, after int) (int, bool) {
	if len(liveSeats) == 0 {
		return 0, false
	}
	sorted := append([]int{}, liveSeats...)
	sort.Ints(sorted)
	for _, s := range sorted {
		if s > after {
			return s, true
		}
	}
	return sorted[0], true
}

// NextDealerSeat picks the next dealer button position: the next seated
// player, wrapping, with chips > 0 and not eliminated. Callers pass only
// eligible seats in eligibleSeats.
func NextDealerSeat(eligibleSeats []int, currentDealer int) (int, bool) {
	return NextActingSeat(eligibleSeats, currentDealer)
}
