package game

// RoundScore is the score change for a player who bid bid and took won
// tricks: 20 plus 10 per trick for an exact bid, minus 10 per trick of
// difference otherwise.
func RoundScore(bid, won int) int {
	if bid == won {
		return 20 + 10*bid
	}
	diff := won - bid
	if diff < 0 {
		diff = -diff
	}
	return -10 * diff
}
