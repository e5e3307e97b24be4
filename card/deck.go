package card

// FullDeck is the canonical, ordered 52-card set: Spades A-K, then Hearts,
// Clubs, Diamonds, each A,2..9,T,J,Q,K. NewDeck returns a fresh copy so
// callers can shuffle without mutating the package-level slice.
var FullDeck = []Card{
	CardSpadeA, CardSpade2, CardSpade3, CardSpade4, CardSpade5, CardSpade6,
	CardSpade7, CardSpade8, CardSpade9, CardSpadeT, CardSpadeJ, CardSpadeQ, CardSpadeK,
	CardHeartA, CardHeart2, CardHeart3, CardHeart4, CardHeart5, CardHeart6,
	CardHeart7, CardHeart8, CardHeart9, CardHeartT, CardHeartJ, CardHeartQ, CardHeartK,
	CardClubA, CardClub2, CardClub3, CardClub4, CardClub5, CardClub6,
	CardClub7, CardClub8, CardClub9, CardClubT, CardClubJ, CardClubQ, CardClubK,
	CardDiamondA, CardDiamond2, CardDiamond3, CardDiamond4, CardDiamond5, CardDiamond6,
	CardDiamond7, CardDiamond8, CardDiamond9, CardDiamondT, CardDiamondJ, CardDiamondQ, CardDiamondK,
}

// NewDeck returns a fresh, unshuffled copy of the canonical 52-card deck.
func NewDeck() CardList {
	cards := make(CardList, len(FullDeck))
	copy(cards, FullDeck)
	return cards
}
