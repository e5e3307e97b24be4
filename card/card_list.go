package card

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
)

type CardList []Card

// Count returns the number of cards remaining.
func (ds CardList) Count() int {
	return len(ds)
}

// Shuffle permutes the list using a CSPRNG-seeded source. Production callers
// that need reproducibility (tests, replay) should use ShuffleWith and pass
// their own *mathrand.Rand instead.
func (ds CardList) Shuffle() {
	ds.ShuffleWith(mathrand.New(mathrand.NewSource(cryptoSeed())))
}

// ShuffleWith permutes the list in place using the supplied source, giving
// callers a deterministic, injectable Fisher-Yates shuffle for tests.
func (ds CardList) ShuffleWith(rng *mathrand.Rand) {
	rng.Shuffle(len(ds), func(i, j int) {
		ds[i], ds[j] = ds[j], ds[i]
	})
}

func cryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

func (ds *CardList) Add(cards ...Card) {
	*ds = append(*ds, cards...)
}

func (ds *CardList) PopCard() Card {
	totalCount := ds.Count()
	if totalCount == 0 {
		return CardInvalid
	}
	card := (*ds)[totalCount-1]
	*ds = (*ds)[:totalCount-1]
	return card
}

