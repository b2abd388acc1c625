package session

import (
	"fmt"
	"math/rand"
)

// Client-generated slugs follow the animal-furniture-number pattern, e.g.
// "owl-sofa-482". Server-created venues use their own random slugs; these
// only cover the offline "start drawing immediately" path.
var animals = []string{
	"owl", "fox", "lynx", "otter", "heron", "badger", "raven", "stoat",
	"mole", "wren", "hare", "swift", "crane", "finch", "seal", "ibex",
}

var furniture = []string{
	"sofa", "chair", "bench", "stool", "table", "desk", "shelf", "lamp",
	"chest", "divan", "hutch", "easel", "crate", "ottoman", "armoire", "settee",
}

// GenerateSlug synthesizes a new human-readable venue slug.
func GenerateSlug() string {
	return fmt.Sprintf(
		"%s-%s-%d",
		animals[rand.Intn(len(animals))],
		furniture[rand.Intn(len(furniture))],
		100+rand.Intn(900),
	)
}

// GeneratePIN produces a random 4-digit PIN.
func GeneratePIN() string {
	return fmt.Sprintf("%d", 1000+rand.Intn(9000))
}
