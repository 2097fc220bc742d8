// Package castname generates readable default names for cast files, so an
// unnamed recording lands in "quiet-otter.cast" rather than a random hex
// suffix.
package castname

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"amber", "bold", "brisk", "calm", "clear",
	"cosmic", "crisp", "daring", "eager", "fleet",
	"gentle", "golden", "happy", "humble", "keen",
	"lively", "lunar", "merry", "misty", "noble",
	"pale", "proud", "quick", "quiet", "rapid",
	"rustic", "serene", "silent", "silver", "solar",
	"stoic", "sunny", "swift", "tidy", "vivid",
	"wise", "witty", "zesty",
}

var nouns = []string{
	"badger", "beacon", "comet", "cove", "crane",
	"delta", "dune", "ember", "falcon", "fjord",
	"gale", "glade", "harbor", "heron", "lagoon",
	"lynx", "meadow", "otter", "pebble", "pine",
	"prairie", "raven", "reef", "ridge", "river",
	"sparrow", "summit", "thicket", "tundra", "willow",
	"wren", "zephyr",
}

// Generate returns a random "adjective-noun" pair suitable as a file stem.
// It returns an empty string only if the system random source fails.
func Generate() string {
	adj, err := pick(adjectives)
	if err != nil {
		return ""
	}
	noun, err := pick(nouns)
	if err != nil {
		return ""
	}
	return adj + "-" + noun
}

func pick(words []string) (string, error) {
	if len(words) == 0 {
		return "", fmt.Errorf("empty word list")
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return words[n.Int64()], nil
}
