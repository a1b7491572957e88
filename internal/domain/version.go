package domain

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// GameVersion identifies a distinct installable build.
// It is used as a map key and ordered with Compare.
type GameVersion string

func (v GameVersion) String() string {
	return string(v)
}

// Semver parses the version as a semantic version.
// A leading "v" is accepted.
func (v GameVersion) Semver() (*semver.Version, bool) {
	sv, err := semver.NewVersion(strings.TrimSpace(string(v)))
	if err != nil {
		return nil, false
	}
	return sv, true
}

// Compare returns -1, 0 or 1. Semantic versions compare semantically and
// sort after anything that is not one; everything else compares lexically.
func (v GameVersion) Compare(other GameVersion) int {
	a, aok := v.Semver()
	b, bok := other.Semver()
	switch {
	case aok && bok:
		if c := a.Compare(b); c != 0 {
			return c
		}
		// 1.0 and v1.0.0 are equal as semver but distinct keys
		return strings.Compare(string(v), string(other))
	case aok:
		return 1
	case bok:
		return -1
	default:
		return strings.Compare(string(v), string(other))
	}
}

// Less reports whether v sorts before other
func (v GameVersion) Less(other GameVersion) bool {
	return v.Compare(other) < 0
}
