package standards

import (
	"errors"
	"fmt"
	"strings"
)

// Standard identifies one column of the spectral weighting table.
type Standard string

const (
	Unweighted Standard = "Unweighted"

	RP27Skin Standard = "ANSI IES RP 27.1-22 (Skin)"
	RP27Eye  Standard = "ANSI IES RP 27.1-22 (Eye)"
	IEC62471 Standard = "IEC 62471-6:2022 (Eye/Skin)"
)

const (
	familyRP27 = "ANSI IES RP 27.1-22"
	familyIEC  = "IEC 62471-6:2022"
)

var ErrInvalidStandard = errors.New("invalid standard")

// Known is the closed set of spectrum keys a lamp may carry.
var Known = []Standard{Unweighted, RP27Skin, RP27Eye, IEC62471}

func (s Standard) Valid() bool {
	for _, k := range Known {
		if k == s {
			return true
		}
	}
	return false
}

// Parse converts a spectrum key into a Standard.
func Parse(key string) (Standard, error) {
	s := Standard(key)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown spectrum key %q", ErrInvalidStandard, key)
	}
	return s, nil
}

// Resolve returns the skin and eye limit standards for a room standard label.
// IEC 62471-6 uses one curve for both.
func Resolve(label string) (skin, eye Standard, err error) {
	switch {
	case strings.Contains(label, familyRP27):
		return RP27Skin, RP27Eye, nil
	case strings.Contains(label, familyIEC):
		return IEC62471, IEC62471, nil
	default:
		return "", "", fmt.Errorf("%w: room standard %q is not valid", ErrInvalidStandard, label)
	}
}
