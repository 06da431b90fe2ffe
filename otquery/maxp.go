package otquery

import (
	"github.com/npillmayer/otdecode/ot"
)

// MaxPTableInfo is a query view over OpenType table 'maxp'.
// For version 1.0 tables, the TrueType profile fields are set.
type MaxPTableInfo struct {
	Version   string // "0.5" or "1.0"
	NumGlyphs int

	// TrueType profile fields (version 1.0 only)
	HasExtendedProfile bool
	MaxPoints          uint16
	MaxContours        uint16
	MaxComponentDepth  uint16
	MaxZones           uint16
	MaxStackElements   uint16
}

// MaxPInfo returns a view of table 'maxp'.
// Returns (info, true) on success, or (zero, false) if the table is missing.
func MaxPInfo(otf *ot.Font) (MaxPTableInfo, bool) {
	var info MaxPTableInfo
	if otf == nil || otf.MaxP == nil {
		return info, false
	}
	maxp := otf.MaxP
	info.NumGlyphs = maxp.NumGlyphs
	info.Version = "0.5"
	if maxp.Version == 0x00010000 {
		info.Version = "1.0"
	}
	profile, ok := maxp.Profile.Unwrap()
	if !ok {
		return info, true
	}
	info.HasExtendedProfile = true
	info.MaxPoints = profile.MaxPoints
	info.MaxContours = profile.MaxContours
	info.MaxComponentDepth = profile.MaxComponentDepth
	info.MaxZones = profile.MaxZones
	info.MaxStackElements = profile.MaxStackElements
	return info, true
}

// MaxPoints returns the maximum number of points in a simple glyph, if the
// font carries a TrueType profile.
func MaxPoints(otf *ot.Font) ot.Option[uint16] {
	if otf == nil || otf.MaxP == nil {
		return ot.None[uint16]()
	}
	return ot.Map(otf.MaxP.Profile, func(p ot.MaxPProfile) uint16 {
		return p.MaxPoints
	})
}
