package frame

// Operator-facing warning texts.
const (
	WarnHighExposure  = "High exposure: saturation risk elevated."
	WarnBeamNearEdge  = "Beam center near edge: frame may clip features."
	WarnHighIncidence = "High incidence angle: grazing geometry may be inconsistent with sample."
	WarnShortDistance = "Short detector distance: features may be strongly distorted."
)

// Warning thresholds.
const (
	MaxSafeExposureMs   = 650
	MinSafeBeamCenter   = 0.15
	MaxSafeBeamCenter   = 0.85
	MaxSafeIncidenceDeg = 0.75
	MinSafeDistanceMm   = 140
)

// Warnings evaluates p field by field and returns the warnings that apply, in
// a fixed order. Each beam center axis is checked on its own, so a corner
// position reports the edge warning twice.
func Warnings(p Params) []string {
	var warnings []string
	if p.ExposureMs > MaxSafeExposureMs {
		warnings = append(warnings, WarnHighExposure)
	}
	if nearEdge(p.BeamCenterX) {
		warnings = append(warnings, WarnBeamNearEdge)
	}
	if nearEdge(p.BeamCenterY) {
		warnings = append(warnings, WarnBeamNearEdge)
	}
	if p.IncidenceDeg > MaxSafeIncidenceDeg {
		warnings = append(warnings, WarnHighIncidence)
	}
	if p.DetectorDistanceMm < MinSafeDistanceMm {
		warnings = append(warnings, WarnShortDistance)
	}
	return warnings
}

func nearEdge(fraction float64) bool {
	return fraction < MinSafeBeamCenter || fraction > MaxSafeBeamCenter
}
