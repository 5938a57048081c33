package frame

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestWarnings(t *testing.T) {
	with := func(mut func(*Params)) Params {
		p := DefaultParams()
		mut(&p)
		return p
	}

	specs := []struct {
		descr string
		in    Params
		exp   []string
	}{
		{
			descr: "defaults",
			in:    DefaultParams(),
		},
		{
			descr: "high exposure",
			in:    with(func(p *Params) { p.ExposureMs = 700 }),
			exp:   []string{WarnHighExposure},
		},
		{
			descr: "exposure on the threshold",
			in:    with(func(p *Params) { p.ExposureMs = 650 }),
		},
		{
			descr: "beam center x near edge",
			in:    with(func(p *Params) { p.BeamCenterX = 0.9 }),
			exp:   []string{WarnBeamNearEdge},
		},
		{
			descr: "beam center in a corner",
			in:    with(func(p *Params) { p.BeamCenterX, p.BeamCenterY = 0.1, 0.95 }),
			exp:   []string{WarnBeamNearEdge, WarnBeamNearEdge},
		},
		{
			descr: "quiet setup",
			in: Params{
				IncidenceDeg:       0.2,
				BeamCenterX:        0.5,
				BeamCenterY:        0.5,
				DetectorDistanceMm: 250,
				ExposureMs:         200,
			},
		},
		{
			descr: "everything at once",
			in: Params{
				IncidenceDeg:       0.9,
				BeamCenterX:        0,
				BeamCenterY:        1,
				DetectorDistanceMm: 100,
				ExposureMs:         800,
				Binning:            1,
			},
			exp: []string{
				WarnHighExposure,
				WarnBeamNearEdge,
				WarnBeamNearEdge,
				WarnHighIncidence,
				WarnShortDistance,
			},
		},
	}

	for _, spec := range specs {
		t.Run(spec.descr, func(t *testing.T) {
			got := Warnings(spec.in)
			if diff := cmp.Diff(spec.exp, got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("unexpected warnings (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParamsString(t *testing.T) {
	exp := "inc=0.20°  bc=(0.50,0.55)  dist=250mm  tilt=3.0°  exp=220ms  bin=1x"
	if got := DefaultParams().String(); got != exp {
		t.Fatalf("expected %q; got %q", exp, got)
	}
}
