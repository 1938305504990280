// ============================================================================
// opspy - OpenSees call spy
// ============================================================================
//
// Package:     elements
// Description: Element categories and their grammar
// Author:      Mike Stoffels
// Created:     2025-10-15
// License:     MIT
// ============================================================================

package elements

import (
	"github.com/msto63/opspy/foundation/spy/grammar"
)

// category groups element types sharing grammar conventions
type category struct {
	name  string
	rules map[string]*grammar.Rule

	// defaults fill fields the selected rule declares but the call omitted
	defaults map[string]any
}

func (c category) grammar() grammar.Set {
	return grammar.Set{"element": &grammar.Alternative{Discriminator: "eleType", Rules: c.rules}}
}

// unknownRule parses element types no category describes
var unknownRule = grammar.MustRule([]string{"eleType", "eleTag", "args*"})

func trussCategory() category {
	opts := []grammar.FlagSpec{
		grammar.Opt("-rho", "rho"),
		grammar.Opt("-cMass", "cFlag"),
		grammar.Opt("-doRayleigh", "rFlag"),
	}
	material := grammar.MustRule([]string{"eleType", "eleTag", "eleNodes*2", "A", "matTag"}, opts...)
	section := grammar.MustRule([]string{"eleType", "eleTag", "eleNodes*2", "secTag"}, opts...)

	return category{
		name: "truss",
		rules: map[string]*grammar.Rule{
			"Truss":             material,
			"corotTruss":        material,
			"TrussSection":      section,
			"corotTrussSection": section,
		},
		defaults: map[string]any{"rho": 0.0, "cFlag": 0, "rFlag": 0},
	}
}

func beamColumnCategory() category {
	massOpts := []grammar.FlagSpec{
		grammar.Opt("-mass", "massDens"),
		grammar.Opt("-cMass", "cMass*0"),
	}
	elastic := append(append([]grammar.FlagSpec{}, massOpts...),
		grammar.Opt("-release", "releaseCode"),
		grammar.Opt("-releasez", "releaseZ"),
		grammar.Opt("-releasey", "releaseY"),
	)
	nonlinear := append(append([]grammar.FlagSpec{}, massOpts...),
		grammar.Opt("-iter", "maxIter", "tol"),
	)

	return category{
		name: "beamColumn",
		rules: map[string]*grammar.Rule{
			"elasticBeamColumn": grammar.MustRule([]string{"eleType", "eleTag", "eleNodes*2", "props*"}, elastic...),
			"ModElasticBeam2d": grammar.MustRule(
				[]string{"eleType", "eleTag", "eleNodes*2", "Area", "E_mod", "Iz", "K11", "K33", "K44", "transfTag"},
				massOpts...),
			"dispBeamColumn":  grammar.MustRule([]string{"eleType", "eleTag", "eleNodes*2", "transfTag", "integrationTag"}, nonlinear...),
			"forceBeamColumn": grammar.MustRule([]string{"eleType", "eleTag", "eleNodes*2", "transfTag", "integrationTag"}, nonlinear...),
		},
		defaults: map[string]any{"massDens": 0.0, "cMass": false, "maxIter": 10, "tol": 1e-8},
	}
}

func zeroLengthCategory() category {
	orient := grammar.Opt("-orient", "vecx*3", "vecyp*3")
	rayleigh := grammar.Opt("-doRayleigh", "rFlag")

	return category{
		name: "zeroLength",
		rules: map[string]*grammar.Rule{
			"zeroLength": grammar.MustRule([]string{"eleType", "eleTag", "eleNodes*2"},
				grammar.Opt("-mat", "matTags*"),
				grammar.Opt("-dir", "dirs*"),
				rayleigh,
				orient,
			),
			"zeroLengthND":        grammar.MustRule([]string{"eleType", "eleTag", "eleNodes*2", "matTag", "uniTag?"}, orient),
			"zeroLengthSection":   grammar.MustRule([]string{"eleType", "eleTag", "eleNodes*2", "secTag"}, orient, rayleigh),
			"CoupledZeroLength":   grammar.MustRule([]string{"eleType", "eleTag", "eleNodes*2", "dirn1", "dirn2", "matTag", "rFlag?"}),
			"zeroLengthContact2D": grammar.MustRule([]string{"eleType", "eleTag", "eleNodes*2", "Kn", "Kt", "mu"}, grammar.Opt("-normal", "Nx", "Ny")),
			"zeroLengthContact3D": grammar.MustRule([]string{"eleType", "eleTag", "eleNodes*2", "Kn", "Kt", "mu", "c", "direction"}),
		},
		defaults: map[string]any{"rFlag": 0},
	}
}

func quadrilateralCategory() category {
	return category{
		name: "quadrilateral",
		rules: map[string]*grammar.Rule{
			"quad": grammar.MustRule(
				[]string{"eleType", "eleTag", "eleNodes*4", "thick", "type", "matTag", "pressure?", "rho?", "b1?", "b2?"}),
			"ShellMITC4": grammar.MustRule([]string{"eleType", "eleTag", "eleNodes*4", "secTag"}),
		},
		defaults: map[string]any{"pressure": 0.0, "rho": 0.0, "b1": 0.0, "b2": 0.0},
	}
}

func defaultCategories() []category {
	return []category{
		trussCategory(),
		beamColumnCategory(),
		zeroLengthCategory(),
		quadrilateralCategory(),
	}
}

// Property forms of elasticBeamColumn, chosen by property count and ndm
var (
	sectionProps = grammar.MustRule([]string{"secTag", "transfTag"})
	planeProps   = grammar.MustRule([]string{"Area", "E_mod", "Iz", "transfTag"})
	spaceProps   = grammar.MustRule([]string{"Area", "E_mod", "G_mod", "Jxx", "Iy", "Iz", "transfTag"})
)
