// ============================================================================
// opspy - OpenSees call spy
// ============================================================================
//
// Package:     materials
// Description: Material grammar for uniaxialMaterial and nDMaterial
// Author:      Mike Stoffels
// Created:     2025-10-15
// License:     MIT
// ============================================================================

package materials

import (
	"github.com/msto63/opspy/foundation/spy/grammar"
)

// Command names
const (
	CmdUniaxial = "uniaxialMaterial"
	CmdND       = "nDMaterial"
)

// defaultRule parses material types without a dedicated grammar
var defaultRule = grammar.MustRule([]string{"matType", "matTag", "args*"})

// uniaxialTypes are recognised uniaxial materials. Types without an entry
// in uniaxialRules are parsed with defaultRule.
var uniaxialTypes = []string{
	// steel and reinforcing
	"Steel01", "Steel02", "Steel4", "ReinforcingSteel", "Dodd_Restrepo",
	"RambergOsgoodSteel", "SteelMPF", "Steel01Thermal",
	// concrete
	"Concrete01", "Concrete02", "Concrete04", "Concrete06", "Concrete07",
	"Concrete01WithSITC", "ConfinedConcrete01", "ConcreteD", "FRPConfinedConcrete",
	"FRPConfinedConcrete02", "ConcreteCM", "TDConcrete", "TDConcreteEXP",
	"TDConcreteMC10", "TDConcreteMC10NL",
	// standard
	"Elastic", "ElasticPP", "ElasticPPGap", "ENT", "Hysteretic", "Parallel", "Series",
	// PyTzQz
	"PySimple1", "TzSimple1", "QzSimple1", "PyLiq1", "TzLiq1", "QzLiq1",
	// other
	"Hardening", "CastFuse", "ViscousDamper", "BilinearOilDamper", "Bilin",
	"ModIMKPeakOriented", "ModIMKPinching", "SAWS", "BarSlip", "Bond_SP01",
	"Fatigue", "Impact", "HyperbolicGap", "LimitState", "MinMax", "ElasticBilin",
	"ElasticMultiLinear", "MultiLinear", "InitialStrain", "InitialStress",
	"PathIndependent", "Pinching4", "ECC", "SelfCentering", "Viscous", "BoucWen",
	"BWBN", "KikuchiAikenHDR", "KikuchiAikenLRB", "AxialSp", "AxialSpHD",
	"PinchingLimitState", "CFSWSWP", "CFSSSWP", "Backbone", "Masonry", "Pipe",
}

func uniaxialRules() map[string]*grammar.Rule {
	rule := func(fields ...string) *grammar.Rule {
		return grammar.MustRule(append([]string{"matType", "matTag"}, fields...))
	}
	return map[string]*grammar.Rule{
		"Elastic":    rule("E", "eta?", "Eneg?"),
		"ElasticPP":  rule("E", "epsyP", "epsyN?", "eps0?"),
		"Steel01":    rule("Fy", "E0", "b", "a1?", "a2?", "a3?", "a4?"),
		"Steel02":    rule("Fy", "E0", "b", "R0?", "cR1?", "cR2?", "a1?", "a2?", "a3?", "a4?", "sigInit?"),
		"Concrete01": rule("fpc", "epsc0", "fpcu", "epsU"),
		"Concrete02": rule("fpc", "epsc0", "fpcu", "epsU", "lambda", "ft", "Ets"),
		"Hardening":  rule("E", "sigmaY", "H_iso", "H_kin", "eta?"),
		"Parallel": grammar.MustRule([]string{"matType", "matTag", "tags*"},
			grammar.Opt("-factors", "factors*")),
		"Series": grammar.MustRule([]string{"matType", "matTag", "tags*"}),
		"MinMax": grammar.MustRule([]string{"matType", "matTag", "otherTag"},
			grammar.Opt("-min", "minStrain"),
			grammar.Opt("-max", "maxStrain")),
		"Fatigue": grammar.MustRule([]string{"matType", "matTag", "otherTag"},
			grammar.Opt("-E0", "E0"),
			grammar.Opt("-m", "m"),
			grammar.Opt("-min", "min"),
			grammar.Opt("-max", "max")),
		"ElasticMultiLinear": grammar.MustRule([]string{"matType", "matTag", "eta?"},
			grammar.Opt("-strain", "strainPoints*"),
			grammar.Opt("-stress", "stressPoints*")),
		"ViscousDamper": grammar.MustRule([]string{"matType", "matTag", "K_el", "Cd", "alpha"},
			grammar.Opt("-LGap", "LGap"),
			grammar.Opt("-NM", "NM"),
			grammar.Opt("-RelTol", "RelTol"),
			grammar.Opt("-AbsTol", "AbsTol"),
			grammar.Opt("-MaxHalf", "MaxHalf")),
	}
}

// uniaxialDefaults fill optional fields the call omitted
var uniaxialDefaults = map[string]map[string]any{
	"Elastic":   {"eta": 0.0},
	"Hardening": {"eta": 0.0},
	"MinMax":    {"minStrain": -1e16, "maxStrain": 1e16},
	"Fatigue":   {"E0": 0.191, "m": -0.458, "min": -1e16, "max": 1e16},
	"ViscousDamper": {
		"LGap": 0.0, "NM": 1, "RelTol": 1e-6, "AbsTol": 1e-10, "MaxHalf": 15,
	},
}

func ndRules() map[string]*grammar.Rule {
	rule := func(fields ...string) *grammar.Rule {
		return grammar.MustRule(append([]string{"matType", "matTag"}, fields...))
	}
	return map[string]*grammar.Rule{
		"ElasticIsotropic":           rule("E", "nu", "rho?"),
		"ElasticOrthotropic":         rule("Ex", "Ey", "Ez", "nu_xy", "nu_yz", "nu_zx", "Gxy", "Gyz", "Gzx", "rho?"),
		"J2Plasticity":               rule("K", "G", "sig0", "sigInf", "delta", "H"),
		"DruckerPrager":              rule("K", "G", "sigmaY", "rho", "rhoBar", "Kinf", "Ko", "delta1", "delta2", "H", "theta", "density", "atmPressure?"),
		"PlaneStress":                rule("mat3DTag"),
		"PlaneStrain":                rule("mat3DTag"),
		"MultiaxialCyclicPlasticity": rule("rho", "K", "G", "Su", "Ho", "h", "m", "beta", "KCoeff"),
		"BoundingCamClay":            rule("massDensity", "C", "bulkMod", "OCR", "mu_o", "alpha", "lambda", "h", "m"),
		"PlateFiber":                 rule("threeDTag"),
		"FSAM":                       rule("rho", "sXTag", "sYTag", "concTag", "rouX", "rouY", "nu", "alfadow"),
		"ManzariDafalias":            rule("G0", "nu", "e_init", "Mc", "c", "lambda_c", "e0", "ksi", "P_atm", "m", "h0", "ch", "nb", "A0", "nd", "z_max", "cz", "Den"),
		"PM4Sand": rule("D_r", "G_o", "h_po", "Den", "P_atm?", "h_o?", "e_max?", "e_min?", "n_b?", "n_d?",
			"A_do?", "z_max?", "c_z?", "c_e?", "phi_cv?", "nu?", "g_degr?", "c_dr?", "c_kaf?", "Q_bolt?",
			"R_bolt?", "m_par?", "F_sed?", "p_sed?"),
		"PM4Silt": rule("S_u", "Su_Rat", "G_o", "h_po", "Den", "Su_factor?", "P_atm?", "nu?", "nG?", "h0?",
			"eInit?", "lambda?", "phicv?", "nb_wet?", "nb_dry?", "nd?", "Ado?", "ru_max?", "z_max?", "cz?",
			"ce?", "cgd?", "ckaf?", "m_m?", "CG_consol?"),
		"StressDensityModel": rule("mDen", "eNot", "A", "n", "nu", "a1", "b1", "a2", "b2", "a3", "b3",
			"fd", "muNot", "muCyc", "sc", "M", "patm", "ssls*10", "hsl", "p1"),
		"AcousticMedium": rule("K", "rho"),
	}
}

var ndDefaults = map[string]map[string]any{
	"ElasticIsotropic":   {"rho": 0.0},
	"ElasticOrthotropic": {"rho": 0.0},
}

// Grammar returns the grammar of both material commands
func Grammar() grammar.Set {
	uniaxial := uniaxialRules()
	for _, t := range uniaxialTypes {
		if _, ok := uniaxial[t]; !ok {
			uniaxial[t] = defaultRule
		}
	}
	return grammar.Set{
		CmdUniaxial: &grammar.Alternative{Discriminator: "matType", Rules: uniaxial, Default: defaultRule},
		CmdND:       &grammar.Alternative{Discriminator: "matType", Rules: ndRules(), Default: defaultRule},
	}
}
