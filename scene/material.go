package scene

import "github.com/binzume/fbxio/geom"

type Material struct {
	Name    string
	Surface StandardSurface
}

func NewMaterial(name string) *Material {
	return &Material{Name: name, Surface: DefaultSurface()}
}

// StandardSurface is a flat bag of shading parameters. Colors are linear RGB.
type StandardSurface struct {
	Base      float64
	BaseColor geom.Vector3

	Emission      float64
	EmissionColor geom.Vector3

	Specular           float64
	SpecularColor      geom.Vector3
	SpecularIOR        float64
	SpecularAnisotropy float64
	SpecularRoughness  float64
	SpecularRotation   float64

	Transmission                  float64
	TransmissionDepth             float64
	TransmissionColor             geom.Vector3
	TransmissionScatter           geom.Vector3
	TransmissionExtraRoughness    float64
	TransmissionDispersion        float64
	TransmissionScatterAnisotropy float64

	Sheen          float64
	SheenColor     geom.Vector3
	SheenRoughness float64

	Coat                float64
	CoatAffectColor     float64
	CoatNormal          geom.Vector3
	CoatRoughness       float64
	CoatColor           geom.Vector3
	CoatIOR             float64
	CoatAffectRoughness float64
	CoatRotation        float64
	CoatAnisotropy      float64

	ThinWalled        bool
	ThinFilmIOR       float64
	ThinFilmThickness float64

	Subsurface           float64
	SubsurfaceScale      float64
	SubsurfaceAnisotropy float64
	SubsurfaceRadius     geom.Vector3
	SubsurfaceColor      geom.Vector3

	Metalness        float64
	Opacity          float64
	DiffuseRoughness float64
}

func DefaultSurface() StandardSurface {
	white := geom.Vector3{X: 1, Y: 1, Z: 1}
	return StandardSurface{
		Base:              1,
		BaseColor:         white,
		EmissionColor:     white,
		Specular:          0.2,
		SpecularColor:     white,
		SpecularIOR:       1.5,
		SpecularRoughness: 0.4,
		TransmissionColor: white,
		SheenColor:        white,
		SheenRoughness:    0.3,
		CoatRoughness:     0.1,
		CoatColor:         white,
		CoatIOR:           1.5,
		ThinFilmIOR:       1.5,
		SubsurfaceScale:   1,
		SubsurfaceRadius:  white,
		SubsurfaceColor:   white,
		Opacity:           1,
	}
}

// Param addresses one field of a StandardSurface. Exactly one of Float,
// Color and Bool is set.
type Param struct {
	Name       string
	ShaderName string
	Float      *float64
	Color      *geom.Vector3
	Bool       *bool
}

// Params lists every field of s in declaration order.
func (s *StandardSurface) Params() []Param {
	f := func(name, shader string, v *float64) Param { return Param{Name: name, ShaderName: shader, Float: v} }
	c := func(name, shader string, v *geom.Vector3) Param { return Param{Name: name, ShaderName: shader, Color: v} }
	return []Param{
		f("Base", "base", &s.Base),
		c("BaseColor", "base_color", &s.BaseColor),
		f("Emission", "emission", &s.Emission),
		c("EmissionColor", "emission_color", &s.EmissionColor),
		f("Specular", "specular", &s.Specular),
		c("SpecularColor", "specular_color", &s.SpecularColor),
		f("SpecularIOR", "specular_IOR", &s.SpecularIOR),
		f("SpecularAnisotropy", "specular_anisotropy", &s.SpecularAnisotropy),
		f("SpecularRoughness", "specular_roughness", &s.SpecularRoughness),
		f("SpecularRotation", "specular_rotation", &s.SpecularRotation),
		f("Transmission", "transmission", &s.Transmission),
		f("TransmissionDepth", "transmission_depth", &s.TransmissionDepth),
		c("TransmissionColor", "transmission_color", &s.TransmissionColor),
		c("TransmissionScatter", "transmission_scatter", &s.TransmissionScatter),
		f("TransmissionExtraRoughness", "transmission_extra_roughness", &s.TransmissionExtraRoughness),
		f("TransmissionDispersion", "transmission_dispersion", &s.TransmissionDispersion),
		f("TransmissionScatterAnisotropy", "transmission_scatter_anisotropy", &s.TransmissionScatterAnisotropy),
		f("Sheen", "sheen", &s.Sheen),
		c("SheenColor", "sheen_color", &s.SheenColor),
		f("SheenRoughness", "sheen_roughness", &s.SheenRoughness),
		f("Coat", "coat", &s.Coat),
		f("CoatAffectColor", "coat_affect_color", &s.CoatAffectColor),
		c("CoatNormal", "coat_normal", &s.CoatNormal),
		f("CoatRoughness", "coat_roughness", &s.CoatRoughness),
		c("CoatColor", "coat_color", &s.CoatColor),
		f("CoatIOR", "coat_IOR", &s.CoatIOR),
		f("CoatAffectRoughness", "coat_affect_roughness", &s.CoatAffectRoughness),
		f("CoatRotation", "coat_rotation", &s.CoatRotation),
		f("CoatAnisotropy", "coat_anisotropy", &s.CoatAnisotropy),
		{Name: "ThinWalled", ShaderName: "thin_walled", Bool: &s.ThinWalled},
		f("ThinFilmIOR", "thin_film_IOR", &s.ThinFilmIOR),
		f("ThinFilmThickness", "thin_film_thickness", &s.ThinFilmThickness),
		f("Subsurface", "subsurface", &s.Subsurface),
		f("SubsurfaceScale", "subsurface_scale", &s.SubsurfaceScale),
		f("SubsurfaceAnisotropy", "subsurface_anisotropy", &s.SubsurfaceAnisotropy),
		c("SubsurfaceRadius", "subsurface_radius", &s.SubsurfaceRadius),
		c("SubsurfaceColor", "subsurface_color", &s.SubsurfaceColor),
		f("Metalness", "metalness", &s.Metalness),
		f("Opacity", "opacity", &s.Opacity),
		f("DiffuseRoughness", "diffuse_roughness", &s.DiffuseRoughness),
	}
}
