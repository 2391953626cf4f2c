package shapematch_test

import (
	shapematch "github.com/reoring/shapematch"
	g "github.com/reoring/shapematch/dsl"
)

type Atom struct {
	Protons int `json:"AtomNumberOfProtons"`
}

type Orbit struct {
	Electrons int `json:"OrbitNumberOfElectrons"`
}

type Lion struct {
	ID     string `json:"id"`
	Weight int    `json:"weight"`
	Type   string `json:"type,omitempty"`
	Kind   string `json:"kind"`
}

type Deer struct {
	ID      string `json:"id"`
	Weight  int    `json:"weight"`
	Type    string `json:"type,omitempty"`
	Antlers int    `json:"antlers"`
}

func atomOrOrbit() *shapematch.OneOf {
	return g.OneOf(
		g.Leaf(g.ModelOf(g.StructModel[Atom]("Atom"))),
		g.Leaf(g.ModelOf(g.StructModel[Orbit]("Orbit"))),
	)
}

func lionOrDeer() (lion, deer *shapematch.Leaf, u *shapematch.OneOf) {
	lion = g.Leaf(g.ModelOf(g.StructModel[Lion]("Lion")), g.Discriminator("type", "lion"))
	deer = g.Leaf(g.ModelOf(g.StructModel[Deer]("Deer")), g.Discriminator("type", "deer"))
	return lion, deer, g.OneOf(lion, deer)
}

func obj(kv ...any) shapematch.Value {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return shapematch.MustFromAny(m)
}

func arr(xs ...any) shapematch.Value {
	return shapematch.MustFromAny(xs)
}
