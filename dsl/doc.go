// Package dsl provides builders for shapematch candidates.
//
// Overview
//   - Unions: OneOf(...)/AnyOf(...) compose candidates; Leaf(target) is the terminal matcher.
//   - Shapes: Array()/Map()/ArrayOfMap()/MapOfArray() wrap a leaf or a union in a container shape.
//   - Null policy: Nullable()/Optional().
//   - Targets: Int/Float/String/Bool/Any, Date/DateTime, EnumOf(StringEnum/IntEnum), ModelOf(StructModel/Object).
//   - Discriminators: Discriminator(field, value) on model leaves.
//
// File layout (roles)
//   - options.go: Opt and the shape/null/discriminator/date-time options.
//   - builders.go: Leaf/OneOf/AnyOf constructors.
//   - primitives.go: primitive targets (tag identity checks).
//   - time.go: date and date-time targets backed by codec/.
//   - enum.go: StringEnum/IntEnum and the EnumOf target.
//   - model.go: ModelOf target (discriminator + structural validation).
//   - struct_model.go: StructModel[T] (Go struct backed models).
//   - object.go: Object (dynamic models whose fields are candidates).
//
// Example (quickstart)
//
//	lion := g.StructModel[Lion]("Lion")
//	deer := g.StructModel[Deer]("Deer")
//	u := g.OneOf(
//	    g.Leaf(g.ModelOf(lion), g.Discriminator("type", "lion")),
//	    g.Leaf(g.ModelOf(deer), g.Discriminator("type", "deer")),
//	)
//	out, err := shapematch.Decode(ctx, u, v) // out is Lion or Deer
package dsl
