// Package shapematch decides which of several declared candidate types a
// decoded value matches, and converts it into the winner's native form. It is
// the runtime side of "oneOf"/"anyOf" schemas:
//
//   - OneOf requires exactly one candidate to match, AnyOf at least one;
//   - candidates and unions may be wrapped in array, map, array-of-map and
//     map-of-array shapes (ShapeContext);
//   - discriminator-tagged model candidates fall back to structural matching
//     when the discriminator does not settle the choice;
//   - Match is pure and returns a Result recording, per position, which
//     branch matched; Deserialize follows those branches without matching
//     again.
//
// Design policy:
//   - Keep the engine in the root package; builders live in dsl/, wire
//     decoders in source/, date codecs in codec/.
//   - Values are tagged (Value/Kind) so booleans never pass as integers.
//   - Only the outermost Validate turns a failed match into an error (Issues).
//
// Typical usage:
//
//	u := dsl.OneOf(dsl.Leaf(dsl.Int()), dsl.Leaf(dsl.String()))
//	v, err := source.JSON(data)
//	r, err := shapematch.Validate(ctx, u, v)
//	out, err := shapematch.Deserialize(ctx, r)
package shapematch
