package shapematch

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// matchMode is the success predicate applied at every union position.
type matchMode uint8

const (
	modeExclusive matchMode = iota // exactly one candidate
	modeInclusive                  // at least one candidate
)

func (m matchMode) satisfied(n int) bool {
	if m == modeExclusive {
		return n == 1
	}
	return n >= 1
}

func (m matchMode) String() string {
	if m == modeExclusive {
		return "oneOf"
	}
	return "anyOf"
}

type positionMatcher func(ctx context.Context, v Value) *Result

type positionDecoder func(ctx context.Context, r *Result) (any, error)

// matchShape walks v according to shape and applies at to every position.
func matchShape(ctx context.Context, c Candidate, shape Shape, v Value, at positionMatcher) *Result {
	var r *Result
	switch shape {
	case ShapeArray:
		r = matchArray(ctx, c, v, at)
	case ShapeMap:
		r = matchMap(ctx, c, v, at)
	case ShapeArrayOfMap:
		r = matchArray(ctx, c, v, func(ctx context.Context, ev Value) *Result {
			return matchMap(ctx, c, ev, at)
		})
	case ShapeMapOfArray:
		r = matchMap(ctx, c, v, func(ctx context.Context, ev Value) *Result {
			return matchArray(ctx, c, ev, at)
		})
	default:
		return at(ctx, v)
	}
	r.Shape = shape
	return r
}

func matchArray(ctx context.Context, c Candidate, v Value, at positionMatcher) *Result {
	r := newResult(c, ShapeArray, v)
	arr, ok := v.AsArray()
	if !ok {
		return r.fail(structuralMismatch(KindArray, v))
	}
	r.Valid = true
	r.Items = make([]*Result, len(arr))
	for i := range arr {
		ir := at(ctx, arr[i])
		r.Items[i] = ir
		if !ir.Valid {
			r.Valid = false
			r.Issues = AppendIssues(r.Issues, rebase(ir.Issues, strconv.Itoa(i))...)
		}
	}
	return r
}

func matchMap(ctx context.Context, c Candidate, v Value, at positionMatcher) *Result {
	r := newResult(c, ShapeMap, v)
	if _, ok := v.AsObject(); !ok {
		return r.fail(structuralMismatch(KindObject, v))
	}
	r.Valid = true
	r.Entries = make(map[string]*Result, v.Len())
	for _, k := range v.Keys() {
		ev, _ := v.Get(k)
		er := at(ctx, ev)
		r.Entries[k] = er
		if !er.Valid {
			r.Valid = false
			r.Issues = AppendIssues(r.Issues, rebase(er.Issues, k)...)
		}
	}
	return r
}

func structuralMismatch(want Kind, got Value) Issue {
	return rootPath.issue(CodeStructuralMismatch, map[string]string{
		"expected": want.String(),
		"got":      got.Kind().String(),
	}, nil)
}

// matchPosition resolves one union position: every candidate is matched
// against v and the valid ones are counted. When the count misses the mode's
// predicate and every candidate carries a discriminator, the candidates are
// retried once as discriminator-free copies so the value is judged on
// structure alone.
func matchPosition(ctx context.Context, owner Candidate, v Value, cands []Candidate, mode matchMode) *Result {
	branches, n := matchAll(ctx, v, cands)
	if !mode.satisfied(n) && allDiscriminated(cands) {
		Logger(ctx).Debug("retrying union position without discriminators",
			zap.String("union", owner.Name()),
			zap.Int("matched", n),
			zap.Int("candidates", len(cands)))
		branches, n = matchAll(ctx, v, withoutDiscriminators(cands))
	}
	r := newResult(owner, ShapeScalar, v)
	r.Branches = branches
	if mode.satisfied(n) {
		r.Valid = true
		r.Selected = firstValid(branches)
		return r
	}
	return r.fail(positionFailure(mode, n, cands, branches))
}

func matchAll(ctx context.Context, v Value, cands []Candidate) ([]*Result, int) {
	branches := make([]*Result, len(cands))
	n := 0
	for i, c := range cands {
		branches[i] = c.Match(ctx, v)
		if branches[i].Valid {
			n++
		}
	}
	return branches, n
}

func allDiscriminated(cands []Candidate) bool {
	if len(cands) == 0 {
		return false
	}
	for _, c := range cands {
		if !c.Context().HasDiscriminator() {
			return false
		}
	}
	return true
}

func withoutDiscriminators(cands []Candidate) []Candidate {
	out := make([]Candidate, len(cands))
	for i, c := range cands {
		out[i] = c.WithContext(c.Context().WithoutDiscriminator())
	}
	return out
}

func firstValid(branches []*Result) int {
	for i, b := range branches {
		if b.Valid {
			return i
		}
	}
	return -1
}

// positionFailure builds the single issue reported for a failed union
// position. Nested causes are kept so an enclosing union (or the caller) can
// show every reason at once.
func positionFailure(mode matchMode, n int, cands []Candidate, branches []*Result) Issue {
	names := candidateNames(cands)
	code := CodeNoneMatched
	if mode == modeExclusive && n > 1 {
		code = CodeMultipleMatched
	}
	it := rootPath.issue(code, map[string]string{"candidates": strings.Join(names, ", ")}, nil)
	it.Params = map[string]any{"candidates": names}
	if code == CodeMultipleMatched {
		var matched []string
		for i, b := range branches {
			if b.Valid {
				matched = append(matched, names[i])
			}
		}
		it.Params["matched"] = matched
		return it
	}
	var causes []string
	for i, b := range branches {
		for _, sub := range b.Issues {
			causes = append(causes, names[i]+": "+describe(sub))
		}
	}
	if len(causes) > 0 {
		it.Params["causes"] = causes
		it.Hint = strings.Join(causes, "; ")
	}
	return it
}

func describe(it Issue) string {
	s := it.Message
	if it.Path != "" && it.Path != "/" {
		s = it.Path + " " + s
	}
	if it.Hint != "" {
		s += " (" + it.Hint + ")"
	}
	return s
}

func candidateNames(cands []Candidate) []string {
	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.Name()
	}
	return names
}

// decodeShape mirrors matchShape over a Result produced by it.
func decodeShape(ctx context.Context, shape Shape, r *Result, at positionDecoder) (any, error) {
	switch shape {
	case ShapeArray:
		return decodeArray(ctx, r, at)
	case ShapeMap:
		return decodeMap(ctx, r, at)
	case ShapeArrayOfMap:
		return decodeArray(ctx, r, func(ctx context.Context, ir *Result) (any, error) {
			return decodeMap(ctx, ir, at)
		})
	case ShapeMapOfArray:
		return decodeMap(ctx, r, func(ctx context.Context, er *Result) (any, error) {
			return decodeArray(ctx, er, at)
		})
	default:
		return at(ctx, r)
	}
}

func decodeArray(ctx context.Context, r *Result, at positionDecoder) (any, error) {
	arr, ok := r.Value.AsArray()
	if !ok || len(arr) != len(r.Items) {
		return nil, notValidated("array positions do not line up with the value")
	}
	out := make([]any, len(r.Items))
	for i, ir := range r.Items {
		v, err := at(ctx, ir)
		if err != nil {
			return nil, rebase(toIssues(err, CodeNotValidated), strconv.Itoa(i))
		}
		out[i] = v
	}
	return out, nil
}

func decodeMap(ctx context.Context, r *Result, at positionDecoder) (any, error) {
	if _, ok := r.Value.AsObject(); !ok || r.Value.Len() != len(r.Entries) {
		return nil, notValidated("map positions do not line up with the value")
	}
	out := make(map[string]any, len(r.Entries))
	for k, er := range r.Entries {
		v, err := at(ctx, er)
		if err != nil {
			return nil, rebase(toIssues(err, CodeNotValidated), k)
		}
		out[k] = v
	}
	return out, nil
}

func notValidated(hint string) Issues {
	it := rootPath.issue(CodeNotValidated, nil, nil)
	it.Hint = hint
	return Issues{it}
}

// checkDecodable enforces the validate-then-decode contract.
func checkDecodable(c Candidate, r *Result) error {
	switch {
	case r == nil:
		return notValidated("nil result")
	case !r.Valid:
		return notValidated("result is not valid")
	case r.producer != c:
		return notValidated("result was produced by another candidate")
	}
	return nil
}
