package shapematch

// Result is the outcome of one Match call. Container shapes keep one nested
// Result per array index (Items) or mapping key (Entries); scalar positions of
// a union keep one Result per candidate (Branches) and the index of the branch
// Decode will follow (Selected).
type Result struct {
	Valid  bool
	Shape  Shape
	Value  Value
	Issues Issues

	Branches []*Result
	Selected int

	Items   []*Result
	Entries map[string]*Result

	producer Candidate
}

// Candidate returns the candidate (possibly a discriminator-free copy) that
// produced r.
func (r *Result) Candidate() Candidate {
	if r == nil {
		return nil
	}
	return r.producer
}

// SelectedBranch returns the branch Decode follows at a union scalar position.
func (r *Result) SelectedBranch() *Result {
	if r == nil || r.Selected < 0 || r.Selected >= len(r.Branches) {
		return nil
	}
	return r.Branches[r.Selected]
}

// MatchCount reports how many branches matched at a union scalar position.
func (r *Result) MatchCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, b := range r.Branches {
		if b.Valid {
			n++
		}
	}
	return n
}

func newResult(c Candidate, shape Shape, v Value) *Result {
	return &Result{Shape: shape, Value: v, Selected: -1, producer: c}
}

func (r *Result) fail(iss ...Issue) *Result {
	r.Valid = false
	r.Issues = AppendIssues(r.Issues, iss...)
	return r
}
