package query

const (
	DefaultLimit = 40
	MaxLimit     = 500
)

// Page is an offset window over an ordered result.
type Page struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// Normalize applies the default and maximum limit and clamps negative skips.
func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Bounds returns the slice bounds of the page over n rows.
func (p Page) Bounds(n int) (lo, hi int) {
	p = p.Normalize()
	lo = p.Skip
	if lo > n {
		lo = n
	}
	hi = lo + p.Limit
	if hi > n {
		hi = n
	}
	return lo, hi
}
