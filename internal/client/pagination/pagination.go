// Package pagination derives the visible page of a collection.
package pagination

const DefaultPageSize = 10

// View is the derived state of one page. Start and End are slice bounds
// into the collection; Visible says whether pagination controls are shown.
type View struct {
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
	Start      int
	End        int
	Visible    bool
}

// Paginate is a pure function of the collection length, the requested page
// and the page size. A non-positive size falls back to DefaultPageSize.
func Paginate(total, page, size int) View {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	if page < 1 {
		page = 1
	}

	pages := (total + size - 1) / size

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return View{
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: pages,
		Start:      start,
		End:        end,
		Visible:    total > size,
	}
}

// HasPrev and HasNext drive the previous/next controls.
func (v View) HasPrev() bool { return v.Page > 1 }

func (v View) HasNext() bool { return v.Page < v.TotalPages }

// Window returns the part of items covered by v.
func Window[T any](items []T, v View) []T {
	start, end := v.Start, v.End
	if end > len(items) {
		end = len(items)
	}
	if start > end {
		start = end
	}
	return items[start:end]
}

// Pager tracks the current page and snaps back to page 1 whenever the
// observed collection length changes. Not safe for concurrent use.
type Pager struct {
	size    int
	current int
	lastLen int
}

func NewPager(size int) *Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Pager{size: size, current: 1}
}

// Observe records the collection length; a change resets the page to 1.
func (p *Pager) Observe(n int) {
	if n != p.lastLen {
		p.lastLen = n
		p.current = 1
	}
}

// Reset jumps back to page 1.
func (p *Pager) Reset() {
	p.current = 1
}

func (p *Pager) Current() int { return p.current }

func (p *Pager) Size() int { return p.size }

// View derives the page for the last observed length.
func (p *Pager) View() View {
	return Paginate(p.lastLen, p.current, p.size)
}

// GoTo moves to page n. Pages below 1 or past the last page are ignored;
// it reports whether the page changed.
func (p *Pager) GoTo(n int) bool {
	last := p.View().TotalPages
	if last < 1 {
		last = 1
	}
	if n < 1 || n > last || n == p.current {
		return false
	}
	p.current = n
	return true
}

func (p *Pager) Next() bool { return p.GoTo(p.current + 1) }

func (p *Pager) Prev() bool { return p.GoTo(p.current - 1) }
