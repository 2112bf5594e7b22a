package routine

import "github.com/julianstephens/bliss/internal/models"

// PageCount returns ceil(n/size), with a minimum of one page
func PageCount(n, size int) int {
	if size < 1 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// ClampPage limits page to [1, PageCount(n, size)]
func ClampPage(page, n, size int) int {
	if page < 1 {
		return 1
	}
	if last := PageCount(n, size); page > last {
		return last
	}
	return page
}

// Paginate returns the items on page after clamping it
func Paginate[T any](items []T, page, size int) ([]T, int) {
	page = ClampPage(page, len(items), size)
	if size < 1 {
		return append([]T(nil), items...), page
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}, page
	}
	end := min(start+size, len(items))
	return append([]T(nil), items[start:end]...), page
}

// Partition returns the saved routines for tod in insertion order
func (b *Builder) Partition(tod models.TimeOfDay) []models.RoutineEntry {
	var out []models.RoutineEntry
	for _, r := range b.saved {
		if r.TimeOfDay == tod {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Page returns the current page of the tod partition
func (b *Builder) Page(tod models.TimeOfDay) int {
	return ClampPage(b.pages[tod], len(b.Partition(tod)), b.pageSize)
}

// Pages returns the number of pages of the tod partition
func (b *Builder) Pages(tod models.TimeOfDay) int {
	return PageCount(len(b.Partition(tod)), b.pageSize)
}

// SetPage moves the tod partition to page, clamped, and returns the result
func (b *Builder) SetPage(tod models.TimeOfDay, page int) int {
	page = ClampPage(page, len(b.Partition(tod)), b.pageSize)
	b.pages[tod] = page
	return page
}

// NextPage advances one page, stopping at the last
func (b *Builder) NextPage(tod models.TimeOfDay) int {
	return b.SetPage(tod, b.Page(tod)+1)
}

// PrevPage goes back one page, stopping at the first
func (b *Builder) PrevPage(tod models.TimeOfDay) int {
	return b.SetPage(tod, b.Page(tod)-1)
}

// PageItems returns the routines on the current page of tod
func (b *Builder) PageItems(tod models.TimeOfDay) []models.RoutineEntry {
	items, _ := Paginate(b.Partition(tod), b.Page(tod), b.pageSize)
	return items
}

func (b *Builder) clampPages() {
	for _, tod := range models.TimesOfDay {
		b.SetPage(tod, b.pages[tod])
	}
}
