package pagination

import (
	"strconv"

	"gorm.io/gorm"
)

// PerPage is the fixed page size for every listing.
const PerPage = 10

// Page describes one window of an ordered listing.
type Page struct {
	Number     int
	TotalPages int
	TotalItems int64
	PerPage    int
}

func (p *Page) HasPrev() bool {
	return p.Number > 1
}

func (p *Page) HasNext() bool {
	return p.Number < p.TotalPages
}

func (p *Page) PrevNumber() int {
	if p.HasPrev() {
		return p.Number - 1
	}
	return p.Number
}

func (p *Page) NextNumber() int {
	if p.HasNext() {
		return p.Number + 1
	}
	return p.Number
}

// ParsePageNumber turns the raw ?page= value into a 1-based page number.
// Missing, malformed or non-positive values mean page 1.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Paginate counts the query, clamps the requested page into the valid range
// (a too-high page yields the last page, never an error) and loads that page
// into dest. The query must carry its Model, conditions and ordering;
// Offset/Limit are applied here.
func Paginate(query *gorm.DB, requested int, dest interface{}) (*Page, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + PerPage - 1) / PerPage)
	if totalPages < 1 {
		totalPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	offset := (number - 1) * PerPage
	if err := query.Session(&gorm.Session{}).Offset(offset).Limit(PerPage).Find(dest).Error; err != nil {
		return nil, err
	}

	return &Page{
		Number:     number,
		TotalPages: totalPages,
		TotalItems: total,
		PerPage:    PerPage,
	}, nil
}
