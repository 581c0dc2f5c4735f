// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package listing

import "fmt"

// Pagination describes the pager under a table.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int
	PerPage     int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
	Pages       []PageLink
}

// PageLink is a single entry of the pager window.
type PageLink struct {
	Number     int
	IsCurrent  bool
	IsEllipsis bool
}

// CalculateTotalPages returns the number of pages, at least 1.
func CalculateTotalPages(totalItems, perPage int) int {
	if perPage <= 0 || totalItems <= 0 {
		return 1
	}
	return (totalItems + perPage - 1) / perPage
}

// ClampPage keeps page within [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages >= 1 && page > totalPages {
		return totalPages
	}
	return page
}

// BuildPagination creates pager data with at most five numbered links
// around the current page, plus first/last links and ellipses.
func BuildPagination(currentPage, totalItems, perPage int) Pagination {
	totalPages := CalculateTotalPages(totalItems, perPage)
	if currentPage < 1 {
		currentPage = 1
	}

	p := Pagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PerPage:     perPage,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
		PrevPage:    currentPage - 1,
		NextPage:    currentPage + 1,
	}

	start := currentPage - 2
	end := currentPage + 2
	if start < 1 {
		start = 1
		end = 5
	}
	if end > totalPages {
		end = totalPages
		start = end - 4
		if start < 1 {
			start = 1
		}
	}

	if start > 1 {
		p.Pages = append(p.Pages, PageLink{Number: 1})
		if start > 2 {
			p.Pages = append(p.Pages, PageLink{IsEllipsis: true})
		}
	}
	for i := start; i <= end; i++ {
		p.Pages = append(p.Pages, PageLink{Number: i, IsCurrent: i == currentPage})
	}
	if end < totalPages {
		if end < totalPages-1 {
			p.Pages = append(p.Pages, PageLink{IsEllipsis: true})
		}
		p.Pages = append(p.Pages, PageLink{Number: totalPages})
	}

	return p
}

// PageRange returns "start-end of total" for the current page.
func (p Pagination) PageRange() string {
	if p.TotalItems == 0 {
		return "0 of 0"
	}
	start := (p.CurrentPage-1)*p.PerPage + 1
	end := p.CurrentPage * p.PerPage
	if end > p.TotalItems {
		end = p.TotalItems
	}
	if start > end {
		// Page beyond the data; the server stays the source of truth for total.
		return fmt.Sprintf("0 of %d", p.TotalItems)
	}
	return fmt.Sprintf("%d-%d of %d", start, end, p.TotalItems)
}

// ShouldShow returns true if there is more than one page.
func (p Pagination) ShouldShow() bool {
	return p.TotalPages > 1
}
