// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTotalPages(t *testing.T) {
	tests := []struct {
		name       string
		totalItems int
		perPage    int
		want       int
	}{
		{"zero items", 0, 10, 1},
		{"less than one page", 5, 10, 1},
		{"exactly one page", 10, 10, 1},
		{"one item over", 11, 10, 2},
		{"partial last page", 23, 10, 3},
		{"zero per page", 10, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTotalPages(tt.totalItems, tt.perPage))
		})
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 5))
	assert.Equal(t, 3, ClampPage(3, 5))
	assert.Equal(t, 5, ClampPage(9, 5))
}

func TestBuildPagination(t *testing.T) {
	t.Run("first page", func(t *testing.T) {
		p := BuildPagination(1, 23, 10)
		assert.Equal(t, 3, p.TotalPages)
		assert.False(t, p.HasPrev)
		assert.True(t, p.HasNext)
		assert.Equal(t, "1-10 of 23", p.PageRange())
		assert.True(t, p.ShouldShow())
	})

	t.Run("last partial page", func(t *testing.T) {
		p := BuildPagination(3, 23, 10)
		assert.True(t, p.HasPrev)
		assert.False(t, p.HasNext)
		assert.Equal(t, "21-23 of 23", p.PageRange())
	})

	t.Run("empty", func(t *testing.T) {
		p := BuildPagination(1, 0, 10)
		assert.Equal(t, "0 of 0", p.PageRange())
		assert.False(t, p.ShouldShow())
	})

	t.Run("page beyond data", func(t *testing.T) {
		p := BuildPagination(4, 23, 10)
		assert.Equal(t, "0 of 23", p.PageRange())
	})

	t.Run("window with ellipses", func(t *testing.T) {
		p := BuildPagination(6, 200, 10)
		var numbers []int
		ellipses := 0
		for _, l := range p.Pages {
			if l.IsEllipsis {
				ellipses++
				continue
			}
			numbers = append(numbers, l.Number)
		}
		assert.Equal(t, []int{1, 4, 5, 6, 7, 8, 20}, numbers)
		assert.Equal(t, 2, ellipses)
	})
}
