package pagination

import "testing"

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name      string
		params    *PaginationParams
		wantItems []int
		wantPages int
		hasNext   bool
		hasPrev   bool
	}{
		{"first page", &PaginationParams{Page: 1, PerPage: 3}, []int{1, 2, 3}, 3, true, false},
		{"last partial page", &PaginationParams{Page: 3, PerPage: 3}, []int{7}, 3, false, true},
		{"past the end", &PaginationParams{Page: 9, PerPage: 3}, []int{}, 3, false, true},
		{"defaults", nil, items, 1, false, false},
		{"invalid values are normalised", &PaginationParams{Page: 0, PerPage: 0}, items, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(items, tt.params)
			if len(got.Items) != len(tt.wantItems) {
				t.Fatalf("expected %d items, got %v", len(tt.wantItems), got.Items)
			}
			for i := range tt.wantItems {
				if got.Items[i] != tt.wantItems[i] {
					t.Fatalf("expected %v, got %v", tt.wantItems, got.Items)
				}
			}
			if got.Pagination.Total != int64(len(items)) {
				t.Fatalf("expected total %d, got %d", len(items), got.Pagination.Total)
			}
			if got.Pagination.TotalPages != tt.wantPages {
				t.Fatalf("expected %d pages, got %d", tt.wantPages, got.Pagination.TotalPages)
			}
			if got.Pagination.HasNext != tt.hasNext || got.Pagination.HasPrev != tt.hasPrev {
				t.Fatalf("unexpected has_next/has_prev: %+v", got.Pagination)
			}
		})
	}
}

func TestPaginateDoesNotAliasInput(t *testing.T) {
	items := []int{1, 2, 3}
	page := Paginate(items, &PaginationParams{Page: 1, PerPage: 2})
	page.Items[0] = 42
	if items[0] != 1 {
		t.Fatalf("paginated page must not share backing array with the snapshot")
	}
}

func TestMapKeepsPagination(t *testing.T) {
	page := Paginate([]int{1, 2, 3}, &PaginationParams{Page: 1, PerPage: 2})
	doubled := Map(page, func(n int) int { return n * 2 })
	if doubled.Items[1] != 4 || doubled.Pagination != page.Pagination {
		t.Fatalf("unexpected mapped page %+v", doubled)
	}
}
