package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		page, size string
		want       Params
	}{
		{"", "", Params{Page: 1, PageSize: DefaultPageSize}},
		{"3", "10", Params{Page: 3, PageSize: 10}},
		{"-1", "abc", Params{Page: 1, PageSize: DefaultPageSize}},
		{"2", "5000", Params{Page: 2, PageSize: MaxPageSize}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FromQuery(tt.page, tt.size), "page=%q size=%q", tt.page, tt.size)
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name     string
		params   Params
		want     []int
		wantInfo PageInfo
	}{
		{
			name:     "first page",
			params:   Params{Page: 1, PageSize: 3},
			want:     []int{1, 2, 3},
			wantInfo: PageInfo{Page: 1, PageSize: 3, TotalPages: 3, TotalRecords: 7, HasNext: true},
		},
		{
			name:     "last partial page",
			params:   Params{Page: 3, PageSize: 3},
			want:     []int{7},
			wantInfo: PageInfo{Page: 3, PageSize: 3, TotalPages: 3, TotalRecords: 7, HasPrevious: true},
		},
		{
			name:     "past the end",
			params:   Params{Page: 9, PageSize: 3},
			want:     []int{},
			wantInfo: PageInfo{Page: 9, PageSize: 3, TotalPages: 3, TotalRecords: 7, HasPrevious: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, info := Slice(items, tt.params)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantInfo, info)
		})
	}
}

func TestSlice_Empty(t *testing.T) {
	got, info := Slice([]string{}, Params{})

	assert.Empty(t, got)
	assert.Equal(t, 0, info.TotalPages)
	assert.False(t, info.HasNext)
}
