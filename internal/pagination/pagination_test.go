package pagination

import (
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParams(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		size    int
		wantErr bool
	}{
		{name: "valid defaults", page: 1, size: 10},
		{name: "max size", page: 1, size: 100},
		{name: "zero page", page: 0, size: 10, wantErr: true},
		{name: "negative page", page: -3, size: 10, wantErr: true},
		{name: "zero size", page: 1, size: 0, wantErr: true},
		{name: "size over limit", page: 1, size: 101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewParams(tt.page, tt.size)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, models.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.size, p.Size)
		})
	}
}

func TestParams_Offset(t *testing.T) {
	p, err := NewParams(1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Offset())

	p, err = NewParams(3, 25)
	require.NoError(t, err)
	assert.Equal(t, 50, p.Offset())
}

func TestNewPage(t *testing.T) {
	params, err := NewParams(1, 10)
	require.NoError(t, err)

	items := make([]int, 10)
	page := NewPage(items, 15, params)
	assert.Equal(t, int64(15), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Size)
	assert.Equal(t, 2, page.Pages)
	assert.Len(t, page.Items, 10)

	params, err = NewParams(2, 10)
	require.NoError(t, err)
	page = NewPage(make([]int, 5), 15, params)
	assert.Equal(t, 2, page.Pages)
	assert.Len(t, page.Items, 5)
}

func TestNewPage_Empty(t *testing.T) {
	params, err := NewParams(1, 10)
	require.NoError(t, err)

	page := NewPage[string](nil, 0, params)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Pages)
	assert.Equal(t, int64(0), page.Total)
}

func TestNewPage_ExactMultiple(t *testing.T) {
	params, err := NewParams(1, 5)
	require.NoError(t, err)

	page := NewPage(make([]int, 5), 20, params)
	assert.Equal(t, 4, page.Pages)
}
