package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/developmentseed/ml-tm-utils-pub/internal/domain"
	apperrors "github.com/developmentseed/ml-tm-utils-pub/internal/pkg/errors"
)

func TestNewTileCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		x, y, z int
		wantErr bool
	}{
		{"root", 0, 0, 0, false},
		{"max corner at zoom 1", 1, 1, 1, false},
		{"leaf", 2825, 7041, 18, false},
		{"max zoom", 0, 0, 19, false},
		{"negative zoom", 0, 0, -1, true},
		{"zoom above max", 0, 0, 20, true},
		{"x too large", 2, 0, 1, true},
		{"y too large", 0, 2, 1, true},
		{"negative x", -1, 0, 3, true},
		{"negative y", 0, -1, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile, err := domain.NewTileCoordinate(tt.x, tt.y, tt.z)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCoordinate))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.TileCoordinate{X: tt.x, Y: tt.y, Zoom: tt.z}, tile)
		})
	}
}

func TestTileCoordinate_Children(t *testing.T) {
	tile := domain.TileCoordinate{X: 1412, Y: 3520, Zoom: 17}

	children, err := tile.Children()
	require.NoError(t, err)

	assert.ElementsMatch(t, []domain.TileCoordinate{
		{X: 2825, Y: 7041, Zoom: 18},
		{X: 2825, Y: 7040, Zoom: 18},
		{X: 2824, Y: 7041, Zoom: 18},
		{X: 2824, Y: 7040, Zoom: 18},
	}, children[:])
}

func TestTileCoordinate_Children_Errors(t *testing.T) {
	_, err := domain.TileCoordinate{X: 0, Y: 0, Zoom: domain.MaxZoom}.Children()
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCoordinate))

	_, err = domain.TileCoordinate{X: 4, Y: 0, Zoom: 2}.Children()
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCoordinate))
}

func TestTileCoordinate_ChildrenPartitionBounds(t *testing.T) {
	const eps = 1e-9

	tiles := []domain.TileCoordinate{
		{X: 0, Y: 0, Zoom: 0},
		{X: 1, Y: 0, Zoom: 1},
		{X: 5, Y: 314, Zoom: 16},
		{X: 1412, Y: 3520, Zoom: 17},
		{X: 262143, Y: 0, Zoom: 18},
	}

	for _, tile := range tiles {
		t.Run(tile.String(), func(t *testing.T) {
			parent, err := tile.Bounds()
			require.NoError(t, err)

			children, err := tile.Children()
			require.NoError(t, err)

			byPos := make(map[[2]int]domain.TileBounds, 4)
			for _, c := range children {
				assert.Equal(t, tile.Zoom+1, c.Zoom)
				b, err := c.Bounds()
				require.NoError(t, err)
				byPos[[2]int{c.X - 2*tile.X, c.Y - 2*tile.Y}] = b
			}
			require.Len(t, byPos, 4, "children must be distinct")

			sw, se := byPos[[2]int{0, 0}], byPos[[2]int{1, 0}]
			nw, ne := byPos[[2]int{0, 1}], byPos[[2]int{1, 1}]

			// Внешние края детей совпадают с краями родителя
			assert.InDelta(t, parent.SouthWest.Lon(), sw.SouthWest.Lon(), eps)
			assert.InDelta(t, parent.SouthWest.Lat(), sw.SouthWest.Lat(), eps)
			assert.InDelta(t, parent.NorthEast.Lon(), ne.NorthEast.Lon(), eps)
			assert.InDelta(t, parent.NorthEast.Lat(), ne.NorthEast.Lat(), eps)
			assert.InDelta(t, parent.SouthWest.Lon(), nw.SouthWest.Lon(), eps)
			assert.InDelta(t, parent.NorthEast.Lat(), nw.NorthEast.Lat(), eps)
			assert.InDelta(t, parent.NorthEast.Lon(), se.NorthEast.Lon(), eps)
			assert.InDelta(t, parent.SouthWest.Lat(), se.SouthWest.Lat(), eps)

			// Внутренние края общие: ни щелей, ни перекрытий
			assert.InDelta(t, sw.NorthEast.Lon(), se.SouthWest.Lon(), eps)
			assert.InDelta(t, nw.NorthEast.Lon(), ne.SouthWest.Lon(), eps)
			assert.InDelta(t, sw.NorthEast.Lat(), nw.SouthWest.Lat(), eps)
			assert.InDelta(t, se.NorthEast.Lat(), ne.SouthWest.Lat(), eps)
		})
	}
}

func TestTileCoordinate_Bounds_TMS(t *testing.T) {
	// В TMS y=0 - южный ряд
	b, err := domain.TileCoordinate{X: 0, Y: 0, Zoom: 1}.Bounds()
	require.NoError(t, err)

	assert.InDelta(t, -180.0, b.SouthWest.Lon(), 1e-9)
	assert.InDelta(t, -85.0511287798, b.SouthWest.Lat(), 1e-6)
	assert.InDelta(t, 0.0, b.NorthEast.Lon(), 1e-9)
	assert.InDelta(t, 0.0, b.NorthEast.Lat(), 1e-9)

	_, err = domain.TileCoordinate{X: 0, Y: 0, Zoom: 20}.Bounds()
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCoordinate))
}

func TestTileCoordinate_Contains(t *testing.T) {
	top := domain.TileCoordinate{X: 1412, Y: 3520, Zoom: 17}

	assert.True(t, top.Contains(top))
	assert.True(t, top.Contains(domain.TileCoordinate{X: 2825, Y: 7041, Zoom: 18}))
	assert.True(t, domain.TileCoordinate{X: 5, Y: 13, Zoom: 9}.Contains(top))
	assert.True(t, domain.TileCoordinate{X: 0, Y: 0, Zoom: 0}.Contains(domain.TileCoordinate{X: 1241, Y: 23141, Zoom: 18}))

	assert.False(t, top.Contains(domain.TileCoordinate{X: 2826, Y: 7040, Zoom: 18}))
	assert.False(t, top.Contains(domain.TileCoordinate{X: 706, Y: 1760, Zoom: 16}))
}

func TestTileCoordinate_Contains_EveryPyramidLeaf(t *testing.T) {
	top := domain.TileCoordinate{X: 5, Y: 314, Zoom: 16}

	err := domain.WalkPyramid(top, 19, func(leaf domain.TileCoordinate) error {
		assert.True(t, top.Contains(leaf), leaf.String())
		return nil
	})
	require.NoError(t, err)
}

func TestUniqueTileIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{"nil", nil, nil},
		{"no duplicates", []string{"18-1-1", "18-1-2"}, []string{"18-1-1", "18-1-2"}},
		{"keeps first occurrence order", []string{"18-1-2", "18-1-1", "18-1-2", "18-1-1", "18-1-3"}, []string{"18-1-2", "18-1-1", "18-1-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.UniqueTileIDs(tt.ids))
		})
	}
}

func TestUniqueTileIDs_DoesNotModifyInput(t *testing.T) {
	ids := []string{"18-1-1", "18-1-1", "18-1-2"}

	unique := domain.UniqueTileIDs(ids)

	assert.Equal(t, []string{"18-1-1", "18-1-2"}, unique)
	assert.Equal(t, []string{"18-1-1", "18-1-1", "18-1-2"}, ids)
}

func TestParseTileID(t *testing.T) {
	tests := []struct {
		id      string
		want    domain.TileCoordinate
		wantErr bool
	}{
		{id: "18-2825-7041", want: domain.TileCoordinate{X: 2825, Y: 7041, Zoom: 18}},
		{id: "0-0-0", want: domain.TileCoordinate{}},
		{id: "18-2825", wantErr: true},
		{id: "18-2825-7041-1", wantErr: true},
		{id: "z-1-1", wantErr: true},
		{id: "1-2-0", wantErr: true},
		{id: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := domain.ParseTileID(tt.id)
			if tt.wantErr {
				assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCoordinate))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.id, domain.FormatTileID(got))
		})
	}
}

func TestTileFormat(t *testing.T) {
	tile := domain.TileCoordinate{X: 2825, Y: 7041, Zoom: 18}

	assert.Equal(t, "18-2825-7041", domain.DefaultTileFormat.Format(tile))
	assert.Equal(t, "18/2825/7041.png", domain.TileFormat("{z}/{x}/{y}.png").Format(tile))

	assert.NoError(t, domain.TileFormat("{x}_{y}_{z}").Validate())

	err := domain.TileFormat("{z}-{x}").Validate()
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidArgument))
}
