package carrepo

import (
	"strings"
	"testing"

	"carrental/model"

	"github.com/stretchr/testify/require"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func boolp(v bool) *bool        { return &v }

func TestBuildWhere_Empty(t *testing.T) {
	where, args := buildWhere(model.CarFilter{})
	require.Empty(t, where)
	require.Empty(t, args)
}

func TestBuildWhere_FreeText(t *testing.T) {
	where, args := buildWhere(model.CarFilter{Query: "hybrid"})
	require.Contains(t, where, "make ILIKE $1")
	require.Contains(t, where, "model ILIKE $2")
	require.Contains(t, where, "class ILIKE $3")
	require.Contains(t, where, "fuel_type ILIKE $4")
	require.Contains(t, where, "COALESCE(description, '') ILIKE $5")
	require.Equal(t, []any{"%hybrid%", "%hybrid%", "%hybrid%", "%hybrid%", "%hybrid%"}, args)
}

func TestBuildWhere_PriceRange(t *testing.T) {
	where, args := buildWhere(model.CarFilter{
		MinPrice: floatp(30), MaxPrice: floatp(60), Available: boolp(true),
	})
	require.Equal(t, " WHERE price_per_day >= $1 AND price_per_day <= $2 AND available = $3", where)
	require.Equal(t, []any{30.0, 60.0, true}, args)
}

func TestBuildWhere_MpgOrGroup(t *testing.T) {
	where, args := buildWhere(model.CarFilter{MinMpg: intp(25), MaxMpg: intp(35)})
	require.Equal(t,
		" WHERE ((city_mpg >= $1 AND city_mpg <= $2)"+
			" OR (highway_mpg >= $3 AND highway_mpg <= $4)"+
			" OR (combination_mpg >= $5 AND combination_mpg <= $6))",
		where)
	require.Equal(t, []any{25, 35, 25, 35, 25, 35}, args)
}

func TestBuildWhere_YearRangeOverridesExact(t *testing.T) {
	where, args := buildWhere(model.CarFilter{Year: intp(2023), MinYear: intp(2020)})
	require.Equal(t, " WHERE year >= $1", where)
	require.Equal(t, []any{2020}, args)

	where, args = buildWhere(model.CarFilter{Year: intp(2023)})
	require.Equal(t, " WHERE year = $1", where)
	require.Equal(t, []any{2023}, args)
}

func TestBuildWhere_PlaceholdersSequential(t *testing.T) {
	where, args := buildWhere(model.CarFilter{
		Query:    "toyota",
		Class:    "midsize",
		FuelType: "gas",
		MinPrice: floatp(20),
	})
	require.Len(t, args, 8)
	require.True(t, strings.HasSuffix(where, "price_per_day >= $8"))
}

func TestSortColumn_Whitelist(t *testing.T) {
	require.Equal(t, "price_per_day", sortColumn("price"))
	require.Equal(t, "year", sortColumn("year"))
	require.Equal(t, "created_at", sortColumn(""))
	// anything not whitelisted never reaches the query verbatim
	require.Equal(t, "created_at", sortColumn("price_per_day; DROP TABLE cars"))
}

func TestSortDirection(t *testing.T) {
	require.Equal(t, "ASC", sortDirection("asc"))
	require.Equal(t, "DESC", sortDirection("desc"))
	require.Equal(t, "DESC", sortDirection("sideways"))
}
