package metrics

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormulaEval(t *testing.T) {
	row := map[string]float64{
		"spend":       50,
		"impressions": 10000,
		"clicks":      200,
		"conversions": 10,
		"revenue":     300,
	}

	cases := []struct {
		formula string
		want    float64
	}{
		{"clicks / impressions * 100", 2},
		{"spend / clicks", 0.25},
		{"spend / impressions * 1000", 5},
		{"revenue / spend", 6},
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"-spend + 60", 10},
		{"--5", 5},
		{"2 * -3", -6},
		{"10 - 4 - 3", 3},
		{"100 / 10 / 5", 2},
		{"0.5 * impressions", 5000},
		{"CLICKS / Impressions * 100", 2},
	}

	for _, tc := range cases {
		t.Run(tc.formula, func(t *testing.T) {
			f, err := Parse(tc.formula)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, f.Eval(row), 1e-9)
		})
	}
}

func TestFormulaDivisionByZero(t *testing.T) {
	f, err := Parse("clicks / impressions")
	require.NoError(t, err)

	// Empty denominator reads as 0, not NaN or an error.
	assert.Equal(t, 0.0, f.Eval(map[string]float64{"clicks": 10, "impressions": 0}))
	assert.Equal(t, 0.0, f.Eval(map[string]float64{}))
}

func TestFormulaUnknownFieldReadsZero(t *testing.T) {
	f, err := Parse("mystery + 5")
	require.NoError(t, err)
	assert.Equal(t, 5.0, f.Eval(map[string]float64{"spend": 100}))
}

func TestFormulaParseErrors(t *testing.T) {
	cases := []string{
		"",
		"1 +",
		"(1 + 2",
		"clicks $ spend",
		"1..2",
		"foo(bar)",
		`"clicks"`,
	}

	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			require.Error(t, err)
			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestFormulaFields(t *testing.T) {
	f, err := Parse("(revenue - spend) / spend * 100")
	require.NoError(t, err)

	fields := f.Fields()
	sort.Strings(fields)
	assert.Equal(t, []string{"revenue", "spend"}, fields)
}

func TestFormulaString(t *testing.T) {
	src := "clicks / impressions * 100"
	f, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, src, f.String())
}
