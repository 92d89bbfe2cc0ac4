package dataset

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scoresCSV = `student,Hours Studied,testScore,grade,notes
ann,2,65.5,C,
bob,4,72,B,late
cy,6,N/A,A,
dee,8,91.25,A,
eve,,55,D,
`

func TestDiscoverColumns(t *testing.T) {
	table, err := DiscoverColumns([]byte(scoresCSV))
	require.NoError(t, err)
	assert.Equal(t, 5, table.Rows)
	require.Len(t, table.Columns, 5)

	tests := []struct {
		header  string
		key     string
		usable  bool
		values  []float64
		nulls   int
		integer bool
		reason  string
	}{
		{"student", "student", false, nil, 0, false, "Mostly non-numeric (0 of 5 values parse)"},
		{"Hours Studied", "hours_studied", true, []float64{2, 4, 6, 8}, 1, true, ""},
		{"testScore", "test_score", true, []float64{65.5, 72, 91.25, 55}, 1, false, ""},
		{"grade", "grade", false, nil, 0, false, "Mostly non-numeric (0 of 5 values parse)"},
		{"notes", "notes", false, nil, 4, false, "Mostly non-numeric (0 of 1 values parse)"},
	}
	for i, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			col := table.Columns[i]
			assert.Equal(t, tt.header, col.Header)
			assert.Equal(t, tt.key, col.Key)
			assert.Equal(t, i, col.Index)
			assert.Equal(t, tt.usable, col.Usable)
			assert.Equal(t, tt.values, col.Values)
			assert.Equal(t, tt.nulls, col.NullCount)
			assert.Equal(t, tt.integer, col.Integer)
			assert.Equal(t, tt.reason, col.SkipReason)
		})
	}

	usable := table.Usable()
	require.Len(t, usable, 2)
	assert.Equal(t, "Hours Studied", usable[0].DisplayName)
	assert.Equal(t, "Testscore", usable[1].DisplayName)
}

func TestDiscoverSkipsEmptyColumn(t *testing.T) {
	table, err := DiscoverColumns([]byte("a,b\n1,\n2,null\n"))
	require.NoError(t, err)
	col, ok := table.Column("b")
	require.True(t, ok)
	assert.False(t, col.Usable)
	assert.Equal(t, "All values are empty/null", col.SkipReason)
}

func TestDiscoverRowIndex(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,value\n")
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&b, "%d,%d\n", i, i*i%7)
	}

	table, err := DiscoverColumns([]byte(b.String()))
	require.NoError(t, err)
	id, _ := table.Column("id")
	assert.False(t, id.Usable)
	assert.Equal(t, reasonRowIndex, id.SkipReason)
	val, _ := table.Column("value")
	assert.True(t, val.Usable)

	table, err = DiscoverColumns([]byte(b.String()), DiscoverOptions{RecoverColumns: []string{"ID"}})
	require.NoError(t, err)
	id, _ = table.Column("id")
	assert.True(t, id.Usable)
	assert.Len(t, id.Values, 12)
}

func TestDiscoverNumberFormats(t *testing.T) {
	data := "amount\n\"1,234.5\"\n$12\n-€3\n£0.5\nabc\n"
	table, err := DiscoverColumns([]byte(data))
	require.NoError(t, err)
	col := table.Columns[0]
	assert.True(t, col.Usable)
	assert.Equal(t, []float64{1234.5, 12, -3, 0.5}, col.Values)
}

func TestDiscoverSampleSize(t *testing.T) {
	table, err := DiscoverColumns([]byte("x\n1\n2\n3\n4\n"), DiscoverOptions{SampleSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Rows)
	assert.Equal(t, []float64{1, 2}, table.Columns[0].Values)
}

func TestDiscoverErrors(t *testing.T) {
	_, err := DiscoverColumns(nil)
	assert.Error(t, err)

	_, err = DiscoverColumns([]byte("a,b\n"))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSeries(t *testing.T) {
	table, err := DiscoverColumns([]byte(scoresCSV))
	require.NoError(t, err)

	got, err := table.Series("hours_studied")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 6, 8}, got)

	got, err = table.Series("TESTSCORE")
	require.NoError(t, err)
	assert.Len(t, got, 4)

	_, err = table.Series("grade")
	assert.ErrorContains(t, err, "not usable")

	_, err = table.Series("age")
	assert.ErrorContains(t, err, "no column \"age\"")
}

func TestColumnsAligned(t *testing.T) {
	got, err := Columns([]byte(scoresCSV), "Hours Studied", "testScore")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// cy has no score and eve has no hours
	assert.Equal(t, []float64{2, 4, 8}, got[0])
	assert.Equal(t, []float64{65.5, 72, 91.25}, got[1])

	_, err = Columns([]byte(scoresCSV))
	assert.Error(t, err)

	_, err = Columns([]byte(scoresCSV), "hours_studied", "grade")
	assert.ErrorContains(t, err, "no row has numbers")

	_, err = Columns([]byte(scoresCSV), "missing")
	assert.Error(t, err)
}

func TestParseNumberList(t *testing.T) {
	tests := []struct {
		in      string
		want    []float64
		wantErr bool
	}{
		{"1, 2.5, 3", []float64{1, 2.5, 3}, false},
		{"[1 2 3]", []float64{1, 2, 3}, false},
		{"4\n5\n6\n", []float64{4, 5, 6}, false},
		{"-1;2e3; .5", []float64{-1, 2000, 0.5}, false},
		{"  ", nil, true},
		{"1, two, 3", nil, true},
		{"1, NaN", nil, true},
		{"inf", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNumberList(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringUtilities(t *testing.T) {
	assert.Equal(t, "test_score", toSnakeCase("testScore"))
	assert.Equal(t, "hours_studied", toSnakeCase("Hours Studied"))
	assert.Equal(t, "x_1", toSnakeCase("x--1"))
	assert.Equal(t, "Test Score", toDisplayName("test_score"))
	assert.Equal(t, "Height (cm)", toDisplayName(" Height (cm) "))
}
