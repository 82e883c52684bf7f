package csvimport

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParser(t *testing.T) {
	t.Run("strips BOM and normalizes headers", func(t *testing.T) {
		p, err := NewParser(strings.NewReader("\xEF\xBB\xBF Code ,PRICE\nA-1,10"))
		require.NoError(t, err)
		assert.Equal(t, []string{"code", "price"}, p.Headers())
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := NewParser(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("invalid encoding", func(t *testing.T) {
		_, err := NewParser(strings.NewReader("code,price\n\xff\xfe,1"))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("custom delimiter", func(t *testing.T) {
		p, err := NewParser(strings.NewReader("code;price\nA;1"), WithDelimiter(';'))
		require.NoError(t, err)
		row, err := p.Next()
		require.NoError(t, err)
		assert.Equal(t, "A", row.Get("code"))
		assert.Equal(t, 2, row.Line)
	})
}

func TestParseUnits(t *testing.T) {
	csv := strings.Join([]string{
		"code,price,area_m2,floor,view,typology_id",
		"A-101,250000.50,72.5,1,Sea,",
		"A-102,abc,,,,",
		"a-101,100,,,,",
		",100,,,,",
		"B-201,300000,80,two,,",
		"B-202,310000,,2,Park,4b7e4b55-0b5e-4d6b-8a5e-5f0c0f7d1e11",
	}, "\n")

	rows, errs, err := ParseUnits(strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "A-101", rows[0].Code)
	assert.True(t, rows[0].Price.Equal(decimal.RequireFromString("250000.50")))
	assert.True(t, rows[0].AreaM2.Equal(decimal.RequireFromString("72.5")))
	require.NotNil(t, rows[0].Floor)
	assert.Equal(t, 1, *rows[0].Floor)
	assert.Equal(t, "Sea", rows[0].View)
	assert.Nil(t, rows[0].TypologyID)

	assert.Equal(t, "B-202", rows[1].Code)
	require.NotNil(t, rows[1].TypologyID)
	assert.Equal(t, 7, rows[1].Line)

	assert.Equal(t, 4, errs.FailedRows())
	codes := map[int]string{}
	for _, e := range errs.Errors() {
		codes[e.Row] = e.Code
	}
	assert.Equal(t, ErrCodeInvalidType, codes[3])
	assert.Equal(t, ErrCodeDuplicateFile, codes[4])
	assert.Equal(t, ErrCodeRequiredField, codes[5])
	assert.Equal(t, ErrCodeInvalidType, codes[6])
}

func TestParseUnits_MissingColumns(t *testing.T) {
	rows, errs, err := ParseUnits(strings.NewReader("code,area_m2\nA-1,10"))
	require.NoError(t, err)
	assert.Empty(t, rows)
	require.True(t, errs.HasErrors())
	assert.Equal(t, ColPrice, errs.Errors()[0].Column)
}

func TestErrorCollection_Truncates(t *testing.T) {
	ec := NewErrorCollection(2)
	for i := 1; i <= 3; i++ {
		ec.AddRequired(i, ColCode)
	}
	assert.Len(t, ec.Errors(), 2)
	assert.Equal(t, 3, ec.TotalCount())
	assert.True(t, ec.IsTruncated())
	assert.Contains(t, ec.String(), "showing first 2")
}
