package textfmt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAlignsColumns(t *testing.T) {
	tbl := Table{
		Headers: []string{"Reader", "Weight", "Votes"},
		Rows: [][]string{
			{"a", "7.50", "12"},
			{"reader_0002", "8.00", "3"},
		},
		RightAlign: map[int]bool{1: true, 2: true},
	}

	assert.Equal(t, []string{
		"Reader      Weight Votes",
		"a             7.50    12",
		"reader_0002   8.00     3",
	}, tbl.Lines())
}

func TestTableWideRunes(t *testing.T) {
	tbl := Table{
		Headers: []string{"ID", "W"},
		Rows: [][]string{
			{"讀者", "1"},
			{"ab", "2"},
		},
	}
	lines := tbl.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "讀者 1", lines[1])
	assert.Equal(t, "ab   2", lines[2])
}

func TestTableWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (Table{}).Write(&buf))
	assert.Equal(t, "\n", buf.String())
}
