package data_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/sklearn/tree/data"
)

func TestNominalValueTableRoundTrip(t *testing.T) {
	table := data.NewNominalValueTable()
	for _, l := range []string{"sunny", "rain", "sunny", "", "overcast", "rain", "sunny"} {
		table.Intern(l, 1.5)
	}
	require.Equal(t, 4, table.Len())

	encoded, err := table.MarshalBinary()
	require.NoError(t, err)

	decoded := data.NewNominalValueTable()
	require.NoError(t, decoded.UnmarshalBinary(encoded))

	assert.Equal(t, table.Values(), decoded.Values())
	for code, v := range decoded.Values() {
		assert.Equal(t, code, v.Code, "codes are dense")
		got, ok := decoded.Lookup(v.Label)
		require.True(t, ok)
		assert.Equal(t, code, got)
	}
	assert.Equal(t, 4.5, decoded.Values()[0].TotalFrequency)
	assert.Equal(t, 3.0, decoded.Values()[1].TotalFrequency)
}

func TestNominalValueTableWriteToReadFrom(t *testing.T) {
	table := data.NewNominalValueTable()
	table.Intern("a", 1)
	table.Intern("b", 2)

	var buf bytes.Buffer
	n, err := table.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	decoded := data.NewNominalValueTable()
	m, err := decoded.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, n, m)
	assert.Equal(t, "b", decoded.Label(1))
}

func TestNominalValueTableRejectsCorruptInput(t *testing.T) {
	table := data.NewNominalValueTable()
	table.Intern("x", 1)
	table.Intern("y", 1)
	encoded, err := table.MarshalBinary()
	require.NoError(t, err)

	decoded := data.NewNominalValueTable()
	assert.ErrorIs(t, decoded.UnmarshalBinary([]byte("JUNK")), tfErrors.ErrCorruptEncoding)
	assert.Error(t, decoded.UnmarshalBinary(encoded[:len(encoded)-3]))

	// magic(4) count(1) len(1) "x"(1) code(1): make the first code 1
	bad := append([]byte(nil), encoded...)
	bad[7] = 1
	assert.ErrorIs(t, decoded.UnmarshalBinary(bad), tfErrors.ErrCorruptEncoding)

	// one entry whose label length is far beyond anything allocatable
	huge := append([]byte("NVT\x01\x01"), binary.AppendUvarint(nil, 1<<62)...)
	assert.ErrorIs(t, decoded.UnmarshalBinary(huge), tfErrors.ErrCorruptEncoding)
	huge = append([]byte("NVT\x01\x01"), binary.AppendUvarint(nil, data.MaxLabelLength+1)...)
	assert.ErrorIs(t, decoded.UnmarshalBinary(huge), tfErrors.ErrCorruptEncoding)
}

type onlyReader struct{ r io.Reader }

func (o onlyReader) Read(p []byte) (int, error) { return o.r.Read(p) }

func TestNominalValueTableReadFromLeavesTrailingBytes(t *testing.T) {
	first := data.NewNominalValueTable()
	first.Intern("red", 2)
	first.Intern("blue", 1)
	second := data.NewNominalValueTable()
	second.Intern("small", 5)

	for name, wrap := range map[string]func(io.Reader) io.Reader{
		"byte reader":  func(r io.Reader) io.Reader { return r },
		"plain reader": func(r io.Reader) io.Reader { return onlyReader{r} },
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			n1, err := first.WriteTo(&buf)
			require.NoError(t, err)
			n2, err := second.WriteTo(&buf)
			require.NoError(t, err)
			buf.WriteString("tail")

			r := wrap(&buf)
			got1 := data.NewNominalValueTable()
			read1, err := got1.ReadFrom(r)
			require.NoError(t, err)
			assert.Equal(t, n1, read1)
			got2 := data.NewNominalValueTable()
			read2, err := got2.ReadFrom(r)
			require.NoError(t, err)
			assert.Equal(t, n2, read2)

			assert.Equal(t, first.Values(), got1.Values())
			assert.Equal(t, second.Values(), got2.Values())
			assert.Equal(t, "tail", buf.String())
		})
	}
}

func TestNominalValueTableLabelPanics(t *testing.T) {
	table := data.NewNominalValueTable()
	assert.Panics(t, func() { table.Label(0) })
}
