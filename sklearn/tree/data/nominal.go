package data

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
)

// NominalValueRepresentation is one interned nominal label.
type NominalValueRepresentation struct {
	Label          string  `yaml:"label" json:"label"`
	Code           int     `yaml:"code" json:"code"`
	TotalFrequency float64 `yaml:"total_frequency" json:"total_frequency"`
}

// NominalValueTable interns labels to dense codes in order of first appearance.
// A table is mutable while its column or target is being built and read-only afterwards.
type NominalValueTable struct {
	values []NominalValueRepresentation
	index  map[string]int
}

// NewNominalValueTable returns an empty table.
func NewNominalValueTable() *NominalValueTable {
	return &NominalValueTable{index: make(map[string]int)}
}

// Intern returns the code of label, assigning the next code on first sight,
// and adds weight to its frequency.
func (t *NominalValueTable) Intern(label string, weight float64) int {
	code, ok := t.index[label]
	if !ok {
		code = len(t.values)
		t.index[label] = code
		t.values = append(t.values, NominalValueRepresentation{Label: label, Code: code})
	}
	t.values[code].TotalFrequency += weight
	return code
}

// Lookup returns the code of label.
func (t *NominalValueTable) Lookup(label string) (int, bool) {
	code, ok := t.index[label]
	return code, ok
}

// Label returns the label of code.
func (t *NominalValueTable) Label(code int) string {
	if code < 0 || code >= len(t.values) {
		panic(tfErrors.NewIndexError("NominalValueTable.Label", code, len(t.values)))
	}
	return t.values[code].Label
}

// Len is the number of distinct labels.
func (t *NominalValueTable) Len() int { return len(t.values) }

// Values returns a copy of all entries ordered by code.
func (t *NominalValueTable) Values() []NominalValueRepresentation {
	out := make([]NominalValueRepresentation, len(t.values))
	copy(out, t.values)
	return out
}

// Labels returns the labels ordered by code.
func (t *NominalValueTable) Labels() []string {
	out := make([]string, len(t.values))
	for i, v := range t.values {
		out[i] = v.Label
	}
	return out
}

func (t *NominalValueTable) String() string {
	var b bytes.Buffer
	b.WriteByte('[')
	for i, v := range t.values {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s(%g)", v.Label, v.TotalFrequency)
	}
	b.WriteByte(']')
	return b.String()
}

var nominalTableMagic = [4]byte{'N', 'V', 'T', 1}

// MaxLabelLength bounds a decoded label in bytes.
const MaxLabelLength = 1 << 20

// WriteTo encodes the table as: magic, uvarint count, then per entry
// uvarint label length, label bytes, uvarint code, little-endian float64 frequency.
func (t *NominalValueTable) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.Write(nominalTableMagic[:])
	var tmp [binary.MaxVarintLen64]byte
	putUvarint := func(v uint64) {
		n := binary.PutUvarint(tmp[:], v)
		buf.Write(tmp[:n])
	}
	putUvarint(uint64(len(t.values)))
	for _, v := range t.values {
		putUvarint(uint64(len(v.Label)))
		buf.WriteString(v.Label)
		putUvarint(uint64(v.Code))
		var f [8]byte
		binary.LittleEndian.PutUint64(f[:], math.Float64bits(v.TotalFrequency))
		buf.Write(f[:])
	}
	n, err := w.Write(buf.Bytes())
	if err != nil {
		return int64(n), tfErrors.Wrap(err, "write nominal value table")
	}
	return int64(n), nil
}

// ReadFrom replaces the table contents with an encoding produced by WriteTo.
// Codes must be dense and in order.
func (t *NominalValueTable) ReadFrom(r io.Reader) (int64, error) {
	cr := newCountingReader(r)
	corrupt := func(msg string, err error) error {
		if err == nil {
			err = tfErrors.ErrCorruptEncoding
		}
		return tfErrors.NewModelError("NominalValueTable.ReadFrom", msg, err)
	}

	var magic [4]byte
	if _, err := io.ReadFull(cr, magic[:]); err != nil {
		return cr.n, corrupt("read magic", err)
	}
	if magic != nominalTableMagic {
		return cr.n, corrupt("bad magic", nil)
	}
	count, err := binary.ReadUvarint(cr)
	if err != nil {
		return cr.n, corrupt("read count", err)
	}
	values := make([]NominalValueRepresentation, 0, min(count, 1<<16))
	index := make(map[string]int, min(count, 1<<16))
	for i := uint64(0); i < count; i++ {
		labelLen, err := binary.ReadUvarint(cr)
		if err != nil {
			return cr.n, corrupt("read label length", err)
		}
		if labelLen > MaxLabelLength {
			return cr.n, corrupt(fmt.Sprintf("label length %d too long", labelLen), nil)
		}
		label := make([]byte, labelLen)
		if _, err := io.ReadFull(cr, label); err != nil {
			return cr.n, corrupt("read label", err)
		}
		code, err := binary.ReadUvarint(cr)
		if err != nil {
			return cr.n, corrupt("read code", err)
		}
		if code != i {
			return cr.n, corrupt(fmt.Sprintf("code %d at position %d is not dense", code, i), nil)
		}
		var f [8]byte
		if _, err := io.ReadFull(cr, f[:]); err != nil {
			return cr.n, corrupt("read frequency", err)
		}
		if _, dup := index[string(label)]; dup {
			return cr.n, corrupt(fmt.Sprintf("duplicate label %q", label), nil)
		}
		index[string(label)] = int(code)
		values = append(values, NominalValueRepresentation{
			Label:          string(label),
			Code:           int(code),
			TotalFrequency: math.Float64frombits(binary.LittleEndian.Uint64(f[:])),
		})
	}
	t.values = values
	t.index = index
	return cr.n, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (t *NominalValueTable) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := t.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (t *NominalValueTable) UnmarshalBinary(b []byte) error {
	_, err := t.ReadFrom(bytes.NewReader(b))
	return err
}

// countingReader never reads past what the decoder asks for, so bytes after
// the table stay in the underlying reader.
type countingReader struct {
	r  io.Reader
	br io.ByteReader
	n  int64
}

func newCountingReader(r io.Reader) *countingReader {
	br, _ := r.(io.ByteReader)
	return &countingReader{r: r, br: br}
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	if c.br != nil {
		b, err := c.br.ReadByte()
		if err == nil {
			c.n++
		}
		return b, err
	}
	var b [1]byte
	if _, err := io.ReadFull(c.r, b[:]); err != nil {
		return 0, err
	}
	c.n++
	return b[0], nil
}
