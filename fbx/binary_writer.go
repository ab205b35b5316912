package fbx

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	binaryVersion = 7400
	// arrays larger than this are deflated
	compressThreshold = 128
)

var (
	footerID    = []byte{0xfa, 0xbc, 0xab, 0x09, 0xd0, 0xc8, 0xd4, 0x66, 0xb1, 0x76, 0xfb, 0x83, 0x1c, 0xf7, 0x26, 0x7e}
	footerMagic = []byte{0xf8, 0x5a, 0x8c, 0x6a, 0xde, 0xf5, 0xd9, 0x7e, 0xec, 0xe9, 0x0c, 0xe3, 0x75, 0x8f, 0x29, 0x0b}
	nullRecord  = make([]byte, 13)
)

type binaryWriter struct {
	buf bytes.Buffer
	err error
}

func (w *binaryWriter) write(v any) {
	if w.err == nil {
		w.err = binary.Write(&w.buf, binary.LittleEndian, v)
	}
}

func (w *binaryWriter) writeProp(a *Attribute) {
	switch v := a.Value.(type) {
	case bool:
		w.buf.WriteByte('C')
		if v {
			w.buf.WriteByte(1)
		} else {
			w.buf.WriteByte(0)
		}
	case int16:
		w.buf.WriteByte('Y')
		w.write(v)
	case int32:
		w.buf.WriteByte('I')
		w.write(v)
	case int:
		w.buf.WriteByte('L')
		w.write(int64(v))
	case int64:
		w.buf.WriteByte('L')
		w.write(v)
	case float32:
		w.buf.WriteByte('F')
		w.write(v)
	case float64:
		w.buf.WriteByte('D')
		w.write(v)
	case string:
		w.buf.WriteByte('S')
		w.write(uint32(len(v)))
		w.buf.WriteString(v)
	case []byte:
		w.buf.WriteByte('R')
		w.write(uint32(len(v)))
		w.buf.Write(v)
	case []bool:
		w.writeArray('b', len(v), v)
	case []int32:
		w.writeArray('i', len(v), v)
	case []int64:
		w.writeArray('l', len(v), v)
	case []float32:
		w.writeArray('f', len(v), v)
	case []float64:
		w.writeArray('d', len(v), v)
	default:
		if w.err == nil {
			w.err = fmt.Errorf("unsupported attribute type %T", a.Value)
		}
	}
}

func (w *binaryWriter) writeArray(typ byte, count int, data any) {
	var raw bytes.Buffer
	binary.Write(&raw, binary.LittleEndian, data)
	w.buf.WriteByte(typ)
	w.write(uint32(count))
	if raw.Len() <= compressThreshold {
		w.write(uint32(0))
		w.write(uint32(raw.Len()))
		w.buf.Write(raw.Bytes())
		return
	}
	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	zw.Write(raw.Bytes())
	if err := zw.Close(); err != nil && w.err == nil {
		w.err = err
	}
	w.write(uint32(1))
	w.write(uint32(z.Len()))
	w.buf.Write(z.Bytes())
}

// writeNode appends n and patches its header once the size is known.
func (w *binaryWriter) writeNode(n *Node) {
	start := w.buf.Len()
	w.write([3]uint32{}) // end offset, property count, property list length
	if len(n.Name) > math.MaxUint8 {
		w.err = fmt.Errorf("node name too long: %q", n.Name)
		return
	}
	w.buf.WriteByte(byte(len(n.Name)))
	w.buf.WriteString(n.Name)
	propStart := w.buf.Len()
	for _, a := range n.Attributes {
		w.writeProp(a)
	}
	propLen := w.buf.Len() - propStart
	for _, c := range n.Children {
		w.writeNode(c)
	}
	if len(n.Children) > 0 || len(n.Attributes) == 0 {
		w.buf.Write(nullRecord)
	}
	header := w.buf.Bytes()[start:]
	binary.LittleEndian.PutUint32(header[0:], uint32(w.buf.Len()))
	binary.LittleEndian.PutUint32(header[4:], uint32(len(n.Attributes)))
	binary.LittleEndian.PutUint32(header[8:], uint32(propLen))
}

func writeBinary(out io.Writer, root *Node) error {
	w := &binaryWriter{}
	w.buf.WriteString(binaryMagic)
	w.buf.Write([]byte{0x1a, 0x00})
	w.write(uint32(binaryVersion))
	for _, n := range root.Children {
		w.writeNode(n)
	}
	w.buf.Write(nullRecord)

	w.buf.Write(footerID)
	w.buf.Write(make([]byte, 4))
	pad := ((w.buf.Len() + 15) &^ 15) - w.buf.Len()
	if pad == 0 {
		pad = 16
	}
	w.buf.Write(make([]byte, pad))
	w.write(uint32(binaryVersion))
	w.buf.Write(make([]byte, 120))
	w.buf.Write(footerMagic)
	if w.err != nil {
		return w.err
	}
	_, err := w.buf.WriteTo(out)
	return err
}
