package fb

// XPBReader walks parameter and info blocks returned by the client library.
type XPBReader struct {
	buf []byte
	pos int
}

// XPBWriter builds DPB and TPB blocks.
type XPBWriter struct {
	buf []byte
}

func NewXPBReader(buf []byte) *XPBReader {
	return &XPBReader{buf, 0}
}

func (pb *XPBReader) Next() (have bool, value byte) {
	if pb.End() {
		return false, 0
	}
	b := pb.buf[pb.pos]
	pb.pos++
	return true, b
}

func (pb *XPBReader) End() bool {
	return pb.pos >= len(pb.buf)
}

func (pb *XPBReader) Get() byte {
	return pb.buf[pb.pos]
}

func (pb *XPBReader) GetInt16() int16 {
	return int16(pb.GetVaxInteger(2))
}

func (pb *XPBReader) GetInt32() int32 {
	return int32(pb.GetVaxInteger(4))
}

func (pb *XPBReader) GetVaxInteger(n int) int64 {
	if pb.pos+n > len(pb.buf) {
		n = len(pb.buf) - pb.pos
	}
	r := vax_integer(pb.buf[pb.pos : pb.pos+n])
	pb.pos += n
	return r
}

func (pb *XPBReader) GetString() string {
	l := int(pb.GetInt16())
	return bytes_to_str(pb.GetBytes(l))
}

func (pb *XPBReader) GetBytes(n int) []byte {
	if pb.pos+n > len(pb.buf) {
		n = len(pb.buf) - pb.pos
	}
	b := pb.buf[pb.pos : pb.pos+n]
	pb.pos += n
	return b
}

// NextItem reads one {tag, int16 length, value} clumplet of an info
// buffer. ok is false at isc_info_end, isc_info_truncated or the end of
// the buffer.
func (pb *XPBReader) NextItem() (tag byte, value []byte, ok bool) {
	have, tag := pb.Next()
	if !have || tag == isc_info_end || tag == isc_info_truncated || pb.pos+2 > len(pb.buf) {
		return tag, nil, false
	}
	l := int(pb.GetInt16())
	return tag, pb.GetBytes(l), true
}

// InfoItems collects the clumplets of an info buffer by tag.
func (pb *XPBReader) InfoItems() map[byte][]byte {
	items := make(map[byte][]byte)
	for {
		tag, value, ok := pb.NextItem()
		if !ok {
			return items
		}
		items[tag] = value
	}
}

func (pb *XPBReader) Reset() {
	pb.pos = 0
}

func NewXPBWriter() *XPBWriter {
	return &XPBWriter{
		buf: make([]byte, 0, 16),
	}
}

func NewXPBWriterFromTag(tag byte) *XPBWriter {
	return NewXPBWriter().PutTag(tag)
}

func NewXPBWriterFromBytes(bytes []byte) *XPBWriter {
	return NewXPBWriter().PutBytes(bytes)
}

func (pb *XPBWriter) PutTag(tag byte) *XPBWriter {
	pb.buf = append(pb.buf, tag)
	return pb
}

func (pb *XPBWriter) PutByte(tag byte, val byte) *XPBWriter {
	pb.buf = append(pb.buf, tag, val)
	return pb
}

// PutShortString appends {tag, len, bytes} with a one byte length, the
// record format of DPB items and TPB table reservations.
func (pb *XPBWriter) PutShortString(tag byte, val string) *XPBWriter {
	strBytes := str_to_bytes(val)
	if len(strBytes) > 255 {
		strBytes = strBytes[:255]
	}
	pb.buf = append(pb.buf, tag, byte(len(strBytes)))
	pb.buf = append(pb.buf, strBytes...)
	return pb
}

func (pb *XPBWriter) PutBytes(bytes []byte) *XPBWriter {
	pb.buf = append(pb.buf, bytes...)
	return pb
}

func (pb *XPBWriter) SetByte(pos int, val byte) *XPBWriter {
	pb.buf[pos] = val
	return pb
}

func (pb *XPBWriter) Bytes() []byte {
	return pb.buf
}

func (pb *XPBWriter) Len() int {
	return len(pb.buf)
}

func (pb *XPBWriter) Reset() *XPBWriter {
	pb.buf = pb.buf[:0]
	return pb
}
