package testsupport

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// FIT wire constants used to hand-encode fixtures.
const (
	fileTypeActivity uint8 = 4

	mesgFileID  uint16 = 0
	mesgSession uint16 = 18
	mesgRecord  uint16 = 20
	mesgEvent   uint16 = 21

	baseEnum   uint8 = 0x00
	baseUint16 uint8 = 0x84
	baseUint32 uint8 = 0x86

	// Seconds between the Unix epoch and 1989-12-31T00:00:00Z.
	fitEpoch int64 = 631065600
)

var crcTable = [16]uint16{
	0x0000, 0xCC01, 0xD801, 0x1400, 0xF001, 0x3C00, 0x2800, 0xE401,
	0xA001, 0x6C00, 0x7800, 0xB401, 0x5000, 0x9C01, 0x8801, 0x4400,
}

// checksum is the FIT CRC-16 over data.
func checksum(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		tmp := crcTable[crc&0xF]
		crc = (crc >> 4) & 0x0FFF
		crc = crc ^ tmp ^ crcTable[b&0xF]
		tmp = crcTable[crc&0xF]
		crc = (crc >> 4) & 0x0FFF
		crc = crc ^ tmp ^ crcTable[(b>>4)&0xF]
	}
	return crc
}

func dateTime(t time.Time) uint32 {
	return uint32(t.Unix() - fitEpoch)
}

type fitField struct {
	num      uint8
	size     uint8
	baseType uint8
}

// FITBuilder assembles minimal FIT activity files for tests.
type FITBuilder struct {
	order  binary.ByteOrder
	arch   byte
	body   bytes.Buffer
	shapes map[byte]string
}

// NewFITBuilder returns a little-endian builder.
func NewFITBuilder() *FITBuilder {
	return &FITBuilder{order: binary.LittleEndian, shapes: make(map[byte]string)}
}

// BigEndian switches subsequent definitions to big-endian architecture.
func (b *FITBuilder) BigEndian() *FITBuilder {
	b.order = binary.BigEndian
	b.arch = 1
	b.shapes = make(map[byte]string)
	return b
}

// FileID appends a file_id message.
func (b *FITBuilder) FileID(fileType uint8, manufacturer, product uint16, created time.Time) *FITBuilder {
	b.define(0, "file_id", mesgFileID, []fitField{
		{0, 1, baseEnum},
		{1, 2, baseUint16},
		{2, 2, baseUint16},
		{4, 4, baseUint32},
	}, 0)
	b.body.WriteByte(0)
	b.body.WriteByte(fileType)
	b.u16(manufacturer)
	b.u16(product)
	b.u32(dateTime(created))
	return b
}

// Activity appends a Garmin activity file_id.
func (b *FITBuilder) Activity(created time.Time) *FITBuilder {
	return b.FileID(fileTypeActivity, 1, 2859, created)
}

// Session appends a session message.
func (b *FITBuilder) Session(start time.Time, sport, subSport uint8) *FITBuilder {
	b.define(1, "session", mesgSession, []fitField{
		{2, 4, baseUint32},
		{5, 1, baseEnum},
		{6, 1, baseEnum},
	}, 0)
	b.body.WriteByte(1)
	b.u32(dateTime(start))
	b.body.WriteByte(sport)
	b.body.WriteByte(subSport)
	return b
}

// Record appends a record message with a depth in metres.
func (b *FITBuilder) Record(ts time.Time, depth float64) *FITBuilder {
	b.define(2, "record", mesgRecord, []fitField{
		{253, 4, baseUint32},
		{92, 4, baseUint32},
	}, 0)
	b.body.WriteByte(2)
	b.u32(dateTime(ts))
	b.u32(uint32(math.Round(depth * 1000)))
	return b
}

// RecordWithoutDepth appends a record whose depth holds the invalid sentinel.
func (b *FITBuilder) RecordWithoutDepth(ts time.Time) *FITBuilder {
	b.define(2, "record", mesgRecord, []fitField{
		{253, 4, baseUint32},
		{92, 4, baseUint32},
	}, 0)
	b.body.WriteByte(2)
	b.u32(dateTime(ts))
	b.u32(0xFFFFFFFF)
	return b
}

// CompressedRecord appends a record using a compressed-timestamp header.
// Only the low five bits of the timestamp are written.
func (b *FITBuilder) CompressedRecord(ts time.Time, depth float64) *FITBuilder {
	b.define(1, "record-compressed", mesgRecord, []fitField{
		{92, 4, baseUint32},
	}, 0)
	b.body.WriteByte(0x80 | 1<<5 | byte(dateTime(ts)&0x1F))
	b.u32(uint32(math.Round(depth * 1000)))
	return b
}

// DeveloperRecord appends a record whose definition carries one two-byte
// developer field.
func (b *FITBuilder) DeveloperRecord(ts time.Time, depth float64) *FITBuilder {
	b.define(2, "record-dev", mesgRecord, []fitField{
		{253, 4, baseUint32},
		{92, 4, baseUint32},
	}, 1)
	b.body.WriteByte(2)
	b.u32(dateTime(ts))
	b.u32(uint32(math.Round(depth * 1000)))
	b.u16(0xBEEF)
	return b
}

// Event appends an event message.
func (b *FITBuilder) Event(ts time.Time, event, eventType uint8) *FITBuilder {
	b.define(3, "event", mesgEvent, []fitField{
		{253, 4, baseUint32},
		{0, 1, baseEnum},
		{1, 1, baseEnum},
		{3, 4, baseUint32},
	}, 0)
	b.body.WriteByte(3)
	b.u32(dateTime(ts))
	b.body.WriteByte(event)
	b.body.WriteByte(eventType)
	b.u32(0)
	return b
}

// Bytes returns the complete file: 14-byte header, messages, and file CRC.
func (b *FITBuilder) Bytes() []byte {
	body := b.body.Bytes()
	out := make([]byte, 14, 14+len(body)+2)
	out[0] = 14
	out[1] = 0x20
	binary.LittleEndian.PutUint16(out[2:4], 2132)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(body)))
	copy(out[8:12], ".FIT")
	binary.LittleEndian.PutUint16(out[12:14], checksum(out[:12]))
	out = append(out, body...)
	crc := checksum(out)
	return binary.LittleEndian.AppendUint16(out, crc)
}

// WriteTo writes the file to path, creating parent directories.
func (b *FITBuilder) WriteTo(t testing.TB, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func (b *FITBuilder) define(local byte, shape string, global uint16, fields []fitField, devFields int) {
	if b.shapes[local] == shape {
		return
	}
	b.shapes[local] = shape

	header := 0x40 | local
	if devFields > 0 {
		header |= 0x20
	}
	b.body.WriteByte(header)
	b.body.WriteByte(0)
	b.body.WriteByte(b.arch)
	b.u16(global)
	b.body.WriteByte(byte(len(fields)))
	for _, f := range fields {
		b.body.Write([]byte{f.num, f.size, f.baseType})
	}
	if devFields > 0 {
		b.body.WriteByte(byte(devFields))
		for i := 0; i < devFields; i++ {
			b.body.Write([]byte{byte(i), 2, 0})
		}
	}
}

func (b *FITBuilder) u16(v uint16) {
	var buf [2]byte
	b.order.PutUint16(buf[:], v)
	b.body.Write(buf[:])
}

func (b *FITBuilder) u32(v uint32) {
	var buf [4]byte
	b.order.PutUint32(buf[:], v)
	b.body.Write(buf[:])
}
