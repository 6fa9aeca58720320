package fit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/basetype"
	"github.com/muktihari/fit/profile/filedef"
)

// ErrInvalidFile wraps every decoding failure: bad header, CRC mismatch,
// truncated data, or a stream that holds no FIT file at all.
var ErrInvalidFile = errors.New("invalid FIT file")

// FileID is the file_id message.
type FileID struct {
	Type         uint8
	Manufacturer uint16
	Product      uint16
	TimeCreated  time.Time
}

// Session is the session message, reduced to what labels a dive log.
type Session struct {
	StartTime time.Time
	Sport     uint8
	SubSport  uint8
}

// Record is one record message. Depth is in metres and only meaningful when
// HasDepth is set.
type Record struct {
	Timestamp time.Time
	Depth     float64
	HasDepth  bool
}

// Event is one event message.
type Event struct {
	Timestamp time.Time
	Event     uint8
	EventType uint8
	Data      uint32
}

// File holds the decoded messages in stream order. For chained files the
// FileID is taken from the first file and the other messages are
// concatenated.
type File struct {
	FileID   FileID
	Sessions []Session
	Records  []Record
	Events   []Event
}

// IsActivity reports whether file_id declares an activity file.
func (f *File) IsActivity() bool {
	return f.FileID.Type == FileTypeActivity
}

// DecodeFile reads and decodes the FIT file at path.
func DecodeFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fit file: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}

// Decode reads every FIT file in the stream r.
func Decode(r io.Reader) (*File, error) {
	dec := decoder.New(r)
	file := &File{}
	sequences := 0
	for dec.Next() {
		data, err := dec.Decode()
		if err != nil {
			return nil, fmt.Errorf("%w: file %d: %w", ErrInvalidFile, sequences+1, err)
		}
		file.add(filedef.NewActivity(data.Messages...), sequences == 0)
		sequences++
	}
	if sequences == 0 {
		return nil, fmt.Errorf("%w: no FIT data", ErrInvalidFile)
	}
	return file, nil
}

func (f *File) add(act *filedef.Activity, first bool) {
	if first {
		f.FileID = FileID{
			Type:         uint8(act.FileId.Type),
			Manufacturer: uint16(act.FileId.Manufacturer),
			Product:      uint16(act.FileId.Product),
			TimeCreated:  utc(act.FileId.TimeCreated),
		}
	}

	for _, s := range act.Sessions {
		f.Sessions = append(f.Sessions, Session{
			StartTime: utc(s.StartTime),
			Sport:     uint8(s.Sport),
			SubSport:  uint8(s.SubSport),
		})
	}

	for _, r := range act.Records {
		if r.Timestamp.IsZero() {
			continue
		}
		rec := Record{Timestamp: utc(r.Timestamp)}
		if r.Depth != basetype.Uint32Invalid {
			rec.Depth = float64(r.Depth) / 1000
			rec.HasDepth = true
		}
		f.Records = append(f.Records, rec)
	}

	for _, e := range act.Events {
		if e.Timestamp.IsZero() {
			continue
		}
		f.Events = append(f.Events, Event{
			Timestamp: utc(e.Timestamp),
			Event:     uint8(e.Event),
			EventType: uint8(e.EventType),
			Data:      e.Data,
		})
	}
}

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
