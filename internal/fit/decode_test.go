package fit_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"divegraph/internal/fit"
	"divegraph/internal/testsupport"
)

var start = time.Date(2024, 7, 14, 9, 30, 0, 0, time.UTC)

func TestDecodeActivity(t *testing.T) {
	data := testsupport.NewFITBuilder().
		Activity(start).
		Record(start, 0.2).
		Event(start.Add(time.Second), fit.EventDiveAlert, 3).
		Record(start.Add(time.Second), 4.25).
		RecordWithoutDepth(start.Add(2*time.Second)).
		Session(start, fit.SportDiving, 56).
		Bytes()

	file, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if !file.IsActivity() {
		t.Fatalf("expected activity file, got type %d", file.FileID.Type)
	}
	if file.FileID.Manufacturer != 1 || !file.FileID.TimeCreated.Equal(start) {
		t.Fatalf("unexpected file_id: %+v", file.FileID)
	}
	if len(file.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(file.Records))
	}
	if r := file.Records[1]; !r.HasDepth || r.Depth != 4.25 || !r.Timestamp.Equal(start.Add(time.Second)) {
		t.Fatalf("unexpected record: %+v", r)
	}
	if file.Records[2].HasDepth {
		t.Fatalf("expected invalid depth to be reported absent: %+v", file.Records[2])
	}
	if len(file.Events) != 1 || file.Events[0].Event != fit.EventDiveAlert || file.Events[0].EventType != 3 {
		t.Fatalf("unexpected events: %+v", file.Events)
	}
	if len(file.Sessions) != 1 || file.Sessions[0].Sport != fit.SportDiving || file.Sessions[0].SubSport != 56 {
		t.Fatalf("unexpected sessions: %+v", file.Sessions)
	}
}

func TestDecodeBigEndianAndDeveloperFields(t *testing.T) {
	data := testsupport.NewFITBuilder().
		BigEndian().
		Activity(start).
		Record(start, 1.5).
		DeveloperRecord(start.Add(time.Second), 2.5).
		Record(start.Add(2*time.Second), 3.5).
		Bytes()

	file, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	want := []float64{1.5, 2.5, 3.5}
	if len(file.Records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(file.Records))
	}
	for i, w := range want {
		if file.Records[i].Depth != w {
			t.Fatalf("record %d depth = %v, want %v", i, file.Records[i].Depth, w)
		}
	}
}

func TestDecodeCompressedTimestamps(t *testing.T) {
	// Start close to a 32-second boundary so the offset wraps.
	base := start.Add(30 * time.Second)
	data := testsupport.NewFITBuilder().
		Activity(start).
		Record(base, 1).
		CompressedRecord(base.Add(time.Second), 2).
		CompressedRecord(base.Add(3*time.Second), 3).
		Bytes()

	file, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(file.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(file.Records))
	}
	for i, offset := range []time.Duration{0, time.Second, 3 * time.Second} {
		if got := file.Records[i].Timestamp; !got.Equal(base.Add(offset)) {
			t.Fatalf("record %d timestamp = %v, want %v", i, got, base.Add(offset))
		}
	}
}

func TestDecodeRejectsCorruptInput(t *testing.T) {
	valid := testsupport.NewFITBuilder().Activity(start).Record(start, 1).Bytes()

	badSignature := append([]byte(nil), valid...)
	copy(badSignature[8:12], "NOPE")

	badCRC := append([]byte(nil), valid...)
	badCRC[len(badCRC)-1] ^= 0xFF

	truncated := valid[:len(valid)-5]

	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"signature", badSignature},
		{"crc", badCRC},
		{"truncated", truncated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			file, err := fit.Decode(bytes.NewReader(tc.data))
			if !errors.Is(err, fit.ErrInvalidFile) {
				t.Fatalf("expected ErrInvalidFile, got file=%v err=%v", file, err)
			}
		})
	}
}

func TestDecodeChainedFiles(t *testing.T) {
	first := testsupport.NewFITBuilder().
		Activity(start).
		Record(start, 1).
		Bytes()
	second := testsupport.NewFITBuilder().
		FileID(6, 1, 2859, start.Add(time.Hour)).
		Record(start.Add(time.Second), 2).
		Event(start.Add(time.Second), fit.EventUserMarker, 3).
		Bytes()

	file, err := fit.Decode(bytes.NewReader(append(first, second...)))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if !file.IsActivity() || !file.FileID.TimeCreated.Equal(start) {
		t.Fatalf("expected file_id from the first file, got %+v", file.FileID)
	}
	if len(file.Records) != 2 || file.Records[1].Depth != 2 {
		t.Fatalf("expected records from both files, got %+v", file.Records)
	}
	if len(file.Events) != 1 {
		t.Fatalf("expected 1 event, got %+v", file.Events)
	}
}

func TestDecodeFileMissing(t *testing.T) {
	if _, err := fit.DecodeFile(t.TempDir() + "/absent.fit"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSportNames(t *testing.T) {
	if got := fit.SubSportName(56); got != "apnea_diving" {
		t.Fatalf("SubSportName(56) = %q", got)
	}
	if got := fit.SportName(fit.SportDiving); got != "diving" {
		t.Fatalf("SportName(diving) = %q", got)
	}
	if got := fit.SportName(200); got != "" {
		t.Fatalf("expected unknown sport to be empty, got %q", got)
	}
	if got := fit.SubSportName(0xFF); got != "" {
		t.Fatalf("expected invalid sub-sport to be empty, got %q", got)
	}
}
