package capture

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/zoobzio/nosline"
)

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Archive is a stored capture session.
type Archive struct {
	XMLName xml.Name `json:"-" yaml:"-" msgpack:"-" bson:"-" xml:"capture"`
	Session string   `json:"session" xml:"session,attr" yaml:"session" msgpack:"session" bson:"session"`
	Created int64    `json:"created" xml:"created,attr" yaml:"created" msgpack:"created" bson:"created"` // unix milliseconds
	Records []Record `json:"records" xml:"record" yaml:"records" msgpack:"records" bson:"records"`

	seen map[string]bool
}

// NewArchive starts an empty archive with a fresh session ID.
func NewArchive() *Archive {
	return &Archive{
		Session: uuid.NewString(),
		Created: time.Now().UnixMilli(),
	}
}

// Add appends a line unless a line with the same fingerprint is already
// stored. It reports whether the line was added.
func (a *Archive) Add(source nosline.Source, line string) bool {
	if a.seen == nil {
		a.seen = make(map[string]bool, len(a.Records))
		for _, r := range a.Records {
			a.seen[r.Fingerprint] = true
		}
	}
	rec := NewRecord(uint64(len(a.Records)+1), source, line)
	if a.seen[rec.Fingerprint] {
		return false
	}
	a.seen[rec.Fingerprint] = true
	a.Records = append(a.Records, rec)
	return true
}

// AddAll adds every record of r and returns how many were new.
func (a *Archive) AddAll(r RecordReader) (int, error) {
	added := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return added, nil
		}
		if err != nil {
			return added, err
		}
		if a.Add(rec.Source, rec.Line) {
			added++
		}
	}
}

// Reader returns a RecordReader over the stored records.
func (a *Archive) Reader() RecordReader {
	return &sliceReader{records: a.Records}
}

// SessionID parses the session identifier.
func (a *Archive) SessionID() (uuid.UUID, error) {
	return uuid.Parse(a.Session)
}

type sliceReader struct {
	records []Record
	next    int
}

func (r *sliceReader) Next() (Record, error) {
	if r.next >= len(r.records) {
		return Record{}, io.EOF
	}
	rec := r.records[r.next]
	r.next++
	return rec, nil
}

// Encode writes the archive with c, zstd compressed when compress is set.
func (a *Archive) Encode(w io.Writer, c nosline.Codec, compress bool) error {
	data, err := c.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode archive as %s: %w", c.ContentType(), err)
	}
	if !compress {
		_, err = w.Write(data)
		return err
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := zw.Write(data); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

// DecodeArchive reads an archive written by Encode. Compressed input is
// detected from the zstd frame header.
func DecodeArchive(r io.Reader, c nosline.Codec) (*Archive, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, zstdMagic) {
		zr, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		data, err = zr.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress archive: %w", err)
		}
	}

	var a Archive
	if err := c.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode archive as %s: %w", c.ContentType(), err)
	}
	return &a, nil
}
