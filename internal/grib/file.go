package grib

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/adapters/gribdec"
)

// File is a decoded GRIB2 stream. The stream is parsed once; selections run
// against the decoded messages.
type File struct {
	messages []*gribdec.Message
}

// Open decodes the GRIB2 file at path.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grib2 file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode decodes a whole GRIB2 stream.
func Decode(r io.Reader) (*File, error) {
	messages, err := gribdec.Decode(r)
	if err != nil {
		return nil, err
	}
	return &File{messages: messages}, nil
}

// DecodeBytes decodes an in-memory GRIB2 image.
func DecodeBytes(data []byte) (*File, error) {
	return Decode(bytes.NewReader(data))
}

// Messages returns the decoded messages in file order.
func (f *File) Messages() []*gribdec.Message {
	return f.messages
}

// First returns the first message matching the criteria as a labeled field,
// or FieldNotFoundError when nothing matches.
func (f *File) First(c Criteria) (*api.Variable, error) {
	filter, readKeys, err := c.Filter()
	if err != nil {
		return nil, err
	}
	for _, m := range f.messages {
		if matchKeys(m.Keys, filter) {
			return wrapField(m, readKeys)
		}
	}
	return nil, &FieldNotFoundError{Criteria: c}
}

// Select returns every matching message as a labeled field, in file order.
// An empty result is not an error; use First when absence matters.
func (f *File) Select(c Criteria) ([]*api.Variable, error) {
	filter, readKeys, err := c.Filter()
	if err != nil {
		return nil, err
	}
	var fields []*api.Variable
	for _, m := range f.messages {
		if !matchKeys(m.Keys, filter) {
			continue
		}
		v, err := wrapField(m, readKeys)
		if err != nil {
			return nil, err
		}
		fields = append(fields, v)
	}
	return fields, nil
}

// FirstMessage returns the first matching message with its raw keys.
func (f *File) FirstMessage(c Criteria) (*gribdec.Message, error) {
	filter, _, err := c.Filter()
	if err != nil {
		return nil, err
	}
	for _, m := range f.messages {
		if matchKeys(m.Keys, filter) {
			return m, nil
		}
	}
	return nil, &FieldNotFoundError{Criteria: c}
}

// SelectMessages returns every matching message, in file order.
func (f *File) SelectMessages(c Criteria) ([]*gribdec.Message, error) {
	filter, _, err := c.Filter()
	if err != nil {
		return nil, err
	}
	var out []*gribdec.Message
	for _, m := range f.messages {
		if matchKeys(m.Keys, filter) {
			out = append(out, m)
		}
	}
	return out, nil
}

// LoadField extracts the first field matching the criteria from the file at
// path. It returns FieldNotFoundError when nothing matches.
func LoadField(path string, c Criteria) (*api.Variable, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	return f.First(c)
}

// LoadFields extracts every field matching the criteria from the file at path.
func LoadFields(path string, c Criteria) ([]*api.Variable, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	return f.Select(c)
}

// LoadMessage extracts the first matching raw message from the file at path.
func LoadMessage(path string, c Criteria) (*gribdec.Message, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	return f.FirstMessage(c)
}

// LoadMessages extracts every matching raw message from the file at path.
func LoadMessages(path string, c Criteria) ([]*gribdec.Message, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	return f.SelectMessages(c)
}

// LoadBytes returns the raw bytes of the first message matching the
// criteria, e.g. to hand a single message to another tool.
func LoadBytes(path string, c Criteria) ([]byte, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	m, err := f.FirstMessage(c)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grib2 file: %w", err)
	}
	end := m.Offset + m.Length
	if end > int64(len(raw)) {
		return nil, fmt.Errorf("message at offset %d length %d extends past end of file (%d bytes)", m.Offset, m.Length, len(raw))
	}
	return raw[m.Offset:end], nil
}
