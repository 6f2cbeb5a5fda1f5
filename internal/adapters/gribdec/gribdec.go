// Package gribdec adapts the nilsmagnus GRIB2 decoder. It turns raw GRIB2
// streams into messages carrying ecCodes-style key maps, so the selection
// layer never touches the decoder's section structs.
package gribdec

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/nilsmagnus/grib/griblib"
)

// Message is one decoded GRIB2 message.
// Keys uses ecCodes names so filters written against cfgrib-style keys match.
type Message struct {
	Keys      map[string]any
	Data      []float64
	Grid      Grid
	RefTime   time.Time
	ValidTime time.Time
	Offset    int64 // byte position of the message in the stream
	Length    int64 // total message length from section 0
}

// Grid describes the horizontal grid of a message. Angles are in degrees.
type Grid struct {
	Template string
	Ni       int
	Nj       int
	Lat1     float64
	Lon1     float64
	Lat2     float64
	Lon2     float64
	DLat     float64
	DLon     float64
	ScanMode uint8
}

// Decode reads every GRIB2 message from r.
func Decode(r io.Reader) ([]*Message, error) {
	raw, err := griblib.ReadMessages(r)
	if err != nil {
		return nil, fmt.Errorf("read grib2 messages: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no grib2 messages in stream")
	}

	messages := fromRaw(raw)
	slog.Debug("decoded grib2 stream", "messages", len(messages))
	return messages, nil
}

// DecodeFile reads every GRIB2 message from the file at path.
func DecodeFile(path string) ([]*Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grib2 file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// fromRaw converts decoded messages and assigns byte offsets. Messages are
// back to back in a GRIB2 stream, so offsets are cumulative section-0 lengths.
func fromRaw(raw []*griblib.Message) []*Message {
	messages := make([]*Message, 0, len(raw))
	var offset int64
	for _, m := range raw {
		msg := convert(m)
		msg.Offset = offset
		offset += msg.Length
		messages = append(messages, msg)
	}
	return messages
}

func convert(m *griblib.Message) *Message {
	product := m.Section4.ProductDefinitionTemplate
	discipline := int(m.Section0.Discipline)
	category := int(product.ParameterCategory)
	number := int(product.ParameterNumber)
	levelType, level := surfaceKeys(product.FirstSurface)

	keys := map[string]any{
		"discipline":        discipline,
		"parameterCategory": category,
		"parameterNumber":   number,
		"shortName":         shortNameFor(discipline, category, number),
		"typeOfLevel":       levelType,
		"level":             level,
	}
	if info, ok := lookupParam(discipline, category, number); ok {
		keys["name"] = info.name
		keys["units"] = info.units
	}

	refTime := referenceTime(m.Section1.ReferenceTime)

	return &Message{
		Keys:    keys,
		Data:    m.Section7.Data,
		Grid:    gridOf(m),
		RefTime: refTime,
		// Forecast time is in hours for everything we ingest (table 4.4 unit 1).
		ValidTime: refTime.Add(time.Duration(product.ForecastTime) * time.Hour),
		Length:    int64(m.Section0.MessageLength),
	}
}

const (
	missingSurfaceScale = 0xff
	missingSurfaceValue = 0xffffffff
)

// surfaceKeys maps the first fixed surface to the ecCodes typeOfLevel and
// level convention: pressure surfaces (code 100) report hPa, everything else
// the descaled surface value.
func surfaceKeys(s griblib.Surface) (string, float64) {
	value := surfaceValue(s)
	if s.Type == 100 {
		value /= 100
	}
	return levelTypeName(int(s.Type)), value
}

func surfaceValue(s griblib.Surface) float64 {
	if s.Value == missingSurfaceValue || s.Scale == missingSurfaceScale {
		return 0
	}
	return float64(s.Value) / math.Pow10(scaleFactor(s.Scale))
}

// scaleFactor decodes a GRIB2 sign-magnitude scale factor octet.
// MSB is the sign bit (1=negative), remaining bits are magnitude.
func scaleFactor(raw uint8) int {
	magnitude := int(raw & 0x7f)
	if raw&0x80 != 0 {
		return -magnitude
	}
	return magnitude
}

func gridOf(m *griblib.Message) Grid {
	switch def := m.Section3.Definition.(type) {
	case *griblib.Grid0:
		return Grid{
			Template: "regular_ll",
			Ni:       int(def.Ni),
			Nj:       int(def.Nj),
			Lat1:     microdegrees(def.La1),
			Lon1:     microdegrees(def.Lo1),
			Lat2:     microdegrees(def.La2),
			Lon2:     microdegrees(def.Lo2),
			DLat:     microdegrees(def.Dj),
			DLon:     microdegrees(def.Di),
			ScanMode: def.ScanningMode,
		}
	default:
		// Grids we don't map come back as a single row with no axes.
		return Grid{
			Template: fmt.Sprintf("template%d", m.Section3.TemplateNumber),
			Ni:       int(m.Section3.DataPointCount),
			Nj:       1,
		}
	}
}

// GRIB2 encodes angles in micro-degrees.
func microdegrees(v int32) float64 {
	return float64(v) / 1e6
}

func referenceTime(t griblib.Time) time.Time {
	return time.Date(int(t.Year), time.Month(t.Month), int(t.Day),
		int(t.Hour), int(t.Minute), int(t.Second), 0, time.UTC)
}
