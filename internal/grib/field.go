package grib

import (
	"fmt"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/util"

	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/adapters/gribdec"
)

// wrapField turns a decoded message into a labeled variable. Values are laid
// out [latitude][longitude] in scan order; metadata travels as cfgrib-style
// GRIB_ attributes so consumers of either backend read the same names.
func wrapField(m *gribdec.Message, readKeys []string) (*api.Variable, error) {
	g := m.Grid
	if g.Ni <= 0 || g.Nj <= 0 {
		return nil, fmt.Errorf("message has no usable grid (%s)", g.Template)
	}
	if len(m.Data) != g.Ni*g.Nj {
		return nil, fmt.Errorf("data length %d does not match %dx%d grid", len(m.Data), g.Nj, g.Ni)
	}

	rows := make([][]float64, g.Nj)
	for j := range rows {
		rows[j] = m.Data[j*g.Ni : (j+1)*g.Ni]
	}

	attrs, err := fieldAttributes(m, readKeys)
	if err != nil {
		return nil, err
	}

	return &api.Variable{
		Values:     rows,
		Dimensions: []string{"latitude", "longitude"},
		Attributes: attrs,
	}, nil
}

func fieldAttributes(m *gribdec.Message, readKeys []string) (*util.OrderedMap, error) {
	g := m.Grid
	ref := m.RefTime.UTC()

	keys := []string{
		"units",
		"long_name",
		"valid_time",
		"GRIB_shortName",
		"GRIB_discipline",
		"GRIB_parameterCategory",
		"GRIB_parameterNumber",
		"GRIB_typeOfLevel",
		"GRIB_level",
		"GRIB_dataDate",
		"GRIB_dataTime",
		"GRIB_gridType",
		"GRIB_Ni",
		"GRIB_Nj",
		"GRIB_numberOfPoints",
		"GRIB_latitudeOfFirstGridPointInDegrees",
		"GRIB_longitudeOfFirstGridPointInDegrees",
		"GRIB_latitudeOfLastGridPointInDegrees",
		"GRIB_longitudeOfLastGridPointInDegrees",
		"GRIB_iDirectionIncrementInDegrees",
		"GRIB_jDirectionIncrementInDegrees",
	}
	attrs := map[string]interface{}{
		"units":                                   stringKey(m, "units"),
		"long_name":                               stringKey(m, "name"),
		"valid_time":                              m.ValidTime.UTC().Format(time.RFC3339),
		"GRIB_shortName":                          m.Keys["shortName"],
		"GRIB_discipline":                         m.Keys["discipline"],
		"GRIB_parameterCategory":                  m.Keys["parameterCategory"],
		"GRIB_parameterNumber":                    m.Keys["parameterNumber"],
		"GRIB_typeOfLevel":                        m.Keys["typeOfLevel"],
		"GRIB_level":                              m.Keys["level"],
		"GRIB_dataDate":                           ref.Year()*10000 + int(ref.Month())*100 + ref.Day(),
		"GRIB_dataTime":                           ref.Hour()*100 + ref.Minute(),
		"GRIB_gridType":                           g.Template,
		"GRIB_Ni":                                 g.Ni,
		"GRIB_Nj":                                 g.Nj,
		"GRIB_numberOfPoints":                     g.Ni * g.Nj,
		"GRIB_latitudeOfFirstGridPointInDegrees":  g.Lat1,
		"GRIB_longitudeOfFirstGridPointInDegrees": g.Lon1,
		"GRIB_latitudeOfLastGridPointInDegrees":   g.Lat2,
		"GRIB_longitudeOfLastGridPointInDegrees":  g.Lon2,
		"GRIB_iDirectionIncrementInDegrees":       g.DLon,
		"GRIB_jDirectionIncrementInDegrees":       g.DLat,
	}

	// Surface any extra read keys the caller filtered on.
	for _, k := range readKeys {
		name := "GRIB_" + k
		if _, ok := attrs[name]; ok {
			continue
		}
		if v, ok := m.Keys[k]; ok {
			keys = append(keys, name)
			attrs[name] = v
		}
	}

	om, err := util.NewOrderedMap(keys, attrs)
	if err != nil {
		return nil, fmt.Errorf("build field attributes: %w", err)
	}
	return om, nil
}

func stringKey(m *gribdec.Message, key string) string {
	if s, ok := m.Keys[key].(string); ok {
		return s
	}
	return ""
}

// Latitudes returns the latitude axis of a field produced by this package,
// in the row order of Values.
func Latitudes(v *api.Variable) ([]float64, error) {
	return axis(v,
		"GRIB_latitudeOfFirstGridPointInDegrees",
		"GRIB_latitudeOfLastGridPointInDegrees",
		"GRIB_Nj", false)
}

// Longitudes returns the longitude axis of a field produced by this package.
// Axes crossing the prime meridian come back monotonic, starting in
// [-180, 180).
func Longitudes(v *api.Variable) ([]float64, error) {
	return axis(v,
		"GRIB_longitudeOfFirstGridPointInDegrees",
		"GRIB_longitudeOfLastGridPointInDegrees",
		"GRIB_Ni", true)
}

func axis(v *api.Variable, firstKey, lastKey, countKey string, wrap bool) ([]float64, error) {
	first, err := attrFloat(v, firstKey)
	if err != nil {
		return nil, err
	}
	last, err := attrFloat(v, lastKey)
	if err != nil {
		return nil, err
	}
	countF, err := attrFloat(v, countKey)
	if err != nil {
		return nil, err
	}
	count := int(countF)
	if count <= 0 {
		return nil, fmt.Errorf("attribute %s: no points", countKey)
	}

	if wrap {
		first = normalizeLon(first)
		last = normalizeLon(last)
		if last < first {
			last += 360
		}
	}

	out := make([]float64, count)
	if count == 1 {
		out[0] = first
		return out, nil
	}
	step := (last - first) / float64(count-1)
	for i := range out {
		out[i] = first + float64(i)*step
	}
	return out, nil
}

// normalizeLon maps 0..360 longitudes into -180..180.
func normalizeLon(lon float64) float64 {
	if lon > 180 {
		return lon - 360
	}
	return lon
}

func attrFloat(v *api.Variable, key string) (float64, error) {
	raw, has := v.Attributes.Get(key)
	if !has {
		return 0, fmt.Errorf("attribute %s missing", key)
	}
	f, ok := asFloat(raw)
	if !ok {
		return 0, fmt.Errorf("attribute %s is %T, not numeric", key, raw)
	}
	return f, nil
}
