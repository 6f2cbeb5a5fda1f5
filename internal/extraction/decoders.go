package extraction

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/util"

	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/adapters/ncdec"
	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/grib"
)

// GRIBDecoder decodes GRIB2 streams through the grib package.
type GRIBDecoder struct{}

func (GRIBDecoder) Decode(r io.Reader) (FieldSet, error) {
	f, err := grib.Decode(r)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// NCDecoder spools the stream to a temporary file because the NetCDF reader
// needs random access.
type NCDecoder struct{}

func (NCDecoder) Decode(r io.Reader) (FieldSet, error) {
	tmp, err := os.CreateTemp("", "extraction-*.nc")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(path)
		return nil, fmt.Errorf("spool netcdf stream: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	group, err := ncdec.Open(path)
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	return &ncFieldSet{group: group, path: path}, nil
}

// ncFieldSet selects variables out of an open NetCDF group.
type ncFieldSet struct {
	// go-native-netcdf reads are not synchronized, so guard the group.
	mu    sync.Mutex
	group api.Group
	path  string
}

func (f *ncFieldSet) First(c grib.Criteria) (*api.Variable, error) {
	name, ok := grib.ShortName(c.Parameter)
	if !ok {
		return nil, errors.New("netcdf criteria must select by parameter name")
	}
	if c.LevelType != "" || c.Level != nil {
		return nil, errors.New("level criteria apply to grib objects only")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	v, err := ncdec.DataVariable(f.group, name)
	if errors.Is(err, ncdec.ErrVariableNotFound) {
		return nil, &grib.FieldNotFoundError{Criteria: c}
	}
	if err != nil {
		return nil, err
	}

	return f.labeled(name, v)
}

// labeled reshapes the variable into the latitude by longitude layout the
// service flattens, carrying the coordinate axes as attributes.
func (f *ncFieldSet) labeled(name string, v *api.Variable) (*api.Variable, error) {
	rows, err := ncdec.Rows(v.Values)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", name, err)
	}

	lats, err := ncdec.Axis(f.group, "latitude", "lat")
	if err != nil {
		return nil, err
	}
	lons, err := ncdec.Axis(f.group, "longitude", "lon")
	if err != nil {
		return nil, err
	}
	if len(rows) != len(lats) {
		return nil, fmt.Errorf("variable %q has %d rows for %d latitudes", name, len(rows), len(lats))
	}

	keys := []string{"units", "long_name", "latitudes", "longitudes"}
	attrs, err := util.NewOrderedMap(keys, map[string]interface{}{
		"units":      attrString(v, "units"),
		"long_name":  attrString(v, "long_name"),
		"latitudes":  lats,
		"longitudes": lons,
	})
	if err != nil {
		return nil, fmt.Errorf("build attributes: %w", err)
	}

	return &api.Variable{
		Values:     rows,
		Dimensions: []string{"latitude", "longitude"},
		Attributes: attrs,
	}, nil
}

func (f *ncFieldSet) Close() error {
	f.group.Close()
	return os.Remove(f.path)
}
