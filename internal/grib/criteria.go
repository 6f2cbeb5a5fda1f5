// Package grib extracts named fields from GRIB2 data.
//
// It is a thin layer over the decode backend in internal/adapters/gribdec:
// the package's own job is translating search criteria into the backend's
// key filter and picking the first matching message. Returned fields are
// go-native-netcdf variables so downstream code handles GRIB and NetCDF
// data the same way.
package grib

import (
	"errors"
	"fmt"
)

// Parameter identifies what to extract, either by ecCodes short name or by
// the numeric identifiers from the GRIB2 code tables.
type Parameter interface {
	fmt.Stringer
	apply(filter map[string]any, readKeys []string) []string
}

// ByName selects by ecCodes short name, e.g. "t" or "pm2p5".
func ByName(name string) Parameter {
	return paramName(name)
}

// ByID selects by discipline, parameter category and parameter number.
func ByID(discipline, category, number int) Parameter {
	return paramID{discipline: discipline, category: category, number: number}
}

// ShortName returns the short name of a by-name parameter. Numeric
// parameters report false: they carry no name until a message resolves one.
func ShortName(p Parameter) (string, bool) {
	name, ok := p.(paramName)
	return string(name), ok
}

type paramName string

func (p paramName) String() string { return string(p) }

func (p paramName) apply(filter map[string]any, readKeys []string) []string {
	filter["shortName"] = string(p)
	return readKeys
}

type paramID struct {
	discipline int
	category   int
	number     int
}

func (p paramID) String() string {
	return fmt.Sprintf("%d/%d/%d", p.discipline, p.category, p.number)
}

func (p paramID) apply(filter map[string]any, readKeys []string) []string {
	filter["discipline"] = p.discipline
	filter["parameterCategory"] = p.category
	filter["parameterNumber"] = p.number
	return append(readKeys, "discipline", "parameterCategory", "parameterNumber")
}

// Criteria selects messages within a GRIB2 stream. LevelType takes ecCodes
// typeOfLevel names ("" matches any level type); a nil Level matches any
// level value.
type Criteria struct {
	Parameter Parameter
	LevelType string
	Level     *float64
}

// Filter translates the criteria into the key filter and read-key list for
// the decode backend. The read keys name the identifier keys selection
// relies on; they are surfaced as GRIB_ attributes on returned fields.
func (c Criteria) Filter() (map[string]any, []string, error) {
	if c.Parameter == nil {
		return nil, nil, errors.New("parameter is required")
	}

	filter := make(map[string]any)
	readKeys := c.Parameter.apply(filter, nil)

	if c.LevelType != "" {
		filter["typeOfLevel"] = fixLevelType(c.LevelType)
	}
	if c.Level != nil {
		filter["level"] = *c.Level
	}

	return filter, readKeys, nil
}

// fixLevelType resolves the "pl" pressure-level alias; everything else
// passes through as an ecCodes typeOfLevel name.
func fixLevelType(levelType string) string {
	if levelType == "pl" {
		return "isobaricInhPa"
	}
	return levelType
}
