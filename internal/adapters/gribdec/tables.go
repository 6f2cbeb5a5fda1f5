package gribdec

import "strconv"

// paramInfo is one entry of GRIB2 code table 4.2.
type paramInfo struct {
	shortName string
	name      string
	units     string
}

// paramTable is the subset of code table 4.2 we have needed so far, keyed by
// discipline, parameterCategory, parameterNumber. Short names and units
// follow the ecCodes spellings so filters match what cfgrib users write.
var paramTable = map[[3]int]paramInfo{
	{0, 0, 0}:   {"t", "Temperature", "K"},
	{0, 0, 2}:   {"pt", "Potential temperature", "K"},
	{0, 0, 6}:   {"dpt", "Dew point temperature", "K"},
	{0, 1, 0}:   {"q", "Specific humidity", "kg kg**-1"},
	{0, 1, 1}:   {"r", "Relative humidity", "%"},
	{0, 1, 8}:   {"tp", "Total precipitation", "kg m**-2"},
	{0, 2, 2}:   {"u", "U component of wind", "m s**-1"},
	{0, 2, 3}:   {"v", "V component of wind", "m s**-1"},
	{0, 2, 8}:   {"w", "Vertical velocity", "Pa s**-1"},
	{0, 3, 0}:   {"pres", "Pressure", "Pa"},
	{0, 3, 1}:   {"prmsl", "Pressure reduced to MSL", "Pa"},
	{0, 3, 4}:   {"z", "Geopotential", "m**2 s**-2"},
	{0, 3, 5}:   {"gh", "Geopotential height", "gpm"},
	{0, 6, 1}:   {"tcc", "Total cloud cover", "%"},
	{0, 19, 0}:  {"vis", "Visibility", "m"},
	{0, 20, 71}: {"pm10", "Particulate matter d < 10 um", "kg m**-3"},
	{0, 20, 72}: {"pm2p5", "Particulate matter d < 2.5 um", "kg m**-3"},
	{2, 0, 0}:   {"lsm", "Land cover", "(0 - 1)"},
}

// levelTable is the subset of code table 4.5 we recognize, with the ecCodes
// typeOfLevel spellings.
var levelTable = map[int]string{
	1:   "surface",
	2:   "cloudBase",
	3:   "cloudTop",
	4:   "isothermZero",
	6:   "maxWind",
	7:   "tropopause",
	8:   "nominalTop",
	10:  "entireAtmosphere",
	100: "isobaricInhPa",
	101: "meanSea",
	102: "heightAboveSea",
	103: "heightAboveGround",
	104: "sigma",
	105: "hybrid",
	106: "depthBelowLand",
	107: "theta",
	108: "pressureFromGroundLayer",
	109: "potentialVorticity",
}

func lookupParam(discipline, category, number int) (paramInfo, bool) {
	info, ok := paramTable[[3]int{discipline, category, number}]
	return info, ok
}

// shortNameFor resolves the triple to a short name, "unknown" when the table
// has no entry, same as ecCodes.
func shortNameFor(discipline, category, number int) string {
	if info, ok := lookupParam(discipline, category, number); ok {
		return info.shortName
	}
	return "unknown"
}

// levelTypeName resolves a surface type code; unknown codes keep their
// numeric form so they stay filterable.
func levelTypeName(code int) string {
	if name, ok := levelTable[code]; ok {
		return name
	}
	return strconv.Itoa(code)
}
