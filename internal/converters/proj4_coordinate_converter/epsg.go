package proj4_coordinate_converter

import (
	"strconv"
)

// EPSG codes with a proj4 definition known to the converter
var epsgDefinitions = map[int]string{
	4326: "+proj=longlat +datum=WGS84 +no_defs",
	4978: "+proj=geocent +datum=WGS84 +units=m +no_defs",
	3857: "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +wktext +no_defs",
	3395: "+proj=merc +lon_0=0 +k=1 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs",
}

func init() {
	// WGS84 UTM zones, north 326xx and south 327xx
	for zone := 1; zone <= 60; zone++ {
		z := strconv.Itoa(zone)
		epsgDefinitions[32600+zone] = "+proj=utm +zone=" + z + " +datum=WGS84 +units=m +no_defs"
		epsgDefinitions[32700+zone] = "+proj=utm +zone=" + z + " +south +datum=WGS84 +units=m +no_defs"
	}
}

func getDefinition(srid int) (string, bool) {
	definition, ok := epsgDefinitions[srid]
	return definition, ok
}
