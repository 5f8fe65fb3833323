package workflow

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"charityportal/pkg/types"
)

// EncodeCoordinate renders a map position in the persisted "<lat>/<lng>"
// form. The shortest exact representation is used so decoding yields the
// same float64 values.
func EncodeCoordinate(c types.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "/" + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

func DecodeCoordinate(s string) (types.Coordinate, error) {
	latRaw, lngRaw, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return types.Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		return types.Coordinate{}, fmt.Errorf("%w: latitude %q", ErrInvalidCoordinate, latRaw)
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(lngRaw), 64)
	if err != nil {
		return types.Coordinate{}, fmt.Errorf("%w: longitude %q", ErrInvalidCoordinate, lngRaw)
	}

	c := types.Coordinate{Lat: lat, Lng: lng}
	if !validCoordinate(c) {
		return types.Coordinate{}, fmt.Errorf("%w: %q out of range", ErrInvalidCoordinate, s)
	}

	return c, nil
}

func validCoordinate(c types.Coordinate) bool {
	for _, f := range []float64{c.Lat, c.Lng} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}
