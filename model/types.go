// Copyright 2017-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package model contains the shared, wire-format-independent OSM data
// model used by the XML parser and its builders.
package model

import (
	"fmt"
	"math"
	"strconv"

	"github.com/golang/geo/s1"
)

// coordinatePrecision is the fixed-point scale of Location: ten millionths
// of a degree, per the OSM XML lon/lat attribute precision.
const coordinatePrecision = 1e7

// Degrees is the decimal degree representation of a longitude or latitude.
type Degrees float64

// Angle represents a 1D angle in radians.
type Angle s1.Angle

// Epsilon is an enumeration of precisions that can be used when comparing Degrees.
type Epsilon float64

// Degrees units.
const (
	Degree           Degrees = 1
	radiansPerPi             = 180
	Radian                   = (radiansPerPi / math.Pi) * Degree
	MinutesPerDegree         = 60
	SecondsPerDegree         = 3600

	E5 Epsilon = 1e-5
	E6 Epsilon = 1e-6
	E7 Epsilon = 1e-7

	half = 0.5
)

// Angle returns the equivalent s1.Angle.
func (d Degrees) Angle() Angle { return Angle(float64(d) * float64(s1.Degree)) }

func (d Degrees) String() string {
	val := math.Abs(float64(d))
	degrees := int(math.Floor(val))
	minutes := int(math.Floor(MinutesPerDegree * (val - float64(degrees))))
	seconds := SecondsPerDegree * (val - float64(degrees) - (float64(minutes) / MinutesPerDegree))

	sign := ""
	if d < 0 {
		sign = "-"
	}

	return fmt.Sprintf("%s%d° %d' %.6f\"", sign, degrees, minutes, seconds)
}

// EqualWithin checks if two degree values are within a specific epsilon.
func (d Degrees) EqualWithin(o Degrees, eps Epsilon) bool {
	return round(float64(d)/float64(eps)) == round(float64(o)/float64(eps))
}

// round returns the value rounded to nearest as an int64.
func round(val float64) int64 {
	if val < 0 {
		return int64(val - half)
	}

	return int64(val + half)
}

// ParseDegrees converts a string to a Degrees instance.
//
// Unlike the C++ original (osmium's atof_helper, an istringstream imbued
// with the "C" locale that silently stops at the first non-numeric byte),
// this uses strconv.ParseFloat: locale-independent but strict about
// trailing garbage. See DESIGN.md for this departure.
func ParseDegrees(s string) (Degrees, error) {
	u, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	return Degrees(u), nil
}

// Location is a fixed-point (lon, lat) pair in ten-millionths of a degree,
// the layout a NodeRef record embeds. The zero value is the point (0, 0),
// which Defined reports as defined; use UndefinedLocation for "no
// coordinates resolved".
type Location struct {
	Lon int32
	Lat int32
}

// UndefinedCoordinate is the sentinel value of one axis of an undefined Location.
const UndefinedCoordinate = math.MinInt32

// UndefinedLocation is the sentinel "undefined" Location.
var UndefinedLocation = Location{Lon: UndefinedCoordinate, Lat: UndefinedCoordinate}

// Defined reports whether the location carries real coordinates.
func (l Location) Defined() bool {
	return l != UndefinedLocation
}

// LocationFromDegrees converts decimal-degree coordinates into a Location.
func LocationFromDegrees(lon, lat Degrees) Location {
	return Location{
		Lon: int32(math.Round(float64(lon) * coordinatePrecision)),
		Lat: int32(math.Round(float64(lat) * coordinatePrecision)),
	}
}

// LonDegrees returns the longitude in decimal degrees.
func (l Location) LonDegrees() Degrees {
	return Degrees(l.Lon) / coordinatePrecision
}

// LatDegrees returns the latitude in decimal degrees.
func (l Location) LatDegrees() Degrees {
	return Degrees(l.Lat) / coordinatePrecision
}

func (l Location) String() string {
	if !l.Defined() {
		return "undefined"
	}

	return fmt.Sprintf("(%s, %s)", l.LonDegrees(), l.LatDegrees())
}
