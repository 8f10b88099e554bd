// Package isotime converts OpenSky epoch seconds to and from the fixed
// "YYYY-MM-DDTHH:MM:SSZ" text form.
//
// The trailing Z is a literal: timestamps are rendered in the codec's zone,
// which by default is the zone of the running process and not UTC. Existing
// consumers of the exported files depend on that, so Local stays the default
// and UTC has to be asked for explicitly.
package isotime

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

const Layout = "2006-01-02T15:04:05Z"

var ErrFormat = errors.New("invalid timestamp format")

var isoRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)

// Codec formats and parses timestamps in a fixed zone.
type Codec struct {
	loc *time.Location
}

// Local renders timestamps in the process time zone.
var Local = Codec{}

// UTC renders timestamps in UTC.
var UTC = New(time.UTC)

func New(loc *time.Location) Codec {
	return Codec{loc: loc}
}

// LoadLocation returns the codec for a zone name; "" and "Local" select the
// process zone.
func LoadLocation(name string) (Codec, error) {
	if name == "" || name == "Local" {
		return Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Codec{}, err
	}
	return New(loc), nil
}

func (c Codec) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// Format renders epoch seconds.
func (c Codec) Format(sec int64) string {
	return time.Unix(sec, 0).In(c.Location()).Format(Layout)
}

// Parse is the inverse of Format. The input must match the layout exactly.
// Zones with daylight saving repeat an hour when clocks go back; such wall
// times resolve to their first occurrence, so Parse(Format(sec)) is sec-3600
// for instants in the second pass of that hour.
func (c Codec) Parse(s string) (int64, error) {
	t, err := c.ParseTime(s)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

func (c Codec) ParseTime(s string) (time.Time, error) {
	if !isoRegexp.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	t, err := time.ParseInLocation(Layout, s, c.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %s", ErrFormat, s, err)
	}
	return t, nil
}
