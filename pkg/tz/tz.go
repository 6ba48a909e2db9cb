package tz

import (
	"sync"
	"time"
)

// Default is the zone a group starts with.
const Default = "Europe/Moscow"

var cache sync.Map // name -> *time.Location

// Load returns the named location, or UTC when the name is unknown.
// Loaded zones are cached for the life of the process.
func Load(name string) *time.Location {
	if name == "" {
		name = Default
	}
	if loc, ok := cache.Load(name); ok {
		return loc.(*time.Location)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	cache.Store(name, loc)
	return loc
}

// Valid reports whether name is a loadable IANA zone.
func Valid(name string) bool {
	_, err := time.LoadLocation(name)
	return err == nil
}
