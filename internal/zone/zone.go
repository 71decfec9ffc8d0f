// Package zone defines the delivery zones the platform partitions its
// market into. Products, companies, addresses and promotions are all
// scoped by zone.
package zone

// Zone is a delivery zone identifier.
type Zone string

const (
	North   Zone = "NORTH"
	South   Zone = "SOUTH"
	East    Zone = "EAST"
	West    Zone = "WEST"
	Central Zone = "CENTRAL"
)

func (z Zone) String() string {
	return string(z)
}

// Valid reports whether z is one of the known zones.
func (z Zone) Valid() bool {
	switch z {
	case North, South, East, West, Central:
		return true
	}
	return false
}

// Contains reports whether zs includes z.
func Contains(zs []Zone, z Zone) bool {
	for _, candidate := range zs {
		if candidate == z {
			return true
		}
	}
	return false
}

// Intersects reports whether a and b share at least one zone.
func Intersects(a, b []Zone) bool {
	for _, z := range a {
		if Contains(b, z) {
			return true
		}
	}
	return false
}

// FromStrings converts raw column values into zones. Unknown values are
// kept as-is so a bad row is visible instead of silently dropped.
func FromStrings(ss []string) []Zone {
	zs := make([]Zone, 0, len(ss))
	for _, s := range ss {
		zs = append(zs, Zone(s))
	}
	return zs
}

// ToStrings converts zones into raw column values.
func ToStrings(zs []Zone) []string {
	ss := make([]string, 0, len(zs))
	for _, z := range zs {
		ss = append(ss, string(z))
	}
	return ss
}
