// Package version detects and compares PHPUnit versions.
package version

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SemverRegex matches PHPUnit release versions. The patch part is optional
// because development builds report versions like "10.1-dev".
var SemverRegex = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?(?:-([0-9A-Za-z]+(?:\.[0-9A-Za-z]+)*))?$`)

var bannerRegex = regexp.MustCompile(`PHPUnit (\S+)`)

// Semver represents a parsed PHPUnit version.
type Semver struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
}

// Parse parses a version string such as "9.5.10" or "10.1-dev".
func Parse(version string) (*Semver, error) {
	match := SemverRegex.FindStringSubmatch(version)
	if match == nil {
		return nil, fmt.Errorf("invalid version format: %q", version)
	}

	// Errors ignored: regex guarantees these capture groups contain only digits
	major, _ := strconv.Atoi(match[1])
	minor, _ := strconv.Atoi(match[2])
	patch, _ := strconv.Atoi(match[3])

	return &Semver{
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		Prerelease: match[4],
	}, nil
}

// FromOutput extracts the version from the banner printed by
// "phpunit --version":
//
//	PHPUnit 9.5.10 by Sebastian Bergmann and contributors.
func FromOutput(output string) (*Semver, error) {
	match := bannerRegex.FindStringSubmatch(output)
	if match == nil {
		return nil, fmt.Errorf("no PHPUnit version in output: %q", firstLine(output))
	}
	return Parse(strings.TrimSuffix(match[1], "."))
}

// MustParse is like Parse but panics on invalid input.
func MustParse(version string) *Semver {
	v, err := Parse(version)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version string representation.
func (s *Semver) String() string {
	result := fmt.Sprintf("%d.%d.%d", s.Major, s.Minor, s.Patch)
	if s.Prerelease != "" {
		result += "-" + s.Prerelease
	}
	return result
}

// Compare returns -1 if s < other, 0 if they are equal and 1 if s > other.
// A version without a prerelease is greater than the same version with one.
func (s *Semver) Compare(other *Semver) int {
	if c := cmp.Compare(s.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(s.Minor, other.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(s.Patch, other.Patch); c != 0 {
		return c
	}

	switch {
	case s.Prerelease == other.Prerelease:
		return 0
	case s.Prerelease == "":
		return 1
	case other.Prerelease == "":
		return -1
	default:
		return comparePrerelease(s.Prerelease, other.Prerelease)
	}
}

// AtLeast reports whether s >= other.
func (s *Semver) AtLeast(other *Semver) bool {
	return s.Compare(other) >= 0
}

// comparePrerelease compares dot-separated prerelease identifiers.
// Numeric identifiers compare as integers and sort before alphanumeric ones.
func comparePrerelease(a, b string) int {
	partsA := strings.Split(a, ".")
	partsB := strings.Split(b, ".")

	for i := 0; i < min(len(partsA), len(partsB)); i++ {
		if c := compareIdentifier(partsA[i], partsB[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(partsA), len(partsB))
}

func compareIdentifier(a, b string) int {
	aNum, aErr := strconv.Atoi(a)
	bNum, bErr := strconv.Atoi(b)

	switch {
	case aErr == nil && bErr == nil:
		return cmp.Compare(aNum, bNum)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
