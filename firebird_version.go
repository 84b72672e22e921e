package fb

import (
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// e.g. "LI-V3.0.7.33374 Firebird 3.0"
var FirebirdVersionPattern = regexp.MustCompile(`((\w{2})-(\w)(\d+)\.(\d+)\.(\d+)\.(\d+)(?:-\S+)?) (.+)`)

type FirebirdVersion struct {
	Platform    string
	Type        string
	Full        string
	Major       int
	Minor       int
	Patch       int
	BuildNumber int
	Raw         string
}

func ParseFirebirdVersion(rawVersionString string) (FirebirdVersion, error) {
	res := FirebirdVersionPattern.FindStringSubmatch(rawVersionString)
	if res == nil {
		return FirebirdVersion{Raw: rawVersionString}, errors.Errorf("unrecognized server version %q", rawVersionString)
	}
	major, _ := strconv.Atoi(res[4])
	minor, _ := strconv.Atoi(res[5])
	patch, _ := strconv.Atoi(res[6])
	build, _ := strconv.Atoi(res[7])
	return FirebirdVersion{Platform: res[2],
		Type:        res[3],
		Full:        res[1],
		Major:       major,
		Minor:       minor,
		Patch:       patch,
		BuildNumber: build,
		Raw:         rawVersionString}, nil
}

// versionFromInfo reads the value of an isc_info_firebird_version item:
// a count byte followed by length prefixed strings. The first is the
// server version.
func versionFromInfo(value []byte) string {
	if len(value) < 2 || value[0] == 0 {
		return ""
	}
	n := int(value[1])
	if 2+n > len(value) {
		n = len(value) - 2
	}
	return bytes_to_str(value[2 : 2+n])
}

func (v FirebirdVersion) EqualOrGreater(major int, minor int) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

func (v FirebirdVersion) EqualOrGreaterPatch(major int, minor int, patch int) bool {
	return v.Major > major || (v.Major == major && (v.Minor == minor && v.Patch >= patch || v.Minor > minor))
}
