package version

import (
	"fmt"
	"strconv"
	"strings"
)

type release struct {
	parts      [3]int
	prerelease string
}

// parseRelease reads versions like v1.2, 1.2.3 or 1.2.3-rc.1. A missing
// patch counts as zero.
func parseRelease(s string) (release, error) {
	var r release

	core, pre, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(s), "v"), "-")
	r.prerelease = pre

	fields := strings.Split(core, ".")
	if len(fields) < 2 || len(fields) > 3 {
		return r, fmt.Errorf("malformed version %q", s)
	}

	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return r, fmt.Errorf("malformed version %q", s)
		}
		r.parts[i] = n
	}

	return r, nil
}

// Compare returns 1 if a is newer than b, -1 if older and 0 if equal.
// A pre-release sorts before its final release.
func Compare(a, b string) (int, error) {
	ra, err := parseRelease(a)
	if err != nil {
		return 0, err
	}

	rb, err := parseRelease(b)
	if err != nil {
		return 0, err
	}

	for i := range ra.parts {
		switch {
		case ra.parts[i] > rb.parts[i]:
			return 1, nil
		case ra.parts[i] < rb.parts[i]:
			return -1, nil
		}
	}

	switch {
	case ra.prerelease == rb.prerelease:
		return 0, nil
	case ra.prerelease == "":
		return 1, nil
	case rb.prerelease == "":
		return -1, nil
	default:
		return strings.Compare(ra.prerelease, rb.prerelease), nil
	}
}
