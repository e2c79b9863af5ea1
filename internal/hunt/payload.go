package hunt

import (
	"net/url"
	"strconv"
	"strings"
)

const progressParam = "progress"

// ParsePayload extracts the target waypoint from a decoded scan payload.
// Only the progress query parameter is read. Accepted shapes:
//
//	https://host/update-progress?progress=2
//	/update-progress?progress=2
//	?progress=2
//	progress=2
func ParsePayload(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrUnparseable
	}

	raw, _, _ = strings.Cut(raw, "#")

	var query string
	switch _, q, found := strings.Cut(raw, "?"); {
	case found:
		query = q
	case strings.Contains(raw, "://"), strings.HasPrefix(raw, "/"):
		return 0, ErrUnparseable
	default:
		query = raw
	}

	// Malformed pairs elsewhere in the query are skipped by ParseQuery.
	values, _ := url.ParseQuery(query)
	if !values.Has(progressParam) {
		return 0, ErrUnparseable
	}

	n, err := strconv.Atoi(strings.TrimSpace(values.Get(progressParam)))
	if err != nil {
		return 0, ErrUnparseable
	}
	return n, nil
}

// PayloadFor builds the payload printed on the code for waypoint k.
func PayloadFor(baseURL string, k int) string {
	base := strings.TrimRight(baseURL, "/")
	return base + "/update-progress?" + progressParam + "=" + strconv.Itoa(k)
}
