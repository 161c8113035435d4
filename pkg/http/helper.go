package http

import (
	"net/http"
	"strconv"

	"kairooms/pkg/config"
	apperrors "kairooms/pkg/errors"
)

// ExtractLimitOffset parses optional pagination parameters. A zero limit
// means "no limit": booking listings are returned in full by default.
func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	return config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset), nil
}
