package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/preston-bernstein/game-catalog-service/internal/app/games"
	"github.com/preston-bernstein/game-catalog-service/internal/domain"
)

// parseListQuery reads catalog filters and pagination from the query string.
// Range checks are left to the service.
func parseListQuery(values url.Values) (games.Query, error) {
	q := games.Query{
		Search:    strings.TrimSpace(values.Get("search")),
		Platform:  strings.TrimSpace(values.Get("platform")),
		Genre:     strings.TrimSpace(values.Get("genre")),
		AgeRating: strings.TrimSpace(values.Get("age_rating")),
	}

	var err error
	if q.YearFrom, err = optionalInt(values, "year_from"); err != nil {
		return games.Query{}, err
	}
	if q.YearTo, err = optionalInt(values, "year_to"); err != nil {
		return games.Query{}, err
	}
	if q.RatingFrom, err = optionalFloat(values, "rating_from"); err != nil {
		return games.Query{}, err
	}
	if q.RatingTo, err = optionalFloat(values, "rating_to"); err != nil {
		return games.Query{}, err
	}

	page, err := optionalInt(values, "page")
	if err != nil {
		return games.Query{}, err
	}
	if page != nil {
		if *page < 1 {
			return games.Query{}, fmt.Errorf("%w: page must be >= 1", domain.ErrInvalidArgument)
		}
		q.Page = *page
	}
	size, err := optionalInt(values, "page_size")
	if err != nil {
		return games.Query{}, err
	}
	if size != nil {
		if *size < 1 {
			return games.Query{}, fmt.Errorf("%w: page_size must be between 1 and %d", domain.ErrInvalidArgument, games.MaxPageSize)
		}
		q.PageSize = *size
	}
	return q, nil
}

func optionalInt(values url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidArgument, key)
	}
	return &v, nil
}

func optionalFloat(values url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidArgument, key)
	}
	return &v, nil
}
