package store

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PropertyFilter enumerates the listing predicates. Zero values leave the clause out.
//
//	Search    free text against the title/description/location text index
//	Type      equality
//	Status    equality
//	MinPrice  price >= value
//	MaxPrice  price <= value
//	Location  case-insensitive substring
//	Featured  equality on the featured flag
//	Owner     equality on the owner reference
type PropertyFilter struct {
	Search   string
	Type     string
	Status   string
	MinPrice *float64
	MaxPrice *float64
	Location string
	Featured *bool
	Owner    *primitive.ObjectID

	Limit int64
}

// ParsePropertyFilter reads the public listing query parameters. Unknown keys are ignored.
func ParsePropertyFilter(q url.Values) (PropertyFilter, error) {
	f := PropertyFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Type:     strings.TrimSpace(q.Get("type")),
		Status:   strings.TrimSpace(q.Get("status")),
		Location: strings.TrimSpace(q.Get("location")),
	}

	var err error
	if f.MinPrice, err = parsePrice(q, "minPrice"); err != nil {
		return PropertyFilter{}, err
	}
	if f.MaxPrice, err = parsePrice(q, "maxPrice"); err != nil {
		return PropertyFilter{}, err
	}
	return f, nil
}

func parsePrice(q url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q", key, raw)
	}
	return &v, nil
}

// Query builds the conjunction of all supplied predicates.
func (f PropertyFilter) Query() bson.M {
	query := bson.M{}

	if f.Search != "" {
		query["$text"] = bson.M{"$search": f.Search}
	}
	if f.Type != "" {
		query["type"] = f.Type
	}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		query["price"] = price
	}
	if f.Location != "" {
		query["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Location), Options: "i"}
	}
	if f.Featured != nil {
		query["featured"] = *f.Featured
	}
	if f.Owner != nil {
		query["owner"] = *f.Owner
	}

	return query
}

// Key is a canonical rendering of the filter, stable across parameter order.
func (f PropertyFilter) Key() string {
	parts := []string{}
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("search", f.Search)
	add("type", f.Type)
	add("status", f.Status)
	add("location", f.Location)
	if f.MinPrice != nil {
		add("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		add("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.Featured != nil {
		add("featured", strconv.FormatBool(*f.Featured))
	}
	if f.Owner != nil {
		add("owner", f.Owner.Hex())
	}
	if f.Limit > 0 {
		add("limit", strconv.FormatInt(f.Limit, 10))
	}
	sort.Strings(parts)
	return strings.Join(parts, "&")
}
