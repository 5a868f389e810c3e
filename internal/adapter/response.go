package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/guregu/null/v5"

	"github.com/h2hsecure/ghprofile/internal/domain"
)

// createdAtPattern matches the leading "yyyy/MM/dd HH:mm:ss Z" part of a v2
// API timestamp, e.g. "2008/01/14 04:33:35 -0800". Fields may be unpadded and
// anything after the zone offset is ignored.
var createdAtPattern = regexp.MustCompile(
	`^(\d{1,4})/(\d{1,2})/(\d{1,2}) (\d{1,2}):(\d{1,2}):(\d{1,2}) ([+-])(\d{2}):?(\d{2})`)

// decodeTree decodes body into a generic tree. Numbers stay json.Number so
// that their textual form survives until a field asks for it.
func decodeTree(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var tree map[string]any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("decode body: %w: %v", domain.ErrParse, err)
	}

	return tree, nil
}

// projectProfile reads the "user" entry of the tree. Declared JSON types are
// ignored: every value goes through stringify before it is converted.
func projectProfile(tree map[string]any) (domain.UserProfile, error) {
	user, ok := tree["user"].(map[string]any)
	if !ok {
		return domain.UserProfile{}, fmt.Errorf("missing user entry: %w", domain.ErrParse)
	}

	id, err := int64Field(user, "id")
	if err != nil {
		return domain.UserProfile{}, err
	}

	return domain.UserProfile{
		ID:          id,
		Username:    requiredString(user, "login"),
		DisplayName: requiredString(user, "name"),
		Location:    optionalString(user, "location"),
		Company:     optionalString(user, "company"),
		BlogURL:     optionalString(user, "blog"),
		Email:       optionalString(user, "email"),
		CreatedAt:   parseCreatedAt(user["created_at"]),
	}, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func requiredString(m map[string]any, key string) string {
	return stringify(m[key])
}

func optionalString(m map[string]any, key string) null.String {
	v, ok := m[key]
	if !ok || v == nil {
		return null.String{}
	}

	return null.StringFrom(stringify(v))
}

func int64Field(m map[string]any, key string) (int64, error) {
	raw := stringify(m[key])

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("field %s %q: %w", key, raw, domain.ErrParse)
	}

	return n, nil
}

// parseCreatedAt never fails, anything that does not match createdAtPattern
// becomes an invalid time. Out of range fields roll over into the next unit
// the way time.Date normalises them.
func parseCreatedAt(v any) null.Time {
	m := createdAtPattern.FindStringSubmatch(stringify(v))
	if m == nil {
		return null.Time{}
	}

	n := make([]int, 0, 8)
	for _, field := range []string{m[1], m[2], m[3], m[4], m[5], m[6], m[8], m[9]} {
		i, err := strconv.Atoi(field)
		if err != nil {
			return null.Time{}
		}
		n = append(n, i)
	}

	offset := n[6]*3600 + n[7]*60
	if m[7] == "-" {
		offset = -offset
	}

	return null.TimeFrom(time.Date(n[0], time.Month(n[1]), n[2], n[3], n[4], n[5], 0,
		time.FixedZone("", offset)))
}
