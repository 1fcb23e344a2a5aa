package changelog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const nullText = "null"

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

// codec normalises loosely typed input into a field's Go type and renders
// the Go value in the textual form used for comparison and descriptions.
type codec struct {
	coerce func(any) (any, error)
	format func(any) string
}

var textCodec = codec{
	coerce: func(v any) (any, error) {
		switch x := v.(type) {
		case nil:
			return "", nil
		case string:
			return x, nil
		case json.Number:
			return x.String(), nil
		case bool:
			return strconv.FormatBool(x), nil
		case int, int64, uint, float64:
			return fmt.Sprint(x), nil
		}
		return nil, fmt.Errorf("must be a string")
	},
	format: func(v any) string { return v.(string) },
}

var intCodec = codec{
	coerce: func(v any) (any, error) {
		switch x := v.(type) {
		case int:
			return x, nil
		case int64:
			return int(x), nil
		case float64:
			if x != math.Trunc(x) {
				return nil, errors.New("must be an integer")
			}
			return int(x), nil
		case json.Number:
			return parseInt(x.String())
		case string:
			return parseInt(x)
		}
		return nil, errors.New("must be an integer")
	},
	format: func(v any) string { return strconv.Itoa(v.(int)) },
}

var floatCodec = codec{
	coerce: func(v any) (any, error) {
		switch x := v.(type) {
		case float64:
			return x, nil
		case int:
			return float64(x), nil
		case json.Number:
			return parseFloat(x.String())
		case string:
			return parseFloat(x)
		}
		return nil, errors.New("must be a number")
	},
	format: func(v any) string { return strconv.FormatFloat(v.(float64), 'f', -1, 64) },
}

var timeCodec = codec{
	coerce: func(v any) (any, error) {
		switch x := v.(type) {
		case time.Time:
			return x.UTC(), nil
		case string:
			return ParseTime(x)
		}
		return nil, errors.New("must be a timestamp string")
	},
	format: func(v any) string { return v.(time.Time).UTC().Format(time.RFC3339) },
}

var refCodec = codec{
	coerce: func(v any) (any, error) {
		switch x := v.(type) {
		case nil:
			return (*uint)(nil), nil
		case *uint:
			if x == nil {
				return x, nil
			}
			id := *x
			return &id, nil
		}
		id, err := idCodec.coerce(v)
		if err != nil {
			return nil, err
		}
		u := id.(uint)
		return &u, nil
	},
	format: func(v any) string {
		p := v.(*uint)
		if p == nil {
			return nullText
		}
		return strconv.FormatUint(uint64(*p), 10)
	},
}

var idCodec = codec{
	coerce: func(v any) (any, error) {
		var n int
		switch x := v.(type) {
		case uint:
			n = int(x)
		default:
			i, err := intCodec.coerce(v)
			if err != nil {
				return nil, errors.New("must be a positive id")
			}
			n = i.(int)
		}
		if n <= 0 {
			return nil, errors.New("must be a positive id")
		}
		return uint(n), nil
	},
	format: func(v any) string { return strconv.FormatUint(uint64(v.(uint)), 10) },
}

func parseInt(s string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.New("must be an integer")
	}
	return n, nil
}

func parseFloat(s string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.New("must be a number")
	}
	return f, nil
}

// ParseTime reads the timestamp forms accepted by Time fields.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("must be an RFC 3339 timestamp or a YYYY-MM-DD date")
}
