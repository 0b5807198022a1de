package normalize

import (
	"strconv"

	"github.com/valyala/fastjson"

	"github.com/vigata/genson/schema"
)

func matchesScalarKind(v *fastjson.Value, kind schema.Kind) bool {
	switch v.Type() {
	case fastjson.TypeNull:
		return kind == schema.KindNull
	case fastjson.TypeTrue, fastjson.TypeFalse:
		return kind == schema.KindBoolean
	case fastjson.TypeString:
		return kind == schema.KindString
	case fastjson.TypeNumber:
		f, _ := v.Float64()
		switch kind {
		case schema.KindNumber:
			return true
		case schema.KindInteger:
			return schema.NumberKind(f) == schema.KindInteger
		default:
			return false
		}
	default:
		return false
	}
}

func scalarValue(v *fastjson.Value, kind schema.Kind) any {
	switch kind {
	case schema.KindNull:
		return nil
	case schema.KindBoolean:
		b, _ := v.Bool()
		return b
	case schema.KindInteger:
		f, _ := v.Float64()
		return int64(f)
	case schema.KindNumber:
		f, _ := v.Float64()
		return f
	case schema.KindString:
		sb, _ := v.StringBytes()
		return string(sb)
	default:
		return nil
	}
}

func coerceString(s string, kind schema.Kind) (any, bool) {
	switch kind {
	case schema.KindBoolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, false
		}
		return b, true
	case schema.KindInteger:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, false
		}
		return i, true
	case schema.KindNumber:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	default:
		return nil, false
	}
}
