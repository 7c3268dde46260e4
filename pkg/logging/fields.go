package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Field helpers for recurring pipeline attributes

func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}

func Session(id string) Field {
	return String("session", id)
}

func Keyword(k string) Field {
	return String("keyword", k)
}

func Documents(n int) Field {
	return Int("documents", n)
}

func Nodes(n int) Field {
	return Int("nodes", n)
}

func Links(n int) Field {
	return Int("links", n)
}

func Communities(n int) Field {
	return Int("communities", n)
}

func Variant(v string) Field {
	return String("variant", v)
}

func Tick(n int) Field {
	return Int("tick", n)
}

func Alpha(a float64) Field {
	return Float64("alpha", a)
}
