package cache

import (
	"strings"
	"time"
)

// Cache defines a typed key/value cache
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, ttl time.Duration)
	Delete(key string)
	Clear()
	Len() int
}

// Key builds a namespaced cache key from normalized text
func Key(namespace, text string) string {
	return "usp:v1:" + namespace + ":" + strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
