package domain

// KeyPrefix namespaces every Redis key the service touches.
const KeyPrefix = "typeahead:"

// MaxSuggestions caps any stored or returned suggestion list.
const MaxSuggestions = 10

// TrendingCacheKey is the dedicated cache key for the empty-query path.
const TrendingCacheKey = "__trending__"
