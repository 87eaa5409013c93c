package utils

const (
	// EventIdParamKey is the key for the event ID used in routing parameters.
	EventIdParamKey = "eventId"

	// UserIdParamKey is the key for the user ID used in routing parameters.
	UserIdParamKey = "userId"

	// EmailParamKey is the key for the email used in routing parameters.
	EmailParamKey = "email"

	// OffsetParamKey and LimitParamKey are the pagination query parameters.
	OffsetParamKey = "offset"
	LimitParamKey  = "limit"

	// SearchParamKey is the free text search query parameter on event lists.
	SearchParamKey = "q"

	// CategoryParamKey filters event lists by category.
	CategoryParamKey = "category"
)
