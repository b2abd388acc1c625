package redisx

import "fmt"

const ns = "seatwise:v1"

func KeyVenue(slug string) string {
	return fmt.Sprintf("%s:venue:%s", ns, slug)
}

func PrefixRateLimit(scope string) string {
	return fmt.Sprintf("%s:rl:%s", ns, scope)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:%s", PrefixRateLimit(scope), id)
}

func ChannelVenuesChanged() string {
	return ns + ":venues:changed"
}
