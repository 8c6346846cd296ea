package token

const publicTag = "activity-public"

// PublicID derives durable, non-guessable public identifiers for
// activities. The same activity always encodes to the same identifier as
// long as the signing key is unchanged; rotating the key invalidates every
// previously shared link.
type PublicID struct {
	codec *Codec
}

// NewPublicID wraps a codec for public identifier use.
func NewPublicID(codec *Codec) PublicID {
	return PublicID{codec: codec}
}

// Encode returns the shareable identifier for an activity.
func (p PublicID) Encode(activityID uint) string {
	return p.codec.Encode(uint64(activityID), publicTag)
}

// Decode resolves a public identifier back to the activity id. It reports
// false for forged, tampered or foreign-purpose tokens.
func (p PublicID) Decode(encoded string) (uint, bool) {
	id, ok := p.codec.Decode(encoded, publicTag)
	return uint(id), ok
}
