package token

import "time"

const checkinTag = "activity-checkin"

// Checkin mints and verifies short-lived tokens that authorize a single
// check-in attempt window for one activity. The issuer is stateless:
// revocation is purely time based.
type Checkin struct {
	codec *Codec
}

// NewCheckin wraps a codec for check-in token use.
func NewCheckin(codec *Codec) Checkin {
	return Checkin{codec: codec}
}

// Issue returns a fresh check-in token bound to the activity and the
// current server time.
func (c Checkin) Issue(activityID uint) string {
	return c.codec.EncodeWithTimestamp(uint64(activityID), checkinTag)
}

// Verify resolves a check-in token back to the activity id, enforcing the
// given timeout against the embedded issuance time. A timeout of zero
// disables the age check, leaving only the caller's hard ceiling in effect.
func (c Checkin) Verify(encoded string, timeout time.Duration) (uint, bool) {
	id, ok := c.codec.DecodeWithMaxAge(encoded, checkinTag, timeout)
	return uint(id), ok
}
