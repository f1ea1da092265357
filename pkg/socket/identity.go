package socket

import (
	"fmt"
	"strconv"
)

// Identity distinguishes concurrent subscriptions inside one channel.
type Identity string

// CurrentUser is the identity used for subscriptions scoped to the signed-in user.
const CurrentUser Identity = "currentUser"

// IdentityOf converts v to its canonical Identity, so that 42 and "42" select
// the same subscription.
func IdentityOf(v any) Identity {
	switch x := v.(type) {
	case Identity:
		return x
	case string:
		return Identity(x)
	case float64:
		return Identity(strconv.FormatFloat(x, 'f', -1, 64))
	case float32:
		return Identity(strconv.FormatFloat(float64(x), 'f', -1, 32))
	case fmt.Stringer:
		return Identity(x.String())
	default:
		return Identity(fmt.Sprint(v))
	}
}

// String implements fmt.Stringer.
func (id Identity) String() string {
	return string(id)
}
