package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIdentity(t *testing.T) {
	assert.Equal(t, Identity("user@example.com"), NewIdentity("  User@Example.COM "))
	assert.Equal(t, GuestIdentity, NewIdentity(""))
	assert.Equal(t, GuestIdentity, NewIdentity("   "))
}

func TestIdentityKey(t *testing.T) {
	assert.Equal(t, "user_example_com", NewIdentity("user@example.com").Key())
	assert.Equal(t, "guest", GuestIdentity.Key())
	assert.Equal(t, "a_b_c_d", Identity("a.b+c@d").Key())
}

func TestIdentityKeyIsDeterministic(t *testing.T) {
	id := NewIdentity("Jordan.Smith+test@example.com")
	assert.Equal(t, id.Key(), id.Key())
	assert.False(t, id.IsGuest())
	assert.True(t, GuestIdentity.IsGuest())
}
