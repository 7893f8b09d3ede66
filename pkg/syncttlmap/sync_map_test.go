package syncttlmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLMap(t *testing.T) {
	m := New(50 * time.Millisecond)

	m.Store("key", "value")
	assert.Equal(t, "value", m.Load("key"))
	assert.Nil(t, m.Load("missing"))

	m.Delete("key")
	assert.Nil(t, m.Load("key"))
}

func TestTTLMapExpiration(t *testing.T) {
	m := New(10 * time.Millisecond)
	m.Store("key", "value")

	assert.Eventually(t, func() bool {
		return m.Load("key") == nil
	}, time.Second, 5*time.Millisecond)
}
