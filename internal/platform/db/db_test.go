package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolOptionsDefaults(t *testing.T) {
	o := PoolOptions{MaxOpen: 4}.withDefaults()

	assert.Equal(t, 4, o.MaxOpen)
	assert.Equal(t, 4, o.MaxIdle)
	assert.Equal(t, 30*time.Minute, o.MaxLifetime)
	assert.Equal(t, 5*time.Second, o.PingTimeout)
}

func TestOpenWithRejectsBadURL(t *testing.T) {
	_, err := OpenWith(context.Background(), "postgres://user:pa ss@%zz/db", PoolOptions{})
	require.ErrorContains(t, err, "parse postgres url")
}
