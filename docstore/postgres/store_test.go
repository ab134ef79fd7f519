package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectBadDSN(t *testing.T) {
	s, err := Connect(context.Background(), "postgres://%zz")
	assert.Nil(t, s)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse postgres dsn")
}
