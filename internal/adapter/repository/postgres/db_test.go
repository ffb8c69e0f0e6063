package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDB_RejectsEmptyConnectionString(t *testing.T) {
	db, err := NewDB(context.Background(), "")

	assert.Nil(t, db)
	assert.Error(t, err)
}
