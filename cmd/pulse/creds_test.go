package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeKey(t *testing.T) {
	assert.Equal(t, "missing", describeKey(nil))
	assert.Equal(t, "present (4 bytes)", describeKey([]byte("key\n")))
}
