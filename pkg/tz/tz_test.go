package tz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	assert.Equal(t, "Europe/Moscow", Load("").String())
	assert.Equal(t, "Asia/Tokyo", Load("Asia/Tokyo").String())
	assert.Same(t, Load("Asia/Tokyo"), Load("Asia/Tokyo"))
	assert.Equal(t, time.UTC, Load("Mars/Olympus"))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("Europe/Berlin"))
	assert.False(t, Valid("Nowhere/City"))
}
