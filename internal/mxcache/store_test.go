package mxcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoreSetGet(t *testing.T) {
	s := newStore(time.Hour)
	s.set("example.com", []string{"mx1.example.com", "mx2.example.com"})

	hosts, ok := s.get("example.com")
	assert.True(t, ok)
	assert.Equal(t, []string{"mx1.example.com", "mx2.example.com"}, hosts)
	assert.Equal(t, 1, s.len())
}

func TestStoreMiss(t *testing.T) {
	s := newStore(time.Hour)
	_, ok := s.get("nope.example.com")
	assert.False(t, ok)
}

func TestStoreExpiryEvictsLazily(t *testing.T) {
	s := newStore(10 * time.Millisecond)
	s.set("example.com", []string{"mx1.example.com"})

	time.Sleep(20 * time.Millisecond)

	_, ok := s.get("example.com")
	assert.False(t, ok)
	assert.Equal(t, 0, s.len())
}
