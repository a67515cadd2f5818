package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReal_ReturnsNonNil(t *testing.T) {
	s := Real()
	now := s.Now()
	require.NotNil(t, now)
	require.WithinDuration(t, time.Now(), *now, time.Second)
}

func TestNilSource_ReturnsNil(t *testing.T) {
	var s Source
	require.Nil(t, s.Now())
}

func TestCutoff(t *testing.T) {
	now := time.Unix(100, 0)
	require.Equal(t, time.Unix(90, 0), Cutoff(now, 10*time.Second))
}
