package rewards

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBalloonReward(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		reward := BalloonReward(rng)
		assert.GreaterOrEqual(t, reward, int64(BalloonMin))
		assert.LessOrEqual(t, reward, int64(BalloonMax))
	}
}

func TestScratchReward(t *testing.T) {
	t.Run("Bounds Scale With Level", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 1000; i++ {
			reward, err := ScratchReward(rng, 3)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, reward, int64(3000))
			assert.LessOrEqual(t, reward, int64(60000))
		}
	})

	t.Run("Level One", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		reward, err := ScratchReward(rng, 1)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, reward, int64(ScratchMinPerLevel))
		assert.LessOrEqual(t, reward, int64(ScratchMaxPerLevel))
	})

	t.Run("Level Zero Rejected", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		_, err := ScratchReward(rng, 0)
		assert.ErrorIs(t, err, ErrInvalidVipLevel)
	})

	t.Run("Negative Level Rejected", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		_, err := ScratchReward(rng, -2)
		assert.ErrorIs(t, err, ErrInvalidVipLevel)
	})
}

func TestDartScore(t *testing.T) {
	d := NewDart()
	now := time.Now()

	tests := []struct {
		name     string
		position float64
		want     int64
	}{
		{"Dead Center", 50, DartBullseye},
		{"Inner Boundary Low", 45, DartBullseye},
		{"Inner Boundary High", 55, DartBullseye},
		{"Just Outside Inner", 55.01, DartMiddle},
		{"Middle Boundary Low", 35, DartMiddle},
		{"Middle Boundary High", 65, DartMiddle},
		{"Just Outside Middle", 65.01, DartOuter},
		{"Far Off", 0, DartOuter},
		{"Way Past", 100, DartOuter},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, d.Throw(tc.position, now))
		})
	}
}

func TestDartTargetDrift(t *testing.T) {
	t.Run("Static Without Amplitude", func(t *testing.T) {
		d := NewDart()
		assert.Equal(t, 50.0, d.TargetAt(time.Now()))
	})

	t.Run("Drift Stays Within Amplitude", func(t *testing.T) {
		d := NewDart()
		d.DriftAmplitude = 10
		d.DriftPeriod = time.Minute

		start := time.Now()
		for i := 0; i < 120; i++ {
			target := d.TargetAt(start.Add(time.Duration(i) * time.Second))
			assert.GreaterOrEqual(t, target, 40.0)
			assert.LessOrEqual(t, target, 60.0)
		}
	})

	t.Run("Drift Moves The Target", func(t *testing.T) {
		d := NewDart()
		d.DriftAmplitude = 10
		d.DriftPeriod = time.Minute

		start := d.epoch
		quarter := d.TargetAt(start.Add(15 * time.Second))
		assert.InDelta(t, 60.0, quarter, 0.001)
	})
}
