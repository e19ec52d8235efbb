package simulation

import (
	"errors"
	"fmt"
)

// ErrInvalidTuning is returned by Tuning.Validate.
var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning holds every steering and integration constant. It is copied by
// value into worlds, squads and entities, so simulations built from
// different values never affect each other.
type Tuning struct {
	// FastCheckIntersection makes arrival tests also accept a frame step
	// that crossed the arrival circle.
	FastCheckIntersection bool `mapstructure:"fast_check_intersection"`

	AheadSearchTime  float64 `mapstructure:"ahead_search_time"`
	AheadCheckRadius float64 `mapstructure:"ahead_check_radius"`
	FollowSlowRadius float64 `mapstructure:"follow_slow_radius"`
	FollowSpeedBoost float64 `mapstructure:"follow_speed_boost"`

	SeparationRadius      float64 `mapstructure:"separation_radius"`
	SeparationForce       float64 `mapstructure:"separation_force"`
	SeparationMinDistance float64 `mapstructure:"separation_min_distance"`

	WanderRadius  float64 `mapstructure:"wander_radius"`
	WanderDivider float64 `mapstructure:"wander_divider"`

	PathTargetRadius     float64 `mapstructure:"path_target_radius"`
	PathLeaderSeekRadius float64 `mapstructure:"path_leader_seek_radius"`
	TargetReachedRadius  float64 `mapstructure:"target_reached_radius"`

	// Per-frame relaxation of the smoothed multipliers.
	SpeedMulRate float64 `mapstructure:"speed_mul_rate"`
	ForceMulRate float64 `mapstructure:"force_mul_rate"`
	DecayCap     float64 `mapstructure:"decay_cap"`

	// Defaults for newly spawned entities.
	MaxForce float64 `mapstructure:"max_force"`
	MaxSpeed float64 `mapstructure:"max_speed"`
	Mass     float64 `mapstructure:"mass"`

	// Seed for the world random source; 0 seeds from the clock.
	Seed int64 `mapstructure:"seed"`
}

// DefaultTuning returns the reference tuning for a scene multiplier of 1.
func DefaultTuning() Tuning {
	return Tuning{
		AheadSearchTime:       0.5,
		AheadCheckRadius:      15,
		FollowSlowRadius:      20,
		FollowSpeedBoost:      1.2,
		SeparationRadius:      15,
		SeparationForce:       80,
		SeparationMinDistance: 0.01,
		WanderRadius:          20,
		WanderDivider:         4,
		PathTargetRadius:      12,
		PathLeaderSeekRadius:  80,
		TargetReachedRadius:   5,
		SpeedMulRate:          0.01,
		ForceMulRate:          0.01,
		DecayCap:              0.05,
		MaxForce:              30,
		MaxSpeed:              80,
		Mass:                  10,
	}
}

// Scaled returns a copy with every size-dependent radius multiplied by k,
// for scenes whose entities are drawn k times larger.
func (t Tuning) Scaled(k float64) Tuning {
	t.AheadCheckRadius *= k
	t.FollowSlowRadius *= k
	t.SeparationRadius *= k
	t.WanderRadius *= k
	t.PathTargetRadius *= k
	t.PathLeaderSeekRadius *= k
	t.TargetReachedRadius *= k
	return t
}

// Validate checks the values that would otherwise produce NaN positions.
func (t Tuning) Validate() error {
	switch {
	case t.Mass <= 0:
		return fmt.Errorf("%w: mass must be positive, got %v", ErrInvalidTuning, t.Mass)
	case t.MaxSpeed <= 0:
		return fmt.Errorf("%w: max_speed must be positive, got %v", ErrInvalidTuning, t.MaxSpeed)
	case t.MaxForce < 0:
		return fmt.Errorf("%w: max_force must not be negative, got %v", ErrInvalidTuning, t.MaxForce)
	case t.WanderDivider <= 0:
		return fmt.Errorf("%w: wander_divider must be positive, got %v", ErrInvalidTuning, t.WanderDivider)
	case t.SpeedMulRate < 0 || t.ForceMulRate < 0:
		return fmt.Errorf("%w: multiplier rates must not be negative", ErrInvalidTuning)
	case t.DecayCap < 0 || t.DecayCap >= 1:
		return fmt.Errorf("%w: decay_cap must be in [0, 1), got %v", ErrInvalidTuning, t.DecayCap)
	}
	return nil
}
