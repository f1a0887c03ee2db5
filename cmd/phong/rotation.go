package main

import "github.com/charmbracelet/harmonica"

// RotationAxis is one Euler angle whose angular velocity decays to zero
// on a critically damped spring.
type RotationAxis struct {
	Position float64
	Velocity float64

	spring   harmonica.Spring
	velAccel float64 // spring state for Velocity
}

// NewRotationAxis returns a resting axis stepped at fps.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Frequency 4, damping 1: quick stop, no overshoot.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances one frame.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.spring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState is the model orientation driven by user input.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis
	fps              int
}

// NewRotationState returns an unrotated state stepped at fps.
func NewRotationState(fps int) *RotationState {
	r := &RotationState{fps: fps}
	r.Reset()
	return r
}

// Update advances all three axes one frame.
func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()
	r.Roll.Update()
}

// ApplyImpulse adds angular velocity in radians per frame.
func (r *RotationState) ApplyImpulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

// Reset stops all motion and returns to the initial orientation.
func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
}
