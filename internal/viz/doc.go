// Package viz renders scenes in the terminal and to image files.
//
// [Model] is a Bubble Tea program that advances a [scene.Scene] once per
// tick and draws it on a braille [Canvas] through an orbiting [Camera].
// Key presses are collected into a [scene.Commands] value and applied at
// the start of the next frame.
//
// # Key Bindings
//
//	Space      - pause / resume
//	R          - reset the scene
//	P          - cycle pinned corners
//	W          - toggle wind
//	+ / -      - wind strength up / down
//	G          - flip gravity
//	B          - toggle the ball
//	D          - kick a random particle
//	Arrows     - orbit the camera
//	Z / X      - zoom in / out
//	Q          - quit
//
// [SaveChart] writes time series as a PNG line chart with gonum/plot.
package viz
