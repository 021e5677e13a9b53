// Package hud renders the speed / steering overlay on the simulator
// display device and builds the HUD lines sent to operator seats.
package hud

import (
	"fmt"

	"github.com/equipo13/navauto_client/internal/sim"
)

const (
	ColorBackground = 0x000000
	ColorLabel      = 0x7FFFD4 // aquamarine
	ColorValue      = 0xFFFFFF
)

// Draw repaints the display with the current speed and steering angle.
// Until the display reports its dimensions the repaint is skipped,
// otherwise the clearing rectangle would be zero-sized and stale text
// would stack up.
func Draw(display *sim.Display, speedKPH, steeringAngle float64) error {
	if display.Width() == 0 || display.Height() == 0 {
		return nil
	}

	speedLabel := "Speed: "
	speedValue := fmt.Sprintf("%.2f km/h", speedKPH)
	steeringLabel := "Steering Angle: "
	steeringValue := fmt.Sprintf("%.5f rad", steeringAngle)

	display.SetColor(ColorBackground)
	if err := display.FillRectangle(0, 0, display.Width(), display.Height()); err != nil {
		return fmt.Errorf("failed clearing display: %w", err)
	}

	display.SetColor(ColorLabel)
	if err := display.DrawText(speedLabel, 5, 10); err != nil {
		return fmt.Errorf("failed drawing display text: %w", err)
	}
	if err := display.DrawText(steeringLabel, 5, 30); err != nil {
		return fmt.Errorf("failed drawing display text: %w", err)
	}

	display.SetColor(ColorValue)
	if err := display.DrawText(speedValue, 50, 10); err != nil {
		return fmt.Errorf("failed drawing display text: %w", err)
	}
	if err := display.DrawText(steeringValue, 100, 30); err != nil {
		return fmt.Errorf("failed drawing display text: %w", err)
	}
	return nil
}

// Lines formats the same readout for the operator HUD channel.
func Lines(speedKPH, steeringAngle float64) []string {
	return []string{
		fmt.Sprintf("Speed: %.2f km/h", speedKPH),
		fmt.Sprintf("Steering Angle: %.5f rad", steeringAngle),
	}
}
