//go:build stub

package tray

import "context"

const (
	backendName          = "stub"
	primaryClickDelivery = false
)

type noopController struct{}

func (noopController) SetTooltip(string) {}

func (noopController) Stop() {}

func start(_ context.Context, _ Options) (Controller, error) {
	return noopController{}, nil
}
