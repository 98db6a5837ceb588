//go:build !windows

package platform

import "auraclick/config"

type stubClicker struct{}

func newWindowClicker() WindowClicker {
	return stubClicker{}
}

func (stubClicker) List() ([]Window, error) {
	return nil, ErrUnsupported
}

func (stubClicker) Click(w Window, x, y int, button config.Button, repeat int) error {
	return ErrUnsupported
}
