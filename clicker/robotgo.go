package clicker

import (
	"strings"

	"github.com/go-vgo/robotgo"

	"auraclick/config"
)

// RobotgoInput drives the real pointer and keyboard through robotgo.
type RobotgoInput struct{}

// NewRobotgoInput returns the production input.
func NewRobotgoInput() RobotgoInput {
	return RobotgoInput{}
}

func (RobotgoInput) Move(x, y int) {
	robotgo.Move(x, y)
}

func (RobotgoInput) Click(button config.Button) {
	robotgo.Click(strings.ToLower(string(button)), false)
}

func (RobotgoInput) Location() (int, int) {
	return robotgo.Location()
}

func (RobotgoInput) ScreenSize() (int, int) {
	return robotgo.GetScreenSize()
}

func (RobotgoInput) TypeStr(s string) {
	robotgo.TypeStr(s)
}
