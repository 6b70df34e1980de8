package camera_stack

import (
	"log"

	"github.com/Carmen-Shannon/oxy-camera/common"
)

// CameraStackOption is a functional option for configuring a CameraStack.
type CameraStackOption func(*CameraStack)

// WithName sets the prefix used in the stack's log lines.
//
// Parameters:
//   - name: the log prefix
//
// Returns:
//   - CameraStackOption: option function to apply
func WithName(name string) CameraStackOption {
	return func(cs *CameraStack) {
		cs.name = common.Coalesce(name, cs.name)
	}
}

// WithLogger sets the logger used for warnings and PrintCameraStack.
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - CameraStackOption: option function to apply
func WithLogger(logger *log.Logger) CameraStackOption {
	return func(cs *CameraStack) {
		if logger != nil {
			cs.logger = logger
		}
	}
}
