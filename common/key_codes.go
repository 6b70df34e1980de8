package common

// Key codes delivered by window.Window. Printable keys use their ASCII value, the rest
// follow GLFW.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace = 32

	Key1 = 49
	Key2 = 50
	Key3 = 51
	Key4 = 52

	KeyA = 65
	KeyD = 68
	KeyE = 69
	KeyF = 70
	KeyP = 80
	KeyQ = 81
	KeyR = 82
	KeyS = 83
	KeyT = 84
	KeyW = 87
)

const (
	KeyEsc       = 256
	KeyBackspace = 259
	KeyRight     = 262
	KeyLeft      = 263
	KeyDown      = 264
	KeyUp        = 265
	KeyLeftShift = 340
)
