// Command fingergun is a webcam target-shooting game played with a finger
// gun gesture.
package main

import "runtime"

func init() {
	// HighGUI windows and the system tray must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	Execute()
}
