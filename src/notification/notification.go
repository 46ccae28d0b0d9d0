package notification

// User-visible reporting for save results and startup failures. On Windows
// this is a toast; elsewhere it degrades to the log so the core never
// depends on a notification surface being present.

// SaveSucceeded announces a completed save with the output path.
func SaveSucceeded(path string) {
	show("Screenshot saved", path)
}

// SaveFailed announces a failed save. State is unchanged, so the user can
// retry the save directly.
func SaveFailed(err error) {
	show("Screenshot save failed", err.Error())
}

// CaptureFailed announces that the full-screen snapshot could not be taken.
func CaptureFailed(err error) {
	show("Screen capture failed", err.Error())
}
