//go:build windows

package notification

import (
	"log"
	"syscall"
	"unsafe"

	"github.com/go-toast/toast"
)

const appID = "Screen Region Capture"

// show pushes a toast asynchronously so a slow notification pipeline never
// stalls the caller.
func show(title, message string) {
	go func() {
		n := toast.Notification{
			AppID:   appID,
			Title:   title,
			Message: message,
		}
		if err := n.Push(); err != nil {
			log.Printf("NOTIFY: toast failed: %v (%s: %s)", err, title, message)
		}
	}()
}

// ShowBlockingError displays a modal error box and returns when dismissed.
// Used for fatal startup failures (hotkey registration) before exiting.
func ShowBlockingError(title, message string) {
	user32 := syscall.NewLazyDLL("user32.dll")
	messageBox := user32.NewProc("MessageBoxW")
	const mbOK = 0x00000000
	const mbIconError = 0x00000010
	t, _ := syscall.UTF16PtrFromString(title)
	m, _ := syscall.UTF16PtrFromString(message)
	_, _, _ = messageBox.Call(0, uintptr(unsafe.Pointer(m)), uintptr(unsafe.Pointer(t)), mbOK|mbIconError)
}
