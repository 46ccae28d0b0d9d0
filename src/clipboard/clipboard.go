package clipboard

import (
	"sync"

	"golang.design/x/clipboard"
)

var writeMu sync.Mutex

func Init() error {
	return clipboard.Init()
}

// WritePath copies the saved file path to the system clipboard. The mutex
// guards against concurrent writes when saves complete back to back.
func WritePath(path string) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(clipboard.FmtText, []byte(path))
	return nil
}
